package validator

import (
	"context"
	"regexp"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

var bedrockAgentIDRE = regexp.MustCompile(`^[0-9a-zA-Z]{1,10}$`)

// NewAgentValidator returns the validator for Bedrock Agent use cases.
func NewAgentValidator(deps Deps) Validator {
	return &pipeline{deps: deps, merge: usecase.MergeConfigs, check: checkAgent}
}

func checkAgent(_ context.Context, in *usecase.Configuration) (*usecase.Configuration, error) {
	if in.AgentParams == nil || in.AgentParams.BedrockAgentParams == nil {
		return nil, usecase.NewValidationError("AgentParams.BedrockAgentParams is required.")
	}
	p := in.AgentParams.BedrockAgentParams
	if !bedrockAgentIDRE.MatchString(p.AgentID) {
		return nil, usecase.NewValidationError("Invalid AgentId %q: must be 1-10 alphanumeric characters.", p.AgentID)
	}
	if !bedrockAgentIDRE.MatchString(p.AgentAliasID) {
		return nil, usecase.NewValidationError("Invalid AgentAliasId %q: must be 1-10 alphanumeric characters.", p.AgentAliasID)
	}
	return in.Clone(), nil
}
