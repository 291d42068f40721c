package validator

import (
	"context"
	"net/url"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// NewAgentBuilderValidator returns the validator for AgentBuilder use cases.
// Tools and MCP servers are replaced as a whole on update.
func NewAgentBuilderValidator(deps Deps) Validator {
	return &pipeline{deps: deps, merge: usecase.MergeAgentBuilderConfigs, check: checkAgentBuilder}
}

func checkAgentBuilder(_ context.Context, in *usecase.Configuration) (*usecase.Configuration, error) {
	if err := validateBedrockLlmParams(in.LlmParams); err != nil {
		return nil, err
	}
	if err := validateAgentBuilderParams(in.AgentBuilderParams); err != nil {
		return nil, err
	}
	return in.Clone(), nil
}

func validateAgentBuilderParams(p *usecase.AgentBuilderParams) error {
	if p == nil {
		return usecase.NewValidationError("AgentBuilderParams is required.")
	}
	if p.SystemPrompt == "" {
		return usecase.NewValidationError("AgentBuilderParams.SystemPrompt is required.")
	}

	tools, _ := p.Tools.Get()
	seenTools := make(map[string]bool, len(tools))
	for i, tool := range tools {
		if tool.ToolID == "" {
			return usecase.NewValidationError("AgentBuilderParams.Tools[%d].ToolId is required.", i)
		}
		if seenTools[tool.ToolID] {
			return usecase.NewValidationError("Duplicate tool %q in AgentBuilderParams.Tools.", tool.ToolID)
		}
		seenTools[tool.ToolID] = true
	}

	servers, _ := p.MCPServers.Get()
	seenServers := make(map[string]bool, len(servers))
	for i, s := range servers {
		if s.UseCaseID == "" {
			return usecase.NewValidationError("AgentBuilderParams.MCPServers[%d].UseCaseId is required.", i)
		}
		if !isHTTPSURL(s.URL) {
			return usecase.NewValidationError("MCP server %s must have an https Url, got %q.", s.UseCaseID, s.URL)
		}
		if seenServers[s.UseCaseID] {
			return usecase.NewValidationError("Duplicate MCP server %s in AgentBuilderParams.MCPServers.", s.UseCaseID)
		}
		seenServers[s.UseCaseID] = true
	}
	return nil
}

func isHTTPSURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme == "https" && u.Host != ""
}
