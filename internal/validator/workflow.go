package validator

import (
	"context"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// NewWorkflowValidator returns the validator for Workflow use cases. The
// agent list is replaced as a whole on update.
func NewWorkflowValidator(deps Deps) Validator {
	return &pipeline{deps: deps, merge: usecase.MergeWorkflowConfigs, check: checkWorkflow}
}

func checkWorkflow(_ context.Context, in *usecase.Configuration) (*usecase.Configuration, error) {
	if err := validateBedrockLlmParams(in.LlmParams); err != nil {
		return nil, err
	}
	w := in.WorkflowParams
	if w == nil {
		return nil, usecase.NewValidationError("WorkflowParams is required.")
	}
	if w.OrchestrationPattern != usecase.OrchestrationAgentsAsTools {
		return nil, usecase.NewValidationError("Unsupported OrchestrationPattern %q: only %s is supported.",
			w.OrchestrationPattern, usecase.OrchestrationAgentsAsTools)
	}
	if w.SystemPrompt == "" {
		return nil, usecase.NewValidationError("WorkflowParams.SystemPrompt is required.")
	}

	var agents []usecase.WorkflowAgent
	if w.AgentsAsToolsParams != nil {
		agents, _ = w.AgentsAsToolsParams.Agents.Get()
	}
	if len(agents) == 0 {
		return nil, usecase.NewValidationError("At least one agent must be provided in WorkflowParams.AgentsAsToolsParams.Agents.")
	}

	seen := make(map[string]bool, len(agents))
	for i, a := range agents {
		if a.UseCaseID == "" {
			return nil, usecase.NewValidationError("Agents[%d].UseCaseId is required.", i)
		}
		if a.UseCaseType != usecase.TypeAgentBuilder {
			return nil, usecase.NewValidationError("Agent %s has unsupported UseCaseType %q: only %s agents can be orchestrated.",
				a.UseCaseID, a.UseCaseType, usecase.TypeAgentBuilder)
		}
		if seen[a.UseCaseID] {
			return nil, usecase.NewValidationError("Duplicate agent %s in WorkflowParams.AgentsAsToolsParams.Agents.", a.UseCaseID)
		}
		seen[a.UseCaseID] = true
		if a.AgentBuilderParams != nil {
			if err := validateAgentBuilderParams(a.AgentBuilderParams); err != nil {
				return nil, err
			}
		}
	}
	return in.Clone(), nil
}
