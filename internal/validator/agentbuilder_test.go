package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

func bedrockLlm() *usecase.LlmParams {
	return &usecase.LlmParams{
		ModelProvider:    usecase.ProviderBedrock,
		BedrockLlmParams: &usecase.BedrockLlmParams{ModelID: "amazon.nova-pro-v1:0"},
	}
}

func builderConfig() *usecase.Configuration {
	return &usecase.Configuration{
		LlmParams: bedrockLlm(),
		AgentBuilderParams: &usecase.AgentBuilderParams{
			SystemPrompt: "You are a helpful agent.",
			Tools:        usecase.Some([]usecase.AgentTool{{ToolID: "calculator"}, {ToolID: "current_time"}}),
			MCPServers: usecase.Some([]usecase.MCPServerRef{{
				UseCaseID: "mcp-1",
				URL:       "https://gw.gateway.bedrock-agentcore.us-east-1.amazonaws.com/mcp",
				Type:      usecase.MCPServerTypeGateway,
			}}),
		},
	}
}

func TestAgentBuilderValidator_New(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *usecase.Configuration)
		wantErr string
	}{
		{name: "valid", mutate: func(*usecase.Configuration) {}},
		{
			name:    "missing params",
			mutate:  func(cfg *usecase.Configuration) { cfg.AgentBuilderParams = nil },
			wantErr: "AgentBuilderParams is required.",
		},
		{
			name:    "missing system prompt",
			mutate:  func(cfg *usecase.Configuration) { cfg.AgentBuilderParams.SystemPrompt = "" },
			wantErr: "AgentBuilderParams.SystemPrompt is required.",
		},
		{
			name: "duplicate tool",
			mutate: func(cfg *usecase.Configuration) {
				cfg.AgentBuilderParams.Tools = usecase.Some([]usecase.AgentTool{{ToolID: "a"}, {ToolID: "a"}})
			},
			wantErr: `Duplicate tool "a" in AgentBuilderParams.Tools.`,
		},
		{
			name: "mcp server over http",
			mutate: func(cfg *usecase.Configuration) {
				cfg.AgentBuilderParams.MCPServers = usecase.Some([]usecase.MCPServerRef{{UseCaseID: "m", URL: "http://x/mcp"}})
			},
			wantErr: `MCP server m must have an https Url, got "http://x/mcp".`,
		},
		{
			name: "mcp server without id",
			mutate: func(cfg *usecase.Configuration) {
				cfg.AgentBuilderParams.MCPServers = usecase.Some([]usecase.MCPServerRef{{URL: "https://x/mcp"}})
			},
			wantErr: "AgentBuilderParams.MCPServers[0].UseCaseId is required.",
		},
		{
			name: "sagemaker not supported",
			mutate: func(cfg *usecase.Configuration) {
				cfg.LlmParams = &usecase.LlmParams{ModelProvider: usecase.ProviderSageMaker}
			},
			wantErr: `Unsupported model provider "SageMaker": only Bedrock is supported for this use case type.`,
		},
		{
			name:    "no model source",
			mutate:  func(cfg *usecase.Configuration) { cfg.LlmParams.BedrockLlmParams.ModelID = "" },
			wantErr: "One of ModelId or InferenceProfileId must be provided in BedrockLlmParams.",
		},
		{
			name: "empty tool list is fine",
			mutate: func(cfg *usecase.Configuration) {
				cfg.AgentBuilderParams.Tools = usecase.Some([]usecase.AgentTool{})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := builderConfig()
			tt.mutate(cfg)
			_, err := NewAgentBuilderValidator(Deps{}).ValidateNewUseCase(context.Background(),
				ucWith(usecase.TypeAgentBuilder, cfg))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestAgentBuilderValidator_UpdateClearsTools(t *testing.T) {
	existing := builderConfig()
	existing.UseCaseType = usecase.TypeAgentBuilder
	v := NewAgentBuilderValidator(Deps{
		Configs: &fakeConfigs{configs: map[string]*usecase.Configuration{"k": existing}},
	})

	update := &usecase.Configuration{AgentBuilderParams: &usecase.AgentBuilderParams{SystemPrompt: "x"}}
	out, err := v.ValidateUpdateUseCase(context.Background(), ucWith(usecase.TypeAgentBuilder, update), "k")
	require.NoError(t, err)

	tools, set := out.Configuration.AgentBuilderParams.Tools.Get()
	assert.True(t, set)
	assert.Empty(t, tools)
	servers, _ := out.Configuration.AgentBuilderParams.MCPServers.Get()
	assert.Empty(t, servers)
	assert.Equal(t, "x", out.Configuration.AgentBuilderParams.SystemPrompt)
	assert.Equal(t, "amazon.nova-pro-v1:0", out.Configuration.LlmParams.BedrockLlmParams.ModelID)

	update = &usecase.Configuration{UseCaseName: "renamed"}
	out, err = v.ValidateUpdateUseCase(context.Background(), ucWith(usecase.TypeAgentBuilder, update), "k")
	require.NoError(t, err)
	tools, _ = out.Configuration.AgentBuilderParams.Tools.Get()
	assert.Len(t, tools, 2)
}

func workflowConfig() *usecase.Configuration {
	return &usecase.Configuration{
		LlmParams: bedrockLlm(),
		WorkflowParams: &usecase.WorkflowParams{
			OrchestrationPattern: usecase.OrchestrationAgentsAsTools,
			SystemPrompt:         "Route questions to the right agent.",
			AgentsAsToolsParams: &usecase.AgentsAsToolsParams{
				Agents: usecase.Some([]usecase.WorkflowAgent{
					{UseCaseID: "a-1", UseCaseType: usecase.TypeAgentBuilder},
					{UseCaseID: "a-2", UseCaseType: usecase.TypeAgentBuilder,
						AgentBuilderParams: &usecase.AgentBuilderParams{SystemPrompt: "sub"}},
				}),
			},
		},
	}
}

func TestWorkflowValidator_New(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *usecase.Configuration)
		wantErr string
	}{
		{name: "valid", mutate: func(*usecase.Configuration) {}},
		{
			name:    "missing params",
			mutate:  func(cfg *usecase.Configuration) { cfg.WorkflowParams = nil },
			wantErr: "WorkflowParams is required.",
		},
		{
			name:    "unknown pattern",
			mutate:  func(cfg *usecase.Configuration) { cfg.WorkflowParams.OrchestrationPattern = "swarm" },
			wantErr: `Unsupported OrchestrationPattern "swarm": only agents-as-tools is supported.`,
		},
		{
			name:    "missing system prompt",
			mutate:  func(cfg *usecase.Configuration) { cfg.WorkflowParams.SystemPrompt = "" },
			wantErr: "WorkflowParams.SystemPrompt is required.",
		},
		{
			name: "no agents",
			mutate: func(cfg *usecase.Configuration) {
				cfg.WorkflowParams.AgentsAsToolsParams.Agents = usecase.Some([]usecase.WorkflowAgent{})
			},
			wantErr: "At least one agent must be provided in WorkflowParams.AgentsAsToolsParams.Agents.",
		},
		{
			name: "duplicate agent",
			mutate: func(cfg *usecase.Configuration) {
				cfg.WorkflowParams.AgentsAsToolsParams.Agents = usecase.Some([]usecase.WorkflowAgent{
					{UseCaseID: "a", UseCaseType: usecase.TypeAgentBuilder},
					{UseCaseID: "a", UseCaseType: usecase.TypeAgentBuilder},
				})
			},
			wantErr: "Duplicate agent a in WorkflowParams.AgentsAsToolsParams.Agents.",
		},
		{
			name: "non agent-builder agent",
			mutate: func(cfg *usecase.Configuration) {
				cfg.WorkflowParams.AgentsAsToolsParams.Agents = usecase.Some([]usecase.WorkflowAgent{
					{UseCaseID: "a", UseCaseType: usecase.TypeText},
				})
			},
			wantErr: `Agent a has unsupported UseCaseType "Text": only AgentBuilder agents can be orchestrated.`,
		},
		{
			name: "nested agent without system prompt",
			mutate: func(cfg *usecase.Configuration) {
				agents, _ := cfg.WorkflowParams.AgentsAsToolsParams.Agents.Get()
				agents[1].AgentBuilderParams.SystemPrompt = ""
			},
			wantErr: "AgentBuilderParams.SystemPrompt is required.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := workflowConfig()
			tt.mutate(cfg)
			_, err := NewWorkflowValidator(Deps{}).ValidateNewUseCase(context.Background(),
				ucWith(usecase.TypeWorkflow, cfg))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestWorkflowValidator_UpdateReplacesAgents(t *testing.T) {
	existing := workflowConfig()
	existing.UseCaseType = usecase.TypeWorkflow
	v := NewWorkflowValidator(Deps{
		Configs: &fakeConfigs{configs: map[string]*usecase.Configuration{"k": existing}},
	})

	update := &usecase.Configuration{WorkflowParams: &usecase.WorkflowParams{
		AgentsAsToolsParams: &usecase.AgentsAsToolsParams{
			Agents: usecase.Some([]usecase.WorkflowAgent{{UseCaseID: "a-3", UseCaseType: usecase.TypeAgentBuilder}}),
		},
	}}
	out, err := v.ValidateUpdateUseCase(context.Background(), ucWith(usecase.TypeWorkflow, update), "k")
	require.NoError(t, err)

	agents, _ := out.Configuration.WorkflowParams.AgentsAsToolsParams.Agents.Get()
	require.Len(t, agents, 1)
	assert.Equal(t, "a-3", agents[0].UseCaseID)

	// The parent block without the array clears it, which leaves no agents.
	update = &usecase.Configuration{WorkflowParams: &usecase.WorkflowParams{
		AgentsAsToolsParams: &usecase.AgentsAsToolsParams{},
	}}
	_, err = v.ValidateUpdateUseCase(context.Background(), ucWith(usecase.TypeWorkflow, update), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "At least one agent must be provided")
}

func TestAgentValidator(t *testing.T) {
	tests := []struct {
		name    string
		params  *usecase.AgentParams
		wantErr string
	}{
		{
			name:   "valid",
			params: &usecase.AgentParams{BedrockAgentParams: &usecase.BedrockAgentParams{AgentID: "ABC123", AgentAliasID: "TSTALIASID"}},
		},
		{
			name:    "missing",
			wantErr: "AgentParams.BedrockAgentParams is required.",
		},
		{
			name:    "agent id too long",
			params:  &usecase.AgentParams{BedrockAgentParams: &usecase.BedrockAgentParams{AgentID: "ABCDEFGHIJK", AgentAliasID: "A"}},
			wantErr: `Invalid AgentId "ABCDEFGHIJK": must be 1-10 alphanumeric characters.`,
		},
		{
			name:    "alias with symbols",
			params:  &usecase.AgentParams{BedrockAgentParams: &usecase.BedrockAgentParams{AgentID: "A", AgentAliasID: "al-1"}},
			wantErr: `Invalid AgentAliasId "al-1": must be 1-10 alphanumeric characters.`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAgentValidator(Deps{}).ValidateNewUseCase(context.Background(),
				ucWith(usecase.TypeAgent, &usecase.Configuration{AgentParams: tt.params}))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestNew(t *testing.T) {
	for _, typ := range usecase.Types {
		v, err := New(typ, Deps{})
		require.NoError(t, err, typ)
		assert.NotNil(t, v, typ)
	}

	_, err := New("Spreadsheet", Deps{})
	require.Error(t, err)
	assert.Equal(t, "Unsupported use case type: Spreadsheet", err.Error())
}

func TestPipeline_NilConfiguration(t *testing.T) {
	v := NewAgentValidator(Deps{})
	_, err := v.ValidateNewUseCase(context.Background(), &usecase.UseCase{})
	require.Error(t, err)
	assert.NotNil(t, usecase.IsValidationError(err))
}
