package usecase

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUseCase() *UseCase {
	params := NewParameterMap()
	params.Set(ParamUseCaseUUID, "11111111-2222-3333-4444-555555555555")
	params.Set(ParamUseCaseConfigRecordKey, "11111111-abcdef01")
	return &UseCase{
		UseCaseID:     "11111111-2222-3333-4444-555555555555",
		Name:          "support-bot",
		CfnParameters: params,
		Configuration: chatConfig(),
		UserID:        "user-1",
		ProviderName:  ProviderBedrock,
		UseCaseType:   TypeText,
	}
}

func TestUseCaseClone_Independent(t *testing.T) {
	orig := newTestUseCase()
	cp := orig.Clone()
	require.Equal(t, orig, cp)

	cp.CfnParameters.Set(ParamDeployUI, ParamYes)
	cp.Configuration.LlmParams.BedrockLlmParams.ModelID = "changed"
	cp.Configuration.LlmParams.ModelParams.Value["param1"] = ModelParam{Value: "x", Type: "string"}
	tools := Some([]AgentTool{{ToolID: "t"}})
	cp.Configuration.AgentBuilderParams = &AgentBuilderParams{Tools: tools}

	assert.False(t, orig.CfnParameters.Has(ParamDeployUI))
	assert.Equal(t, "anthropic.claude-v2", orig.Configuration.LlmParams.BedrockLlmParams.ModelID)
	assert.Equal(t, "1", orig.Configuration.LlmParams.ModelParams.Value["param1"].Value)
	assert.Nil(t, orig.Configuration.AgentBuilderParams)
}

func TestUseCaseClone_Nil(t *testing.T) {
	var uc *UseCase
	assert.Nil(t, uc.Clone())

	var cfg *Configuration
	assert.Nil(t, cfg.Clone())
}

func TestUseCaseWithConfiguration(t *testing.T) {
	orig := newTestUseCase()
	cfg := &Configuration{UseCaseName: "other"}

	next := orig.WithConfiguration(cfg)
	assert.Same(t, cfg, next.Configuration)
	assert.Equal(t, "support-bot", orig.Configuration.UseCaseName)
	assert.Equal(t, "11111111", next.ShortID())
	assert.Equal(t, "11111111-abcdef01", next.ConfigRecordKey())
}

func TestParameterMap_Order(t *testing.T) {
	p := NewParameterMap()
	p.Set("B", "2")
	p.Set("A", "1")
	p.Set("C", "3")
	p.Set("B", "22")

	assert.Equal(t, []string{"B", "A", "C"}, p.Keys())
	v, ok := p.Get("B")
	assert.True(t, ok)
	assert.Equal(t, "22", v)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"B":"22","A":"1","C":"3"}`, string(data))
	assert.Equal(t, `{"B":"22","A":"1","C":"3"}`, string(data))

	p.Delete("A")
	p.Delete("missing")
	assert.Equal(t, []string{"B", "C"}, p.Keys())
	assert.Equal(t, map[string]string{"B": "22", "C": "3"}, p.ToMap())
}

func TestParameterMap_CloneAndEqual(t *testing.T) {
	p := NewParameterMap()
	p.Set("A", "1")
	p.Set("B", "2")

	cp := p.Clone()
	assert.True(t, p.Equal(cp))

	cp.Set("C", "3")
	assert.False(t, p.Equal(cp))
	assert.Equal(t, 2, p.Len())

	reordered := NewParameterMap()
	reordered.Set("B", "2")
	reordered.Set("A", "1")
	assert.False(t, p.Equal(reordered))
}

func TestParameterMap_NilSafe(t *testing.T) {
	var p *ParameterMap
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.Has("x"))
	assert.Nil(t, p.Keys())
	assert.Empty(t, p.ToMap())
	assert.Nil(t, p.Clone())
	p.Delete("x")
}

func TestOptional_JSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantSet   bool
		wantTools []AgentTool
		wantOut   string
	}{
		{
			name:    "absent",
			input:   `{"SystemPrompt":"p"}`,
			wantSet: false,
			wantOut: `{"SystemPrompt":"p"}`,
		},
		{
			name:      "empty",
			input:     `{"SystemPrompt":"p","Tools":[]}`,
			wantSet:   true,
			wantTools: []AgentTool{},
			wantOut:   `{"SystemPrompt":"p","Tools":[]}`,
		},
		{
			name:      "populated",
			input:     `{"Tools":[{"ToolId":"calc"}]}`,
			wantSet:   true,
			wantTools: []AgentTool{{ToolID: "calc"}},
			wantOut:   `{"Tools":[{"ToolId":"calc"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var params AgentBuilderParams
			require.NoError(t, json.Unmarshal([]byte(tt.input), &params))

			tools, ok := params.Tools.Get()
			assert.Equal(t, tt.wantSet, ok)
			assert.Equal(t, tt.wantTools, tools)

			out, err := json.Marshal(params)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantOut, string(out))
		})
	}
}

func TestOptional_NoneAndSome(t *testing.T) {
	assert.True(t, None[int]().IsZero())
	assert.False(t, Some(0).IsZero())
}

func TestParseConfiguration(t *testing.T) {
	cfg, err := ParseConfiguration([]byte(`{
		"UseCaseType": "Text",
		"UseCaseName": "bot",
		"LlmParams": {
			"ModelProvider": "Bedrock",
			"BedrockLlmParams": {"ModelId": "fake-model"},
			"ModelParams": {},
			"RAGEnabled": true
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, TypeText, cfg.UseCaseType)
	assert.Equal(t, "fake-model", cfg.ModelSourceID())
	assert.Equal(t, CategoryRAGChat, cfg.ModelInfoCategory())
	params, ok := cfg.LlmParams.ModelParams.Get()
	assert.True(t, ok)
	assert.Empty(t, params)

	_, err = ParseConfiguration([]byte(`{`))
	assert.Error(t, err)
}

func TestModelSourceID(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Configuration
		want string
	}{
		{"no llm params", &Configuration{}, DefaultModelID},
		{"bedrock model", &Configuration{LlmParams: &LlmParams{
			ModelProvider:    ProviderBedrock,
			BedrockLlmParams: &BedrockLlmParams{ModelID: "m"},
		}}, "m"},
		{"inference profile", &Configuration{LlmParams: &LlmParams{
			ModelProvider:    ProviderBedrock,
			BedrockLlmParams: &BedrockLlmParams{InferenceProfileID: "p"},
		}}, DefaultModelID},
		{"sagemaker", &Configuration{LlmParams: &LlmParams{
			ModelProvider:      ProviderSageMaker,
			SageMakerLlmParams: &SageMakerLlmParams{EndpointName: "e"},
		}}, DefaultModelID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ModelSourceID())
		})
	}
}

func TestStackName(t *testing.T) {
	id := "abcdef12-3456-7890-abcd-ef1234567890"
	tests := []struct {
		typ  Type
		want string
	}{
		{TypeText, "text-abcdef12"},
		{TypeAgent, "agent-abcdef12"},
		{TypeAgentBuilder, "agent-builder-abcdef12"},
		{TypeWorkflow, "workflow-abcdef12"},
		{TypeMCPServer, "mcp-abcdef12"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			name := StackName(tt.typ, id)
			assert.Equal(t, tt.want, name)
			assert.NoError(t, ValidateStackName(name))
		})
	}
}

func TestValidateStackName(t *testing.T) {
	assert.NoError(t, ValidateStackName("a"))
	assert.Error(t, ValidateStackName(""))
	assert.Error(t, ValidateStackName("1abc"))
	assert.Error(t, ValidateStackName("abc_def"))
	assert.Error(t, ValidateStackName("a"+strings.Repeat("b", 128)))
}

func TestNewConfigRecordKey(t *testing.T) {
	id := NewUseCaseID()
	k1 := NewConfigRecordKey(id)
	k2 := NewConfigRecordKey(id)

	assert.True(t, strings.HasPrefix(k1, ShortID(id)+"-"))
	assert.Len(t, k1, 17)
	assert.NotEqual(t, k1, k2)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", ShortID("abc"))
	assert.Equal(t, "12345678", ShortID("123456789"))
}

func TestStackTags(t *testing.T) {
	uc := &UseCase{UseCaseID: "id-1", UseCaseType: TypeAgent, UserID: "user-1"}

	tags := StackTags(uc, "123456789012", map[string]string{"team": "ml", TagKeyCreatedBy: "override"})
	assert.Equal(t, map[string]string{
		TagKeyUseCaseID:   "id-1",
		TagKeyUseCaseType: "Agent",
		TagKeyCreatedBy:   "override",
		TagKeyAccount:     "123456789012",
		"team":            "ml",
	}, tags)

	tags = StackTags(&UseCase{UseCaseID: "id-2", UseCaseType: TypeText}, "", nil)
	assert.Equal(t, map[string]string{
		TagKeyUseCaseID:   "id-2",
		TagKeyUseCaseType: "Text",
	}, tags)
}

func TestValidationError(t *testing.T) {
	err := error(NewValidationError("bad %s", "thing"))
	ve := IsValidationError(err)
	require.NotNil(t, ve)
	assert.Equal(t, "bad thing", ve.Message)
	assert.Nil(t, IsValidationError(ErrNotFound))
}
