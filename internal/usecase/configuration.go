package usecase

import (
	"encoding/json"
	"fmt"
)

// Configuration is the stored configuration of a use case. It is a tagged
// union keyed by UseCaseType: the common blocks are shared by every
// variant, and exactly the variant block matching UseCaseType is expected
// to be populated (LlmParams for Text, AgentParams for Agent, and so on).
//
// Pointer and Optional fields distinguish "not mentioned" from "set",
// which the update merge relies on.
type Configuration struct {
	UseCaseType        Type    `json:"UseCaseType,omitempty"`
	UseCaseName        string  `json:"UseCaseName,omitempty"`
	UseCaseDescription *string `json:"UseCaseDescription,omitempty"`
	IsInternalUser     *bool   `json:"IsInternalUser,omitempty"`

	FeedbackParams           *FeedbackParams           `json:"FeedbackParams,omitempty"`
	ConversationMemoryParams *ConversationMemoryParams `json:"ConversationMemoryParams,omitempty"`
	KnowledgeBaseParams      *KnowledgeBaseParams      `json:"KnowledgeBaseParams,omitempty"`
	LlmParams                *LlmParams                `json:"LlmParams,omitempty"`
	AuthenticationParams     *AuthenticationParams     `json:"AuthenticationParams,omitempty"`

	AgentParams        *AgentParams        `json:"AgentParams,omitempty"`
	AgentBuilderParams *AgentBuilderParams `json:"AgentBuilderParams,omitempty"`
	WorkflowParams     *WorkflowParams     `json:"WorkflowParams,omitempty"`
	MCPParams          *MCPParams          `json:"MCPParams,omitempty"`
}

// FeedbackParams toggles end-user feedback collection. A nil FeedbackEnabled
// leaves the stored setting alone on update.
type FeedbackParams struct {
	FeedbackEnabled *bool             `json:"FeedbackEnabled,omitempty"`
	CustomMappings  map[string]string `json:"CustomMappings,omitempty"`
}

// ConversationMemoryParams controls how chat history is rendered into prompts.
type ConversationMemoryParams struct {
	ConversationMemoryType string `json:"ConversationMemoryType,omitempty"`
	HumanPrefix            string `json:"HumanPrefix,omitempty"`
	AiPrefix               string `json:"AiPrefix,omitempty"`
	ChatHistoryLength      *int   `json:"ChatHistoryLength,omitempty"`
}

// LlmParams configures the model backing a use case.
type LlmParams struct {
	ModelProvider      string                          `json:"ModelProvider,omitempty"`
	BedrockLlmParams   *BedrockLlmParams               `json:"BedrockLlmParams,omitempty"`
	SageMakerLlmParams *SageMakerLlmParams             `json:"SageMakerLlmParams,omitempty"`
	ModelParams        Optional[map[string]ModelParam] `json:"ModelParams,omitzero"`
	PromptParams       *PromptParams                   `json:"PromptParams,omitempty"`
	Temperature        *float64                        `json:"Temperature,omitempty"`
	Streaming          *bool                           `json:"Streaming,omitempty"`
	RAGEnabled         *bool                           `json:"RAGEnabled,omitempty"`
	Verbose            *bool                           `json:"Verbose,omitempty"`
	MultimodalParams   *MultimodalParams               `json:"MultimodalParams,omitempty"`
}

// IsRAGEnabled reports whether retrieval-augmented generation is on.
func (l *LlmParams) IsRAGEnabled() bool {
	return l != nil && l.RAGEnabled != nil && *l.RAGEnabled
}

// BedrockLlmParams selects a Bedrock model either by model id (optionally
// with a provisioned-model ARN) or by inference profile.
type BedrockLlmParams struct {
	ModelID              string `json:"ModelId,omitempty"`
	ModelArn             string `json:"ModelArn,omitempty"`
	InferenceProfileID   string `json:"InferenceProfileId,omitempty"`
	BedrockInferenceType string `json:"BedrockInferenceType,omitempty"`
	GuardrailIdentifier  string `json:"GuardrailIdentifier,omitempty"`
	GuardrailVersion     string `json:"GuardrailVersion,omitempty"`
}

// SageMakerLlmParams configures a SageMaker endpoint. The payload schema
// may reference ModelParams entries through <<name>> placeholders.
type SageMakerLlmParams struct {
	EndpointName            string         `json:"EndpointName,omitempty"`
	ModelInputPayloadSchema map[string]any `json:"ModelInputPayloadSchema,omitempty"`
	ModelOutputJSONPath     string         `json:"ModelOutputJSONPath,omitempty"`
}

// ModelParam is a single named model parameter and its declared type.
type ModelParam struct {
	Value string `json:"Value"`
	Type  string `json:"Type"`
}

// PromptParams holds the prompt templates and their switches.
type PromptParams struct {
	PromptTemplate               string `json:"PromptTemplate,omitempty"`
	DisambiguationPromptTemplate string `json:"DisambiguationPromptTemplate,omitempty"`
	DisambiguationEnabled        *bool  `json:"DisambiguationEnabled,omitempty"`
	RephraseQuestion             *bool  `json:"RephraseQuestion,omitempty"`
	UserPromptEditingEnabled     *bool  `json:"UserPromptEditingEnabled,omitempty"`
	MaxPromptTemplateLength      *int   `json:"MaxPromptTemplateLength,omitempty"`
	MaxInputTextLength           *int   `json:"MaxInputTextLength,omitempty"`
}

// IsDisambiguationEnabled reports whether disambiguation was switched on
// explicitly.
func (p *PromptParams) IsDisambiguationEnabled() bool {
	return p != nil && p.DisambiguationEnabled != nil && *p.DisambiguationEnabled
}

// MultimodalParams toggles multimodal input.
type MultimodalParams struct {
	MultimodalEnabled *bool `json:"MultimodalEnabled,omitempty"`
}

// KnowledgeBaseParams configures retrieval. Exactly one of the Kendra or
// Bedrock sub-objects matches KnowledgeBaseType.
type KnowledgeBaseParams struct {
	KnowledgeBaseType          string                      `json:"KnowledgeBaseType,omitempty"`
	KendraKnowledgeBaseParams  *KendraKnowledgeBaseParams  `json:"KendraKnowledgeBaseParams,omitempty"`
	BedrockKnowledgeBaseParams *BedrockKnowledgeBaseParams `json:"BedrockKnowledgeBaseParams,omitempty"`
	NumberOfDocs               *int                        `json:"NumberOfDocs,omitempty"`
	ScoreThreshold             *float64                    `json:"ScoreThreshold,omitempty"`
	ReturnSourceDocs           *bool                       `json:"ReturnSourceDocs,omitempty"`
	NoDocsFoundResponse        *string                     `json:"NoDocsFoundResponse,omitempty"`
}

// KendraKnowledgeBaseParams references an existing Kendra index or
// describes a new one.
type KendraKnowledgeBaseParams struct {
	ExistingKendraIndexID         string         `json:"ExistingKendraIndexId,omitempty"`
	KendraIndexName               string         `json:"KendraIndexName,omitempty"`
	QueryCapacityUnits            *int           `json:"QueryCapacityUnits,omitempty"`
	StorageCapacityUnits          *int           `json:"StorageCapacityUnits,omitempty"`
	KendraIndexEdition            string         `json:"KendraIndexEdition,omitempty"`
	AttributeFilter               map[string]any `json:"AttributeFilter,omitempty"`
	RoleBasedAccessControlEnabled *bool          `json:"RoleBasedAccessControlEnabled,omitempty"`
}

// BedrockKnowledgeBaseParams references a Bedrock knowledge base.
type BedrockKnowledgeBaseParams struct {
	BedrockKnowledgeBaseID string         `json:"BedrockKnowledgeBaseId,omitempty"`
	RetrievalFilter        map[string]any `json:"RetrievalFilter,omitempty"`
	OverrideSearchType     string         `json:"OverrideSearchType,omitempty"`
}

// AuthenticationParams selects the identity provider of a deployment.
type AuthenticationParams struct {
	AuthenticationProvider string         `json:"AuthenticationProvider,omitempty"`
	CognitoParams          *CognitoParams `json:"CognitoParams,omitempty"`
}

// CognitoParams references an existing user pool and client.
type CognitoParams struct {
	ExistingUserPoolID       string `json:"ExistingUserPoolId,omitempty"`
	ExistingUserPoolClientID string `json:"ExistingUserPoolClientId,omitempty"`
}

// AgentParams references a Bedrock agent.
type AgentParams struct {
	BedrockAgentParams *BedrockAgentParams `json:"BedrockAgentParams,omitempty"`
}

// BedrockAgentParams identifies an agent and alias.
type BedrockAgentParams struct {
	AgentID      string `json:"AgentId,omitempty"`
	AgentAliasID string `json:"AgentAliasId,omitempty"`
	EnableTrace  *bool  `json:"EnableTrace,omitempty"`
}

// AgentBuilderParams configures a self-hosted agent. Tools and MCPServers
// are always replaced as a whole on update.
type AgentBuilderParams struct {
	SystemPrompt string                   `json:"SystemPrompt,omitempty"`
	Tools        Optional[[]AgentTool]    `json:"Tools,omitzero"`
	MCPServers   Optional[[]MCPServerRef] `json:"MCPServers,omitzero"`
	MemoryConfig *AgentMemoryConfig       `json:"MemoryConfig,omitempty"`
}

// AgentTool references a built-in tool.
type AgentTool struct {
	ToolID string `json:"ToolId"`
}

// MCPServerRef references a deployed MCP server use case.
type MCPServerRef struct {
	UseCaseID   string `json:"UseCaseId"`
	UseCaseName string `json:"UseCaseName,omitempty"`
	URL         string `json:"Url"`
	Type        string `json:"Type,omitempty"`
}

// AgentMemoryConfig toggles long-term agent memory.
type AgentMemoryConfig struct {
	LongTermEnabled *bool `json:"LongTermEnabled,omitempty"`
}

// WorkflowParams configures a multi-agent workflow.
type WorkflowParams struct {
	OrchestrationPattern string               `json:"OrchestrationPattern,omitempty"`
	SystemPrompt         string               `json:"SystemPrompt,omitempty"`
	AgentsAsToolsParams  *AgentsAsToolsParams `json:"AgentsAsToolsParams,omitempty"`
	MemoryConfig         *AgentMemoryConfig   `json:"MemoryConfig,omitempty"`
}

// AgentsAsToolsParams lists the agents a workflow orchestrates. Agents is
// always replaced as a whole on update.
type AgentsAsToolsParams struct {
	Agents Optional[[]WorkflowAgent] `json:"Agents,omitzero"`
}

// WorkflowAgent references an agent use case orchestrated by a workflow.
type WorkflowAgent struct {
	UseCaseID          string              `json:"UseCaseId"`
	UseCaseType        Type                `json:"UseCaseType"`
	UseCaseName        string              `json:"UseCaseName,omitempty"`
	UseCaseDescription string              `json:"UseCaseDescription,omitempty"`
	AgentBuilderParams *AgentBuilderParams `json:"AgentBuilderParams,omitempty"`
	LlmParams          *LlmParams          `json:"LlmParams,omitempty"`
}

// MCPParams configures an MCP server use case. Exactly one of
// GatewayParams or RuntimeParams is expected.
type MCPParams struct {
	GatewayParams *GatewayParams `json:"GatewayParams,omitempty"`
	RuntimeParams *RuntimeParams `json:"RuntimeParams,omitempty"`
}

// GatewayParams describes an AgentCore gateway. Identity fields are
// pointers so an explicitly empty value can be told apart from an absent one.
type GatewayParams struct {
	GatewayID    *string        `json:"GatewayId,omitempty"`
	GatewayArn   *string        `json:"GatewayArn,omitempty"`
	GatewayURL   *string        `json:"GatewayUrl,omitempty"`
	GatewayName  *string        `json:"GatewayName,omitempty"`
	TargetParams []TargetParams `json:"TargetParams,omitempty"`
}

// TargetParams describes one gateway target.
type TargetParams struct {
	TargetName         string              `json:"TargetName,omitempty"`
	TargetType         string              `json:"TargetType,omitempty"`
	TargetID           *string             `json:"TargetId,omitempty"`
	TargetDescription  string              `json:"TargetDescription,omitempty"`
	LambdaArn          string              `json:"LambdaArn,omitempty"`
	SchemaURI          string              `json:"SchemaUri,omitempty"`
	McpEndpoint        string              `json:"McpEndpoint,omitempty"`
	OutboundAuthParams *OutboundAuthParams `json:"OutboundAuthParams,omitempty"`
}

// OutboundAuthParams references a token-vault credential provider.
type OutboundAuthParams struct {
	OutboundAuthProviderArn  string `json:"OutboundAuthProviderArn,omitempty"`
	OutboundAuthProviderType string `json:"OutboundAuthProviderType,omitempty"`
}

// RuntimeParams describes an AgentCore runtime hosting an MCP server image.
// EnvironmentVariables values are kept untyped so non-string values can be
// reported instead of silently failing to decode.
type RuntimeParams struct {
	EcrURI               string         `json:"EcrUri,omitempty"`
	EnvironmentVariables map[string]any `json:"EnvironmentVariables,omitempty"`
}

// ParseConfiguration decodes a JSON configuration document.
func ParseConfiguration(data []byte) (*Configuration, error) {
	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration JSON: %w", err)
	}
	return &cfg, nil
}

// ToDocument converts the configuration into a generic JSON document.
func (c *Configuration) ToDocument() (map[string]any, error) {
	doc := map[string]any{}
	if c == nil {
		return doc, nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// FromDocument converts a generic JSON document back into a configuration.
func FromDocument(doc map[string]any) (*Configuration, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return ParseConfiguration(data)
}

// ModelSourceID returns the identifier used for the model-info lookup:
// the Bedrock model id, or DefaultModelID for inference profiles and
// SageMaker endpoints.
func (c *Configuration) ModelSourceID() string {
	if c.LlmParams == nil {
		return DefaultModelID
	}
	if c.LlmParams.ModelProvider == ProviderBedrock && c.LlmParams.BedrockLlmParams != nil &&
		c.LlmParams.BedrockLlmParams.ModelID != "" {
		return c.LlmParams.BedrockLlmParams.ModelID
	}
	return DefaultModelID
}

// ModelInfoCategory returns the model-info partition for this configuration.
func (c *Configuration) ModelInfoCategory() string {
	if c.LlmParams.IsRAGEnabled() {
		return CategoryRAGChat
	}
	return CategoryChat
}
