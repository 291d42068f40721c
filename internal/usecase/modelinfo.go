package usecase

// ModelInfo is the per-model metadata record consulted during validation.
// Records are keyed by (UseCase category, "{provider}#{modelId}").
type ModelInfo struct {
	UseCase              string            `json:"UseCase" dynamodbav:"UseCase"`
	SortKey              string            `json:"SortKey" dynamodbav:"SortKey"`
	ModelProviderName    string            `json:"ModelProviderName,omitempty" dynamodbav:"ModelProviderName,omitempty"`
	ModelName            string            `json:"ModelName,omitempty" dynamodbav:"ModelName,omitempty"`
	AllowsStreaming      bool              `json:"AllowsStreaming" dynamodbav:"AllowsStreaming"`
	Prompt               string            `json:"Prompt" dynamodbav:"Prompt"`
	DisambiguationPrompt string            `json:"DisambiguationPrompt,omitempty" dynamodbav:"DisambiguationPrompt,omitempty"`
	MaxTemperature       float64           `json:"MaxTemperature" dynamodbav:"MaxTemperature"`
	DefaultTemperature   float64           `json:"DefaultTemperature" dynamodbav:"DefaultTemperature"`
	MinTemperature       float64           `json:"MinTemperature" dynamodbav:"MinTemperature"`
	DefaultStopSequences []string          `json:"DefaultStopSequences,omitempty" dynamodbav:"DefaultStopSequences,omitempty"`
	MemoryConfig         map[string]string `json:"MemoryConfig,omitempty" dynamodbav:"MemoryConfig,omitempty"`
	MaxPromptSize        int               `json:"MaxPromptSize" dynamodbav:"MaxPromptSize"`
	MaxChatMessageSize   int               `json:"MaxChatMessageSize" dynamodbav:"MaxChatMessageSize"`
}

// ModelInfoSortKey builds the model-info sort key for a provider and model.
func ModelInfoSortKey(provider, modelID string) string {
	return provider + "#" + modelID
}

// Memory config keys recognised in ModelInfo.MemoryConfig.
const (
	MemoryConfigHumanPrefix = "human_prefix"
	MemoryConfigAiPrefix    = "ai_prefix"
)
