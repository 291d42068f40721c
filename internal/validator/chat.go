package validator

import (
	"context"
	"errors"
	"fmt"

	"dario.cat/mergo"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// ChatValidator validates Text (chat and RAG chat) use cases against the
// model-info store and fills model defaults.
type ChatValidator struct {
	pipeline
}

// NewChatValidator returns the validator for Text use cases.
func NewChatValidator(deps Deps) Validator {
	v := &ChatValidator{}
	v.pipeline = pipeline{deps: deps, merge: usecase.MergeConfigs, check: v.check}
	return v
}

func (v *ChatValidator) check(ctx context.Context, in *usecase.Configuration) (*usecase.Configuration, error) {
	cfg := in.Clone()
	llm := cfg.LlmParams
	if llm == nil {
		return nil, usecase.NewValidationError("LlmParams is required.")
	}

	switch llm.ModelProvider {
	case usecase.ProviderBedrock:
		if err := validateBedrockModelSource(llm.BedrockLlmParams); err != nil {
			return nil, err
		}
	case usecase.ProviderSageMaker:
		if llm.SageMakerLlmParams == nil || llm.SageMakerLlmParams.EndpointName == "" {
			return nil, usecase.NewValidationError("SageMakerLlmParams.EndpointName is required when ModelProvider is %s.",
				usecase.ProviderSageMaker)
		}
		if err := validateModelInputPayloadSchema(llm); err != nil {
			return nil, err
		}
	default:
		return nil, usecase.NewValidationError("Unsupported model provider: %s", llm.ModelProvider)
	}

	if err := validateKnowledgeBaseParams(cfg); err != nil {
		return nil, err
	}

	info, err := v.modelInfo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := applyModelDefaults(cfg, info); err != nil {
		return nil, err
	}
	if err := checkAgainstModelInfo(cfg, info); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (v *ChatValidator) modelInfo(ctx context.Context, cfg *usecase.Configuration) (*usecase.ModelInfo, error) {
	if v.deps.ModelInfo == nil {
		return nil, errors.New("validator: no model info store configured")
	}
	category := cfg.ModelInfoCategory()
	sortKey := usecase.ModelInfoSortKey(cfg.LlmParams.ModelProvider, cfg.ModelSourceID())

	info, err := v.deps.ModelInfo.GetModelInfo(ctx, category, sortKey)
	if errors.Is(err, usecase.ErrNotFound) || (err == nil && info == nil) {
		return nil, usecase.NewValidationError("No model info found for command UseCase=%s SortKey=%s", category, sortKey)
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

// applyModelDefaults fills prompt templates, temperature and memory
// prefixes the request left unset.
func applyModelDefaults(cfg *usecase.Configuration, info *usecase.ModelInfo) error {
	llm := cfg.LlmParams
	if llm.PromptParams == nil {
		llm.PromptParams = &usecase.PromptParams{}
	}
	pp := llm.PromptParams
	if pp.PromptTemplate == "" {
		pp.PromptTemplate = info.Prompt
	}
	if llm.IsRAGEnabled() && pp.IsDisambiguationEnabled() && pp.DisambiguationPromptTemplate == "" {
		pp.DisambiguationPromptTemplate = info.DisambiguationPrompt
	}
	if llm.Temperature == nil {
		t := info.DefaultTemperature
		llm.Temperature = &t
	}

	if len(info.MemoryConfig) == 0 {
		return nil
	}
	if cfg.ConversationMemoryParams == nil {
		cfg.ConversationMemoryParams = &usecase.ConversationMemoryParams{}
	}
	defaults := usecase.ConversationMemoryParams{
		HumanPrefix: info.MemoryConfig[usecase.MemoryConfigHumanPrefix],
		AiPrefix:    info.MemoryConfig[usecase.MemoryConfigAiPrefix],
	}
	if err := mergo.Merge(cfg.ConversationMemoryParams, defaults); err != nil {
		return fmt.Errorf("apply memory defaults: %w", err)
	}
	return nil
}

// checkAgainstModelInfo enforces the model's limits on the normalized
// configuration.
func checkAgainstModelInfo(cfg *usecase.Configuration, info *usecase.ModelInfo) error {
	llm := cfg.LlmParams
	model := info.SortKey

	if info.MaxTemperature > info.MinTemperature {
		t := *llm.Temperature
		if t < info.MinTemperature || t > info.MaxTemperature {
			return usecase.NewValidationError("Temperature %g is outside the allowed range [%g, %g] for model %s.",
				t, info.MinTemperature, info.MaxTemperature, model)
		}
	}
	if llm.Streaming != nil && *llm.Streaming && !info.AllowsStreaming {
		return usecase.NewValidationError("Streaming is not supported by model %s.", model)
	}

	pp := llm.PromptParams
	if err := validateMainPrompt(pp.PromptTemplate, llm.IsRAGEnabled()); err != nil {
		return err
	}
	if info.MaxPromptSize > 0 && len(pp.PromptTemplate) > info.MaxPromptSize {
		return usecase.NewValidationError("Provided prompt template exceeds the maximum allowed length of %d characters.",
			info.MaxPromptSize)
	}
	if pp.MaxPromptTemplateLength != nil && len(pp.PromptTemplate) > *pp.MaxPromptTemplateLength {
		return usecase.NewValidationError("Provided prompt template exceeds MaxPromptTemplateLength of %d characters.",
			*pp.MaxPromptTemplateLength)
	}

	if llm.IsRAGEnabled() && pp.IsDisambiguationEnabled() {
		if err := validateDisambiguationPrompt(pp.DisambiguationPromptTemplate); err != nil {
			return err
		}
	}
	return nil
}
