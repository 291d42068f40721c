package validator

import (
	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// validateBedrockModelSource requires exactly one model source and a
// ModelArn for provisioned throughput.
func validateBedrockModelSource(b *usecase.BedrockLlmParams) error {
	if b == nil {
		return usecase.NewValidationError("BedrockLlmParams is required when ModelProvider is %s.", usecase.ProviderBedrock)
	}
	switch {
	case b.ModelID != "" && b.InferenceProfileID != "":
		return usecase.NewValidationError("Only one of ModelId or InferenceProfileId can be provided in BedrockLlmParams.")
	case b.ModelID == "" && b.InferenceProfileID == "":
		return usecase.NewValidationError("One of ModelId or InferenceProfileId must be provided in BedrockLlmParams.")
	}
	if b.BedrockInferenceType == usecase.InferenceTypeProvisioned && b.ModelArn == "" {
		return usecase.NewValidationError("ModelArn is required when BedrockInferenceType is %s.", usecase.InferenceTypeProvisioned)
	}
	if b.InferenceProfileID != "" && b.ModelArn != "" {
		return usecase.NewValidationError("ModelArn cannot be combined with InferenceProfileId.")
	}
	if b.GuardrailIdentifier != "" && b.GuardrailVersion == "" {
		return usecase.NewValidationError("GuardrailVersion is required when GuardrailIdentifier is provided.")
	}
	return nil
}

// validateBedrockLlmParams is used by the agent-backed variants, which only
// support Bedrock models.
func validateBedrockLlmParams(llm *usecase.LlmParams) error {
	if llm == nil {
		return usecase.NewValidationError("LlmParams is required.")
	}
	if llm.ModelProvider != usecase.ProviderBedrock {
		return usecase.NewValidationError("Unsupported model provider %q: only %s is supported for this use case type.",
			llm.ModelProvider, usecase.ProviderBedrock)
	}
	return validateBedrockModelSource(llm.BedrockLlmParams)
}
