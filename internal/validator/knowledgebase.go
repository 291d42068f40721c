package validator

import (
	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// Retrieval bounds.
const (
	minNumberOfDocs = 1
	maxNumberOfDocs = 100
)

// validateKnowledgeBaseParams enforces that KnowledgeBaseParams is present
// exactly when RAG is enabled and that the sub-object matches the type.
func validateKnowledgeBaseParams(cfg *usecase.Configuration) error {
	rag := cfg.LlmParams.IsRAGEnabled()
	kb := cfg.KnowledgeBaseParams

	switch {
	case rag && kb == nil:
		return usecase.NewValidationError("KnowledgeBaseParams must be provided when RAGEnabled is true.")
	case !rag && kb != nil:
		return usecase.NewValidationError("KnowledgeBaseParams can only be provided when RAGEnabled is true.")
	case kb == nil:
		return nil
	}

	if err := checkKnowledgeBaseTypeParams(kb); err != nil {
		return err
	}

	if kb.NumberOfDocs != nil && (*kb.NumberOfDocs < minNumberOfDocs || *kb.NumberOfDocs > maxNumberOfDocs) {
		return usecase.NewValidationError("NumberOfDocs must be between %d and %d, got %d.",
			minNumberOfDocs, maxNumberOfDocs, *kb.NumberOfDocs)
	}
	if kb.ScoreThreshold != nil && (*kb.ScoreThreshold < 0 || *kb.ScoreThreshold > 1) {
		return usecase.NewValidationError("ScoreThreshold must be between 0 and 1, got %g.", *kb.ScoreThreshold)
	}
	return nil
}

// checkKnowledgeBaseTypeParams requires the sub-object matching
// KnowledgeBaseType and rejects the other one.
func checkKnowledgeBaseTypeParams(kb *usecase.KnowledgeBaseParams) error {
	switch kb.KnowledgeBaseType {
	case usecase.KnowledgeBaseKendra:
		if kb.KendraKnowledgeBaseParams == nil {
			return usecase.NewValidationError(
				"Provided knowledge base type %s requires KendraKnowledgeBaseParams to be present in KnowledgeBaseParams.",
				kb.KnowledgeBaseType)
		}
		if kb.BedrockKnowledgeBaseParams != nil {
			return usecase.NewValidationError(
				"Provided knowledge base type %s does not support BedrockKnowledgeBaseParams.", kb.KnowledgeBaseType)
		}
		k := kb.KendraKnowledgeBaseParams
		if k.ExistingKendraIndexID == "" && k.KendraIndexName == "" {
			return usecase.NewValidationError(
				"KendraKnowledgeBaseParams must provide either ExistingKendraIndexId or KendraIndexName.")
		}
	case usecase.KnowledgeBaseBedrock:
		if kb.BedrockKnowledgeBaseParams == nil {
			return usecase.NewValidationError(
				"Provided knowledge base type %s requires BedrockKnowledgeBaseParams to be present in KnowledgeBaseParams.",
				kb.KnowledgeBaseType)
		}
		if kb.KendraKnowledgeBaseParams != nil {
			return usecase.NewValidationError(
				"Provided knowledge base type %s does not support KendraKnowledgeBaseParams.", kb.KnowledgeBaseType)
		}
		if kb.BedrockKnowledgeBaseParams.BedrockKnowledgeBaseID == "" {
			return usecase.NewValidationError("BedrockKnowledgeBaseParams.BedrockKnowledgeBaseId is required.")
		}
	default:
		return usecase.NewValidationError(
			"Provided knowledge base type %s is not supported. You should not get this error.", kb.KnowledgeBaseType)
	}
	return nil
}
