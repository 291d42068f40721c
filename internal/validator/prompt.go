package validator

import (
	"strings"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// Prompt template placeholders.
const (
	placeholderInput   = "{input}"
	placeholderHistory = "{history}"
	placeholderContext = "{context}"
)

// templateRole names the template in error messages.
type templateRole string

const (
	roleMain           templateRole = "prompt template"
	roleDisambiguation templateRole = "disambiguation prompt template"
)

// requiredPlaceholders returns the placeholder set a main prompt template
// must contain for the given RAG mode.
func requiredPlaceholders(rag bool) []string {
	if rag {
		return []string{placeholderInput, placeholderHistory, placeholderContext}
	}
	return []string{placeholderInput, placeholderHistory}
}

// validatePromptTemplate checks that template contains each placeholder in
// required exactly once.
func validatePromptTemplate(template string, required []string, role templateRole) error {
	for _, p := range required {
		switch n := strings.Count(template, p); {
		case n == 0:
			return usecase.NewValidationError(
				"Provided %s does not have the required placeholder '%s'.", role, p)
		case n > 1:
			return usecase.NewValidationError(
				"Placeholder '%s' should appear only once in the %s.", p, role)
		}
	}
	return nil
}

// validateMainPrompt validates the main prompt template for the RAG mode.
// {context} is only allowed when RAG is enabled.
func validateMainPrompt(template string, rag bool) error {
	if !rag && strings.Contains(template, placeholderContext) {
		return usecase.NewValidationError(
			"Provided %s contains the placeholder '%s', which is only supported when RAG is enabled.",
			roleMain, placeholderContext)
	}
	return validatePromptTemplate(template, requiredPlaceholders(rag), roleMain)
}

// validateDisambiguationPrompt validates a disambiguation template.
func validateDisambiguationPrompt(template string) error {
	return validatePromptTemplate(template,
		[]string{placeholderInput, placeholderHistory}, roleDisambiguation)
}
