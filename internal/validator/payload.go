package validator

import (
	"regexp"
	"slices"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

var payloadPlaceholderRE = regexp.MustCompile(`<<([^<>]+)>>`)

// reservedPayloadPlaceholders are filled in at invocation time and do not
// need a matching model parameter.
var reservedPayloadPlaceholders = map[string]bool{
	"prompt":      true,
	"temperature": true,
}

// validateModelInputPayloadSchema checks that every <<name>> placeholder
// in a SageMaker payload schema refers to a ModelParams entry.
func validateModelInputPayloadSchema(llm *usecase.LlmParams) error {
	if llm.SageMakerLlmParams == nil {
		return nil
	}
	placeholders := payloadPlaceholders(llm.SageMakerLlmParams.ModelInputPayloadSchema)
	if len(placeholders) == 0 {
		return nil
	}

	params, _ := llm.ModelParams.Get()
	if len(params) == 0 {
		return usecase.NewValidationError(
			"No model parameters were provided in the use case despite requiring parameters in the input payload schema.")
	}
	for _, name := range placeholders {
		if _, ok := params[name]; !ok {
			return usecase.NewValidationError(
				"InvalidModelParameter: %s is not a valid model parameter present in the Model Parameters.", name)
		}
	}
	return nil
}

// payloadPlaceholders returns the sorted, de-duplicated non-reserved
// placeholder names found anywhere in the schema.
func payloadPlaceholders(schema map[string]any) []string {
	seen := map[string]bool{}
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case string:
			for _, m := range payloadPlaceholderRE.FindAllStringSubmatch(t, -1) {
				if !reservedPayloadPlaceholders[m[1]] {
					seen[m[1]] = true
				}
			}
		case map[string]any:
			for k, child := range t {
				walk(k)
				walk(child)
			}
		case []any:
			for _, child := range t {
				walk(child)
			}
		}
	}
	walk(schema)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
