package usecase

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// replacedMaps lists map-of-named-parameter fields that an update replaces
// as a whole instead of merging key by key.
var replacedMaps = [][]string{
	{"LlmParams", "ModelParams"},
	{"LlmParams", "SageMakerLlmParams", "ModelInputPayloadSchema"},
	{"KnowledgeBaseParams", "KendraKnowledgeBaseParams", "AttributeFilter"},
	{"KnowledgeBaseParams", "BedrockKnowledgeBaseParams", "RetrievalFilter"},
	{"MCPParams", "RuntimeParams", "EnvironmentVariables"},
	{"FeedbackParams", "CustomMappings"},
}

// replacementSet names list fields that always carry the complete intended
// state: when Parent is present in an update, each listed array is either
// taken from the update or cleared.
type replacementSet struct {
	Parent []string
	Arrays []string
}

var (
	agentBuilderReplacementSet = replacementSet{
		Parent: []string{"AgentBuilderParams"},
		Arrays: []string{"Tools", "MCPServers"},
	}
	workflowReplacementSet = replacementSet{
		Parent: []string{"WorkflowParams", "AgentsAsToolsParams"},
		Arrays: []string{"Agents"},
	}
)

// MergeConfigs deep-merges update into existing and returns the result.
// Scalars and arrays in update overwrite existing, nested objects merge
// recursively, and map-of-named-parameter fields such as
// LlmParams.ModelParams are replaced whenever the update carries them
// (even as an empty object). Neither input is modified.
func MergeConfigs(existing, update *Configuration) (*Configuration, error) {
	return mergeConfigs(existing, update)
}

// MergeAgentBuilderConfigs merges like MergeConfigs and then applies the
// replacement-set rule to AgentBuilderParams.Tools and
// AgentBuilderParams.MCPServers: if the update contains
// AgentBuilderParams but omits an array, that array is cleared.
func MergeAgentBuilderConfigs(existing, update *Configuration) (*Configuration, error) {
	return mergeConfigs(existing, update, agentBuilderReplacementSet)
}

// MergeWorkflowConfigs merges like MergeConfigs and then applies the
// replacement-set rule to WorkflowParams.AgentsAsToolsParams.Agents.
func MergeWorkflowConfigs(existing, update *Configuration) (*Configuration, error) {
	return mergeConfigs(existing, update, workflowReplacementSet)
}

// MergeFunc merges an update configuration into an existing one.
type MergeFunc func(existing, update *Configuration) (*Configuration, error)

var mergeFuncs = map[Type]MergeFunc{
	TypeText:         MergeConfigs,
	TypeAgent:        MergeConfigs,
	TypeAgentBuilder: MergeAgentBuilderConfigs,
	TypeWorkflow:     MergeWorkflowConfigs,
	TypeMCPServer:    MergeConfigs,
}

// MergeForType returns the merge entry point for a use-case type.
func MergeForType(t Type) (MergeFunc, error) {
	fn, ok := mergeFuncs[t]
	if !ok {
		return nil, NewValidationError("Unsupported use case type: %s", t)
	}
	return fn, nil
}

func mergeConfigs(existing, update *Configuration, sets ...replacementSet) (*Configuration, error) {
	base, err := existing.ToDocument()
	if err != nil {
		return nil, fmt.Errorf("encode existing configuration: %w", err)
	}
	overlay, err := update.ToDocument()
	if err != nil {
		return nil, fmt.Errorf("encode update configuration: %w", err)
	}

	merged := MergeDocuments(base, overlay)
	for _, path := range replacedMaps {
		replaceAt(overlay, merged, path)
	}
	for _, set := range sets {
		applyReplacementSet(overlay, merged, set)
	}

	cfg, err := FromDocument(merged)
	if err != nil {
		return nil, fmt.Errorf("decode merged configuration: %w", err)
	}
	return cfg, nil
}

// MergeDocuments deep-merges overlay into a copy of base. Nested objects
// merge recursively; every other value (including arrays) in overlay
// replaces the value in base.
func MergeDocuments(base, overlay map[string]any) map[string]any {
	out := copyDocument(base)
	for k, v := range overlay {
		ov, overlayIsObject := v.(map[string]any)
		bv, baseIsObject := out[k].(map[string]any)
		if overlayIsObject && baseIsObject {
			out[k] = MergeDocuments(bv, ov)
			continue
		}
		out[k] = deepcopy.Copy(v)
	}
	return out
}

func copyDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return map[string]any{}
	}
	cp, ok := deepcopy.Copy(doc).(map[string]any)
	if !ok || cp == nil {
		return map[string]any{}
	}
	return cp
}

// lookupObject walks path through nested objects of doc.
func lookupObject(doc map[string]any, path []string) (map[string]any, bool) {
	cur := doc
	for _, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// replaceAt overwrites merged[path] with overlay[path] when the overlay
// carries that key.
func replaceAt(overlay, merged map[string]any, path []string) {
	parentPath, leaf := path[:len(path)-1], path[len(path)-1]
	src, ok := lookupObject(overlay, parentPath)
	if !ok {
		return
	}
	v, ok := src[leaf]
	if !ok {
		return
	}
	dst, ok := lookupObject(merged, parentPath)
	if !ok {
		return
	}
	dst[leaf] = deepcopy.Copy(v)
}

// applyReplacementSet clears or replaces the arrays of set in merged when
// the overlay mentions set.Parent. An absent parent leaves merged untouched.
func applyReplacementSet(overlay, merged map[string]any, set replacementSet) {
	src, ok := lookupObject(overlay, set.Parent)
	if !ok {
		return
	}
	dst, ok := lookupObject(merged, set.Parent)
	if !ok {
		return
	}
	for _, key := range set.Arrays {
		if v, present := src[key]; present {
			dst[key] = deepcopy.Copy(v)
			continue
		}
		dst[key] = []any{}
	}
}

// ResolveBedrockModelSourceOnUpdate keeps exactly one model source in the
// merged Bedrock parameters. An update naming InferenceProfileId yields
// {InferenceProfileId}; one naming ModelId yields {ModelId, ModelArn?},
// keeping the merged ModelArn. Non-source fields survive only when the
// update supplied them. Updates that name neither leave merged unchanged.
func ResolveBedrockModelSourceOnUpdate(update, merged *Configuration) *Configuration {
	out := merged.Clone()
	if update == nil || update.LlmParams == nil || update.LlmParams.BedrockLlmParams == nil {
		return out
	}
	if out == nil || out.LlmParams == nil || out.LlmParams.BedrockLlmParams == nil {
		return out
	}

	src := update.LlmParams.BedrockLlmParams
	cur := out.LlmParams.BedrockLlmParams
	var resolved BedrockLlmParams
	switch {
	case src.InferenceProfileID != "":
		resolved.InferenceProfileID = src.InferenceProfileID
	case src.ModelID != "":
		resolved.ModelID = src.ModelID
		resolved.ModelArn = cur.ModelArn
	default:
		return out
	}
	resolved.BedrockInferenceType = src.BedrockInferenceType
	resolved.GuardrailIdentifier = src.GuardrailIdentifier
	resolved.GuardrailVersion = src.GuardrailVersion

	out.LlmParams.BedrockLlmParams = &resolved
	return out
}

// ResolveKnowledgeBaseParamsOnUpdate drops stale knowledge-base state from
// a merged configuration:
//   - NoDocsFoundResponse is removed unless the update supplied it;
//   - when the update sets KnowledgeBaseType, the sub-object of the other
//     type is removed;
//   - when the merged configuration has RAG disabled, KnowledgeBaseParams
//     is removed.
func ResolveKnowledgeBaseParamsOnUpdate(update, merged *Configuration) *Configuration {
	out := merged.Clone()
	if out == nil || out.KnowledgeBaseParams == nil {
		return out
	}
	if out.LlmParams != nil && out.LlmParams.RAGEnabled != nil && !*out.LlmParams.RAGEnabled {
		out.KnowledgeBaseParams = nil
		return out
	}

	var src *KnowledgeBaseParams
	if update != nil {
		src = update.KnowledgeBaseParams
	}
	kb := out.KnowledgeBaseParams
	if src == nil || src.NoDocsFoundResponse == nil {
		kb.NoDocsFoundResponse = nil
	}
	if src != nil && src.KnowledgeBaseType != "" {
		switch kb.KnowledgeBaseType {
		case KnowledgeBaseKendra:
			kb.BedrockKnowledgeBaseParams = nil
		case KnowledgeBaseBedrock:
			kb.KendraKnowledgeBaseParams = nil
		}
	}
	return out
}
