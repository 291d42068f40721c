package adapter

import (
	"strconv"
	"strings"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// paramBuilder adds the type-specific template parameters of a request.
type paramBuilder func(params *usecase.ParameterMap, req *DeploymentRequest, env Environment)

// setCommonParams sets the parameters shared by every use-case type.
func setCommonParams(params *usecase.ParameterMap, useCaseID string, req *DeploymentRequest, env Environment) {
	params.Set(usecase.ParamUseCaseUUID, useCaseID)
	params.Set(usecase.ParamUseCaseShortID, usecase.ShortID(useCaseID))
	params.Set(usecase.ParamUseCaseConfigTableName, env.UseCaseConfigTableName)
	params.Set(usecase.ParamUseCaseConfigRecordKey, usecase.NewConfigRecordKey(useCaseID))

	if req.DefaultUserEmail != "" {
		params.Set(usecase.ParamDefaultUserEmail, req.DefaultUserEmail)
	}
	if req.DeployUI != nil {
		params.Set(usecase.ParamDeployUI, usecase.YesNo(*req.DeployUI))
	}
	if req.FeedbackParams != nil && req.FeedbackParams.FeedbackEnabled != nil {
		params.Set(usecase.ParamFeedbackEnabled, usecase.YesNo(*req.FeedbackParams.FeedbackEnabled))
	}
	if req.ProvisionedConcurrencyValue != nil {
		params.Set(usecase.ParamProvisionedConcurrency, strconv.Itoa(*req.ProvisionedConcurrencyValue))
	}
}

// setVpcParams sets VPC parameters only for flags the request states
// explicitly. Existing resource ids are only passed for existing VPCs.
func setVpcParams(params *usecase.ParameterMap, req *DeploymentRequest) error {
	vpc := req.VpcParams
	if vpc == nil {
		return nil
	}
	if vpc.VpcEnabled != nil {
		params.Set(usecase.ParamVpcEnabled, usecase.YesNo(*vpc.VpcEnabled))
	}
	if vpc.VpcEnabled == nil || !*vpc.VpcEnabled {
		return nil
	}
	if vpc.CreateNewVpc != nil {
		params.Set(usecase.ParamCreateNewVpc, usecase.YesNo(*vpc.CreateNewVpc))
	}
	if vpc.CreateNewVpc != nil && *vpc.CreateNewVpc {
		return nil
	}

	if vpc.ExistingVpcID == "" || len(vpc.ExistingPrivateSubnetIDs) == 0 || len(vpc.ExistingSecurityGroupIDs) == 0 {
		return usecase.NewValidationError(
			"ExistingVpcId, ExistingPrivateSubnetIds and ExistingSecurityGroupIds are required when using an existing VPC.")
	}
	params.Set(usecase.ParamExistingVpcID, vpc.ExistingVpcID)
	params.Set(usecase.ParamExistingPrivateSubnetIDs, strings.Join(vpc.ExistingPrivateSubnetIDs, ","))
	params.Set(usecase.ParamExistingSecurityGroupIDs, strings.Join(vpc.ExistingSecurityGroupIDs, ","))
	return nil
}

// setMultimodalParams sets multimodal parameters only when the request
// states the flag. The data stores are only passed when it is enabled.
func setMultimodalParams(params *usecase.ParameterMap, req *DeploymentRequest, env Environment) {
	if req.LlmParams == nil || req.LlmParams.MultimodalParams == nil || req.LlmParams.MultimodalParams.MultimodalEnabled == nil {
		return
	}
	enabled := *req.LlmParams.MultimodalParams.MultimodalEnabled
	params.Set(usecase.ParamMultimodalEnabled, usecase.YesNo(enabled))
	if !enabled {
		return
	}
	if env.MultimodalMetadataTableName != "" {
		params.Set(usecase.ParamMultimodalMetadataTableName, env.MultimodalMetadataTableName)
	}
	if env.MultimodalDataBucket != "" {
		params.Set(usecase.ParamMultimodalDataBucket, env.MultimodalDataBucket)
	}
}

// setInferenceProfileParam records whether the Bedrock model is addressed
// through an inference profile. It is omitted when the request carries no
// Bedrock parameters.
func setInferenceProfileParam(params *usecase.ParameterMap, req *DeploymentRequest) {
	if req.LlmParams == nil || req.LlmParams.BedrockLlmParams == nil {
		return
	}
	params.Set(usecase.ParamUseInferenceProfile, usecase.YesNo(req.LlmParams.BedrockLlmParams.InferenceProfileID != ""))
}

func setKnowledgeBaseParams(params *usecase.ParameterMap, req *DeploymentRequest) {
	if req.LlmParams != nil && req.LlmParams.RAGEnabled != nil {
		params.Set(usecase.ParamRAGEnabled, strconv.FormatBool(*req.LlmParams.RAGEnabled))
	}
	kb := req.KnowledgeBaseParams
	if kb == nil || !req.LlmParams.IsRAGEnabled() {
		return
	}
	if kb.KnowledgeBaseType != "" {
		params.Set(usecase.ParamKnowledgeBaseType, kb.KnowledgeBaseType)
	}
	if k := kb.KendraKnowledgeBaseParams; k != nil {
		if k.ExistingKendraIndexID != "" {
			params.Set(usecase.ParamExistingKendraIndexID, k.ExistingKendraIndexID)
		} else if k.KendraIndexName != "" {
			params.Set(usecase.ParamNewKendraIndexName, k.KendraIndexName)
			if k.QueryCapacityUnits != nil {
				params.Set(usecase.ParamNewKendraQueryCapacityUnits, strconv.Itoa(*k.QueryCapacityUnits))
			}
			if k.StorageCapacityUnits != nil {
				params.Set(usecase.ParamNewKendraStorageCapacityUnits, strconv.Itoa(*k.StorageCapacityUnits))
			}
			if k.KendraIndexEdition != "" {
				params.Set(usecase.ParamNewKendraIndexEdition, k.KendraIndexEdition)
			}
		}
	}
	if b := kb.BedrockKnowledgeBaseParams; b != nil && b.BedrockKnowledgeBaseID != "" {
		params.Set(usecase.ParamBedrockKnowledgeBaseID, b.BedrockKnowledgeBaseID)
	}
}

func setLongTermMemoryParam(params *usecase.ParameterMap, mem *usecase.AgentMemoryConfig) {
	if mem == nil || mem.LongTermEnabled == nil {
		return
	}
	params.Set(usecase.ParamUseLongTermMemory, usecase.YesNo(*mem.LongTermEnabled))
}

func setSharedEcrCachePrefix(params *usecase.ParameterMap, env Environment) {
	if env.SharedEcrCachePrefix != "" {
		params.Set(usecase.ParamSharedEcrCachePrefix, env.SharedEcrCachePrefix)
	}
}

// Type-specific parameter builders.

func textParams(params *usecase.ParameterMap, req *DeploymentRequest, env Environment) {
	setKnowledgeBaseParams(params, req)
	setInferenceProfileParam(params, req)
	setMultimodalParams(params, req, env)
}

func agentParams(params *usecase.ParameterMap, req *DeploymentRequest, _ Environment) {
	if req.AgentParams == nil || req.AgentParams.BedrockAgentParams == nil {
		return
	}
	p := req.AgentParams.BedrockAgentParams
	params.Set(usecase.ParamBedrockAgentID, p.AgentID)
	params.Set(usecase.ParamBedrockAgentAliasID, p.AgentAliasID)
}

func agentBuilderParams(params *usecase.ParameterMap, req *DeploymentRequest, env Environment) {
	setSharedEcrCachePrefix(params, env)
	setInferenceProfileParam(params, req)
	setMultimodalParams(params, req, env)
	if req.AgentBuilderParams != nil {
		setLongTermMemoryParam(params, req.AgentBuilderParams.MemoryConfig)
	}
}

func workflowParams(params *usecase.ParameterMap, req *DeploymentRequest, env Environment) {
	setSharedEcrCachePrefix(params, env)
	setInferenceProfileParam(params, req)
	setMultimodalParams(params, req, env)
	if req.WorkflowParams != nil {
		setLongTermMemoryParam(params, req.WorkflowParams.MemoryConfig)
	}
}

func mcpParams(params *usecase.ParameterMap, req *DeploymentRequest, _ Environment) {
	if req.MCPParams == nil {
		return
	}
	if rt := req.MCPParams.RuntimeParams; rt != nil && rt.EcrURI != "" {
		params.Set(usecase.ParamEcrURI, rt.EcrURI)
	}
	if gw := req.MCPParams.GatewayParams; gw != nil && gw.GatewayID != nil && *gw.GatewayID != "" {
		params.Set(usecase.ParamGatewayID, *gw.GatewayID)
	}
}
