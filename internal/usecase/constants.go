package usecase

// Type discriminates the configuration variants of a use case.
type Type string

// Supported use-case types.
const (
	TypeText         Type = "Text"
	TypeAgent        Type = "Agent"
	TypeAgentBuilder Type = "AgentBuilder"
	TypeWorkflow     Type = "Workflow"
	TypeMCPServer    Type = "MCPServer"
)

// Types lists every supported use-case type in a stable order.
var Types = []Type{TypeText, TypeAgent, TypeAgentBuilder, TypeWorkflow, TypeMCPServer}

// Valid reports whether t is a known use-case type.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Operation is the request operation discriminator used by adapter factories.
type Operation string

// Supported operations.
const (
	OperationCreate            Operation = "CREATE"
	OperationUpdate            Operation = "UPDATE"
	OperationDelete            Operation = "DELETE"
	OperationGet               Operation = "GET"
	OperationList              Operation = "LIST"
	OperationUploadSchema      Operation = "UPLOAD_SCHEMA"
	OperationPermanentlyDelete Operation = "PERMANENTLY_DELETE"
)

// Model providers.
const (
	ProviderBedrock   = "Bedrock"
	ProviderSageMaker = "SageMaker"
)

// Knowledge base types.
const (
	KnowledgeBaseKendra  = "Kendra"
	KnowledgeBaseBedrock = "Bedrock"
)

// Model-info categories used as the partition key of the model-info table.
const (
	CategoryChat    = "Chat"
	CategoryRAGChat = "RAGChat"
)

// DefaultModelID is the model-info sort-key suffix used when the request
// does not name a concrete model (SageMaker endpoints, inference profiles).
const DefaultModelID = "default"

// Bedrock inference types.
const (
	InferenceTypeQuickStart      = "QUICK_START"
	InferenceTypeOtherFoundation = "OTHER_FOUNDATION"
	InferenceTypeInferenceProf   = "INFERENCE_PROFILE"
	InferenceTypeProvisioned     = "PROVISIONED"
)

// Authentication providers.
const AuthProviderCognito = "Cognito"

// Workflow orchestration patterns.
const OrchestrationAgentsAsTools = "agents-as-tools"

// MCP gateway target types.
const (
	TargetTypeLambda    = "lambda"
	TargetTypeOpenAPI   = "openApiSchema"
	TargetTypeSmithy    = "smithyModel"
	TargetTypeMCPServer = "mcpServer"
)

// Outbound auth provider types for gateway targets.
const (
	OutboundAuthOAuth  = "OAUTH"
	OutboundAuthAPIKey = "API_KEY"
)

// MCP server reference types used by agent builders.
const (
	MCPServerTypeGateway = "gateway"
	MCPServerTypeRuntime = "runtime"
)

// CloudFormation parameter keys shared by adapters and the deployment service.
const (
	ParamUseCaseUUID                    = "UseCaseUUID"
	ParamUseCaseShortID                 = "UseCaseShortId"
	ParamUseCaseConfigTableName         = "UseCaseConfigTableName"
	ParamUseCaseConfigRecordKey         = "UseCaseConfigRecordKey"
	ParamDefaultUserEmail               = "DefaultUserEmail"
	ParamDeployUI                       = "DeployUI"
	ParamExistingCognitoUserPoolID      = "ExistingCognitoUserPoolId"
	ParamExistingCognitoUserPoolClient  = "ExistingCognitoUserPoolClient"
	ParamExistingCognitoPolicyTableName = "ExistingCognitoGroupPolicyTableName"
	ParamExistingRestAPIID              = "ExistingRestApiId"
	ParamExistingAPIRootResourceID      = "ExistingApiRootResourceId"
	ParamVpcEnabled                     = "VpcEnabled"
	ParamCreateNewVpc                   = "CreateNewVpc"
	ParamExistingVpcID                  = "ExistingVpcId"
	ParamExistingPrivateSubnetIDs       = "ExistingPrivateSubnetIds"
	ParamExistingSecurityGroupIDs       = "ExistingSecurityGroupIds"
	ParamRAGEnabled                     = "RAGEnabled"
	ParamKnowledgeBaseType              = "KnowledgeBaseType"
	ParamBedrockKnowledgeBaseID         = "BedrockKnowledgeBaseId"
	ParamExistingKendraIndexID          = "ExistingKendraIndexId"
	ParamNewKendraIndexName             = "NewKendraIndexName"
	ParamNewKendraQueryCapacityUnits    = "NewKendraQueryCapacityUnits"
	ParamNewKendraStorageCapacityUnits  = "NewKendraStorageCapacityUnits"
	ParamNewKendraIndexEdition          = "NewKendraIndexEdition"
	ParamFeedbackEnabled                = "FeedbackEnabled"
	ParamUseInferenceProfile            = "UseInferenceProfile"
	ParamMultimodalEnabled              = "MultimodalEnabled"
	ParamMultimodalMetadataTableName    = "ExistingMultimodalDataMetadataTable"
	ParamMultimodalDataBucket           = "ExistingMultimodalDataBucket"
	ParamBedrockAgentID                 = "BedrockAgentId"
	ParamBedrockAgentAliasID            = "BedrockAgentAliasId"
	ParamSharedEcrCachePrefix           = "SharedEcrCachePrefix"
	ParamUseLongTermMemory              = "UseLongTermMemory"
	ParamEcrURI                         = "EcrUri"
	ParamGatewayID                      = "GatewayId"
	ParamProvisionedConcurrency         = "ProvisionedConcurrencyValue"
)

// CloudFormation boolean parameter values.
const (
	ParamYes = "Yes"
	ParamNo  = "No"
)

// YesNo renders a boolean as a CloudFormation Yes/No parameter value.
func YesNo(b bool) string {
	if b {
		return ParamYes
	}
	return ParamNo
}
