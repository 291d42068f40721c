package adapter

// Environment carries the deployment-platform settings adapters stamp into
// template parameters. It is built once from process configuration and
// passed by value.
type Environment struct {
	// IsInternalUser is stamped into every configuration.
	IsInternalUser bool

	// UserPoolID and CognitoPolicyTableName are the platform defaults used
	// when a request does not bring its own Cognito user pool.
	UserPoolID             string
	CognitoPolicyTableName string

	UseCaseConfigTableName string

	// Only read when a request explicitly enables multimodal input.
	MultimodalMetadataTableName string
	MultimodalDataBucket        string

	// SharedEcrCachePrefix is passed to agent-backed stacks.
	SharedEcrCachePrefix string
}
