package usecase

// Tag keys applied to every deployed use-case stack.
const (
	TagKeyUseCaseID   = "usecase:id"
	TagKeyUseCaseType = "usecase:type"
	TagKeyCreatedBy   = "usecase:created-by"
	TagKeyAccount     = "usecase:account"
)

// StackTags merges the default use-case tags with user-defined tags. User
// tags take precedence when keys overlap. An empty account is omitted.
func StackTags(uc *UseCase, account string, userTags map[string]string) map[string]string {
	tags := make(map[string]string, len(userTags)+4) //nolint:mnd // 4 default tag keys

	tags[TagKeyUseCaseID] = uc.UseCaseID
	tags[TagKeyUseCaseType] = string(uc.UseCaseType)
	if uc.UserID != "" {
		tags[TagKeyCreatedBy] = uc.UserID
	}
	if account != "" {
		tags[TagKeyAccount] = account
	}

	for k, v := range userTags {
		tags[k] = v
	}
	return tags
}
