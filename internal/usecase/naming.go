package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// shortIDLength is the number of leading UUID characters used for short ids.
const shortIDLength = 8

// stackNamePattern is the CloudFormation stack-name pattern. Names must
// start with a letter and contain only letters, digits, and hyphens, at
// most 128 characters long.
const stackNamePattern = `^[a-zA-Z][-a-zA-Z0-9]{0,127}$`

var stackNameRe = regexp.MustCompile(stackNamePattern)

// stackNamePrefixes maps each use-case type to the prefix of its stack name.
var stackNamePrefixes = map[Type]string{
	TypeText:         "text",
	TypeAgent:        "agent",
	TypeAgentBuilder: "agent-builder",
	TypeWorkflow:     "workflow",
	TypeMCPServer:    "mcp",
}

// NewUseCaseID returns a fresh use-case identifier.
func NewUseCaseID() string {
	return uuid.NewString()
}

// ShortID returns the first eight characters of id, or id itself when shorter.
func ShortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

// NewConfigRecordKey returns a config record key of the form
// {shortId}-{shortSuffix}, where the suffix is taken from a fresh UUID so
// every stored revision of a configuration gets its own key.
func NewConfigRecordKey(useCaseID string) string {
	return ShortID(useCaseID) + "-" + ShortID(uuid.NewString())
}

// StackName returns the stack name for a use case.
func StackName(t Type, useCaseID string) string {
	prefix, ok := stackNamePrefixes[t]
	if !ok {
		prefix = strings.ToLower(string(t))
	}
	return prefix + "-" + ShortID(useCaseID)
}

// ValidateStackName checks name against the CloudFormation stack-name pattern.
func ValidateStackName(name string) error {
	if !stackNameRe.MatchString(name) {
		return fmt.Errorf("stack name %q is invalid: must match %s", name, stackNamePattern)
	}
	return nil
}
