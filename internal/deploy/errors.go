package deploy

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/smithy-go"
)

// Categories of infrastructure failures.
const (
	ErrCategoryPermission    = "permission"
	ErrCategoryConfiguration = "configuration"
	ErrCategoryResource      = "resource"
	ErrCategoryThrottling    = "throttling"
	ErrCategoryNetwork       = "network"
)

const (
	resourceStack   = "stack"
	resourceUser    = "cognito_user"
	resourceSchema  = "schema_upload"
	resourceGateway = "gateway"
)

// DeployError is a failed call against the AWS resources behind a use case.
// It unwraps to the SDK error.
type DeployError struct {
	Category     string
	Operation    string
	ResourceType string
	ResourceName string
	// Hint suggests a fix; empty when the failure is not recognised.
	Hint  string
	Cause error
}

// Error implements the error interface.
func (e *DeployError) Error() string {
	msg := fmt.Sprintf("%s %s %s: %v", e.Operation, e.ResourceType, e.ResourceName, e.Cause)
	if e.Hint == "" {
		return msg
	}
	return msg + " [hint: " + e.Hint + "]"
}

// Unwrap returns the underlying SDK error for errors.Is and errors.As.
func (e *DeployError) Unwrap() error {
	return e.Cause
}

// errorClass recognises one category of failure, first by API error code
// and then by lower-cased message fragments.
type errorClass struct {
	category  string
	hint      string
	codes     []string
	fragments []string
}

// errorClasses is checked in order; the first match wins.
var errorClasses = []errorClass{
	{
		category: ErrCategoryPermission,
		hint:     "the service role needs CloudFormation, Cognito and DynamoDB access for this use case",
		codes: []string{
			"AccessDenied", "AccessDeniedException", "UnauthorizedOperation",
			"NotAuthorizedException", "InsufficientCapabilitiesException",
		},
		fragments: []string{"accessdenied", "access denied", "not authorized", "unauthorized", "forbidden"},
	},
	{
		category: ErrCategoryThrottling,
		hint:     "retry once the AWS request rate drops",
		codes: []string{
			"Throttling", "ThrottlingException", "TooManyRequestsException",
			"ProvisionedThroughputExceededException", "RequestLimitExceeded",
		},
		fragments: []string{"rate exceeded", "throttl"},
	},
	{
		category:  ErrCategoryNetwork,
		hint:      "check AWS_REGION and that the AWS endpoints are reachable",
		fragments: []string{"connection refused", "no such host", "dial tcp", "tls handshake", "i/o timeout"},
	},
	{
		category: ErrCategoryConfiguration,
		hint:     "review the template parameters; the stack name may already be taken",
		codes: []string{
			"ValidationError", "ValidationException", "InvalidParameterException",
			"InvalidParameterValue", "AlreadyExistsException", "LimitExceededException",
		},
		fragments: []string{"validation", "invalid", "malformed", "does not match"},
	},
}

// classifyAWSError picks the category and hint for err. API error codes
// take precedence over message matching.
func classifyAWSError(err error) (category, hint string) {
	if err == nil {
		return ErrCategoryResource, ""
	}
	if code := apiErrorCode(err); code != "" {
		for _, c := range errorClasses {
			if slices.Contains(c.codes, code) {
				return c.category, c.hint
			}
		}
	}
	msg := strings.ToLower(err.Error())
	for _, c := range errorClasses {
		if slices.ContainsFunc(c.fragments, func(f string) bool { return strings.Contains(msg, f) }) {
			return c.category, c.hint
		}
	}
	return ErrCategoryResource, ""
}

func newDeployError(operation, resType, resName string, cause error) *DeployError {
	category, hint := classifyAWSError(cause)
	return &DeployError{
		Category:     category,
		Operation:    operation,
		ResourceType: resType,
		ResourceName: resName,
		Hint:         hint,
		Cause:        cause,
	}
}

// IsDeployError returns the DeployError if err is (or wraps) one.
func IsDeployError(err error) *DeployError {
	var de *DeployError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
