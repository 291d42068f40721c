// Package adapter translates inbound deployment API requests into use-case
// entities and their infrastructure template parameters. Adapters are pure:
// they never read the process environment or call remote services.
package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// Request is a single API call against the deployments resource.
type Request struct {
	Operation   usecase.Operation
	UseCaseType usecase.Type
	// UseCaseID comes from the request path for operations on one use case.
	UseCaseID string
	// UserID is the authenticated caller.
	UserID string
	// Body is the raw JSON request body, if any.
	Body []byte

	PageNumber   int
	SearchFilter string
}

// DeploymentRequest is the body of a create or update call: the use-case
// configuration plus deployment-only settings that are turned into
// template parameters rather than stored.
type DeploymentRequest struct {
	usecase.Configuration

	DefaultUserEmail            string            `json:"DefaultUserEmail,omitempty" validate:"omitempty,email"`
	DeployUI                    *bool             `json:"DeployUI,omitempty"`
	VpcParams                   *VpcParams        `json:"VpcParams,omitempty"`
	ExistingRestAPIID           string            `json:"ExistingRestApiId,omitempty" validate:"omitempty,alphanum"`
	ExistingAPIRootResourceID   string            `json:"ExistingApiRootResourceId,omitempty" validate:"omitempty,alphanum"`
	ProvisionedConcurrencyValue *int              `json:"ProvisionedConcurrencyValue,omitempty" validate:"omitempty,min=0,max=5"`
	Tags                        map[string]string `json:"Tags,omitempty" validate:"omitempty,max=40,dive,keys,min=1,max=128,endkeys,max=256"`
}

// VpcParams places the use case in a new or existing VPC.
type VpcParams struct {
	VpcEnabled               *bool    `json:"VpcEnabled,omitempty"`
	CreateNewVpc             *bool    `json:"CreateNewVpc,omitempty"`
	ExistingVpcID            string   `json:"ExistingVpcId,omitempty" validate:"omitempty,startswith=vpc-"`
	ExistingPrivateSubnetIDs []string `json:"ExistingPrivateSubnetIds,omitempty" validate:"omitempty,dive,startswith=subnet-"`
	ExistingSecurityGroupIDs []string `json:"ExistingSecurityGroupIds,omitempty" validate:"omitempty,dive,startswith=sg-"`
}

// SchemaUploadBody is the body of an UPLOAD_SCHEMA call.
type SchemaUploadBody struct {
	Files []SchemaFileRequest `json:"files" validate:"required,min=1,max=10,dive"`
}

// SchemaFileRequest names one schema file the caller wants to upload.
type SchemaFileRequest struct {
	SchemaType string `json:"schemaType" validate:"required"`
	FileName   string `json:"fileName" validate:"required,max=255"`
}

var requestValidate = newRequestValidator()

// newRequestValidator reports fields by their JSON names so messages match
// what the caller sent.
func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody unmarshals a JSON body into v and checks its struct tags.
func decodeBody(body []byte, v any) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return usecase.NewValidationError("Request body is required")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return usecase.NewValidationError("Invalid request body: %v", err)
	}
	if err := requestValidate.Struct(v); err != nil {
		return translateValidationError(err)
	}
	return nil
}

// translateValidationError reports the first failed struct tag as a
// ValidationError.
func translateValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate request: %w", err)
	}
	fe := fieldErrs[0]
	if fe.Param() != "" {
		return usecase.NewValidationError("Invalid value for %s: failed '%s=%s' validation",
			fe.Namespace(), fe.Tag(), fe.Param())
	}
	return usecase.NewValidationError("Invalid value for %s: failed '%s' validation", fe.Namespace(), fe.Tag())
}
