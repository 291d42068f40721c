package adapter

import (
	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// setAuthParams resolves the identity provider of a deployment. A request
// that brings its own Cognito pool replaces the platform pool and suppresses
// the REST API passthrough parameters; otherwise the platform defaults from
// env are used. Unsupported providers fail immediately.
func setAuthParams(params *usecase.ParameterMap, req *DeploymentRequest, env Environment) error {
	if auth := req.AuthenticationParams; auth != nil {
		switch auth.AuthenticationProvider {
		case usecase.AuthProviderCognito:
			if auth.CognitoParams == nil || auth.CognitoParams.ExistingUserPoolID == "" {
				return usecase.NewValidationError(
					"Required field ExistingUserPoolId not provided for the %q AuthenticationProvider.",
					usecase.AuthProviderCognito)
			}
			params.Set(usecase.ParamExistingCognitoUserPoolID, auth.CognitoParams.ExistingUserPoolID)
			if auth.CognitoParams.ExistingUserPoolClientID != "" {
				params.Set(usecase.ParamExistingCognitoUserPoolClient, auth.CognitoParams.ExistingUserPoolClientID)
			}
			return nil
		default:
			return usecase.NewValidationError("Unsupported AuthenticationProvider: %s.", auth.AuthenticationProvider)
		}
	}

	if env.UserPoolID != "" {
		params.Set(usecase.ParamExistingCognitoUserPoolID, env.UserPoolID)
	}
	if env.CognitoPolicyTableName != "" {
		params.Set(usecase.ParamExistingCognitoPolicyTableName, env.CognitoPolicyTableName)
	}
	if req.ExistingRestAPIID != "" {
		params.Set(usecase.ParamExistingRestAPIID, req.ExistingRestAPIID)
		if req.ExistingAPIRootResourceID != "" {
			params.Set(usecase.ParamExistingAPIRootResourceID, req.ExistingAPIRootResourceID)
		}
	}
	return nil
}
