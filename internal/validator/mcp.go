package validator

import (
	"context"
	"regexp"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

var (
	ecrURIRE = regexp.MustCompile(
		`^(\d{12})\.dkr\.ecr\.([a-z0-9-]+)\.amazonaws\.com/[a-z0-9][a-z0-9._/-]*(:[\w.-]+|@sha256:[a-f0-9]{64})?$`)

	gatewayIDRE  = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	gatewayARNRE = regexp.MustCompile(
		`^arn:aws:bedrock-agentcore:([a-z0-9-]+):(\d{12}):gateway/([a-zA-Z0-9-]+)$`)
	gatewayURLRE = regexp.MustCompile(
		`^https://([a-zA-Z0-9-]+)\.gateway\.bedrock-agentcore\.([a-z0-9-]+)\.amazonaws\.com/mcp$`)

	targetIDRE  = regexp.MustCompile(`^[A-Z0-9]{10}$`)
	lambdaARNRE = regexp.MustCompile(
		`^arn:aws:lambda:[a-z0-9-]+:\d{12}:function:[a-zA-Z0-9_-]+(:[a-zA-Z0-9_$-]+)?$`)

	oauthProviderARNRE = regexp.MustCompile(
		`^arn:aws:bedrock-agentcore:[a-z0-9-]+:\d{12}:token-vault/[a-zA-Z0-9_-]+/oauth2credentialprovider/[a-zA-Z0-9_-]+$`)
	apiKeyProviderARNRE = regexp.MustCompile(
		`^arn:aws:bedrock-agentcore:[a-z0-9-]+:\d{12}:token-vault/[a-zA-Z0-9_-]+/apikeycredentialprovider/[a-zA-Z0-9_-]+$`)
)

// MCPValidator validates MCPServer use cases. Region and account come from
// the deployment context.
type MCPValidator struct {
	pipeline
}

// NewMCPValidator returns the validator for MCPServer use cases.
func NewMCPValidator(deps Deps) Validator {
	v := &MCPValidator{}
	v.pipeline = pipeline{deps: deps, merge: usecase.MergeConfigs, check: v.check}
	return v
}

func (v *MCPValidator) check(_ context.Context, in *usecase.Configuration) (*usecase.Configuration, error) {
	var gateway *usecase.GatewayParams
	var runtime *usecase.RuntimeParams
	if in.MCPParams != nil {
		gateway, runtime = in.MCPParams.GatewayParams, in.MCPParams.RuntimeParams
	}

	switch {
	case gateway != nil && runtime != nil:
		return nil, usecase.NewValidationError("Only one of GatewayParams or RuntimeParams should be provided, not both")
	case gateway == nil && runtime == nil:
		return nil, usecase.NewValidationError("Either GatewayParams or RuntimeParams must be provided")
	case runtime != nil:
		if err := v.validateRuntime(runtime); err != nil {
			return nil, err
		}
	default:
		if err := v.validateGateway(gateway); err != nil {
			return nil, err
		}
	}
	return in.Clone(), nil
}

func (v *MCPValidator) validateRuntime(r *usecase.RuntimeParams) error {
	if r.EcrURI == "" {
		return usecase.NewValidationError("EcrUri is required when deploying an MCP server with RuntimeParams.")
	}
	m := ecrURIRE.FindStringSubmatch(r.EcrURI)
	if m == nil {
		return usecase.NewValidationError("Invalid ECR URI format: %s", r.EcrURI)
	}
	if region := m[2]; v.deps.Region != "" && region != v.deps.Region {
		return usecase.NewValidationError(
			"ECR image must be in the same region as the deployment (%s), but EcrUri is in %s.", v.deps.Region, region)
	}
	return validateEnvironmentVariables(r.EnvironmentVariables)
}

func (v *MCPValidator) validateGateway(g *usecase.GatewayParams) error {
	if g.GatewayID != nil && !gatewayIDRE.MatchString(*g.GatewayID) {
		return usecase.NewValidationError("Invalid GatewayId format: %q", *g.GatewayID)
	}
	if g.GatewayArn != nil {
		m := gatewayARNRE.FindStringSubmatch(*g.GatewayArn)
		if m == nil {
			return usecase.NewValidationError("Invalid GatewayArn format: %s", *g.GatewayArn)
		}
		if account := m[2]; v.deps.AccountID != "" && account != v.deps.AccountID {
			return usecase.NewValidationError("GatewayArn account %s does not match the deployment account %s.",
				account, v.deps.AccountID)
		}
		if err := v.checkGatewayRef("GatewayArn", m[1], m[3], g.GatewayID); err != nil {
			return err
		}
	}
	if g.GatewayURL != nil {
		m := gatewayURLRE.FindStringSubmatch(*g.GatewayURL)
		if m == nil {
			return usecase.NewValidationError("Invalid GatewayUrl format: %s", *g.GatewayURL)
		}
		if err := v.checkGatewayRef("GatewayUrl", m[2], m[1], g.GatewayID); err != nil {
			return err
		}
	}
	if g.GatewayName != nil && *g.GatewayName == "" {
		return usecase.NewValidationError("GatewayName cannot be empty.")
	}

	if g.GatewayID == nil && len(g.TargetParams) == 0 {
		return usecase.NewValidationError("At least one target must be provided in GatewayParams.TargetParams.")
	}
	for i := range g.TargetParams {
		if err := validateTarget(i, &g.TargetParams[i]); err != nil {
			return err
		}
	}
	return nil
}

// checkGatewayRef matches the region and gateway id embedded in a GatewayArn
// or GatewayUrl against the deployment region and GatewayId.
func (v *MCPValidator) checkGatewayRef(field, region, id string, gatewayID *string) error {
	if v.deps.Region != "" && region != v.deps.Region {
		return usecase.NewValidationError(
			"Gateway must be in the same region as the deployment (%s), but %s is in %s.", v.deps.Region, field, region)
	}
	if gatewayID != nil && id != *gatewayID {
		return usecase.NewValidationError("%s refers to gateway %s, but GatewayId is %s.", field, id, *gatewayID)
	}
	return nil
}

func validateTarget(i int, t *usecase.TargetParams) error {
	if t.TargetName == "" {
		return usecase.NewValidationError("TargetParams[%d].TargetName is required.", i)
	}
	if t.TargetID != nil && !targetIDRE.MatchString(*t.TargetID) {
		return usecase.NewValidationError(
			"Invalid TargetId %q for target %s: must be exactly 10 uppercase alphanumeric characters.", *t.TargetID, t.TargetName)
	}

	switch t.TargetType {
	case usecase.TargetTypeLambda:
		if !lambdaARNRE.MatchString(t.LambdaArn) {
			return usecase.NewValidationError("Target %s of type %s requires a valid LambdaArn, got %q.",
				t.TargetName, t.TargetType, t.LambdaArn)
		}
	case usecase.TargetTypeOpenAPI, usecase.TargetTypeSmithy:
		if t.SchemaURI == "" {
			return usecase.NewValidationError("Target %s of type %s requires a SchemaUri.", t.TargetName, t.TargetType)
		}
	case usecase.TargetTypeMCPServer:
		if !isHTTPSURL(t.McpEndpoint) {
			return usecase.NewValidationError("Target %s of type %s requires an https McpEndpoint, got %q.",
				t.TargetName, t.TargetType, t.McpEndpoint)
		}
	default:
		return usecase.NewValidationError("Unsupported TargetType %q for target %s.", t.TargetType, t.TargetName)
	}

	return validateOutboundAuth(t)
}

func validateOutboundAuth(t *usecase.TargetParams) error {
	auth := t.OutboundAuthParams
	if auth == nil {
		return nil
	}
	arn := auth.OutboundAuthProviderArn
	var kind string
	switch {
	case oauthProviderARNRE.MatchString(arn):
		kind = usecase.OutboundAuthOAuth
	case apiKeyProviderARNRE.MatchString(arn):
		kind = usecase.OutboundAuthAPIKey
	default:
		return usecase.NewValidationError("Invalid OutboundAuthProviderArn for target %s: %q.", t.TargetName, arn)
	}

	switch auth.OutboundAuthProviderType {
	case "":
	case usecase.OutboundAuthOAuth, usecase.OutboundAuthAPIKey:
		if auth.OutboundAuthProviderType != kind {
			return usecase.NewValidationError("OutboundAuthProviderType %s does not match the provider ARN of target %s.",
				auth.OutboundAuthProviderType, t.TargetName)
		}
	default:
		return usecase.NewValidationError("Unsupported OutboundAuthProviderType %q for target %s.",
			auth.OutboundAuthProviderType, t.TargetName)
	}
	return nil
}
