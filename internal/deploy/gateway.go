package deploy

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// GatewayAPI abstracts the AgentCore control-plane gateway API for testing.
type GatewayAPI interface {
	GetGateway(
		ctx context.Context,
		input *bedrockagentcorecontrol.GetGatewayInput,
		opts ...func(*bedrockagentcorecontrol.Options),
	) (*bedrockagentcorecontrol.GetGatewayOutput, error)
}

// GatewayResolver fills in the identity of an existing gateway referenced
// only by id.
type GatewayResolver interface {
	ResolveGateway(ctx context.Context, gw *usecase.GatewayParams) error
}

// AgentCoreGatewayResolver is the GatewayResolver backed by the AgentCore
// control plane.
type AgentCoreGatewayResolver struct {
	client GatewayAPI
}

// NewAgentCoreGatewayResolver creates a GatewayResolver over client.
func NewAgentCoreGatewayResolver(client GatewayAPI) *AgentCoreGatewayResolver {
	return &AgentCoreGatewayResolver{client: client}
}

// ResolveGateway sets GatewayArn, GatewayUrl and GatewayName from the
// gateway named by GatewayId. Fields the caller already set are kept. A
// gateway that does not exist is a validation failure.
func (r *AgentCoreGatewayResolver) ResolveGateway(ctx context.Context, gw *usecase.GatewayParams) error {
	if gw == nil || gw.GatewayID == nil || *gw.GatewayID == "" {
		return nil
	}
	if gw.GatewayArn != nil && gw.GatewayURL != nil && gw.GatewayName != nil {
		return nil
	}

	id := *gw.GatewayID
	out, err := r.client.GetGateway(ctx, &bedrockagentcorecontrol.GetGatewayInput{
		GatewayIdentifier: aws.String(id),
	})
	if err != nil {
		var nf *types.ResourceNotFoundException
		if errors.As(err, &nf) {
			return usecase.NewValidationError("Gateway %s was not found.", id)
		}
		return newDeployError("describe", resourceGateway, id, err)
	}

	if gw.GatewayArn == nil {
		gw.GatewayArn = out.GatewayArn
	}
	if gw.GatewayURL == nil {
		gw.GatewayURL = out.GatewayUrl
	}
	if gw.GatewayName == nil {
		gw.GatewayName = out.Name
	}
	return nil
}
