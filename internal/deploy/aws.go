package deploy

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// STSAPI abstracts the STS API for testing.
type STSAPI interface {
	GetCallerIdentity(
		ctx context.Context,
		input *sts.GetCallerIdentityInput,
		opts ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// ResolveAccountID returns the account of the calling credentials.
func ResolveAccountID(ctx context.Context, client STSAPI) (string, error) {
	identity, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("STS GetCallerIdentity: %w", err)
	}
	return aws.ToString(identity.Account), nil
}

// AWSClients holds the SDK clients the deployment service talks to.
type AWSClients struct {
	Config         aws.Config
	CloudFormation *cloudformation.Client
	Cognito        *cognitoidentityprovider.Client
	Presign        *s3.PresignClient
	STS            *sts.Client
	AgentCore      *bedrockagentcorecontrol.Client
}

// NewAWSClients loads the shared AWS config for region and builds the SDK
// clients from it.
func NewAWSClients(ctx context.Context, region string) (*AWSClients, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &AWSClients{
		Config:         cfg,
		CloudFormation: cloudformation.NewFromConfig(cfg),
		Cognito:        cognitoidentityprovider.NewFromConfig(cfg),
		Presign:        s3.NewPresignClient(s3.NewFromConfig(cfg)),
		STS:            sts.NewFromConfig(cfg),
		AgentCore:      bedrockagentcorecontrol.NewFromConfig(cfg),
	}, nil
}
