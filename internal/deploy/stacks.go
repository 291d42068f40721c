package deploy

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// CloudFormationAPI abstracts the CloudFormation API for testing.
type CloudFormationAPI interface {
	CreateStack(
		ctx context.Context,
		input *cloudformation.CreateStackInput,
		opts ...func(*cloudformation.Options),
	) (*cloudformation.CreateStackOutput, error)

	UpdateStack(
		ctx context.Context,
		input *cloudformation.UpdateStackInput,
		opts ...func(*cloudformation.Options),
	) (*cloudformation.UpdateStackOutput, error)

	DeleteStack(
		ctx context.Context,
		input *cloudformation.DeleteStackInput,
		opts ...func(*cloudformation.Options),
	) (*cloudformation.DeleteStackOutput, error)

	DescribeStacks(
		ctx context.Context,
		input *cloudformation.DescribeStacksInput,
		opts ...func(*cloudformation.Options),
	) (*cloudformation.DescribeStacksOutput, error)
}

// StackInput describes the desired state of a use-case stack.
type StackInput struct {
	// StackID identifies the stack on update. Create uses StackName.
	StackID     string
	StackName   string
	TemplateURL string
	Parameters  *usecase.ParameterMap
	Tags        map[string]string
}

// StackClient creates, updates and inspects use-case stacks.
type StackClient interface {
	CreateStack(ctx context.Context, in *StackInput) (string, error)
	UpdateStack(ctx context.Context, in *StackInput) (string, error)
	DeleteStack(ctx context.Context, stackID string) error
	DescribeStack(ctx context.Context, stackID string) (*StackStatus, error)
}

// stackCapabilities are acknowledged on every create and update; use-case
// templates create IAM roles and nested stacks.
var stackCapabilities = []cfntypes.Capability{
	cfntypes.CapabilityCapabilityIam,
	cfntypes.CapabilityCapabilityNamedIam,
	cfntypes.CapabilityCapabilityAutoExpand,
}

// noUpdatesMessage is how CloudFormation reports an update that changes nothing.
const noUpdatesMessage = "No updates are to be performed"

// CloudFormationStacks is the StackClient backed by CloudFormation.
type CloudFormationStacks struct {
	client CloudFormationAPI
}

// NewCloudFormationStacks creates a StackClient over client.
func NewCloudFormationStacks(client CloudFormationAPI) *CloudFormationStacks {
	return &CloudFormationStacks{client: client}
}

// CreateStack creates the stack and returns its id.
func (s *CloudFormationStacks) CreateStack(ctx context.Context, in *StackInput) (string, error) {
	out, err := s.client.CreateStack(ctx, &cloudformation.CreateStackInput{
		StackName:    aws.String(in.StackName),
		TemplateURL:  aws.String(in.TemplateURL),
		Parameters:   stackParameters(in.Parameters),
		Tags:         stackTags(in.Tags),
		Capabilities: stackCapabilities,
	})
	if err != nil {
		return "", newDeployError("create", resourceStack, in.StackName, err)
	}
	return aws.ToString(out.StackId), nil
}

// UpdateStack updates the stack identified by in.StackID. Template
// parameters the stack already has but in.Parameters does not mention keep
// their previous values. An update that changes nothing is not an error.
func (s *CloudFormationStacks) UpdateStack(ctx context.Context, in *StackInput) (string, error) {
	stack, err := s.describe(ctx, in.StackID)
	if err != nil {
		return "", newDeployError("describe", resourceStack, in.StackID, err)
	}

	params := stackParameters(in.Parameters)
	for _, p := range stack.Parameters {
		key := aws.ToString(p.ParameterKey)
		if !in.Parameters.Has(key) {
			params = append(params, cfntypes.Parameter{
				ParameterKey:     aws.String(key),
				UsePreviousValue: aws.Bool(true),
			})
		}
	}

	out, err := s.client.UpdateStack(ctx, &cloudformation.UpdateStackInput{
		StackName:    aws.String(in.StackID),
		TemplateURL:  aws.String(in.TemplateURL),
		Parameters:   params,
		Tags:         stackTags(in.Tags),
		Capabilities: stackCapabilities,
	})
	if err != nil {
		if strings.Contains(err.Error(), noUpdatesMessage) {
			return in.StackID, nil
		}
		return "", newDeployError("update", resourceStack, in.StackID, err)
	}
	return aws.ToString(out.StackId), nil
}

// DeleteStack starts deleting the stack. Deleting a stack that no longer
// exists succeeds.
func (s *CloudFormationStacks) DeleteStack(ctx context.Context, stackID string) error {
	if _, err := s.client.DeleteStack(ctx, &cloudformation.DeleteStackInput{
		StackName: aws.String(stackID),
	}); err != nil {
		return newDeployError("delete", resourceStack, stackID, err)
	}
	return nil
}

// DescribeStack returns the current status of the stack, or
// usecase.ErrNotFound when it does not exist.
func (s *CloudFormationStacks) DescribeStack(ctx context.Context, stackID string) (*StackStatus, error) {
	stack, err := s.describe(ctx, stackID)
	if err != nil {
		if isStackNotFound(err) {
			return nil, usecase.ErrNotFound
		}
		return nil, newDeployError("describe", resourceStack, stackID, err)
	}

	outputs := make(map[string]string, len(stack.Outputs))
	for _, o := range stack.Outputs {
		outputs[aws.ToString(o.OutputKey)] = aws.ToString(o.OutputValue)
	}
	return newStackStatus(
		aws.ToString(stack.StackId),
		string(stack.StackStatus),
		aws.ToString(stack.StackStatusReason),
		outputs,
	), nil
}

func (s *CloudFormationStacks) describe(ctx context.Context, stackID string) (*cfntypes.Stack, error) {
	out, err := s.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackID),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Stacks) == 0 {
		return nil, fmt.Errorf("stack %s does not exist", stackID)
	}
	return &out.Stacks[0], nil
}

// isStackNotFound reports whether err is CloudFormation's "does not exist"
// validation error.
func isStackNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "does not exist")
}

func stackParameters(p *usecase.ParameterMap) []cfntypes.Parameter {
	params := make([]cfntypes.Parameter, 0, p.Len())
	for k, v := range p.All() {
		params = append(params, cfntypes.Parameter{
			ParameterKey:   aws.String(k),
			ParameterValue: aws.String(v),
		})
	}
	return params
}

// stackTags converts tags into CloudFormation tags sorted by key.
func stackTags(tags map[string]string) []cfntypes.Tag {
	out := make([]cfntypes.Tag, 0, len(tags))
	for _, k := range slices.Sorted(maps.Keys(tags)) {
		out = append(out, cfntypes.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}
	return out
}

// templateNames maps each use-case type to its template file.
var templateNames = map[usecase.Type]string{
	usecase.TypeText:         "BedrockChat.template",
	usecase.TypeAgent:        "BedrockAgent.template",
	usecase.TypeAgentBuilder: "AgentBuilder.template",
	usecase.TypeWorkflow:     "Workflow.template",
	usecase.TypeMCPServer:    "MCPServer.template",
}

// TemplateURL returns the template location of a use-case type under prefix.
func TemplateURL(prefix string, t usecase.Type) (string, error) {
	name, ok := templateNames[t]
	if !ok {
		return "", fmt.Errorf("no template for use case type %s", t)
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name, nil
}
