package deploy

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	bactypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cogtypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// ---------- CloudFormation ----------

type fakeCFN struct {
	stack     *cfntypes.Stack
	describeE error
	updateE   error
	createIn  *cloudformation.CreateStackInput
	updateIn  *cloudformation.UpdateStackInput
	deleteIn  *cloudformation.DeleteStackInput
}

func (f *fakeCFN) CreateStack(
	_ context.Context, in *cloudformation.CreateStackInput, _ ...func(*cloudformation.Options),
) (*cloudformation.CreateStackOutput, error) {
	f.createIn = in
	return &cloudformation.CreateStackOutput{StackId: aws.String("stack-arn")}, nil
}

func (f *fakeCFN) UpdateStack(
	_ context.Context, in *cloudformation.UpdateStackInput, _ ...func(*cloudformation.Options),
) (*cloudformation.UpdateStackOutput, error) {
	f.updateIn = in
	if f.updateE != nil {
		return nil, f.updateE
	}
	return &cloudformation.UpdateStackOutput{StackId: in.StackName}, nil
}

func (f *fakeCFN) DeleteStack(
	_ context.Context, in *cloudformation.DeleteStackInput, _ ...func(*cloudformation.Options),
) (*cloudformation.DeleteStackOutput, error) {
	f.deleteIn = in
	return &cloudformation.DeleteStackOutput{}, nil
}

func (f *fakeCFN) DescribeStacks(
	_ context.Context, _ *cloudformation.DescribeStacksInput, _ ...func(*cloudformation.Options),
) (*cloudformation.DescribeStacksOutput, error) {
	if f.describeE != nil {
		return nil, f.describeE
	}
	if f.stack == nil {
		return &cloudformation.DescribeStacksOutput{}, nil
	}
	return &cloudformation.DescribeStacksOutput{Stacks: []cfntypes.Stack{*f.stack}}, nil
}

func paramsByKey(params []cfntypes.Parameter) map[string]cfntypes.Parameter {
	out := make(map[string]cfntypes.Parameter, len(params))
	for _, p := range params {
		out[aws.ToString(p.ParameterKey)] = p
	}
	return out
}

func TestCloudFormationStacks_Create(t *testing.T) {
	cfn := &fakeCFN{}
	params := usecase.NewParameterMap()
	params.Set(usecase.ParamUseCaseUUID, "id-1")
	params.Set(usecase.ParamRAGEnabled, "false")

	id, err := NewCloudFormationStacks(cfn).CreateStack(context.Background(), &StackInput{
		StackName:   "text-id1",
		TemplateURL: "https://t/BedrockChat.template",
		Parameters:  params,
		Tags:        map[string]string{"b": "2", "a": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "stack-arn", id)

	in := cfn.createIn
	assert.Equal(t, "text-id1", aws.ToString(in.StackName))
	require.Len(t, in.Parameters, 2)
	assert.Equal(t, usecase.ParamUseCaseUUID, aws.ToString(in.Parameters[0].ParameterKey), "parameter order is preserved")
	assert.Equal(t, "a", aws.ToString(in.Tags[0].Key), "tags are sorted")
	assert.Contains(t, in.Capabilities, cfntypes.CapabilityCapabilityNamedIam)
}

func TestCloudFormationStacks_UpdateKeepsPreviousValues(t *testing.T) {
	cfn := &fakeCFN{stack: &cfntypes.Stack{
		StackId: aws.String("stack-arn"),
		Parameters: []cfntypes.Parameter{
			{ParameterKey: aws.String(usecase.ParamUseCaseUUID), ParameterValue: aws.String("id-1")},
			{ParameterKey: aws.String(usecase.ParamDefaultUserEmail), ParameterValue: aws.String("a@example.com")},
		},
	}}
	params := usecase.NewParameterMap()
	params.Set(usecase.ParamUseCaseUUID, "id-1")

	_, err := NewCloudFormationStacks(cfn).UpdateStack(context.Background(), &StackInput{
		StackID:    "stack-arn",
		Parameters: params,
	})
	require.NoError(t, err)

	got := paramsByKey(cfn.updateIn.Parameters)
	require.Len(t, got, 2)
	assert.Equal(t, "id-1", aws.ToString(got[usecase.ParamUseCaseUUID].ParameterValue))
	email := got[usecase.ParamDefaultUserEmail]
	assert.True(t, aws.ToBool(email.UsePreviousValue))
	assert.Nil(t, email.ParameterValue)
}

func TestCloudFormationStacks_UpdateWithoutChanges(t *testing.T) {
	cfn := &fakeCFN{
		stack:   &cfntypes.Stack{StackId: aws.String("stack-arn")},
		updateE: &smithy.GenericAPIError{Code: "ValidationError", Message: "No updates are to be performed."},
	}
	id, err := NewCloudFormationStacks(cfn).UpdateStack(context.Background(), &StackInput{
		StackID: "stack-arn", Parameters: usecase.NewParameterMap(),
	})
	require.NoError(t, err)
	assert.Equal(t, "stack-arn", id)

	cfn.updateE = &smithy.GenericAPIError{Code: "ValidationError", Message: "Template format error"}
	_, err = NewCloudFormationStacks(cfn).UpdateStack(context.Background(), &StackInput{
		StackID: "stack-arn", Parameters: usecase.NewParameterMap(),
	})
	de := IsDeployError(err)
	require.NotNil(t, de)
	assert.Equal(t, ErrCategoryConfiguration, de.Category)
	assert.Equal(t, "update", de.Operation)
}

func TestCloudFormationStacks_Describe(t *testing.T) {
	cfn := &fakeCFN{stack: &cfntypes.Stack{
		StackId:     aws.String("stack-arn"),
		StackStatus: cfntypes.StackStatusCreateComplete,
		Outputs: []cfntypes.Output{
			{OutputKey: aws.String("WebConfigKey"), OutputValue: aws.String("cfg")},
		},
	}}
	stacks := NewCloudFormationStacks(cfn)

	st, err := stacks.DescribeStack(context.Background(), "stack-arn")
	require.NoError(t, err)
	assert.Equal(t, "CREATE_COMPLETE", st.Status)
	assert.Equal(t, StateDeployed, st.State)
	assert.Equal(t, map[string]string{"WebConfigKey": "cfg"}, st.Outputs)

	cfn.describeE = &smithy.GenericAPIError{Code: "ValidationError", Message: "Stack with id stack-arn does not exist"}
	_, err = stacks.DescribeStack(context.Background(), "stack-arn")
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	cfn.describeE = errors.New("dial tcp: connection refused")
	_, err = stacks.DescribeStack(context.Background(), "stack-arn")
	de := IsDeployError(err)
	require.NotNil(t, de)
	assert.Equal(t, ErrCategoryNetwork, de.Category)
}

func TestTemplateURL(t *testing.T) {
	for _, typ := range usecase.Types {
		url, err := TemplateURL("https://t/", typ)
		require.NoError(t, err, typ)
		assert.Regexp(t, `^https://t/[A-Za-z]+\.template$`, url)
	}
	_, err := TemplateURL("https://t", "Spreadsheet")
	assert.Error(t, err)
}

func TestClassifyStackStatus(t *testing.T) {
	tests := map[string]string{
		"CREATE_COMPLETE":                     StateDeployed,
		"UPDATE_COMPLETE":                     StateDeployed,
		"CREATE_IN_PROGRESS":                  StateInProgress,
		"UPDATE_COMPLETE_CLEANUP_IN_PROGRESS": StateInProgress,
		"DELETE_IN_PROGRESS":                  StateInProgress,
		"CREATE_FAILED":                       StateFailed,
		"ROLLBACK_COMPLETE":                   StateFailed,
		"UPDATE_ROLLBACK_COMPLETE":            StateFailed,
		"DELETE_COMPLETE":                     StateDeleted,
		"":                                    StateUnknown,
		"REVIEW_IN_PROGRESS":                  StateInProgress,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ClassifyStackStatus(raw), raw)
	}
}

// ---------- Cognito ----------

type fakeCognito struct {
	groupErr  error
	userErr   error
	added     []string
	deleteErr error
	pages     [][]string
	listErr   error
}

func (f *fakeCognito) AdminCreateUser(
	_ context.Context, _ *cognitoidentityprovider.AdminCreateUserInput, _ ...func(*cognitoidentityprovider.Options),
) (*cognitoidentityprovider.AdminCreateUserOutput, error) {
	return &cognitoidentityprovider.AdminCreateUserOutput{}, f.userErr
}

func (f *fakeCognito) CreateGroup(
	_ context.Context, _ *cognitoidentityprovider.CreateGroupInput, _ ...func(*cognitoidentityprovider.Options),
) (*cognitoidentityprovider.CreateGroupOutput, error) {
	return &cognitoidentityprovider.CreateGroupOutput{}, f.groupErr
}

func (f *fakeCognito) DeleteGroup(
	_ context.Context, _ *cognitoidentityprovider.DeleteGroupInput, _ ...func(*cognitoidentityprovider.Options),
) (*cognitoidentityprovider.DeleteGroupOutput, error) {
	return &cognitoidentityprovider.DeleteGroupOutput{}, f.deleteErr
}

func (f *fakeCognito) AdminAddUserToGroup(
	_ context.Context, in *cognitoidentityprovider.AdminAddUserToGroupInput, _ ...func(*cognitoidentityprovider.Options),
) (*cognitoidentityprovider.AdminAddUserToGroupOutput, error) {
	f.added = append(f.added, aws.ToString(in.Username)+"@"+aws.ToString(in.GroupName))
	return &cognitoidentityprovider.AdminAddUserToGroupOutput{}, nil
}

func (f *fakeCognito) AdminListGroupsForUser(
	_ context.Context, in *cognitoidentityprovider.AdminListGroupsForUserInput, _ ...func(*cognitoidentityprovider.Options),
) (*cognitoidentityprovider.AdminListGroupsForUserOutput, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	page := 0
	if in.NextToken != nil {
		page = 1
	}
	out := &cognitoidentityprovider.AdminListGroupsForUserOutput{}
	for _, g := range f.pages[page] {
		out.Groups = append(out.Groups, cogtypes.GroupType{GroupName: aws.String(g)})
	}
	if page+1 < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestCognitoDirectory_GrantAccess(t *testing.T) {
	cog := &fakeCognito{
		groupErr: &cogtypes.GroupExistsException{Message: aws.String("exists")},
		userErr:  &cogtypes.UsernameExistsException{Message: aws.String("exists")},
	}
	d := NewCognitoDirectory(cog)
	require.NoError(t, d.GrantAccess(context.Background(), "pool", "a@example.com", "abcd1234"))
	assert.Equal(t, []string{"a@example.com@abcd1234"}, cog.added)

	cog.userErr = &smithy.GenericAPIError{Code: "NotAuthorizedException", Message: "no"}
	err := d.GrantAccess(context.Background(), "pool", "a@example.com", "abcd1234")
	de := IsDeployError(err)
	require.NotNil(t, de)
	assert.Equal(t, ErrCategoryPermission, de.Category)
}

func TestCognitoDirectory_RemoveGroup(t *testing.T) {
	cog := &fakeCognito{deleteErr: &cogtypes.ResourceNotFoundException{Message: aws.String("gone")}}
	d := NewCognitoDirectory(cog)
	assert.NoError(t, d.RemoveGroup(context.Background(), "pool", "g"))

	cog.deleteErr = errors.New("boom")
	assert.Error(t, d.RemoveGroup(context.Background(), "pool", "g"))
}

func TestCognitoDirectory_InGroupFollowsPages(t *testing.T) {
	cog := &fakeCognito{pages: [][]string{{"users"}, {"admin"}}}
	d := NewCognitoDirectory(cog)

	ok, err := d.InGroup(context.Background(), "pool", "root", "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.InGroup(context.Background(), "pool", "root", "auditors")
	require.NoError(t, err)
	assert.False(t, ok)

	cog.listErr = &cogtypes.UserNotFoundException{Message: aws.String("no user")}
	ok, err = d.InGroup(context.Background(), "pool", "ghost", "admin")
	require.NoError(t, err)
	assert.False(t, ok)
}

// ---------- S3 presign ----------

type fakePresignAPI struct {
	input *s3.PutObjectInput
	opts  s3.PresignOptions
}

func (f *fakePresignAPI) PresignPutObject(
	_ context.Context, in *s3.PutObjectInput, opts ...func(*s3.PresignOptions),
) (*v4.PresignedHTTPRequest, error) {
	f.input = in
	for _, o := range opts {
		o(&f.opts)
	}
	return &v4.PresignedHTTPRequest{
		URL:    "https://schemas.s3.amazonaws.com/" + aws.ToString(in.Key) + "?X-Amz-Signature=abc",
		Method: http.MethodPut,
		SignedHeader: http.Header{
			"Host":          []string{"schemas.s3.amazonaws.com"},
			"X-Amz-Tagging": []string{aws.ToString(in.Tagging)},
		},
	}, nil
}

func TestSchemaPresigner(t *testing.T) {
	api := &fakePresignAPI{}
	p := NewSchemaPresigner(api, "schemas")

	up, err := p.PresignUpload(context.Background(), "mcp/schemas/openApiSchema/x.json", map[string]string{
		usecase.TagKeyCreatedBy: "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "schemas", aws.ToString(api.input.Bucket))
	assert.Equal(t, "usecase%3Acreated-by=alice", aws.ToString(api.input.Tagging))
	assert.Equal(t, defaultUploadExpiry, api.opts.Expires)
	assert.Equal(t, http.MethodPut, up.Method)
	assert.Equal(t, 900, up.ExpiresIn)
	assert.NotContains(t, up.Headers, "Host")
	assert.Equal(t, "usecase%3Acreated-by=alice", up.Headers["X-Amz-Tagging"])
}

// ---------- AgentCore gateway ----------

type fakeGatewayAPI struct {
	calls int
	err   error
}

func (f *fakeGatewayAPI) GetGateway(
	_ context.Context, in *bedrockagentcorecontrol.GetGatewayInput, _ ...func(*bedrockagentcorecontrol.Options),
) (*bedrockagentcorecontrol.GetGatewayOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	id := aws.ToString(in.GatewayIdentifier)
	return &bedrockagentcorecontrol.GetGatewayOutput{
		GatewayId:  aws.String(id),
		GatewayArn: aws.String("arn:aws:bedrock-agentcore:us-east-1:111122223333:gateway/" + id),
		GatewayUrl: aws.String("https://" + id + ".gateway.bedrock-agentcore.us-east-1.amazonaws.com/mcp"),
		Name:       aws.String("from-api"),
	}, nil
}

func TestAgentCoreGatewayResolver(t *testing.T) {
	api := &fakeGatewayAPI{}
	r := NewAgentCoreGatewayResolver(api)
	ctx := context.Background()

	name := "mine"
	gw := &usecase.GatewayParams{GatewayID: aws.String("gw-1"), GatewayName: &name}
	require.NoError(t, r.ResolveGateway(ctx, gw))
	assert.Equal(t, "arn:aws:bedrock-agentcore:us-east-1:111122223333:gateway/gw-1", aws.ToString(gw.GatewayArn))
	assert.Equal(t, "mine", *gw.GatewayName, "caller-provided fields are kept")

	require.NoError(t, r.ResolveGateway(ctx, gw))
	assert.Equal(t, 1, api.calls, "fully described gateways are not looked up again")

	require.NoError(t, r.ResolveGateway(ctx, &usecase.GatewayParams{}))
	require.NoError(t, r.ResolveGateway(ctx, nil))
	assert.Equal(t, 1, api.calls)

	api.err = &bactypes.ResourceNotFoundException{Message: aws.String("no gateway")}
	err := r.ResolveGateway(ctx, &usecase.GatewayParams{GatewayID: aws.String("gw-2")})
	require.Error(t, err)
	assert.NotNil(t, usecase.IsValidationError(err))
}

// ---------- STS ----------

type fakeSTS struct{ err error }

func (f fakeSTS) GetCallerIdentity(
	_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options),
) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String("111122223333")}, nil
}

func TestResolveAccountID(t *testing.T) {
	id, err := ResolveAccountID(context.Background(), fakeSTS{})
	require.NoError(t, err)
	assert.Equal(t, "111122223333", id)

	_, err = ResolveAccountID(context.Background(), fakeSTS{err: errors.New("expired token")})
	assert.Error(t, err)
}

// ---------- errors ----------

func TestClassifyAWSError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category string
	}{
		{"api access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, ErrCategoryPermission},
		{"api throttling", &smithy.GenericAPIError{Code: "Throttling"}, ErrCategoryThrottling},
		{"api already exists", &smithy.GenericAPIError{Code: "AlreadyExistsException"}, ErrCategoryConfiguration},
		{"unknown api code falls back to message", &smithy.GenericAPIError{Code: "Weird", Message: "invalid thing"}, ErrCategoryConfiguration},
		{"network", errors.New("dial tcp 10.0.0.1:443: i/o timeout"), ErrCategoryNetwork},
		{"forbidden", errors.New("403 Forbidden"), ErrCategoryPermission},
		{"rate exceeded", errors.New("Rate exceeded"), ErrCategoryThrottling},
		{"other", errors.New("something broke"), ErrCategoryResource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, _ := classifyAWSError(tt.err)
			assert.Equal(t, tt.category, category)
		})
	}
}

func TestDeployError(t *testing.T) {
	cause := &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
	err := newDeployError("create", resourceStack, "text-abc", cause)

	assert.Contains(t, err.Error(), "create stack text-abc: ")
	assert.Contains(t, err.Error(), "[hint: ")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "AccessDenied", apiErrorCode(err))
	assert.Nil(t, IsDeployError(errors.New("plain")))
}
