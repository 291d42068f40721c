package deploy

import (
	"context"
	"errors"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cogtypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// CognitoAPI abstracts the Cognito user pool API for testing.
type CognitoAPI interface {
	AdminCreateUser(
		ctx context.Context,
		input *cognitoidentityprovider.AdminCreateUserInput,
		opts ...func(*cognitoidentityprovider.Options),
	) (*cognitoidentityprovider.AdminCreateUserOutput, error)

	CreateGroup(
		ctx context.Context,
		input *cognitoidentityprovider.CreateGroupInput,
		opts ...func(*cognitoidentityprovider.Options),
	) (*cognitoidentityprovider.CreateGroupOutput, error)

	DeleteGroup(
		ctx context.Context,
		input *cognitoidentityprovider.DeleteGroupInput,
		opts ...func(*cognitoidentityprovider.Options),
	) (*cognitoidentityprovider.DeleteGroupOutput, error)

	AdminAddUserToGroup(
		ctx context.Context,
		input *cognitoidentityprovider.AdminAddUserToGroupInput,
		opts ...func(*cognitoidentityprovider.Options),
	) (*cognitoidentityprovider.AdminAddUserToGroupOutput, error)

	AdminListGroupsForUser(
		ctx context.Context,
		input *cognitoidentityprovider.AdminListGroupsForUserInput,
		opts ...func(*cognitoidentityprovider.Options),
	) (*cognitoidentityprovider.AdminListGroupsForUserOutput, error)
}

// Directory manages the users and groups that may access use cases.
type Directory interface {
	// GrantAccess makes sure email exists in the pool and belongs to group,
	// creating both as needed.
	GrantAccess(ctx context.Context, poolID, email, group string) error
	// RemoveGroup deletes group. A missing group is not an error.
	RemoveGroup(ctx context.Context, poolID, group string) error
	// InGroup reports whether user belongs to group.
	InGroup(ctx context.Context, poolID, user, group string) (bool, error)
}

// CognitoDirectory is the Directory backed by a Cognito user pool.
type CognitoDirectory struct {
	client CognitoAPI
}

// NewCognitoDirectory creates a Directory over client.
func NewCognitoDirectory(client CognitoAPI) *CognitoDirectory {
	return &CognitoDirectory{client: client}
}

// GrantAccess implements Directory.
func (d *CognitoDirectory) GrantAccess(ctx context.Context, poolID, email, group string) error {
	_, err := d.client.CreateGroup(ctx, &cognitoidentityprovider.CreateGroupInput{
		UserPoolId: aws.String(poolID),
		GroupName:  aws.String(group),
	})
	var groupExists *cogtypes.GroupExistsException
	if err != nil && !errors.As(err, &groupExists) {
		return newDeployError("create", resourceUser, group, err)
	}

	_, err = d.client.AdminCreateUser(ctx, &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId: aws.String(poolID),
		Username:   aws.String(email),
		UserAttributes: []cogtypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
		},
		DesiredDeliveryMediums: []cogtypes.DeliveryMediumType{cogtypes.DeliveryMediumTypeEmail},
	})
	var userExists *cogtypes.UsernameExistsException
	if err != nil && !errors.As(err, &userExists) {
		return newDeployError("create", resourceUser, email, err)
	}

	if _, err := d.client.AdminAddUserToGroup(ctx, &cognitoidentityprovider.AdminAddUserToGroupInput{
		UserPoolId: aws.String(poolID),
		Username:   aws.String(email),
		GroupName:  aws.String(group),
	}); err != nil {
		return newDeployError("update", resourceUser, email, err)
	}
	return nil
}

// RemoveGroup implements Directory.
func (d *CognitoDirectory) RemoveGroup(ctx context.Context, poolID, group string) error {
	_, err := d.client.DeleteGroup(ctx, &cognitoidentityprovider.DeleteGroupInput{
		UserPoolId: aws.String(poolID),
		GroupName:  aws.String(group),
	})
	var notFound *cogtypes.ResourceNotFoundException
	if err != nil && !errors.As(err, &notFound) {
		return newDeployError("delete", resourceUser, group, err)
	}
	return nil
}

// InGroup implements Directory. It follows pagination until the group is
// found or the user's groups are exhausted.
func (d *CognitoDirectory) InGroup(ctx context.Context, poolID, user, group string) (bool, error) {
	var next *string
	for {
		out, err := d.client.AdminListGroupsForUser(ctx, &cognitoidentityprovider.AdminListGroupsForUserInput{
			UserPoolId: aws.String(poolID),
			Username:   aws.String(user),
			NextToken:  next,
		})
		if err != nil {
			var notFound *cogtypes.UserNotFoundException
			if errors.As(err, &notFound) {
				return false, nil
			}
			return false, newDeployError("list", resourceUser, user, err)
		}
		if slices.ContainsFunc(out.Groups, func(g cogtypes.GroupType) bool {
			return aws.ToString(g.GroupName) == group
		}) {
			return true, nil
		}
		if aws.ToString(out.NextToken) == "" {
			return false, nil
		}
		next = out.NextToken
	}
}
