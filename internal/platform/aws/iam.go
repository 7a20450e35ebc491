package aws

import (
	"context"
	"fmt"
	"sort"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// CreateUser creates an IAM user with the given tags.
func (c *Client) CreateUser(ctx context.Context, name string, tags map[string]string) (*User, error) {
	out, err := c.iam.CreateUser(ctx, &iam.CreateUserInput{
		UserName: awssdk.String(name),
		Tags:     iamTags(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", name, err)
	}
	if out.User == nil {
		return nil, fmt.Errorf("failed to create user %s: empty response", name)
	}
	return &User{
		Name: awssdk.ToString(out.User.UserName),
		ARN:  awssdk.ToString(out.User.Arn),
		ID:   awssdk.ToString(out.User.UserId),
	}, nil
}

// CreateAccessKey creates an access key for the user. The secret is only
// available in this response.
func (c *Client) CreateAccessKey(ctx context.Context, userName string) (*AccessKey, error) {
	out, err := c.iam.CreateAccessKey(ctx, &iam.CreateAccessKeyInput{
		UserName: awssdk.String(userName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create access key for %s: %w", userName, err)
	}
	if out.AccessKey == nil {
		return nil, fmt.Errorf("failed to create access key for %s: empty response", userName)
	}
	return &AccessKey{
		ID:     awssdk.ToString(out.AccessKey.AccessKeyId),
		Secret: awssdk.ToString(out.AccessKey.SecretAccessKey),
	}, nil
}

// DeleteAccessKey deletes an access key of the user.
func (c *Client) DeleteAccessKey(ctx context.Context, userName, accessKeyID string) error {
	_, err := c.iam.DeleteAccessKey(ctx, &iam.DeleteAccessKeyInput{
		UserName:    awssdk.String(userName),
		AccessKeyId: awssdk.String(accessKeyID),
	})
	if err = ignoreNotFound(err); err != nil {
		return fmt.Errorf("failed to delete access key %s: %w", accessKeyID, err)
	}
	return nil
}

// DeleteUser deletes an IAM user. Keys and attached policies must be removed first.
func (c *Client) DeleteUser(ctx context.Context, name string) error {
	_, err := c.iam.DeleteUser(ctx, &iam.DeleteUserInput{
		UserName: awssdk.String(name),
	})
	if err = ignoreNotFound(err); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", name, err)
	}
	return nil
}

// CreatePolicy creates a customer-managed policy.
func (c *Client) CreatePolicy(ctx context.Context, name, document string) (string, error) {
	out, err := c.iam.CreatePolicy(ctx, &iam.CreatePolicyInput{
		PolicyName:     awssdk.String(name),
		PolicyDocument: awssdk.String(document),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create policy %s: %w", name, err)
	}
	if out.Policy == nil || out.Policy.Arn == nil {
		return "", fmt.Errorf("failed to create policy %s: empty response", name)
	}
	return *out.Policy.Arn, nil
}

// DeletePolicy deletes a customer-managed policy. It must be detached first.
func (c *Client) DeletePolicy(ctx context.Context, policyARN string) error {
	_, err := c.iam.DeletePolicy(ctx, &iam.DeletePolicyInput{
		PolicyArn: awssdk.String(policyARN),
	})
	if err = ignoreNotFound(err); err != nil {
		return fmt.Errorf("failed to delete policy %s: %w", policyARN, err)
	}
	return nil
}

// AttachUserPolicy attaches a managed policy to a user.
func (c *Client) AttachUserPolicy(ctx context.Context, userName, policyARN string) error {
	_, err := c.iam.AttachUserPolicy(ctx, &iam.AttachUserPolicyInput{
		UserName:  awssdk.String(userName),
		PolicyArn: awssdk.String(policyARN),
	})
	if err != nil {
		return fmt.Errorf("failed to attach policy %s to user %s: %w", policyARN, userName, err)
	}
	return nil
}

// DetachUserPolicy detaches a managed policy from a user.
func (c *Client) DetachUserPolicy(ctx context.Context, userName, policyARN string) error {
	_, err := c.iam.DetachUserPolicy(ctx, &iam.DetachUserPolicyInput{
		UserName:  awssdk.String(userName),
		PolicyArn: awssdk.String(policyARN),
	})
	if err = ignoreNotFound(err); err != nil {
		return fmt.Errorf("failed to detach policy %s from user %s: %w", policyARN, userName, err)
	}
	return nil
}

// CreateRole creates a role assumable per trustDocument.
func (c *Client) CreateRole(ctx context.Context, name, trustDocument string, tags map[string]string) (*Role, error) {
	out, err := c.iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 awssdk.String(name),
		AssumeRolePolicyDocument: awssdk.String(trustDocument),
		Tags:                     iamTags(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create role %s: %w", name, err)
	}
	if out.Role == nil {
		return nil, fmt.Errorf("failed to create role %s: empty response", name)
	}
	return &Role{
		Name: awssdk.ToString(out.Role.RoleName),
		ARN:  awssdk.ToString(out.Role.Arn),
	}, nil
}

// DeleteRole deletes a role. Attached policies must be detached first.
func (c *Client) DeleteRole(ctx context.Context, name string) error {
	_, err := c.iam.DeleteRole(ctx, &iam.DeleteRoleInput{
		RoleName: awssdk.String(name),
	})
	if err = ignoreNotFound(err); err != nil {
		return fmt.Errorf("failed to delete role %s: %w", name, err)
	}
	return nil
}

// AttachRolePolicy attaches a managed policy to a role.
func (c *Client) AttachRolePolicy(ctx context.Context, roleName, policyARN string) error {
	_, err := c.iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  awssdk.String(roleName),
		PolicyArn: awssdk.String(policyARN),
	})
	if err != nil {
		return fmt.Errorf("failed to attach policy %s to role %s: %w", policyARN, roleName, err)
	}
	return nil
}

// DetachRolePolicy detaches a managed policy from a role.
func (c *Client) DetachRolePolicy(ctx context.Context, roleName, policyARN string) error {
	_, err := c.iam.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
		RoleName:  awssdk.String(roleName),
		PolicyArn: awssdk.String(policyARN),
	})
	if err = ignoreNotFound(err); err != nil {
		return fmt.Errorf("failed to detach policy %s from role %s: %w", policyARN, roleName, err)
	}
	return nil
}

func iamTags(tags map[string]string) []iamtypes.Tag {
	if len(tags) == 0 {
		return nil
	}
	out := make([]iamtypes.Tag, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		out = append(out, iamtypes.Tag{Key: awssdk.String(k), Value: awssdk.String(tags[k])})
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
