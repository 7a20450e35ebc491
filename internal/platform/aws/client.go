package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// User is a created IAM user.
type User struct {
	Name string
	ARN  string
	ID   string
}

// AccessKey is a created IAM access key.
type AccessKey struct {
	ID     string
	Secret string
}

// Role is a created IAM role.
type Role struct {
	Name string
	ARN  string
}

// IdentityManager manages IAM principals and policies.
type IdentityManager interface {
	CreateUser(ctx context.Context, name string, tags map[string]string) (*User, error)
	CreateAccessKey(ctx context.Context, userName string) (*AccessKey, error)
	DeleteAccessKey(ctx context.Context, userName, accessKeyID string) error
	DeleteUser(ctx context.Context, name string) error

	// CreatePolicy creates a customer-managed policy and returns its ARN.
	CreatePolicy(ctx context.Context, name, document string) (string, error)
	DeletePolicy(ctx context.Context, policyARN string) error
	AttachUserPolicy(ctx context.Context, userName, policyARN string) error
	DetachUserPolicy(ctx context.Context, userName, policyARN string) error

	CreateRole(ctx context.Context, name, trustDocument string, tags map[string]string) (*Role, error)
	DeleteRole(ctx context.Context, name string) error
	AttachRolePolicy(ctx context.Context, roleName, policyARN string) error
	DetachRolePolicy(ctx context.Context, roleName, policyARN string) error
}

// MailManager manages SES domain identities.
type MailManager interface {
	// VerifyDomainIdentity starts domain verification and returns the TXT token.
	VerifyDomainIdentity(ctx context.Context, domain string) (string, error)
	// VerifyDomainDkim returns the DKIM tokens to publish as CNAME records.
	VerifyDomainDkim(ctx context.Context, domain string) ([]string, error)
	SetMailFromDomain(ctx context.Context, identity, mailFromDomain string) error
	DeleteIdentity(ctx context.Context, identity string) error
}

// StorageManager manages the site bucket.
type StorageManager interface {
	CreateBucket(ctx context.Context, bucketName string) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutBucketWebsite(ctx context.Context, bucketName, indexDocument, errorDocument string) error
	DeletePublicAccessBlock(ctx context.Context, bucketName string) error
	PutBucketPolicy(ctx context.Context, bucketName, document string) error
	PutBucketTagging(ctx context.Context, bucketName string, tags map[string]string) error
	DeleteBucket(ctx context.Context, bucketName string) error
	// WebsiteEndpoint returns the static-website host serving bucketName.
	WebsiteEndpoint(bucketName string) string
}

// CloudManager is every AWS capability a site needs.
type CloudManager interface {
	IdentityManager
	MailManager
	StorageManager
}

// Client implements CloudManager.
type Client struct {
	iam    *iam.Client
	ses    *ses.Client
	s3     *s3.Client
	region string
}

var _ CloudManager = (*Client)(nil)

type options struct {
	profile   string
	region    string
	accessKey string
	secretKey string
	endpoint  string
}

// Option customizes how the client is configured. Without options the shell's
// AWS setup is inherited (AWS_PROFILE, shared config, environment, IMDS).
type Option func(*options)

// WithProfile sets the shared config profile.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithStaticCredentials uses fixed credentials instead of the default chain.
func WithStaticCredentials(accessKey, secretKey string) Option {
	return func(o *options) {
		o.accessKey = accessKey
		o.secretKey = secretKey
	}
}

// WithEndpoint points every service client at a single endpoint, e.g. a local
// emulator.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// NewClient loads the AWS configuration and creates the service clients.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRetryer(func() awssdk.Retryer { return awssdk.NopRetryer{} }),
	}
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.accessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.accessKey, o.secretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("no AWS region configured")
	}

	var endpoint *string
	if o.endpoint != "" {
		endpoint = awssdk.String(o.endpoint)
	}

	return &Client{
		iam: iam.NewFromConfig(cfg, func(opt *iam.Options) {
			opt.BaseEndpoint = endpoint
		}),
		ses: ses.NewFromConfig(cfg, func(opt *ses.Options) {
			opt.BaseEndpoint = endpoint
		}),
		s3: s3.NewFromConfig(cfg, func(opt *s3.Options) {
			opt.BaseEndpoint = endpoint
			opt.UsePathStyle = endpoint != nil
		}),
		region: cfg.Region,
	}, nil
}

// Region returns the region the client operates in.
func (c *Client) Region() string {
	return c.region
}
