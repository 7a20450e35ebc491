package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/imamik/sitegen/internal/util/naming"
)

// defaultRegion does not accept an explicit location constraint.
const defaultRegion = "us-east-1"

// CreateBucket creates a bucket in the client's region.
// Returns nil if the bucket already exists and is owned by us.
func (c *Client) CreateBucket(ctx context.Context, bucketName string) error {
	input := &s3.CreateBucketInput{
		Bucket: awssdk.String(bucketName),
	}
	if c.region != "" && c.region != defaultRegion {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.region),
		}
	}

	_, err := c.s3.CreateBucket(ctx, input)
	if err != nil {
		if isBucketAlreadyOwnedByYou(err) {
			return nil
		}
		return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
	}
	return nil
}

// BucketExists checks if a bucket exists and is accessible.
func (c *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: awssdk.String(bucketName),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	return true, nil
}

// PutBucketWebsite enables static website hosting on the bucket.
func (c *Client) PutBucketWebsite(ctx context.Context, bucketName, indexDocument, errorDocument string) error {
	_, err := c.s3.PutBucketWebsite(ctx, &s3.PutBucketWebsiteInput{
		Bucket: awssdk.String(bucketName),
		WebsiteConfiguration: &s3types.WebsiteConfiguration{
			IndexDocument: &s3types.IndexDocument{Suffix: awssdk.String(indexDocument)},
			ErrorDocument: &s3types.ErrorDocument{Key: awssdk.String(errorDocument)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to configure website on bucket %s: %w", bucketName, err)
	}
	return nil
}

// DeletePublicAccessBlock lifts the account default that rejects public
// bucket policies.
func (c *Client) DeletePublicAccessBlock(ctx context.Context, bucketName string) error {
	_, err := c.s3.DeletePublicAccessBlock(ctx, &s3.DeletePublicAccessBlockInput{
		Bucket: awssdk.String(bucketName),
	})
	if err = ignoreNotFound(err); err != nil {
		return fmt.Errorf("failed to remove public access block on bucket %s: %w", bucketName, err)
	}
	return nil
}

// PutBucketPolicy replaces the bucket policy.
func (c *Client) PutBucketPolicy(ctx context.Context, bucketName, document string) error {
	_, err := c.s3.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: awssdk.String(bucketName),
		Policy: awssdk.String(document),
	})
	if err != nil {
		return fmt.Errorf("failed to put policy on bucket %s: %w", bucketName, err)
	}
	return nil
}

// PutBucketTagging replaces the bucket's tag set.
func (c *Client) PutBucketTagging(ctx context.Context, bucketName string, tags map[string]string) error {
	tagSet := make([]s3types.Tag, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		tagSet = append(tagSet, s3types.Tag{Key: awssdk.String(k), Value: awssdk.String(tags[k])})
	}

	_, err := c.s3.PutBucketTagging(ctx, &s3.PutBucketTaggingInput{
		Bucket:  awssdk.String(bucketName),
		Tagging: &s3types.Tagging{TagSet: tagSet},
	})
	if err != nil {
		return fmt.Errorf("failed to tag bucket %s: %w", bucketName, err)
	}
	return nil
}

// DeleteBucket deletes a bucket. The bucket must be empty.
func (c *Client) DeleteBucket(ctx context.Context, bucketName string) error {
	_, err := c.s3.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: awssdk.String(bucketName),
	})
	if err = ignoreNotFound(err); err != nil {
		return fmt.Errorf("failed to delete bucket %s: %w", bucketName, err)
	}
	return nil
}

// WebsiteEndpoint returns the static-website host of a bucket in the client's region.
func (c *Client) WebsiteEndpoint(bucketName string) string {
	return naming.WebsiteEndpoint(bucketName, c.region)
}
