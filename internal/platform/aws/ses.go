package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// VerifyDomainIdentity registers domain as an SES identity.
func (c *Client) VerifyDomainIdentity(ctx context.Context, domain string) (string, error) {
	out, err := c.ses.VerifyDomainIdentity(ctx, &ses.VerifyDomainIdentityInput{
		Domain: awssdk.String(domain),
	})
	if err != nil {
		return "", fmt.Errorf("failed to verify domain identity %s: %w", domain, err)
	}
	token := awssdk.ToString(out.VerificationToken)
	if token == "" {
		return "", fmt.Errorf("failed to verify domain identity %s: no verification token", domain)
	}
	return token, nil
}

// VerifyDomainDkim enables Easy DKIM for domain.
func (c *Client) VerifyDomainDkim(ctx context.Context, domain string) ([]string, error) {
	out, err := c.ses.VerifyDomainDkim(ctx, &ses.VerifyDomainDkimInput{
		Domain: awssdk.String(domain),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify DKIM for %s: %w", domain, err)
	}
	return out.DkimTokens, nil
}

// SetMailFromDomain configures the custom MAIL FROM domain of identity.
func (c *Client) SetMailFromDomain(ctx context.Context, identity, mailFromDomain string) error {
	_, err := c.ses.SetIdentityMailFromDomain(ctx, &ses.SetIdentityMailFromDomainInput{
		Identity:            awssdk.String(identity),
		MailFromDomain:      awssdk.String(mailFromDomain),
		BehaviorOnMXFailure: sestypes.BehaviorOnMXFailureUseDefaultValue,
	})
	if err != nil {
		return fmt.Errorf("failed to set MAIL FROM domain %s on %s: %w", mailFromDomain, identity, err)
	}
	return nil
}

// DeleteIdentity removes an SES identity. SES reports success for unknown
// identities.
func (c *Client) DeleteIdentity(ctx context.Context, identity string) error {
	_, err := c.ses.DeleteIdentity(ctx, &ses.DeleteIdentityInput{
		Identity: awssdk.String(identity),
	})
	if err != nil {
		return fmt.Errorf("failed to delete identity %s: %w", identity, err)
	}
	return nil
}
