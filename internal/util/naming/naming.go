package naming

import "fmt"

// Naming functions for site resources.

func SiteDomain(project, domain string) string {
	return fmt.Sprintf("%s.%s", project, domain)
}

func Bucket(project, domain string) string {
	return SiteDomain(project, domain)
}

func DeployUser(project string) string {
	return fmt.Sprintf("%s-deploy", project)
}

func DeployPolicy(project string) string {
	return fmt.Sprintf("%s-s3", project)
}

func LambdaRole(project string) string {
	return fmt.Sprintf("%s-lambda", project)
}

func SendPolicy(project string) string {
	return fmt.Sprintf("%s-ses-send", project)
}

func MailFromDomain(prefix, project, domain string) string {
	return fmt.Sprintf("%s.%s", prefix, SiteDomain(project, domain))
}

func Repository(project string) string {
	return project
}

// MailVerificationRecord is the TXT record name SES checks for domain ownership.
func MailVerificationRecord(site string) string {
	return fmt.Sprintf("_amazonses.%s", site)
}

// DKIMRecord is the CNAME name published for one DKIM token.
func DKIMRecord(token, site string) string {
	return fmt.Sprintf("%s._domainkey.%s", token, site)
}

// DKIMTarget is the CNAME target for one DKIM token.
func DKIMTarget(token string) string {
	return fmt.Sprintf("%s.dkim.amazonses.com", token)
}

// MailFeedbackHost is the SES MX host for MAIL FROM sub-domains in a region.
func MailFeedbackHost(region string) string {
	return fmt.Sprintf("feedback-smtp.%s.amazonses.com", region)
}

// dashWebsiteRegions still serve static websites from s3-website-<region>;
// every other region uses s3-website.<region>.
var dashWebsiteRegions = map[string]bool{
	"us-east-1":      true,
	"us-west-1":      true,
	"us-west-2":      true,
	"eu-west-1":      true,
	"ap-southeast-1": true,
	"ap-southeast-2": true,
	"ap-northeast-1": true,
	"sa-east-1":      true,
}

// WebsiteEndpoint is the S3 static-website host for a bucket.
func WebsiteEndpoint(bucket, region string) string {
	if dashWebsiteRegions[region] {
		return fmt.Sprintf("%s.s3-website-%s.amazonaws.com", bucket, region)
	}
	return fmt.Sprintf("%s.s3-website.%s.amazonaws.com", bucket, region)
}
