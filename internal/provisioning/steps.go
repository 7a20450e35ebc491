package provisioning

import (
	"fmt"
	"path/filepath"

	"github.com/imamik/sitegen/internal/config"
	"github.com/imamik/sitegen/internal/manifest"
	"github.com/imamik/sitegen/internal/platform/cloudflare"
	"github.com/imamik/sitegen/internal/policy"
	"github.com/imamik/sitegen/internal/scaffold"
	"github.com/imamik/sitegen/internal/util/naming"
	"github.com/imamik/sitegen/internal/util/tags"
)

// Step names, in catalogue order.
const (
	StepDeployUser               = "deploy-user"
	StepDeployAccessKey          = "deploy-access-key"
	StepDeployPolicy             = "deploy-policy"
	StepDeployPolicyAttachment   = "deploy-policy-attachment"
	StepLambdaRole               = "lambda-role"
	StepLambdaExecutionPolicy    = "lambda-execution-policy"
	StepMailSendPolicy           = "mail-send-policy"
	StepMailSendPolicyAttachment = "mail-send-policy-attachment"
	StepMailIdentity             = "mail-identity"
	StepMailFromDomain           = "mail-from-domain"
	StepSiteBucket               = "site-bucket"
	StepSiteWebsite              = "site-website"
	StepSitePolicy               = "site-policy"
	StepSiteTags                 = "site-tags"
	StepSiteRecord               = "site-record"
	StepDNSZone                  = "dns-zone"
	StepDNSRecords               = "dns-records"
	StepSourceRepo               = "source-repo"
	StepScaffold                 = "scaffold"
)

const (
	// LambdaExecutePolicyARN is the AWS managed policy attached to the Lambda role.
	LambdaExecutePolicyARN = "arn:aws:iam::aws:policy/AWSLambdaExecute"

	mailFromMXPriority = 10
	mailFromSPF        = `"v=spf1 include:amazonses.com ~all"`
)

// Steps returns the saga catalogue. Forward order is list order; teardown
// walks the same list backwards.
func Steps() []Step {
	return []Step{
		{
			Name:       StepDeployUser,
			Forward:    createDeployUser,
			Applies:    (*manifest.Manifest).HasDeployUser,
			Compensate: deleteDeployUser,
		},
		{
			Name:       StepDeployAccessKey,
			Forward:    createDeployAccessKey,
			Applies:    (*manifest.Manifest).HasAccessKey,
			Compensate: deleteDeployAccessKey,
		},
		{
			Name:       StepDeployPolicy,
			Forward:    createDeployPolicy,
			Applies:    (*manifest.Manifest).HasDeployPolicy,
			Compensate: deleteDeployPolicy,
		},
		{
			Name:    StepDeployPolicyAttachment,
			Forward: attachDeployPolicy,
			Applies:    (*manifest.Manifest).HasDeployPolicyAttachment,
			Compensate: detachDeployPolicy,
		},
		{
			Name:       StepLambdaRole,
			Enabled:    lambdaEnabled,
			Forward:    createLambdaRole,
			Applies:    (*manifest.Manifest).HasLambda,
			Compensate: deleteLambdaRole,
		},
		{
			Name:       StepLambdaExecutionPolicy,
			Enabled:    lambdaEnabled,
			Forward:    attachLambdaExecutionPolicy,
			Applies:    (*manifest.Manifest).HasLambdaExecutionPolicy,
			Compensate: detachLambdaExecutionPolicy,
		},
		{
			Name:       StepMailSendPolicy,
			Enabled:    sendPolicyEnabled,
			Forward:    createSendPolicy,
			Applies:    (*manifest.Manifest).HasSendPolicy,
			Compensate: deleteSendPolicy,
		},
		{
			Name:    StepMailSendPolicyAttachment,
			Enabled: sendPolicyEnabled,
			Forward: attachSendPolicy,
			Applies:    (*manifest.Manifest).HasSendPolicyAttachment,
			Compensate: detachSendPolicy,
		},
		{
			Name:       StepMailIdentity,
			Enabled:    sesEnabled,
			Forward:    createMailIdentity,
			Applies:    (*manifest.Manifest).HasMailIdentity,
			Compensate: deleteMailIdentity,
		},
		{
			Name:    StepMailFromDomain,
			Enabled: sesEnabled,
			Forward: setMailFromDomain,
		},
		{
			Name:       StepSiteBucket,
			Forward:    createSiteBucket,
			Applies:    (*manifest.Manifest).HasBucket,
			Compensate: deleteSiteBucket,
		},
		{
			Name:    StepSiteWebsite,
			Forward: configureSiteWebsite,
		},
		{
			Name:    StepSitePolicy,
			Forward: publishSitePolicy,
		},
		{
			Name:    StepSiteTags,
			Forward: tagSiteBucket,
		},
		{
			Name:    StepSiteRecord,
			Forward: addSiteRecord,
		},
		{
			Name:    StepDNSZone,
			Enabled: func(cfg config.Config) bool { return cfg.UseDNSProvider },
			Forward: ensureDNSZone,
		},
		{
			Name:    StepDNSRecords,
			Enabled: func(cfg config.Config) bool { return cfg.UseDNSProvider },
			Forward: publishDNSRecords,
		},
		{
			Name:    StepSourceRepo,
			Enabled: func(cfg config.Config) bool { return cfg.CreateSourceRepo },
			Forward: createSourceRepo,
		},
		{
			Name:    StepScaffold,
			Enabled: func(cfg config.Config) bool { return cfg.ScaffoldProject },
			Forward: scaffoldProject,
		},
	}
}

func lambdaEnabled(cfg config.Config) bool { return cfg.CreateLambda }

func sesEnabled(cfg config.Config) bool { return cfg.CreateSES }

func sendPolicyEnabled(cfg config.Config) bool { return cfg.CreateLambda && cfg.CreateSES }

// Deploy user.

func createDeployUser(ctx *Context) error {
	name := naming.DeployUser(ctx.Config.Project)
	LogResourceCreating(ctx.Observer, StepDeployUser, "iam user", name)

	user, err := ctx.AWS.CreateUser(ctx, name, tags.ForProject(ctx.Config.Project))
	if err != nil {
		return providerError(ProviderIAM, "CreateUser", err)
	}

	ctx.Manifest.Deploy.UserName = user.Name
	ctx.Manifest.Deploy.UserARN = user.ARN
	ctx.Manifest.Deploy.UserID = user.ID
	LogResourceCreated(ctx.Observer, StepDeployUser, "iam user", user.Name, user.ARN)
	return nil
}

func deleteDeployUser(ctx *Context, m *manifest.Manifest) error {
	LogResourceDeleting(ctx.Observer, StepDeployUser, "iam user", m.Deploy.UserName)
	if err := ctx.AWS.DeleteUser(ctx, m.Deploy.UserName); err != nil {
		return providerError(ProviderIAM, "DeleteUser", err)
	}
	LogResourceDeleted(ctx.Observer, StepDeployUser, "iam user", m.Deploy.UserName)
	return nil
}

func createDeployAccessKey(ctx *Context) error {
	user := ctx.Manifest.Deploy.UserName
	LogResourceCreating(ctx.Observer, StepDeployAccessKey, "access key", user)

	key, err := ctx.AWS.CreateAccessKey(ctx, user)
	if err != nil {
		return providerError(ProviderIAM, "CreateAccessKey", err)
	}

	ctx.Manifest.Deploy.AccessKey = manifest.AccessKey{ID: key.ID, Secret: key.Secret}
	LogResourceCreated(ctx.Observer, StepDeployAccessKey, "access key", user, key.ID)
	return nil
}

func deleteDeployAccessKey(ctx *Context, m *manifest.Manifest) error {
	LogResourceDeleting(ctx.Observer, StepDeployAccessKey, "access key", m.Deploy.AccessKey.ID)
	if err := ctx.AWS.DeleteAccessKey(ctx, m.Deploy.UserName, m.Deploy.AccessKey.ID); err != nil {
		return providerError(ProviderIAM, "DeleteAccessKey", err)
	}
	LogResourceDeleted(ctx.Observer, StepDeployAccessKey, "access key", m.Deploy.AccessKey.ID)
	return nil
}

func createDeployPolicy(ctx *Context) error {
	document, err := ctx.render(policy.S3DeployPerms)
	if err != nil {
		return err
	}

	name := naming.DeployPolicy(ctx.Config.Project)
	LogResourceCreating(ctx.Observer, StepDeployPolicy, "iam policy", name)

	arn, err := ctx.AWS.CreatePolicy(ctx, name, document)
	if err != nil {
		return providerError(ProviderIAM, "CreatePolicy", err)
	}

	ctx.Manifest.Deploy.PolicyARN = arn
	LogResourceCreated(ctx.Observer, StepDeployPolicy, "iam policy", name, arn)
	return nil
}

func deleteDeployPolicy(ctx *Context, m *manifest.Manifest) error {
	LogResourceDeleting(ctx.Observer, StepDeployPolicy, "iam policy", m.Deploy.PolicyARN)
	if err := ctx.AWS.DeletePolicy(ctx, m.Deploy.PolicyARN); err != nil {
		return providerError(ProviderIAM, "DeletePolicy", err)
	}
	LogResourceDeleted(ctx.Observer, StepDeployPolicy, "iam policy", m.Deploy.PolicyARN)
	return nil
}

func attachDeployPolicy(ctx *Context) error {
	d := ctx.Manifest.Deploy
	if err := ctx.AWS.AttachUserPolicy(ctx, d.UserName, d.PolicyARN); err != nil {
		return providerError(ProviderIAM, "AttachUserPolicy", err)
	}
	ctx.Manifest.Deploy.PolicyAttached = true
	ctx.Observer.Printf("[%s] Attached %s to %s", StepDeployPolicyAttachment, d.PolicyARN, d.UserName)
	return nil
}

func detachDeployPolicy(ctx *Context, m *manifest.Manifest) error {
	if err := ctx.AWS.DetachUserPolicy(ctx, m.Deploy.UserName, m.Deploy.PolicyARN); err != nil {
		return providerError(ProviderIAM, "DetachUserPolicy", err)
	}
	return nil
}

// Lambda role.

func createLambdaRole(ctx *Context) error {
	trust, err := ctx.render(policy.LambdaExecutionRole)
	if err != nil {
		return err
	}

	name := naming.LambdaRole(ctx.Config.Project)
	LogResourceCreating(ctx.Observer, StepLambdaRole, "iam role", name)

	role, err := ctx.AWS.CreateRole(ctx, name, trust, tags.ForProject(ctx.Config.Project))
	if err != nil {
		return providerError(ProviderIAM, "CreateRole", err)
	}

	ctx.Manifest.Lambda = &manifest.Lambda{RoleName: role.Name, RoleARN: role.ARN}
	LogResourceCreated(ctx.Observer, StepLambdaRole, "iam role", role.Name, role.ARN)
	return nil
}

func deleteLambdaRole(ctx *Context, m *manifest.Manifest) error {
	LogResourceDeleting(ctx.Observer, StepLambdaRole, "iam role", m.Lambda.RoleName)
	if err := ctx.AWS.DeleteRole(ctx, m.Lambda.RoleName); err != nil {
		return providerError(ProviderIAM, "DeleteRole", err)
	}
	LogResourceDeleted(ctx.Observer, StepLambdaRole, "iam role", m.Lambda.RoleName)
	return nil
}

func attachLambdaExecutionPolicy(ctx *Context) error {
	role := ctx.Manifest.Lambda.RoleName
	if err := ctx.AWS.AttachRolePolicy(ctx, role, LambdaExecutePolicyARN); err != nil {
		return providerError(ProviderIAM, "AttachRolePolicy", err)
	}
	ctx.Manifest.Lambda.ExecutionPolicyAttached = true
	return nil
}

func detachLambdaExecutionPolicy(ctx *Context, m *manifest.Manifest) error {
	if err := ctx.AWS.DetachRolePolicy(ctx, m.Lambda.RoleName, LambdaExecutePolicyARN); err != nil {
		return providerError(ProviderIAM, "DetachRolePolicy", err)
	}
	return nil
}

// Mail.

// ensureSES returns the manifest's ses block, creating it on first use.
func ensureSES(m *manifest.Manifest) *manifest.SES {
	if m.SES == nil {
		m.SES = &manifest.SES{}
	}
	return m.SES
}

func createSendPolicy(ctx *Context) error {
	document, err := ctx.render(policy.SESSendPerms)
	if err != nil {
		return err
	}

	name := naming.SendPolicy(ctx.Config.Project)
	LogResourceCreating(ctx.Observer, StepMailSendPolicy, "iam policy", name)

	arn, err := ctx.AWS.CreatePolicy(ctx, name, document)
	if err != nil {
		return providerError(ProviderIAM, "CreatePolicy", err)
	}

	ensureSES(ctx.Manifest).SendPolicyARN = arn
	LogResourceCreated(ctx.Observer, StepMailSendPolicy, "iam policy", name, arn)
	return nil
}

func deleteSendPolicy(ctx *Context, m *manifest.Manifest) error {
	LogResourceDeleting(ctx.Observer, StepMailSendPolicy, "iam policy", m.SES.SendPolicyARN)
	if err := ctx.AWS.DeletePolicy(ctx, m.SES.SendPolicyARN); err != nil {
		return providerError(ProviderIAM, "DeletePolicy", err)
	}
	LogResourceDeleted(ctx.Observer, StepMailSendPolicy, "iam policy", m.SES.SendPolicyARN)
	return nil
}

func attachSendPolicy(ctx *Context) error {
	role := ctx.Manifest.Lambda.RoleName
	if err := ctx.AWS.AttachRolePolicy(ctx, role, ctx.Manifest.SES.SendPolicyARN); err != nil {
		return providerError(ProviderIAM, "AttachRolePolicy", err)
	}
	ctx.Manifest.SES.SendPolicyAttached = true
	return nil
}

func detachSendPolicy(ctx *Context, m *manifest.Manifest) error {
	if err := ctx.AWS.DetachRolePolicy(ctx, m.Lambda.RoleName, m.SES.SendPolicyARN); err != nil {
		return providerError(ProviderIAM, "DetachRolePolicy", err)
	}
	return nil
}

func createMailIdentity(ctx *Context) error {
	site := ctx.Config.SiteDomain()
	LogResourceCreating(ctx.Observer, StepMailIdentity, "ses identity", site)

	token, err := ctx.AWS.VerifyDomainIdentity(ctx, site)
	if err != nil {
		return providerError(ProviderSES, "VerifyDomainIdentity", err)
	}
	ensureSES(ctx.Manifest).Identity = site
	if err := ctx.Manifest.AddRecord(manifest.DNSRecord{
		Name:  naming.MailVerificationRecord(site),
		Type:  manifest.RecordTypeTXT,
		Value: token,
	}); err != nil {
		return err
	}

	dkimTokens, err := ctx.AWS.VerifyDomainDkim(ctx, site)
	if err != nil {
		return providerError(ProviderSES, "VerifyDomainDkim", err)
	}
	for _, tok := range dkimTokens {
		if err := ctx.Manifest.AddRecord(manifest.DNSRecord{
			Name:  naming.DKIMRecord(tok, site),
			Type:  manifest.RecordTypeCNAME,
			Value: naming.DKIMTarget(tok),
		}); err != nil {
			return err
		}
	}

	LogResourceCreated(ctx.Observer, StepMailIdentity, "ses identity", site, "")
	return nil
}

func deleteMailIdentity(ctx *Context, m *manifest.Manifest) error {
	site := m.SiteDomain()
	LogResourceDeleting(ctx.Observer, StepMailIdentity, "ses identity", site)
	if err := ctx.AWS.DeleteIdentity(ctx, site); err != nil {
		return providerError(ProviderSES, "DeleteIdentity", err)
	}
	LogResourceDeleted(ctx.Observer, StepMailIdentity, "ses identity", site)
	return nil
}

func setMailFromDomain(ctx *Context) error {
	site := ctx.Config.SiteDomain()
	mailFrom := ctx.Config.MailFromDomain()

	if err := ctx.AWS.SetMailFromDomain(ctx, site, mailFrom); err != nil {
		return providerError(ProviderSES, "SetIdentityMailFromDomain", err)
	}

	if err := ctx.Manifest.AddRecord(manifest.DNSRecord{
		Name:     mailFrom,
		Type:     manifest.RecordTypeMX,
		Value:    naming.MailFeedbackHost(ctx.Config.Region),
		Priority: manifest.Int(mailFromMXPriority),
	}); err != nil {
		return err
	}
	return ctx.Manifest.AddRecord(manifest.DNSRecord{
		Name:  mailFrom,
		Type:  manifest.RecordTypeTXT,
		Value: mailFromSPF,
	})
}

// Site bucket.

func siteBucket(ctx *Context) string {
	return naming.Bucket(ctx.Config.Project, ctx.Config.Domain)
}

func createSiteBucket(ctx *Context) error {
	bucket := siteBucket(ctx)
	LogResourceCreating(ctx.Observer, StepSiteBucket, "s3 bucket", bucket)

	// A bucket this run did not create is never adopted, so teardown can
	// only ever delete buckets sitegen made.
	exists, err := ctx.AWS.BucketExists(ctx, bucket)
	if err != nil {
		return providerError(ProviderS3, "HeadBucket", err)
	}
	if exists {
		return providerError(ProviderS3, "CreateBucket", fmt.Errorf("%w: %s", ErrBucketExists, bucket))
	}

	if err := ctx.AWS.CreateBucket(ctx, bucket); err != nil {
		return providerError(ProviderS3, "CreateBucket", err)
	}
	ctx.Manifest.Bucket = bucket
	LogResourceCreated(ctx.Observer, StepSiteBucket, "s3 bucket", bucket, "")
	return nil
}

func deleteSiteBucket(ctx *Context, m *manifest.Manifest) error {
	bucket := m.BucketName()
	LogResourceDeleting(ctx.Observer, StepSiteBucket, "s3 bucket", bucket)
	if err := ctx.AWS.DeleteBucket(ctx, bucket); err != nil {
		return providerError(ProviderS3, "DeleteBucket", err)
	}
	LogResourceDeleted(ctx.Observer, StepSiteBucket, "s3 bucket", bucket)
	return nil
}

func configureSiteWebsite(ctx *Context) error {
	err := ctx.AWS.PutBucketWebsite(ctx, siteBucket(ctx), ctx.Config.IndexDocument, ctx.Config.ErrorDocument)
	if err != nil {
		return providerError(ProviderS3, "PutBucketWebsite", err)
	}
	return nil
}

func publishSitePolicy(ctx *Context) error {
	document, err := ctx.render(policy.S3SiteAccessPerms)
	if err != nil {
		return err
	}

	bucket := siteBucket(ctx)
	if err := ctx.AWS.DeletePublicAccessBlock(ctx, bucket); err != nil {
		return providerError(ProviderS3, "DeletePublicAccessBlock", err)
	}
	if err := ctx.AWS.PutBucketPolicy(ctx, bucket, document); err != nil {
		return providerError(ProviderS3, "PutBucketPolicy", err)
	}
	return nil
}

func tagSiteBucket(ctx *Context) error {
	if err := ctx.AWS.PutBucketTagging(ctx, siteBucket(ctx), tags.ForProject(ctx.Config.Project)); err != nil {
		return providerError(ProviderS3, "PutBucketTagging", err)
	}
	return nil
}

func addSiteRecord(ctx *Context) error {
	site := ctx.Config.SiteDomain()
	return ctx.Manifest.AddRecord(manifest.DNSRecord{
		Name:    site,
		Type:    manifest.RecordTypeCNAME,
		Value:   ctx.AWS.WebsiteEndpoint(siteBucket(ctx)),
		Proxied: manifest.Bool(true),
	})
}

// DNS.

func ensureDNSZone(ctx *Context) error {
	site := ctx.Config.SiteDomain()
	zoneID, err := ctx.DNS.GetOrCreateZone(ctx, site)
	if err != nil {
		return providerError(ProviderCloudflare, "GetOrCreateZone", err)
	}
	ctx.Manifest.Cloudflare = &manifest.Cloudflare{ZoneID: zoneID}
	LogResourceCreated(ctx.Observer, StepDNSZone, "dns zone", site, zoneID)
	return nil
}

// publishDNSRecords creates every recorded record, one call at a time. A
// failure leaves the records created so far in place.
func publishDNSRecords(ctx *Context) error {
	zoneID := ctx.Manifest.Cloudflare.ZoneID
	for _, r := range ctx.Manifest.DNSRecords {
		_, err := ctx.DNS.CreateDNSRecord(ctx, zoneID, cloudflare.RecordInput{
			Type:     r.Type,
			Name:     r.Name,
			Content:  r.Value,
			Proxied:  r.Proxied,
			Priority: r.Priority,
		})
		if err != nil {
			return providerError(ProviderCloudflare, "CreateDNSRecord", err)
		}
		ctx.Observer.Printf("[%s] Created %s record %s", StepDNSRecords, r.Type, r.Name)
	}
	return nil
}

// Source repository and scaffold.

func createSourceRepo(ctx *Context) error {
	name := naming.Repository(ctx.Config.Project)
	LogResourceCreating(ctx.Observer, StepSourceRepo, "repository", name)

	repo, err := ctx.Source.CreateRepository(ctx, name, true)
	if err != nil {
		return providerError(ProviderGitHub, "CreateRepository", err)
	}

	ctx.Manifest.GitHub = &manifest.GitHub{Name: repo.Name, URL: repo.HTMLURL, Clone: repo.CloneURL}
	LogResourceCreated(ctx.Observer, StepSourceRepo, "repository", repo.Name, repo.HTMLURL)
	return nil
}

func scaffoldProject(ctx *Context) error {
	opts := scaffold.Options{
		TemplateURL:    ctx.Env.TemplateRepoURL,
		Dir:            filepath.Join(ctx.Env.ProjectsDir, ctx.Config.Project),
		InstallCommand: ctx.Env.InstallCommand,
		Editor:         ctx.Env.Editor,
	}
	if ctx.Manifest.GitHub != nil {
		opts.RemoteURL = ctx.Manifest.GitHub.Clone
	}

	if err := ctx.Scaffolder.Scaffold(ctx, opts); err != nil {
		return scaffoldError(err)
	}
	return nil
}
