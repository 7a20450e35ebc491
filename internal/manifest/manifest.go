package manifest

import (
	"fmt"

	"github.com/imamik/sitegen/internal/util/naming"
)

// CurrentVersion is written by New. Manifests without a version predate
// incremental persistence and were only ever written by completed runs.
const CurrentVersion = 1

// Manifest is the persisted record of a provisioning run.
type Manifest struct {
	Project    string      `json:"project"`
	Domain     string      `json:"domain"`
	Version    int         `json:"version,omitempty"`
	Region     string      `json:"region,omitempty"`
	Bucket     string      `json:"bucket,omitempty"`
	Deploy     Deploy      `json:"deploy"`
	Lambda     *Lambda     `json:"lambda,omitempty"`
	SES        *SES        `json:"ses,omitempty"`
	DNSRecords []DNSRecord `json:"dns_records"`
	Cloudflare *Cloudflare `json:"cloudflare,omitempty"`
	GitHub     *GitHub     `json:"github,omitempty"`
}

// Deploy describes the IAM user that deploys site content.
type Deploy struct {
	UserName  string    `json:"user_name,omitempty"`
	UserARN   string    `json:"user_arn,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	PolicyARN string    `json:"policy_arn,omitempty"`
	AccessKey AccessKey `json:"access_key"`

	PolicyAttached bool `json:"policy_attached,omitempty"`
}

// AccessKey is the deploy user's programmatic credential.
type AccessKey struct {
	ID     string `json:"id,omitempty"`
	Secret string `json:"secret,omitempty"`
}

// Lambda describes the optional Lambda execution role.
type Lambda struct {
	RoleName string `json:"role_name,omitempty"`
	RoleARN  string `json:"role_arn,omitempty"`

	ExecutionPolicyAttached bool `json:"execution_policy_attached,omitempty"`
}

// SES describes the optional mail setup. SendPolicyARN is only set when a
// Lambda role exists to attach it to.
type SES struct {
	SendPolicyARN      string `json:"send_policy_arn,omitempty"`
	SendPolicyAttached bool   `json:"send_policy_attached,omitempty"`

	// Identity is the verified domain identity, set once SES accepted it.
	Identity string `json:"identity,omitempty"`
}

// Cloudflare holds the DNS zone the records were created in.
type Cloudflare struct {
	ZoneID string `json:"zone_id"`
}

// GitHub describes the created source repository.
type GitHub struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Clone string `json:"clone"`
}

// DNS record types with special handling.
const (
	RecordTypeA     = "A"
	RecordTypeAAAA  = "AAAA"
	RecordTypeCNAME = "CNAME"
	RecordTypeMX    = "MX"
	RecordTypeTXT   = "TXT"
)

// DNSRecord is a record the site needs published.
type DNSRecord struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Value    string `json:"value"`
	Proxied  *bool  `json:"proxied,omitempty"`
	Priority *int   `json:"priority,omitempty"`
}

// Validate checks that priority is present exactly when the record is MX.
func (r DNSRecord) Validate() error {
	if r.Name == "" || r.Type == "" || r.Value == "" {
		return fmt.Errorf("dns record requires name, type and value: %+v", r)
	}
	if r.Type == RecordTypeMX && r.Priority == nil {
		return fmt.Errorf("MX record %s requires a priority", r.Name)
	}
	if r.Type != RecordTypeMX && r.Priority != nil {
		return fmt.Errorf("%s record %s must not carry a priority", r.Type, r.Name)
	}
	return nil
}

// New creates an empty manifest for a project.
func New(project, domain string) *Manifest {
	return &Manifest{
		Project:    project,
		Domain:     domain,
		Version:    CurrentVersion,
		DNSRecords: []DNSRecord{},
	}
}

// Legacy reports whether m was written before step markers were recorded.
func (m *Manifest) Legacy() bool {
	return m.Version == 0
}

// SiteDomain returns <project>.<domain>.
func (m *Manifest) SiteDomain() string {
	return naming.SiteDomain(m.Project, m.Domain)
}

// AddRecord appends a record, preserving creation order.
func (m *Manifest) AddRecord(r DNSRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	m.DNSRecords = append(m.DNSRecords, r)
	return nil
}

// HasDeployUser reports whether the deploy user was created.
func (m *Manifest) HasDeployUser() bool {
	return m.Deploy.UserName != ""
}

// HasAccessKey reports whether the deploy user's access key was created.
func (m *Manifest) HasAccessKey() bool {
	return m.HasDeployUser() && m.Deploy.AccessKey.ID != ""
}

// HasDeployPolicy reports whether the deploy policy was created.
func (m *Manifest) HasDeployPolicy() bool {
	return m.Deploy.PolicyARN != ""
}

// HasDeployPolicyAttachment reports whether the deploy policy was attached
// to the deploy user.
func (m *Manifest) HasDeployPolicyAttachment() bool {
	if m.Legacy() {
		return m.HasDeployUser() && m.HasDeployPolicy()
	}
	return m.Deploy.PolicyAttached
}

// HasLambda reports whether a Lambda role was created. Legacy manifests carry
// an empty lambda object when the feature was off.
func (m *Manifest) HasLambda() bool {
	return m.Lambda != nil && m.Lambda.RoleName != ""
}

// HasLambdaExecutionPolicy reports whether AWSLambdaExecute was attached to
// the role.
func (m *Manifest) HasLambdaExecutionPolicy() bool {
	if m.Legacy() {
		return m.HasLambda()
	}
	return m.HasLambda() && m.Lambda.ExecutionPolicyAttached
}

// HasSES reports whether mail was configured.
func (m *Manifest) HasSES() bool {
	return m.SES != nil
}

// HasMailIdentity reports whether the SES domain identity was created.
// Legacy manifests only carry the ses block.
func (m *Manifest) HasMailIdentity() bool {
	if m.Legacy() {
		return m.HasSES()
	}
	return m.SES != nil && m.SES.Identity != ""
}

// HasSendPolicy reports whether the SES send policy was created.
func (m *Manifest) HasSendPolicy() bool {
	return m.SES != nil && m.SES.SendPolicyARN != ""
}

// HasSendPolicyAttachment reports whether the send policy was attached to the
// Lambda role.
func (m *Manifest) HasSendPolicyAttachment() bool {
	if m.Legacy() {
		return m.HasLambda() && m.HasSendPolicy()
	}
	return m.HasLambda() && m.HasSendPolicy() && m.SES.SendPolicyAttached
}

// HasBucket reports whether the site bucket was created by the run.
// Legacy manifests always describe a completed run.
func (m *Manifest) HasBucket() bool {
	if m.Legacy() {
		return true
	}
	return m.Bucket != ""
}

// BucketName returns the recorded bucket, falling back to the site domain.
func (m *Manifest) BucketName() string {
	if m.Bucket != "" {
		return m.Bucket
	}
	return naming.Bucket(m.Project, m.Domain)
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to i.
func Int(i int) *int {
	return &i
}
