package testing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/imamik/sitegen/internal/platform/aws"
	"github.com/imamik/sitegen/internal/platform/cloudflare"
	"github.com/imamik/sitegen/internal/platform/github"
	"github.com/imamik/sitegen/internal/util/naming"
)

const fakeAccount = "123456789012"

// Call is one recorded adapter call.
type Call struct {
	Op   string
	Args []string
	// Failed is set when the call returned an injected error.
	Failed bool
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Op
	}
	return c.Op + " " + strings.Join(c.Args, " ")
}

// FakeCloud is an in-memory stand-in for every provider adapter. It records
// each mutating call in order and fails the calls named in Errors.
type FakeCloud struct {
	// Region is used for website endpoints. Defaults to us-east-1.
	Region string
	// DKIMTokens is how many DKIM tokens VerifyDomainDkim returns.
	DKIMTokens int
	// Errors maps an operation name (e.g. "CreateBucket") to the error it returns.
	Errors map[string]error
	// Zones maps existing domains to zone IDs.
	Zones map[string]string
	// Buckets holds the buckets that exist. CreateBucket adds to it.
	Buckets map[string]bool

	mu        sync.Mutex
	failAt    int
	failAtErr error
	calls     []Call
	documents map[string]string
	records   []cloudflare.RecordInput
}

var (
	_ aws.CloudManager         = (*FakeCloud)(nil)
	_ cloudflare.ZoneManager   = (*FakeCloud)(nil)
	_ github.RepositoryCreator = (*FakeCloud)(nil)
)

// NewFakeCloud creates a fake returning three DKIM tokens.
func NewFakeCloud() *FakeCloud {
	return &FakeCloud{
		Region:     "us-east-1",
		DKIMTokens: 3,
		Errors:     make(map[string]error),
		Zones:      make(map[string]string),
		Buckets:    make(map[string]bool),
		documents:  make(map[string]string),
	}
}

// FailAt makes the n-th recorded call (1-based) return err, whatever its
// operation. Returns the fake for chaining.
func (f *FakeCloud) FailAt(n int, err error) *FakeCloud {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAt = n
	f.failAtErr = err
	return f
}

// FailOn makes op return err. Returns the fake for chaining.
func (f *FakeCloud) FailOn(op string, err error) *FakeCloud {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[op] = err
	return f
}

// Calls returns every recorded call in order.
func (f *FakeCloud) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Ops returns the operation names of every recorded call in order.
func (f *FakeCloud) Ops() []string {
	calls := f.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

// CallsTo returns the recorded calls of one operation.
func (f *FakeCloud) CallsTo(op string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Document returns the policy or trust document created under name.
func (f *FakeCloud) Document(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.documents[name]
}

// Records returns the DNS records created so far.
func (f *FakeCloud) Records() []cloudflare.RecordInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cloudflare.RecordInput(nil), f.records...)
}

// record logs a call and returns the configured error for op.
func (f *FakeCloud) record(op string, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.Errors[op]
	if f.failAt == len(f.calls)+1 {
		err = f.failAtErr
	}
	f.calls = append(f.calls, Call{Op: op, Args: args, Failed: err != nil})
	return err
}

// IdentityManager

func (f *FakeCloud) CreateUser(_ context.Context, name string, _ map[string]string) (*aws.User, error) {
	if err := f.record("CreateUser", name); err != nil {
		return nil, err
	}
	return &aws.User{
		Name: name,
		ARN:  fmt.Sprintf("arn:aws:iam::%s:user/%s", fakeAccount, name),
		ID:   "AIDA" + strings.ToUpper(strings.ReplaceAll(name, "-", "")),
	}, nil
}

func (f *FakeCloud) CreateAccessKey(_ context.Context, userName string) (*aws.AccessKey, error) {
	if err := f.record("CreateAccessKey", userName); err != nil {
		return nil, err
	}
	return &aws.AccessKey{ID: "AKIATESTKEY", Secret: "test-secret"}, nil
}

func (f *FakeCloud) DeleteAccessKey(_ context.Context, userName, accessKeyID string) error {
	return f.record("DeleteAccessKey", userName, accessKeyID)
}

func (f *FakeCloud) DeleteUser(_ context.Context, name string) error {
	return f.record("DeleteUser", name)
}

func (f *FakeCloud) CreatePolicy(_ context.Context, name, document string) (string, error) {
	if err := f.record("CreatePolicy", name); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.documents[name] = document
	f.mu.Unlock()
	return fmt.Sprintf("arn:aws:iam::%s:policy/%s", fakeAccount, name), nil
}

func (f *FakeCloud) DeletePolicy(_ context.Context, policyARN string) error {
	return f.record("DeletePolicy", policyARN)
}

func (f *FakeCloud) AttachUserPolicy(_ context.Context, userName, policyARN string) error {
	return f.record("AttachUserPolicy", userName, policyARN)
}

func (f *FakeCloud) DetachUserPolicy(_ context.Context, userName, policyARN string) error {
	return f.record("DetachUserPolicy", userName, policyARN)
}

func (f *FakeCloud) CreateRole(_ context.Context, name, trustDocument string, _ map[string]string) (*aws.Role, error) {
	if err := f.record("CreateRole", name); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.documents[name] = trustDocument
	f.mu.Unlock()
	return &aws.Role{Name: name, ARN: fmt.Sprintf("arn:aws:iam::%s:role/%s", fakeAccount, name)}, nil
}

func (f *FakeCloud) DeleteRole(_ context.Context, name string) error {
	return f.record("DeleteRole", name)
}

func (f *FakeCloud) AttachRolePolicy(_ context.Context, roleName, policyARN string) error {
	return f.record("AttachRolePolicy", roleName, policyARN)
}

func (f *FakeCloud) DetachRolePolicy(_ context.Context, roleName, policyARN string) error {
	return f.record("DetachRolePolicy", roleName, policyARN)
}

// MailManager

func (f *FakeCloud) VerifyDomainIdentity(_ context.Context, domain string) (string, error) {
	if err := f.record("VerifyDomainIdentity", domain); err != nil {
		return "", err
	}
	return "verification-token", nil
}

func (f *FakeCloud) VerifyDomainDkim(_ context.Context, domain string) ([]string, error) {
	if err := f.record("VerifyDomainDkim", domain); err != nil {
		return nil, err
	}
	tokens := make([]string, f.DKIMTokens)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("dkim%d", i+1)
	}
	return tokens, nil
}

func (f *FakeCloud) SetMailFromDomain(_ context.Context, identity, mailFromDomain string) error {
	return f.record("SetMailFromDomain", identity, mailFromDomain)
}

func (f *FakeCloud) DeleteIdentity(_ context.Context, identity string) error {
	return f.record("DeleteIdentity", identity)
}

// StorageManager

func (f *FakeCloud) CreateBucket(_ context.Context, bucketName string) error {
	if err := f.record("CreateBucket", bucketName); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Buckets[bucketName] = true
	return nil
}

func (f *FakeCloud) BucketExists(_ context.Context, bucketName string) (bool, error) {
	if err := f.record("BucketExists", bucketName); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Buckets[bucketName], nil
}

func (f *FakeCloud) PutBucketWebsite(_ context.Context, bucketName, indexDocument, errorDocument string) error {
	return f.record("PutBucketWebsite", bucketName, indexDocument, errorDocument)
}

func (f *FakeCloud) DeletePublicAccessBlock(_ context.Context, bucketName string) error {
	return f.record("DeletePublicAccessBlock", bucketName)
}

func (f *FakeCloud) PutBucketPolicy(_ context.Context, bucketName, document string) error {
	if err := f.record("PutBucketPolicy", bucketName); err != nil {
		return err
	}
	f.mu.Lock()
	f.documents[bucketName] = document
	f.mu.Unlock()
	return nil
}

func (f *FakeCloud) PutBucketTagging(_ context.Context, bucketName string, tags map[string]string) error {
	return f.record("PutBucketTagging", bucketName, fmt.Sprint(tags))
}

func (f *FakeCloud) DeleteBucket(_ context.Context, bucketName string) error {
	return f.record("DeleteBucket", bucketName)
}

func (f *FakeCloud) WebsiteEndpoint(bucketName string) string {
	return naming.WebsiteEndpoint(bucketName, f.Region)
}

// ZoneManager

func (f *FakeCloud) GetZoneID(_ context.Context, domain string) (string, error) {
	if err := f.record("GetZoneID", domain); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.Zones[domain]
	if !ok {
		return "", cloudflare.ErrZoneNotFound
	}
	return id, nil
}

func (f *FakeCloud) CreateZone(_ context.Context, domain string) (string, error) {
	if err := f.record("CreateZone", domain); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := "zone-" + domain
	f.Zones[domain] = id
	return id, nil
}

func (f *FakeCloud) GetOrCreateZone(ctx context.Context, domain string) (string, error) {
	id, err := f.GetZoneID(ctx, domain)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, cloudflare.ErrZoneNotFound) {
		return "", err
	}
	return f.CreateZone(ctx, domain)
}

func (f *FakeCloud) CreateDNSRecord(_ context.Context, zoneID string, record cloudflare.RecordInput) (*cloudflare.Record, error) {
	if err := f.record("CreateDNSRecord", zoneID, record.Type, record.Name); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return &cloudflare.Record{
		ID:      fmt.Sprintf("rec-%d", len(f.records)),
		Type:    record.Type,
		Name:    record.Name,
		Content: record.Content,
		Proxied: record.Proxied != nil && *record.Proxied,
	}, nil
}

// RepositoryCreator

func (f *FakeCloud) CreateRepository(_ context.Context, name string, private bool) (*github.Repository, error) {
	if err := f.record("CreateRepository", name, fmt.Sprint(private)); err != nil {
		return nil, err
	}
	return &github.Repository{
		ID:       1,
		Name:     name,
		HTMLURL:  "https://github.com/test/" + name,
		CloneURL: "https://github.com/test/" + name + ".git",
	}, nil
}
