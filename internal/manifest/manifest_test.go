package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDNSRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  DNSRecord
		wantErr string
	}{
		{
			name:   "cname without priority",
			record: DNSRecord{Name: "acme.com", Type: RecordTypeCNAME, Value: "x", Proxied: Bool(true)},
		},
		{
			name:   "mx with priority",
			record: DNSRecord{Name: "mail.acme.com", Type: RecordTypeMX, Value: "x", Priority: Int(10)},
		},
		{
			name:    "mx without priority",
			record:  DNSRecord{Name: "mail.acme.com", Type: RecordTypeMX, Value: "x"},
			wantErr: "requires a priority",
		},
		{
			name:    "txt with priority",
			record:  DNSRecord{Name: "acme.com", Type: RecordTypeTXT, Value: "x", Priority: Int(10)},
			wantErr: "must not carry a priority",
		},
		{
			name:    "missing value",
			record:  DNSRecord{Name: "acme.com", Type: RecordTypeTXT},
			wantErr: "requires name, type and value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAddRecordKeepsOrder(t *testing.T) {
	m := New("acme", "com")
	require.NoError(t, m.AddRecord(DNSRecord{Name: "a", Type: RecordTypeTXT, Value: "1"}))
	require.NoError(t, m.AddRecord(DNSRecord{Name: "b", Type: RecordTypeCNAME, Value: "2"}))
	require.Error(t, m.AddRecord(DNSRecord{Name: "c", Type: RecordTypeMX, Value: "3"}))

	require.Len(t, m.DNSRecords, 2)
	assert.Equal(t, "a", m.DNSRecords[0].Name)
	assert.Equal(t, "b", m.DNSRecords[1].Name)
}

func TestPresencePredicates(t *testing.T) {
	m := New("acme", "com")
	assert.False(t, m.HasDeployUser())
	assert.False(t, m.HasAccessKey())
	assert.False(t, m.HasDeployPolicy())
	assert.False(t, m.HasLambda())
	assert.False(t, m.HasSES())
	assert.False(t, m.HasSendPolicy())

	m.Lambda = &Lambda{}
	assert.False(t, m.HasLambda(), "empty lambda block means no role")

	m.Deploy = Deploy{UserName: "acme-deploy", PolicyARN: "arn:p", AccessKey: AccessKey{ID: "AKIA"}}
	m.Lambda = &Lambda{RoleName: "acme-lambda"}
	m.SES = &SES{}
	assert.True(t, m.HasDeployUser())
	assert.True(t, m.HasAccessKey())
	assert.True(t, m.HasDeployPolicy())
	assert.True(t, m.HasLambda())
	assert.True(t, m.HasSES())
	assert.False(t, m.HasSendPolicy())

	m.SES.SendPolicyARN = "arn:send"
	assert.True(t, m.HasSendPolicy())
	assert.Equal(t, "acme.com", m.SiteDomain())
}

func TestStepMarkers(t *testing.T) {
	m := New("acme", "com")
	m.Deploy = Deploy{UserName: "acme-deploy", PolicyARN: "arn:p"}
	m.Lambda = &Lambda{RoleName: "acme-lambda"}
	m.SES = &SES{SendPolicyARN: "arn:send"}

	assert.False(t, m.Legacy())
	assert.False(t, m.HasDeployPolicyAttachment(), "created but not attached")
	assert.False(t, m.HasLambdaExecutionPolicy())
	assert.False(t, m.HasSendPolicyAttachment())
	assert.False(t, m.HasMailIdentity(), "a send policy alone is no identity")
	assert.False(t, m.HasBucket())
	assert.Equal(t, "acme.com", m.BucketName())

	m.Deploy.PolicyAttached = true
	m.Lambda.ExecutionPolicyAttached = true
	m.SES.SendPolicyAttached = true
	m.SES.Identity = "acme.com"
	m.Bucket = "acme.com"
	assert.True(t, m.HasDeployPolicyAttachment())
	assert.True(t, m.HasLambdaExecutionPolicy())
	assert.True(t, m.HasSendPolicyAttachment())
	assert.True(t, m.HasMailIdentity())
	assert.True(t, m.HasBucket())
}

func TestLegacyManifestsAssumeCompletedRun(t *testing.T) {
	m := &Manifest{
		Project: "acme",
		Domain:  "com",
		Deploy:  Deploy{UserName: "acme-deploy", PolicyARN: "arn:p"},
		Lambda:  &Lambda{RoleName: "acme-lambda"},
		SES:     &SES{SendPolicyARN: "arn:send"},
	}

	assert.True(t, m.Legacy())
	assert.True(t, m.HasDeployPolicyAttachment())
	assert.True(t, m.HasLambdaExecutionPolicy())
	assert.True(t, m.HasSendPolicyAttachment())
	assert.True(t, m.HasMailIdentity())
	assert.True(t, m.HasBucket())
}

func TestMarshalIndentsWithFourSpaces(t *testing.T) {
	m := New("acme", "com")
	require.NoError(t, m.AddRecord(DNSRecord{Name: "acme.com", Type: RecordTypeCNAME, Value: "acme.com.s3-website-us-east-1.amazonaws.com", Proxied: Bool(true)}))

	data, err := Marshal(m)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "{\n    \"project\": \"acme\""))
	assert.Contains(t, text, "\n        {\n            \"name\": \"acme.com\"")
	assert.NotContains(t, text, "\"lambda\"")
	assert.NotContains(t, text, "\"ses\"")
	assert.NotContains(t, text, "\"priority\"")
	assert.True(t, strings.HasSuffix(text, "}\n"))
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	m := New("acme", "com")
	m.Region = "eu-west-1"
	m.Bucket = "acme.com"
	m.Deploy.UserName = "acme-deploy"
	m.SES = &SES{SendPolicyARN: "arn:send", Identity: "acme.com"}
	require.NoError(t, m.AddRecord(DNSRecord{Name: "mail.acme.com", Type: RecordTypeMX, Value: "feedback", Priority: Int(10)}))

	require.NoError(t, store.Save(m))
	assert.Equal(t, filepath.Join(dir, "acme.json"), store.Path("acme"))

	info, err := os.Stat(store.Path("acme"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(store.Path("acme"))
	require.NoError(t, err)
	assert.Equal(t, m, loaded)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStoreOverwrites(t *testing.T) {
	store := NewFileStore(t.TempDir())
	m := New("acme", "com")
	require.NoError(t, store.Save(m))

	m.Deploy.UserName = "acme-deploy"
	require.NoError(t, store.Save(m))

	loaded, err := Load(store.Path("acme"))
	require.NoError(t, err)
	assert.Equal(t, "acme-deploy", loaded.Deploy.UserName)
}

func TestSaveRequiresProject(t *testing.T) {
	err := NewFileStore(t.TempDir()).Save(&Manifest{})
	require.Error(t, err)
}

func TestUnmarshalLegacyManifest(t *testing.T) {
	legacy := `{
    "PROJECT": "acme",
    "DOMAIN": "com",
    "deploy": {
        "policy_arn": "arn:aws:iam::1:policy/acme-s3",
        "user_arn": "arn:aws:iam::1:user/acme-deploy",
        "user_name": "acme-deploy",
        "user_id": "AIDA",
        "access_key": {"id": "AKIA", "secret": "s"}
    },
    "lambda": {},
    "ses": {},
    "dns_records": []
}`

	m, err := Unmarshal([]byte(legacy))
	require.NoError(t, err)
	assert.Equal(t, "acme", m.Project)
	assert.Equal(t, "com", m.Domain)
	assert.True(t, m.HasAccessKey())
	assert.False(t, m.HasLambda())
	assert.True(t, m.HasSES())
	assert.False(t, m.HasSendPolicy())
	assert.True(t, m.Legacy())
	assert.True(t, m.HasMailIdentity())
	assert.True(t, m.HasBucket())
	assert.Empty(t, m.Region)
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := Unmarshal([]byte("{"))
	require.Error(t, err)

	_, err = Unmarshal([]byte(`{"domain":"com"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing project")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
