package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imamik/sitegen/internal/manifest"
)

func TestRenderSiteSummary(t *testing.T) {
	m := manifest.New("acme", "com")
	m.Deploy.UserName = "acme-deploy"
	m.Deploy.AccessKey.ID = "AKIATESTKEY"
	m.Deploy.AccessKey.Secret = "s3cr3t"
	m.SES = &manifest.SES{}
	m.Cloudflare = &manifest.Cloudflare{ZoneID: "zone-1"}
	_ = m.AddRecord(manifest.DNSRecord{Name: "acme.com", Type: "CNAME", Value: "acme.com.s3-website-us-east-1.amazonaws.com"})

	out := renderSiteSummary("acme.json", m)

	assert.Contains(t, out, "sitegen: acme.com")
	assert.Contains(t, out, "acme-deploy")
	assert.Contains(t, out, "AKIATESTKEY")
	assert.Contains(t, out, "Mail")
	assert.NotContains(t, out, "Send policy")
	assert.NotContains(t, out, "Lambda")
	assert.NotContains(t, out, "Not published")
	assert.Contains(t, out, "acme.com.s3-website-us-east-1.amazonaws.com")
	assert.Contains(t, out, "acme.json")
	assert.NotContains(t, out, "s3cr3t")
}

func TestRenderSiteSummary_Unpublished(t *testing.T) {
	m := manifest.New("acme", "com")
	m.GitHub = &manifest.GitHub{URL: "https://github.com/test/acme"}

	out := renderSiteSummary("acme.json", m)

	assert.Contains(t, out, "Not published")
	assert.Contains(t, out, "https://github.com/test/acme")
}
