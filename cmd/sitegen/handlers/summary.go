package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/sitegen/internal/manifest"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	nameStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// renderSiteSummary produces a lipgloss-styled summary of a manifest.
func renderSiteSummary(path string, m *manifest.Manifest) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  sitegen: %s", m.SiteDomain())))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	section(&b, "Deploy")
	row(&b, "User", m.Deploy.UserName)
	row(&b, "Access key", m.Deploy.AccessKey.ID)
	row(&b, "Policy", m.Deploy.PolicyARN)

	if m.HasLambda() {
		section(&b, "Lambda")
		row(&b, "Role", m.Lambda.RoleARN)
	}
	if m.HasSES() {
		section(&b, "Mail")
		row(&b, "Identity", m.SiteDomain())
		if m.HasSendPolicy() {
			row(&b, "Send policy", m.SES.SendPolicyARN)
		}
	}
	if m.GitHub != nil {
		section(&b, "Repository")
		row(&b, "URL", m.GitHub.URL)
	}

	section(&b, "DNS records")
	if m.Cloudflare == nil {
		b.WriteString(dimStyle.Render("    Not published. Create these records with your DNS provider:"))
		b.WriteString("\n")
	}
	for _, r := range m.DNSRecords {
		b.WriteString(fmt.Sprintf("    %-6s %s → %s\n", r.Type, r.Name, r.Value))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Manifest: %s (contains the access key secret)", path)))
	b.WriteString("\n")

	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  " + title))
	b.WriteString("\n")
}

func row(b *strings.Builder, name, value string) {
	b.WriteString("    ")
	b.WriteString(nameStyle.Render(fmt.Sprintf("%-12s", name)))
	b.WriteString(" ")
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}
