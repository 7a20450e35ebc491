// Package prerequisites checks for the local tools used to scaffold a site.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// ScaffoldTools returns the tools needed to scaffold a project locally.
// installCommand is the dependency install command line; its first word is
// checked. An empty editor skips the editor check.
func ScaffoldTools(installCommand []string, editor string) []Tool {
	tools := []Tool{
		{
			Name:        "git",
			Required:    true,
			Description: "Clones the template and pushes the initial commit",
			InstallURL:  "https://git-scm.com/downloads",
		},
	}
	if len(installCommand) > 0 {
		tools = append(tools, Tool{
			Name:        installCommand[0],
			Required:    true,
			Description: "Installs the template's dependencies",
			InstallURL:  "https://nodejs.org/en/download",
		})
	}
	if editor != "" {
		tools = append(tools, Tool{
			Name:        editorBinary(editor),
			Required:    false,
			Description: "Opens the scaffolded project",
		})
	}
	return tools
}

// editorBinary returns the executable of an EDITOR-style command line.
func editorBinary(editor string) string {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return editor
	}
	return fields[0]
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		if path, err := lookPath(tool.Name); err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}
