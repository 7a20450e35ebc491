package policy

import (
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

//go:embed documents/*.json
var documents embed.FS

// Document identifies an embedded policy document.
type Document string

// Embedded policy documents.
const (
	S3DeployPerms       Document = "s3-deploy-perms"
	LambdaExecutionRole Document = "lambda-execution-role"
	SESSendPerms        Document = "ses-send-perms"
	S3SiteAccessPerms   Document = "s3-site-access-perms"
)

// Documents lists every embedded document in a stable order.
func Documents() []Document {
	return []Document{S3DeployPerms, LambdaExecutionRole, SESSendPerms, S3SiteAccessPerms}
}

// Load returns the raw, unrendered text of a document.
func Load(doc Document) (string, error) {
	data, err := documents.ReadFile("documents/" + string(doc) + ".json")
	if err != nil {
		return "", fmt.Errorf("unknown policy document %q: %w", doc, err)
	}
	return string(data), nil
}

// Placeholder names understood by Render.
const (
	PlaceholderProject   = "PROJECT"
	PlaceholderDomain    = "DOMAIN"
	PlaceholderEmailName = "EMAIL_NAME"
)

// Vars holds values for the known placeholders.
type Vars struct {
	Project   string // $PROJECT
	Domain    string // $DOMAIN
	EmailName string // $EMAIL_NAME
}

func (v Vars) values() map[string]string {
	return map[string]string{
		PlaceholderProject:   v.Project,
		PlaceholderDomain:    v.Domain,
		PlaceholderEmailName: v.EmailName,
	}
}

// placeholderPattern matches $NAME tokens. IAM policy variables use ${...} and
// never match.
var placeholderPattern = regexp.MustCompile(`\$([A-Z][A-Z0-9_]*)`)

// Substitute replaces every literal occurrence of $KEY with its value for each
// key in params. Longer keys are replaced first so that $DOMAIN cannot eat the
// prefix of $DOMAIN_NAME. Tokens without a matching key are left untouched.
func Substitute(text string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		text = strings.ReplaceAll(text, "$"+k, params[k])
	}
	return text
}

// RenderError reports a document that could not be fully resolved.
type RenderError struct {
	Document Document
	Unknown  []string
	Missing  []string
}

func (e *RenderError) Error() string {
	var parts []string
	if len(e.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("unknown placeholders %v", e.Unknown))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("no value for %v", e.Missing))
	}
	return fmt.Sprintf("cannot render policy %s: %s", e.Document, strings.Join(parts, ", "))
}

// Renderer renders embedded documents against Vars.
type Renderer struct {
	load func(Document) (string, error)
}

// NewRenderer creates a renderer over the embedded documents.
func NewRenderer() *Renderer {
	return &Renderer{load: Load}
}

// Render loads doc and substitutes vars, failing if the document references a
// placeholder outside the known set or one whose value is empty.
func (r *Renderer) Render(doc Document, vars Vars) (string, error) {
	text, err := r.load(doc)
	if err != nil {
		return "", err
	}
	return RenderText(doc, text, vars)
}

// RenderText is Render for text that has already been loaded.
func RenderText(doc Document, text string, vars Vars) (string, error) {
	values := vars.values()
	seen := make(map[string]bool)
	params := make(map[string]string)
	var unknown, missing []string

	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		value, known := values[name]
		switch {
		case !known:
			unknown = append(unknown, name)
		case value == "":
			missing = append(missing, name)
		default:
			params[name] = value
		}
	}

	if len(unknown) > 0 || len(missing) > 0 {
		return "", &RenderError{Document: doc, Unknown: unknown, Missing: missing}
	}

	return Substitute(text, params), nil
}
