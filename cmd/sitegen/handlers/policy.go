package handlers

import (
	"fmt"

	"github.com/imamik/sitegen/internal/policy"
)

// PolicyList prints the embedded policy documents.
func PolicyList() {
	for _, doc := range policy.Documents() {
		fmt.Println(doc)
	}
}

// PolicyRender prints a policy document rendered with vars.
func PolicyRender(name string, vars policy.Vars) error {
	doc := policy.Document(name)
	if _, err := policy.Load(doc); err != nil {
		return err
	}

	text, err := policy.NewRenderer().Render(doc, vars)
	if err != nil {
		return fmt.Errorf("failed to render policy: %w", err)
	}
	fmt.Print(text)
	return nil
}
