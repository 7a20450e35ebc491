package tags

// KeyProject identifies which site a resource belongs to.
const KeyProject = "project"

// Builder provides a fluent interface for building resource tags.
type Builder struct {
	tags map[string]string
}

// NewBuilder creates a builder with the project tag pre-set.
func NewBuilder(project string) *Builder {
	return &Builder{
		tags: map[string]string{KeyProject: project},
	}
}

// Merge adds all tags from the provided map. The project tag cannot be overridden.
func (b *Builder) Merge(extra map[string]string) *Builder {
	for k, v := range extra {
		if k == KeyProject {
			continue
		}
		b.tags[k] = v
	}
	return b
}

// Build returns a copy of the tags map.
func (b *Builder) Build() map[string]string {
	result := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		result[k] = v
	}
	return result
}

// ForProject is shorthand for NewBuilder(project).Build().
func ForProject(project string) map[string]string {
	return NewBuilder(project).Build()
}
