package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileExtension is the extension of persisted manifests.
const FileExtension = ".json"

// DefaultTeardownFile is the manifest destroy reads when none is given.
const DefaultTeardownFile = "output" + FileExtension

const indent = "    "

// FileStore persists manifests as <dir>/<project>.json.
type FileStore struct {
	Dir string
}

// NewFileStore creates a store rooted at dir. An empty dir means the
// current working directory.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{Dir: dir}
}

// Path returns the file a project's manifest is written to.
func (s *FileStore) Path(project string) string {
	return filepath.Join(s.Dir, project+FileExtension)
}

// Save writes the manifest atomically: the file either holds the previous
// version or the new one, never a truncated mix.
func (s *FileStore) Save(m *Manifest) error {
	if m.Project == "" {
		return fmt.Errorf("manifest has no project")
	}

	data, err := Marshal(m)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	path := s.Path(m.Project)
	tmp, err := os.CreateTemp(s.Dir, "."+m.Project+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary manifest: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set manifest permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close manifest: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move manifest into place: %w", err)
	}
	return nil
}

// Load reads a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Unmarshal(data)
}

// Marshal encodes a manifest with 4-space indentation and a trailing newline.
func Marshal(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a manifest. Keys match case-insensitively, so files
// written with upper-case PROJECT/DOMAIN keys load unchanged.
func Unmarshal(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Project == "" || m.Domain == "" {
		return nil, fmt.Errorf("manifest is missing project or domain")
	}
	return &m, nil
}
