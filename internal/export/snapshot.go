// Package export persists point-in-time snapshots of invoice payloads.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// SanitizeName reduces free text to a filesystem-safe slug.
func SanitizeName(name string) string {
	s := unsafeChars.ReplaceAllString(strings.TrimSpace(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "facture"
	}
	return s
}

// UniqueSuffix disambiguates file names for repeated exports of one client.
func UniqueSuffix() string {
	return uuid.NewString()[:8]
}

// SnapshotWriter writes raw posted payloads under a fixed directory.
// No schema is imposed beyond "whatever was posted".
type SnapshotWriter struct {
	Dir string
}

func NewSnapshotWriter(dir string) *SnapshotWriter { return &SnapshotWriter{Dir: dir} }

// Write stores payload verbatim and returns the created file path.
func (w *SnapshotWriter) Write(payload []byte, clientName string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.json", SanitizeName(clientName), UniqueSuffix())
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// WriteFile stores arbitrary bytes (e.g. a rendered PDF) under the export dir.
func (w *SnapshotWriter) WriteFile(name string, data []byte) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}
