// Package content reads the static guide/mod/patch text tree.
package content

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/logger"
	"log/slog"
)

// Store serves named text files from a root directory. Load never fails
// loudly: a missing or unreadable file is reported as not found and the
// caller substitutes localized fallback text.
type Store struct {
	dir string
}

// NewStore creates a content store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the file at the given path relative to the store root and
// returns its trimmed contents. ok is false when the file is missing or
// unreadable.
func (s *Store) Load(rel string) (text string, ok bool) {
	path := filepath.Join(s.dir, filepath.FromSlash(rel))
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Menu.Warn("content file not found",
			slog.String("event", "content.missing"),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
