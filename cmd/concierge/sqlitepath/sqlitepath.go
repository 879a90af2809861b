// Package sqlitepath locates the SQLite transcript database.
package sqlitepath

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/executehq/concierge/pkg/dotdir"
)

// DBName is the file name of the transcript database.
const DBName = "concierge.db"

// ErrNotFound is returned when no existing database could be located.
var ErrNotFound = errors.New("could not find concierge SQLite database; pass --sqlite")

// ResolveSQLitePath returns override when set, then $CONCIERGE_SQLITE, then
// the first existing candidate file.
func ResolveSQLitePath(override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		return override, nil
	}

	if envPath := strings.TrimSpace(os.Getenv("CONCIERGE_SQLITE")); envPath != "" {
		return envPath, nil
	}

	for _, candidate := range sqliteCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", ErrNotFound
}

// ResolveOrDefault is ResolveSQLitePath, falling back to a new database in
// the concierge directory.
func ResolveOrDefault(override, configDir string) (string, error) {
	path, err := ResolveSQLitePath(override)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	dir, err := dotdir.NewManager().Ensure(configDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DBName), nil
}

func sqliteCandidates() []string {
	candidates := []string{
		DBName,
		filepath.Join(dotdir.DirName, DBName),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, dotdir.DirName, DBName))
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidates = append([]string{
			filepath.Join(xdgHome, "concierge", DBName),
		}, candidates...)
	}

	return candidates
}
