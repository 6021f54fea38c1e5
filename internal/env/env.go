// Package env contains functions that retrieve data from the environment
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the env file read when no other file is named.
const DefaultEnvFile = ".env"

// GetenvFS retrieves the value of the environment variable named by the key.
// If the variable is unset, but the same variable ending in `_FILE` is set, the
// referenced file (resolved from the given filesystem) will be read into the
// value. Otherwise an empty string is returned.
func GetenvFS(fsys fs.FS, key string) string {
	val := os.Getenv(key)
	if val != "" {
		return val
	}

	p := os.Getenv(key + "_FILE")
	if p != "" {
		p = strings.TrimPrefix(p, "/")

		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			return ""
		}

		return strings.TrimSpace(string(b))
	}

	return ""
}

// Snapshot captures the current values of the given keys (honouring the
// `_FILE` indirection of GetenvFS). Unset or empty keys are omitted.
func Snapshot(fsys fs.FS, keys ...string) map[string]string {
	snap := make(map[string]string, len(keys))

	for _, k := range keys {
		if v := GetenvFS(fsys, k); v != "" {
			snap[k] = v
		}
	}

	return snap
}

// ReadEnvFile parses a dotenv-format file into a map. When name is empty,
// DefaultEnvFile is read if it exists, and its absence is not an error. A
// named file must exist.
func ReadEnvFile(name string) (map[string]string, error) {
	optional := name == ""
	if optional {
		name = DefaultEnvFile
	}

	vals, err := godotenv.Read(name)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}

		return nil, fmt.Errorf("read env file %q: %w", name, err)
	}

	return vals, nil
}
