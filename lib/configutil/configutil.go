package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// ReadConfig reads a configuration file on top of `defaults`. `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following, where higher number is more prioritized. Every key
// present in a file overrides the value below it, zero values included, absent keys are kept
// and maps are merged key by key.
// 0. defaults
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// if neither file exists, `defaults` is returned along with os.ErrNotExist.
func ReadConfig[T any](name string, defaults T) (T, error) {
	out := defaults
	allNotFound := true

	dirname := filepath.Dir(name)
	prefixname, ext := splitExt(filepath.Base(name))
	localFilepath := filepath.Join(
		dirname,
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)

	for _, path := range []string{name, localFilepath} {
		contents, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return out, err
		}
		allNotFound = false
		if len(contents) == 0 {
			continue
		}

		err = json5.Unmarshal(contents, &out)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", path, err)
		}
		if path == localFilepath {
			slog.Info("merging config with local overrides", "local", localFilepath)
		}
	}

	if allNotFound {
		return out, os.ErrNotExist
	}
	return out, nil
}
