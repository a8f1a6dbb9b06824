// Package validation gates canonical records on their required fields and
// checks CLI input paths.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
)

// IsValidPath checks if a given path exists and is accessible.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}

	return nil
}

// IsDirectory reports an error unless path is an existing directory.
func IsDirectory(path string) error {
	if err := IsValidPath(path); err != nil {
		return err
	}
	if info, _ := os.Stat(path); !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", path)
	}
	return nil
}
