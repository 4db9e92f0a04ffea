package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// File name constants
const (
	MaxFileNameLength = 120
	DefaultFileName   = "video"
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	info, err := os.Stat(dirPath)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dirPath)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.MkdirAll(dirPath, DefaultDirPermissions)
}

// DirectoryExists reports whether path is an existing directory
func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether anything exists at path
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// SanitizeFileName keeps letters, digits, spaces, '.', '_' and '-' so a video
// title can be used as a file name on every platform
func SanitizeFileName(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}

	name := strings.TrimSpace(b.String())
	name = strings.Trim(name, ".")
	if runes := []rune(name); len(runes) > MaxFileNameLength {
		name = strings.TrimSpace(string(runes[:MaxFileNameLength]))
	}
	if name == "" {
		return DefaultFileName
	}
	return name
}
