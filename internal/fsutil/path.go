package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ResolveFolder picks the library folder to open. An explicit input must be
// an existing directory. Without input the remembered folder is used if it
// still exists, otherwise the working directory.
func ResolveFolder(input, remembered string) (string, error) {
	if value := strings.TrimSpace(input); value != "" {
		abs, err := Absolute(value)
		if err != nil {
			return "", err
		}
		if err := requireDir(abs); err != nil {
			return "", err
		}
		return abs, nil
	}
	if remembered != "" {
		if abs, err := Absolute(remembered); err == nil && requireDir(abs) == nil {
			return abs, nil
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot determine working directory: %w", err)
	}
	return wd, nil
}

// ResolveFile expands input and requires it to be an existing regular file.
func ResolveFile(input string) (string, error) {
	abs, err := Absolute(strings.TrimSpace(input))
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", describeStatErr(abs, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("not a regular file: %s", abs)
	}
	return abs, nil
}

// Absolute expands a leading ~ or ~user and makes p absolute.
func Absolute(p string) (string, error) {
	expanded, err := expandPath(p)
	if err != nil {
		return "", fmt.Errorf("cannot expand path %q: %w", p, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", expanded, err)
	}
	return abs, nil
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return describeStatErr(path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}
	return nil
}

func describeStatErr(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	return fmt.Errorf("cannot access %q: %w", path, err)
}

func expandPath(p string) (string, error) {
	if p == "" || p[0] != '~' {
		return p, nil
	}
	if len(p) == 1 || p[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/")), nil
	}
	username, rest := splitUserPath(p)
	usr, err := user.Lookup(username)
	if err != nil {
		return "", err
	}
	return filepath.Join(usr.HomeDir, rest), nil
}

func splitUserPath(p string) (string, string) {
	sep := strings.IndexRune(p, '/')
	if sep == -1 {
		return p[1:], ""
	}
	return p[1:sep], p[sep:]
}
