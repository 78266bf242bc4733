package logging

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewParsesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", &buf)
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %v", logger.GetLevel())
	}
	logger.Debug("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected message in output, got %q", buf.String())
	}
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	logger := New("loud", &bytes.Buffer{})
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %v", logger.GetLevel())
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("expected a logger for nil input")
	}
	logger := New("info", &bytes.Buffer{})
	if OrDiscard(logger) != logger {
		t.Fatal("expected the given logger back")
	}
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "localdemy.log")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString("line\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
}
