//go:build mage

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

var Default = Build

// GUI code needs a display to test, so the bar sits below the pure packages.
const minCoverage = 75.0

// Build compiles the localdemy binary with the version stamped in.
func Build() error {
	return run("go", "build", "-ldflags", versionFlags(), "./cmd/localdemy")
}

// Test runs the unit test suite.
func Test() error {
	return run("go", "test", "./...")
}

// Race runs the unit test suite with the race detector; the scanner, saver
// and player session are exercised from several goroutines.
func Race() error {
	return run("go", "test", "-race", "./...")
}

// Run starts the terminal browser in the current directory.
func Run() error {
	return run("go", "run", "./cmd/localdemy")
}

// Install installs the localdemy binary into GOPATH/bin or GOBIN.
func Install() error {
	return run("go", "install", "-ldflags", versionFlags(), "./cmd/localdemy")
}

func versionFlags() string {
	version := os.Getenv("LOCALDEMY_VERSION")
	if version == "" {
		out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
		if err != nil {
			return ""
		}
		version = strings.TrimSpace(string(out))
	}
	return "-X codeberg.org/snonux/localdemy/internal/meta.Version=" + version
}

// Coverage runs the unit tests with coverage and enforces the minimum target.
func Coverage() error {
	profile := filepath.Join(os.TempDir(), "localdemy-coverage.out")
	if err := run("go", "test", "-coverprofile="+profile, "./..."); err != nil {
		return err
	}
	defer os.Remove(profile)
	out, err := exec.Command("go", "tool", "cover", "-func="+profile).CombinedOutput()
	if err != nil {
		fmt.Print(string(out))
		return err
	}
	fmt.Print(string(out))
	total, err := parseTotalCoverage(string(out))
	if err != nil {
		return err
	}
	if total < minCoverage {
		return fmt.Errorf("coverage %.1f%% below required %.0f%%", total, minCoverage)
	}
	return nil
}

func parseTotalCoverage(report string) (float64, error) {
	lines := strings.Split(strings.TrimSpace(report), "\n")
	if len(lines) == 0 {
		return 0, errors.New("empty coverage report")
	}
	last := lines[len(lines)-1]
	fields := strings.Fields(last)
	if len(fields) < 3 {
		return 0, fmt.Errorf("unexpected coverage line: %s", last)
	}
	value := strings.TrimSuffix(fields[len(fields)-1], "%")
	percent, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return percent, nil
}

func run(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
