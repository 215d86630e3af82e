//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary  = "bin/maudfmt"
	mainPkg = "./cmd/maudfmt"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":      Build,
	"t":      Test.Default,
	"l":      Lint.Default,
	"c":      Check,
	"i":      Install,
	"fmt":    Lint.Fmt,
	"self":   SelfCheck,
	"golden": Test.Golden,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles maudfmt into bin/ with version info, skipping the build
// when no source changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building maudfmt...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, mainPkg)
}

// SelfCheck runs the built binary in check mode over the expected outputs
// in pkg/printer/testdata. They must already be in canonical form.
func SelfCheck() error {
	st.Deps(Build)
	fmt.Println("Checking printer testdata...")
	return sh.RunV(binary, "--check", "--color", "never", "--ignore", "*.in.rs", "pkg/printer/testdata")
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default, SelfCheck)
}

// Clean removes build and coverage artifacts.
func Clean() error {
	for _, p := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(p); err != nil {
			return err
		}
	}
	return nil
}

// Install runs go install with version info.
func Install() error {
	fmt.Println("Installing maudfmt...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Coverage prints per-function coverage from the last test run.
func Coverage() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	return gotestsum("pkgname-and-test-fails", "-race", "-coverprofile=coverage.out", "-covermode=atomic", "./...")
}

// Verbose runs all tests with full output.
func (Test) Verbose() error {
	return gotestsum("standard-verbose", "-v", "-race", "./...")
}

// Golden rewrites the printer's expected outputs from the current printer.
func (Test) Golden() error {
	fmt.Println("Updating printer golden files...")
	return sh.RunV("go", "test", "./pkg/printer", "-run", "TestGolden", "-update")
}

// Fuzz fuzzes the document formatter for FUZZTIME (default 30s).
func (Test) Fuzz() error {
	fuzztime := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	return sh.RunV("go", "test", "./pkg/format", "-run", "^$", "-fuzz", "FuzzFormat", "-fuzztime", fuzztime)
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without fixing anything.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt gofmts the tree.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when gofmt would change a file.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Gate runs every CI check in order.
func (CI) Gate() error {
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.CI,
		Build,
		Test.Default,
		SelfCheck,
		CI.ModTidy,
		CI.Cross,
	)
	fmt.Println("CI gate passed")
	return nil
}

// ModTidy fails when go mod tidy changes go.mod or go.sum.
func (CI) ModTidy() error {
	before, err := readModFiles()
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := readModFiles()
	if err != nil {
		return err
	}
	if !bytes.Equal(before, after) {
		return errors.New("go mod tidy changed go.mod or go.sum")
	}
	return nil
}

// Cross builds the binary for each release platform.
func (CI) Cross() error {
	for _, platform := range []string{
		"linux/amd64", "linux/arm64",
		"darwin/amd64", "darwin/arm64",
		"windows/amd64", "freebsd/amd64",
	} {
		goos, goarch, _ := strings.Cut(platform, "/")
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, mainPkg); err != nil {
			return fmt.Errorf("build %s: %w", platform, err)
		}
	}
	return nil
}

// Default runs the formatter and language detection benchmarks.
func (Bench) Default() error {
	return gotestsum("pkgname-and-test-fails", "-run", "^$", "-bench", ".", "-benchmem", "./pkg/...")
}

func gotestsum(format string, args ...string) error {
	n := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmd := append([]string{"tool", "gotestsum", "-f", format, "--", "-p", n, "-parallel", n}, args...)
	return sh.RunV("go", cmd...)
}

// readModFiles returns go.mod followed by go.sum.
func readModFiles() ([]byte, error) {
	var out []byte
	for _, name := range []string{"go.mod", "go.sum"} {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = append(out, data...)
	}
	return out, nil
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags sets main.version, main.commit and main.date.
func ldflags() string {
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339),
	)
}
