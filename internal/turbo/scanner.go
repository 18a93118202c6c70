package turbo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jakoblorz/turbo-projects/internal/models"
	"github.com/tidwall/gjson"
)

// DefaultTool is the package name of the workspace discovery tool.
const DefaultTool = "turbo"

// Scanner lists workspace packages by running the discovery tool.
type Scanner struct {
	runner  Runner
	rootDir string
	tool    string
}

// NewScanner creates a Scanner that runs tool in rootDir; an empty tool means DefaultTool.
func NewScanner(runner Runner, rootDir, tool string) *Scanner {
	if tool == "" {
		tool = DefaultTool
	}
	return &Scanner{
		runner:  runner,
		rootDir: rootDir,
		tool:    tool,
	}
}

// Tool returns the tool package name.
func (s *Scanner) Tool() string {
	return s.tool
}

// ListArgs returns the runner arguments listing packages with the given tool version.
func (s *Scanner) ListArgs(version string) []string {
	return []string{s.toolSpec(version), "ls", "--output=json"}
}

// ProbeArgs returns the runner arguments printing the tool version.
func (s *Scanner) ProbeArgs(version string) []string {
	return []string{s.toolSpec(version), "--version"}
}

func (s *Scanner) toolSpec(version string) string {
	return fmt.Sprintf("%s@%s", s.tool, version)
}

// Scan returns the packages reported by the tool, in tool order.
func (s *Scanner) Scan(ctx context.Context, version string) ([]models.WorkspacePackage, error) {
	packages, err := s.scan(ctx, version)
	if err != nil {
		var execErr *ExecutionError
		var outputErr *InvalidOutputError
		if errors.As(err, &execErr) || errors.As(err, &outputErr) {
			return nil, err
		}
		return nil, &RetrievalError{Err: err}
	}
	return packages, nil
}

func (s *Scanner) scan(ctx context.Context, version string) ([]models.WorkspacePackage, error) {
	args := s.ListArgs(version)

	result, err := s.runner.Run(ctx, s.rootDir, args...)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, &ExecutionError{Args: args, ExitCode: result.ExitCode, Stderr: string(result.Stderr)}
	}

	output := string(result.Stdout)
	doc, ok := ExtractJSONObject(output)
	if !ok {
		return nil, &InvalidOutputError{Output: output}
	}

	return ParsePackageList(doc)
}

// Probe runs the tool's version command once. The runner downloads the
// requested tool version as a side effect.
func (s *Scanner) Probe(ctx context.Context, version string) error {
	args := s.ProbeArgs(version)

	result, err := s.runner.Run(ctx, s.rootDir, args...)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return &ExecutionError{Args: args, ExitCode: result.ExitCode, Stderr: string(result.Stderr)}
	}
	return nil
}

// ExtractJSONObject returns the JSON document embedded in tool output.
//
// Output that is a JSON document on its own is returned as is. Otherwise the
// span from the first "{" to the last "}" is returned; the tool may print
// banner lines around its JSON. Braces inside banner text are not accounted
// for, and several JSON objects are returned as one span.
func ExtractJSONObject(output string) (string, bool) {
	trimmed := strings.TrimSpace(output)
	if strings.HasPrefix(trimmed, "{") && gjson.Valid(trimmed) {
		return trimmed, true
	}

	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end < start {
		return "", false
	}
	return output[start : end+1], true
}

// ParsePackageList decodes the packages.items list of a tool listing.
func ParsePackageList(doc string) ([]models.WorkspacePackage, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("turbo output is not valid JSON")
	}

	items := gjson.Get(doc, "packages.items")
	if !items.IsArray() {
		return nil, fmt.Errorf("turbo output has no packages.items list")
	}

	list := items.Array()
	packages := make([]models.WorkspacePackage, 0, len(list))
	for _, item := range list {
		packages = append(packages, models.WorkspacePackage{
			Name: item.Get("name").String(),
			Path: item.Get("path").String(),
		})
	}

	return packages, nil
}
