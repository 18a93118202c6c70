package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// Logger writes progress to the log of the hosting automation environment.
//
// Inside GitHub Actions it emits workflow commands (::warning::, ::group::,
// ...) and writes outputs to the GITHUB_OUTPUT file. Elsewhere it prints
// styled lines and writes outputs to the result writer.
type Logger struct {
	out        io.Writer
	result     io.Writer
	workflow   bool
	outputFile string
	debug      bool
	groupDepth int

	action *githubactions.Action
}

// Option configures a Logger.
type Option func(*Logger)

// WithWorkflowCommands enables GitHub Actions workflow commands.
func WithWorkflowCommands(enabled bool) Option {
	return func(l *Logger) {
		l.workflow = enabled
	}
}

// WithOutputFile sets the file step outputs are appended to.
func WithOutputFile(path string) Option {
	return func(l *Logger) {
		l.outputFile = path
	}
}

// WithResultWriter sets where outputs go when no output file is configured.
func WithResultWriter(w io.Writer) Option {
	return func(l *Logger) {
		l.result = w
	}
}

// WithDebug enables debug messages.
func WithDebug(enabled bool) Option {
	return func(l *Logger) {
		l.debug = enabled
	}
}

// NewLogger creates a Logger writing log lines to out.
func NewLogger(out io.Writer, options ...Option) *Logger {
	l := &Logger{
		out:    out,
		result: out,
	}

	for _, option := range options {
		option(l)
	}

	l.action = githubactions.New(
		githubactions.WithWriter(out),
		githubactions.WithGetenv(l.getenv),
	)

	return l
}

// getenv feeds the configured output file to the workflow command writer.
func (l *Logger) getenv(key string) string {
	if key == "GITHUB_OUTPUT" {
		return l.outputFile
	}
	return ""
}

// EnvOptions derives logger options from the GitHub Actions runner environment.
func EnvOptions() []Option {
	return []Option{
		WithWorkflowCommands(os.Getenv("GITHUB_ACTIONS") == "true"),
		WithOutputFile(os.Getenv("GITHUB_OUTPUT")),
		WithDebug(os.Getenv("RUNNER_DEBUG") == "1"),
	}
}

// Info logs a progress line.
func (l *Logger) Info(format string, args ...any) {
	fmt.Fprintf(l.out, "%s%s\n", l.indent(), fmt.Sprintf(format, args...))
}

// Debug logs a line only visible with debugging enabled.
func (l *Logger) Debug(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.workflow {
		l.action.Debugf("%s", msg)
		return
	}
	if l.debug {
		fmt.Fprintf(l.out, "%s%s\n", l.indent(), SubtleStyle.Render(msg))
	}
}

// Warning logs a non-fatal problem.
func (l *Logger) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.workflow {
		l.action.Warningf("%s", msg)
		return
	}
	fmt.Fprintf(l.out, "%s%s\n", l.indent(), WarningStyle.Render("⚠️  "+msg))
}

// Error logs an error.
func (l *Logger) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.workflow {
		l.action.Errorf("%s", msg)
		return
	}
	fmt.Fprintf(l.out, "%s%s\n", l.indent(), ErrorStyle.Render("❌ "+msg))
}

// StartGroup opens a collapsible log group.
func (l *Logger) StartGroup(title string) {
	if l.workflow {
		l.action.Group(title)
		return
	}
	fmt.Fprintf(l.out, "%s%s\n", l.indent(), HeaderStyle.Render(title))
	l.groupDepth++
}

// EndGroup closes the group opened last.
func (l *Logger) EndGroup() {
	if l.workflow {
		l.action.EndGroup()
		return
	}
	if l.groupDepth > 0 {
		l.groupDepth--
	}
}

// SetFailed reports the failure of the run.
func (l *Logger) SetFailed(err error) {
	l.Error("%s", err.Error())
}

// SetOutput publishes a named step output. Without an output file the value
// is written to the result writer.
func (l *Logger) SetOutput(name, value string) error {
	if l.outputFile == "" {
		_, err := fmt.Fprintln(l.result, value)
		return err
	}

	// the action swallows file errors and falls back to the removed
	// set-output command, so check the file is writable first
	f, err := os.OpenFile(l.outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	_ = f.Close()

	l.action.SetOutput(name, value)
	return nil
}

func (l *Logger) indent() string {
	return strings.Repeat("  ", l.groupDepth)
}
