package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jakoblorz/turbo-projects/internal/actions"
	"github.com/jakoblorz/turbo-projects/internal/fetchcache"
	"github.com/jakoblorz/turbo-projects/internal/filesystem"
	"github.com/jakoblorz/turbo-projects/internal/grouper"
	"github.com/jakoblorz/turbo-projects/internal/turbo"
	"github.com/spf13/cobra"
)

// RunnerFactory creates the runner for the configured runner program.
type RunnerFactory func(program string) turbo.Runner

// RootCommand groups the buildable packages of a workspace.
type RootCommand struct {
	fs        filesystem.FileSystem
	newRunner RunnerFactory
	getenv    func(string) string
}

// reportedError is a failure that was already written to the log.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem, newRunner RunnerFactory) *cobra.Command {
	return newRootCommand(fs, newRunner, os.Getenv)
}

func newRootCommand(fs filesystem.FileSystem, newRunner RunnerFactory, getenv func(string) string) *cobra.Command {
	cmd := &RootCommand{
		fs:        fs,
		newRunner: newRunner,
		getenv:    getenv,
	}

	cobraCmd := &cobra.Command{
		Use:   "turbo-projects",
		Short: "Group the buildable packages of a Turborepo workspace",
		Long: `Lists the packages of a Turborepo workspace and groups them by the
"build" field of their package.json.

A package with "build": "docker" lands in the docker group; one with
"build": ["npm", "docker"] lands in both. Packages without a build field are
left out. The grouped result is published as a JSON step output.`,
		Example: `  # Group the packages of the current workspace
  turbo-projects

  # Use a different workspace and skip the download cache
  turbo-projects --root ./monorepo --no-cache

  # Customize the summary lines
  turbo-projects --summary-template '{{ .Name | upper }} {{ .Version | default "unversioned" }}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          cmd.Run,
	}

	registerFlags(cobraCmd)

	return cobraCmd
}

// Run executes the root command
func (c *RootCommand) Run(cmd *cobra.Command, args []string) error {
	logger := actions.NewLogger(cmd.ErrOrStderr(), append(actions.EnvOptions(), actions.WithResultWriter(cmd.OutOrStdout()))...)

	if err := c.run(cmd, logger); err != nil {
		logger.SetFailed(err)
		return &reportedError{err: err}
	}
	return nil
}

func (c *RootCommand) run(cmd *cobra.Command, logger *actions.Logger) error {
	cfg, err := loadConfig(cmd, c.fs, c.getenv)
	if err != nil {
		return err
	}

	summary, err := actions.NewSummary(cfg.SummaryTemplate)
	if err != nil {
		return err
	}

	options := []grouper.Option{
		grouper.WithTool(cfg.Tool),
		grouper.WithLogger(logger),
	}
	if !cfg.NoCache {
		store := fetchcache.NewLocalStore(c.fs, cfg.CacheDir)
		options = append(options, grouper.WithCache(store, cfg.ArtifactDir))
	} else {
		logger.Debug("Download cache disabled")
	}

	logger.StartGroup(fmt.Sprintf("🔍 Discovering packages in %s", cfg.Root))
	result, err := grouper.New(c.fs, c.newRunner(cfg.Runner), cfg.Root, options...).Run(cmd.Context())
	logger.EndGroup()
	if err != nil {
		return err
	}

	if err := summary.Write(logger, result); err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := logger.SetOutput(cfg.OutputName, string(data)); err != nil {
		return fmt.Errorf("failed to set output %s: %w", cfg.OutputName, err)
	}

	logger.Info("✓ Found %d build group(s)", result.Len())
	return nil
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs := filesystem.NewOSFileSystem()
	rootCmd := NewRootCommand(fs, func(program string) turbo.Runner {
		return turbo.NewOSRunner(program)
	})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
