package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jakoblorz/turbo-projects/internal/fetchcache"
	"github.com/jakoblorz/turbo-projects/internal/filesystem"
	"github.com/jakoblorz/turbo-projects/internal/turbo"
	"github.com/spf13/cobra"
)

const (
	rootFlag            = "root"
	toolFlag            = "tool"
	runnerFlag          = "runner"
	cacheDirFlag        = "cache-dir"
	artifactDirFlag     = "artifact-dir"
	noCacheFlag         = "no-cache"
	summaryTemplateFlag = "summary-template"
	outputNameFlag      = "output-name"

	defaultOutputName = "projects"
	envPrefix         = "TURBO_PROJECTS_"
)

// config is the resolved configuration of one run.
type config struct {
	Root            string
	Tool            string
	Runner          string
	CacheDir        string
	ArtifactDir     string
	NoCache         bool
	SummaryTemplate string
	OutputName      string
}

func registerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String(rootFlag, "", "Workspace root (default: current directory)")
	flags.String(toolFlag, turbo.DefaultTool, "Package name of the discovery tool in the root package.json")
	flags.String(runnerFlag, turbo.DefaultRunner, "Program used to run the discovery tool")
	flags.String(cacheDirFlag, "", "Directory holding tool download snapshots (default: user cache dir)")
	flags.String(artifactDirFlag, "", "Download cache of the runner (default: $HOME/.npm/_npx)")
	flags.Bool(noCacheFlag, false, "Do not restore or save the tool download cache")
	flags.String(summaryTemplateFlag, "", "Go template for one summary line per project (sprig functions available)")
	flags.String(outputNameFlag, defaultOutputName, "Name of the step output holding the grouped result")
}

// loadConfig resolves every setting from its flag, then from the environment,
// then from its default. A flag set on the command line always wins.
//
// Each setting is looked up as INPUT_<NAME> (GitHub Actions inputs keep
// dashes) and TURBO_PROJECTS_<NAME> (dashes become underscores).
func loadConfig(cmd *cobra.Command, fs filesystem.FileSystem, getenv func(string) string) (*config, error) {
	cfg := &config{
		Root:            stringSetting(cmd, getenv, rootFlag),
		Tool:            stringSetting(cmd, getenv, toolFlag),
		Runner:          stringSetting(cmd, getenv, runnerFlag),
		CacheDir:        stringSetting(cmd, getenv, cacheDirFlag),
		ArtifactDir:     stringSetting(cmd, getenv, artifactDirFlag),
		SummaryTemplate: stringSetting(cmd, getenv, summaryTemplateFlag),
		OutputName:      stringSetting(cmd, getenv, outputNameFlag),
	}

	noCache, err := boolSetting(cmd, getenv, noCacheFlag)
	if err != nil {
		return nil, err
	}
	cfg.NoCache = noCache

	cwd, err := fs.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	switch {
	case cfg.Root == "":
		cfg.Root = cwd
	case !filepath.IsAbs(cfg.Root):
		cfg.Root = filepath.Join(cwd, cfg.Root)
	}

	if cfg.Tool == "" {
		cfg.Tool = turbo.DefaultTool
	}
	if cfg.Runner == "" {
		cfg.Runner = turbo.DefaultRunner
	}
	if cfg.OutputName == "" {
		cfg.OutputName = defaultOutputName
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}
	if cfg.ArtifactDir == "" {
		if paths := fetchcache.DefaultArtifactPaths(); len(paths) > 0 {
			cfg.ArtifactDir = paths[0]
		}
	}

	return cfg, nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "turbo-projects")
}

// envNames returns the environment variables consulted for a flag, in order.
func envNames(flag string) []string {
	upper := strings.ToUpper(flag)
	return []string{
		"INPUT_" + upper,
		envPrefix + strings.ReplaceAll(upper, "-", "_"),
	}
}

func lookupEnv(getenv func(string) string, flag string) (string, bool) {
	for _, name := range envNames(flag) {
		if value := strings.TrimSpace(getenv(name)); value != "" {
			return value, true
		}
	}
	return "", false
}

func stringSetting(cmd *cobra.Command, getenv func(string) string, name string) string {
	flag := cmd.Flag(name)
	if flag.Changed {
		return flag.Value.String()
	}
	if value, ok := lookupEnv(getenv, name); ok {
		return value
	}
	return flag.Value.String()
}

func boolSetting(cmd *cobra.Command, getenv func(string) string, name string) (bool, error) {
	flag := cmd.Flag(name)
	value := flag.Value.String()
	if !flag.Changed {
		if env, ok := lookupEnv(getenv, name); ok {
			value = env
		}
	}

	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid value %q for %s: %w", value, name, err)
	}
	return enabled, nil
}
