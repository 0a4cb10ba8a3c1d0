package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/feedkit/feedkit/internal/app"
	"github.com/feedkit/feedkit/internal/config"
	"github.com/feedkit/feedkit/internal/logger"
	"github.com/feedkit/feedkit/internal/metrics"
)

type rootFlags struct {
	configPath string
	verbose    bool
	theme      string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	feedOpts := &feedOptions{}

	cmd := &cobra.Command{
		Use:           "feedkit",
		Short:         "feedkit renders a themeable, plugin-extensible social feed in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, flags, feedOpts)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to the config file (default $XDG_CONFIG_HOME/feedkit/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.theme, "theme", "", "Theme to start with (light or dark)")
	addFeedFlags(cmd, feedOpts)

	cmd.AddCommand(newFeedCmd(flags))
	cmd.AddCommand(newStylesCmd(flags))
	cmd.AddCommand(newPointsCmd(flags))
	cmd.AddCommand(newPluginsCmd(flags))
	cmd.AddCommand(newThemePackCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	path := flags.configPath
	if strings.TrimSpace(path) == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, newCommandError("load configuration", path, err, "Fix the reported field or remove the file to use defaults.")
	}
	if flags.theme != "" {
		cfg.Theme = flags.theme
		if err := config.Validate(cfg); err != nil {
			return nil, newCommandError("select theme", flags.theme, err, "Use --theme light or --theme dark.")
		}
	}
	if flags.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newLogger writes to out. Console formatting is used on a terminal, or on
// stderr when verbose; anything else gets JSON lines.
func newLogger(cmd *cobra.Command, cfg *config.Config, verbose bool, out io.Writer) (*logger.Logger, error) {
	log, err := logger.New(logger.Options{
		Level:         cfg.LogLevel,
		HumanReadable: isTerminal(out) || (verbose && out == cmd.ErrOrStderr()),
		Writer:        out,
	})
	if err != nil {
		return nil, err
	}
	return log.With("run_id", uuid.NewString()).With("command", cmd.Name()), nil
}

// openLogFile opens path for appending, creating its directory.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// bootstrap builds a runtime and loads its plugins. Plugin failures are
// logged and the runtime stays usable with the plugins that did load. Logs go
// to logOut, or stderr when it is nil.
func bootstrap(cmd *cobra.Command, flags *rootFlags, m *metrics.Metrics, logOut io.Writer) (*app.Runtime, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	if logOut == nil {
		logOut = cmd.ErrOrStderr()
	}
	log, err := newLogger(cmd, cfg, flags.verbose, logOut)
	if err != nil {
		return nil, newCommandError("create logger", cfg.LogLevel, err, "Use one of debug, info, warn or error for log_level.")
	}

	rt, err := app.New(app.Options{Config: cfg, Logger: log, Metrics: m})
	if err != nil {
		return nil, newCommandError("start feedkit", "building the runtime", err, "Check the theme and pack_dir settings.")
	}
	if err := rt.Bootstrap(); err != nil {
		log.Error(err, "some plugins failed to load")
	}
	return rt, nil
}

func isTerminal(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
