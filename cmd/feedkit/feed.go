package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/feedkit/feedkit/internal/config"
	"github.com/feedkit/feedkit/internal/feed"
	"github.com/feedkit/feedkit/internal/logger"
	"github.com/feedkit/feedkit/internal/metrics"
)

type feedOptions struct {
	once        bool
	width       int
	metricsAddr string
}

func addFeedFlags(cmd *cobra.Command, opts *feedOptions) {
	cmd.Flags().BoolVar(&opts.once, "once", false, "Render a single frame and exit")
	cmd.Flags().IntVar(&opts.width, "width", 80, "Width used by --once")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9464)")
}

func newFeedCmd(flags *rootFlags) *cobra.Command {
	opts := &feedOptions{}

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the feed",
		Long:  "Show the interactive feed. When stdout is not a terminal, or with --once, a single frame is printed instead.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, flags, opts)
		},
	}
	addFeedFlags(cmd, opts)

	return cmd
}

func runFeed(cmd *cobra.Command, flags *rootFlags, opts *feedOptions) error {
	interactive := !opts.once && isTerminal(cmd.OutOrStdout())

	// The program owns the terminal, so logs go to a file instead.
	var logOut io.Writer
	if interactive {
		path := config.DefaultLogPath()
		file, err := openLogFile(path)
		if err != nil {
			return newCommandError("open log file", path, err, "Set XDG_STATE_HOME to a writable directory.")
		}
		defer file.Close()
		logOut = file
	}

	m := metrics.New("")
	rt, err := bootstrap(cmd, flags, m, logOut)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	addr := opts.metricsAddr
	if addr == "" {
		addr = rt.Config.Metrics.Addr
	}
	if addr != "" {
		srv := serveMetrics(addr, m.Handler(), rt.Log)
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if !interactive {
		out, err := feed.RenderOnce(ctx, rt.Renderer(), rt.Source(), opts.width)
		if err != nil {
			return newCommandError("render feed", "rendering a single frame", err, "Check the posts file and that every component is bound.")
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	changes := feed.WatchChanges(rt.Extensions, rt.Overrides)
	defer changes.Close()

	model := feed.NewModel(feed.Options{
		Renderer: rt.Renderer(),
		Source:   rt.Source(),
		Reload:   rt.Reload,
		Changes:  changes,
		Logger:   rt.Log,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if rt.Config.Watch {
		go func() {
			err := rt.Watch(ctx, func(err error) {
				program.Send(feed.ReloadedMsg{Err: err})
			})
			if err != nil {
				rt.Log.Error(err, "theme pack watcher stopped")
			}
		}()
	}

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return newCommandError("run feed", "running the interactive feed", err, "Retry with --once to print a single frame.")
	}
	return nil
}

func serveMetrics(addr string, handler http.Handler, log *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.With("addr", addr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, "metrics server stopped")
		}
	}()
	return srv
}
