package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/bastiangx/typeahead/internal/cli"
	"github.com/bastiangx/typeahead/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func defineServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve completions over msgpack IPC and optionally HTTP",
		Long: `The 'serve' command reads msgpack completion requests from stdin and writes
responses to stdout. With --http it also serves GET /api/autocomplete.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("http", "", "HTTP listen address, overrides server.http_addr")
	cmd.Flags().Bool("no-ipc", false, "Serve HTTP only and ignore stdin")
	cmd.Flags().String("words", "", "Text file of words to preload into the local trie")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	engine, pool, err := newEngine(cmd, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	httpAddr := cfg.Server.HTTPAddr
	if addr, _ := cmd.Flags().GetString("http"); addr != "" {
		httpAddr = addr
	}
	noIPC, _ := cmd.Flags().GetBool("no-ipc")
	if noIPC && httpAddr == "" {
		return errors.New("--no-ipc needs an HTTP address")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if httpAddr != "" {
		srv := &http.Server{
			Addr:              httpAddr,
			Handler:           server.NewHTTPHandler(engine, cfg.Server.MaxLimit),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Infof("HTTP listening on %s", httpAddr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if !noIPC {
		g.Go(func() error {
			defer cancel()
			stopRead := context.AfterFunc(gctx, func() { os.Stdin.Close() })
			defer stopRead()
			log.Debug("spawning IPC")
			return server.NewServer(engine, cfg, os.Stdin, os.Stdout).Start(gctx)
		})
	}

	return g.Wait()
}

func defineCLICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cli",
		Short: "Type queries and print suggestions, for testing and debugging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			engine, pool, err := newEngine(cmd, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			if limit <= 0 {
				limit = cfg.CLI.DefaultLimit
			}
			noFilter, _ := cmd.Flags().GetBool("no-filter")
			noFilter = noFilter || cfg.CLI.DefaultNoFilter

			log.Debug("Input info:", "limit", limit, "noFilter", noFilter)
			h := cli.NewInputHandler(engine, cfg.Server.MaxPrefix, limit, noFilter, os.Stdin, os.Stdout)
			return h.Start(cmd.Context())
		},
	}
	cmd.Flags().Int("limit", 0, "Number of suggestions to return (default from config)")
	cmd.Flags().Bool("no-filter", false, "Disable input filtering (DBG only)")
	cmd.Flags().String("words", "", "Text file of words to preload into the local trie")
	return cmd
}
