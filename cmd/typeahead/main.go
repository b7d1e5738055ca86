// Copyright 2025 The Typeahead Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the typeahead server, the index builder and a CLI
for trying out completions.

typeahead answers autocomplete queries from a per-process prefix trie and
falls back to a Redis sorted set holding every prefix of every indexed term.
Remote answers are warmed into the local trie, so repeated prefixes are
served without another round trip.

# Usage

Build the remote index from a corpus:

	typeahead build-index --text dishes.txt --sqlite menu.db --query "SELECT name FROM dishes"

Serve completions over msgpack IPC on stdin/stdout, plus HTTP:

	typeahead serve --http :8080 -d

Try completions interactively:

	typeahead cli

# Configuration

Runtime configuration is read from a TOML file, created with defaults on
first run:

	[engine]
	limit = 5
	min_prefix = 2
	remote_timeout_ms = 300

	[remote]
	addr = "localhost:6379"
	key = "suggestions"

Use --config to point at another file, and `typeahead config path` to see
which file is in use.
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0-beta"
	AppName = "typeahead"
	gh      = "https://github.com/bastiangx/typeahead"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           AppName,
		Short:         "Hybrid local and Redis backed autocomplete",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			logger.Setup(debug)
		},
	}
	root.PersistentFlags().BoolP("debug", "d", false, "Toggle debug mode")
	root.PersistentFlags().String("config", "", "Path to config.toml")

	root.AddCommand(
		defineServeCommand(),
		defineCLICommand(),
		defineBuildIndexCommand(),
		defineConfigCommand(),
		defineVersionCommand(),
	)
	return root
}
