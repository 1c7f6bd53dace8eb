// Package main implements the ccboard CLI — a minimal smoke-test
// collaborator over the monitoring core, exercising initial_load,
// list_sessions, and the stats/settings/analytics read surfaces from a
// terminal. The TUI and HTTP collaborators this core is designed for are
// out of scope (spec Non-goals); this binary exists to prove the core
// end to end.
//
// # File Index
//
//   - main.go          - entry point, rootCmd, global flags, boot()
//   - cmd_sessions.go  - sessionsCmd: list / recent
//   - cmd_stats.go     - statsCmd, budgetCmd, configCmd
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ccboard/internal/appconfig"
	"ccboard/internal/datastore"
	"ccboard/internal/eventbus"
	"ccboard/internal/logging"
	"ccboard/internal/metacache"
	"ccboard/internal/query"
)

const (
	exitOK             = 0
	exitGenericError   = 1
	exitInvalidInvoke  = 2
	exitCorpusNotFound = 3
)

var (
	verbose    bool
	corpusRoot string

	svc   *query.Service
	store *datastore.Store
)

var rootCmd = &cobra.Command{
	Use:   "ccboard",
	Short: "Read-only monitoring core for a local coding-assistant session corpus",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return boot()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// boot wires the full dependency graph (cache, bus, store) and performs
// the initial corpus load, the way codeNERD's rootCmd.PersistentPreRunE
// initializes its shared logger and workspace before any subcommand
// runs.
func boot() error {
	if err := logging.Init(verbose); err != nil {
		return err
	}
	log := logging.Get(logging.CategoryBoot)

	cfg, err := appconfig.FromEnv()
	if err != nil {
		return err
	}
	if corpusRoot != "" {
		cfg.CorpusRoot = corpusRoot
	}
	if info, err := os.Stat(cfg.CorpusRoot); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "corpus root not found: %s\n", cfg.CorpusRoot)
		os.Exit(exitCorpusNotFound)
	}

	cache, err := metacache.Open(cfg.MetadataDBPath())
	if err != nil {
		return err
	}

	bus := eventbus.New(cfg.Limits.EventBusCapacity)
	store = datastore.New(cfg, cache, bus)

	report, err := store.InitialLoad(cmdContext())
	if err != nil {
		return err
	}
	log.Infow("boot complete", "sessions_scanned", report.SessionsScanned, "sessions_failed", report.SessionsFailed)

	content := newContentCache(cfg)
	svc = query.New(store, content, cfg.Limits.PageSizeCap)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&corpusRoot, "corpus-root", "", "override corpus root (default: $CCBOARD_CLAUDE_HOME or ~/.claude)")

	rootCmd.AddCommand(sessionsCmd, statsCmd, budgetCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitGenericError)
	}
	os.Exit(exitOK)
}
