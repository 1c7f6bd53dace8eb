// Package main: session listing CLI commands, grounded on codeNERD's
// cmd/nerd/cmd_sessions.go list/load shape.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ccboard/internal/query"
)

var (
	sessionsSearch  string
	sessionsProject string
	sessionsModel   string
	sessionsLimit   int

	sessionsRecentLimit int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List indexed sessions",
	RunE:  runSessionsList,
}

var sessionsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recently active sessions",
	RunE:  runSessionsRecent,
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsSearch, "search", "", "substring match against session id / project / preview")
	sessionsCmd.Flags().StringVar(&sessionsProject, "project", "", "project path prefix filter")
	sessionsCmd.Flags().StringVar(&sessionsModel, "model", "", "model substring filter")
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "page size")

	sessionsRecentCmd.Flags().IntVar(&sessionsRecentLimit, "limit", 10, "number of sessions")
	sessionsCmd.AddCommand(sessionsRecentCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	filter := query.Filter{
		Search:         sessionsSearch,
		ProjectPrefix:  sessionsProject,
		ModelSubstring: sessionsModel,
		Sort:           query.SortByLastTimestamp,
	}
	sessions, total := svc.ListSessions(filter, query.Page{Limit: sessionsLimit})

	if len(sessions) == 0 {
		fmt.Println("No matching sessions.")
		return nil
	}

	fmt.Println("Sessions")
	fmt.Println(strings.Repeat("-", 60))
	for _, s := range sessions {
		fmt.Printf("  %s  %-30s  %d tokens\n", s.SessionID, s.ProjectPath, s.TotalTokens())
	}
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Showing %d of %d\n", len(sessions), total)
	return nil
}

func runSessionsRecent(cmd *cobra.Command, args []string) error {
	sessions := svc.RecentSessions(sessionsRecentLimit)
	for _, s := range sessions {
		fmt.Printf("  %s  %-30s  %d tokens\n", s.SessionID, s.ProjectPath, s.TotalTokens())
	}
	return nil
}
