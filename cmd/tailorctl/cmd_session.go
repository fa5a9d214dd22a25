package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tailorpreview/internal/adapter/repo"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect how bearer tokens resolve",
}

// tailorctl session inspect --token <jwt> [--token <refreshed jwt>...] [--sign-out]
//
// The first token is replayed as a sign-in and later ones as refreshes, the
// same event stream a browser produces.
var sessionInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Replay auth events and print each resolved session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens, _ := cmd.Flags().GetStringSlice("token")
		signOut, _ := cmd.Flags().GetBool("sign-out")

		return withSQL(cmd.Context(), "session", func(ctx context.Context, sql *infra.SQLRunner) error {
			cfg, logger, err := boot("session")
			if err != nil {
				return err
			}
			resolver := session.NewResolver(cfg.SupabaseJWTSecret, repo.NewProfileRepository(sql), logger, nil)
			tracker := session.NewTracker(resolver)
			out := cmd.OutOrStdout()
			unsubscribe := tracker.Subscribe(func(s session.State) { printState(out, s) })
			defer unsubscribe()

			for _, ev := range authEvents(tokens, signOut) {
				tracker.Handle(ctx, ev)
			}
			return nil
		})
	},
}

func init() {
	sessionInspectCmd.Flags().StringSlice("token", nil, "access token; repeat to replay refreshes")
	sessionInspectCmd.Flags().Bool("sign-out", false, "finish with a sign-out event")
	_ = sessionInspectCmd.MarkFlagRequired("token")
	sessionCmd.AddCommand(sessionInspectCmd)
}

func authEvents(tokens []string, signOut bool) []session.Event {
	events := make([]session.Event, 0, len(tokens)+1)
	for i, tok := range tokens {
		typ := session.EventTokenRefreshed
		if i == 0 {
			typ = session.EventSignedIn
		}
		events = append(events, session.Event{Type: typ, Token: tok})
	}
	if signOut {
		events = append(events, session.Event{Type: session.EventSignedOut})
	}
	return events
}

func printState(w io.Writer, s session.State) {
	if !s.Authenticated() {
		fmt.Fprintf(w, "%s surface=%s\n", s.Status, s.Surface())
		return
	}
	fmt.Fprintf(w, "%s surface=%s user=%s role=%s expires=%s\n",
		s.Status, s.Surface(), s.UserID(), s.Role, s.Identity.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"))
}
