package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pders01/homepage/internal/debuglog"
	"github.com/pders01/homepage/internal/page"
	"github.com/pders01/homepage/internal/storage"
	"github.com/pders01/homepage/internal/ticker"
)

const lastRunKey = "last_run"

// discardSink swallows surface updates; the ticker command prints the
// final marquee itself.
type discardSink struct{}

func (discardSink) ShowMarquee(ticker.Marquee) {}
func (discardSink) ShowExpanded(string)        {}

func newTickerCmd(opts *rootOptions) *cobra.Command {
	var (
		full    bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "ticker",
		Short: "Resolve the feeds once and print the ticker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			defer debuglog.Close()

			kv, release, err := opts.openKV(cfg)
			if err != nil {
				return err
			}
			defer release()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			p := page.New(cfg, kv, discardSink{}, page.Options{})
			p.Load(ctx)

			if store, ok := kv.(*storage.Store); ok {
				if err := store.SetMeta(lastRunKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
					debuglog.Warnf("recording last run: %v", err)
				}
			}

			printTicker(cmd.OutOrStdout(), p, full)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Print the repeated marquee text instead of one unit")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Give up on slow feeds after this long")
	return cmd
}

func printTicker(w io.Writer, p *page.Page, full bool) {
	m := p.Ticker().Current()
	text := m.Unit
	if full {
		text = m.Text
	}
	fmt.Fprintln(w, strings.ReplaceAll(text, "\u00a0", " "))
	fmt.Fprintf(w, "duration: %s\n", m.Duration)
	for _, s := range p.Registry().Statuses() {
		line := fmt.Sprintf("%s: %s", s.Feed, s.State)
		if s.Fragment != "" {
			line += " " + s.Fragment
		}
		fmt.Fprintln(w, line)
	}
}
