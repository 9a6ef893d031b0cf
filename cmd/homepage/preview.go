package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/homepage/internal/debuglog"
	"github.com/pders01/homepage/internal/tui"
)

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var (
		mobile   bool
		listPath string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Run the interactive terminal preview of the page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			defer debuglog.Close()

			if cmd.Flags().Changed("mobile") {
				cfg.UI.Mobile = mobile
			}
			if listPath != "" {
				cfg.Content.ListPath = listPath
			}

			kv, release, err := opts.openKV(cfg)
			if err != nil {
				return err
			}
			defer release()

			if !opts.quiet {
				tui.ShowBanner(Version)
			}

			app := tui.NewApp(kv, cfg)
			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())
			app.Attach(p)

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running preview: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&mobile, "mobile", false, "Start in mobile (double-tap) mode")
	cmd.Flags().StringVar(&listPath, "list", "", "Path or URL of list.json (overrides config)")
	return cmd
}
