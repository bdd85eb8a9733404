package commands

import (
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/routemod/pkg/log"
)

// NewScanCmd creates a new scan command
func NewScanCmd(opts *RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List candidate files without modifying anything",
		Long: `Scan enumerates the files a run would consider and shows the route
parameters extracted from each path. Nothing is read or written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "scan").Logger().WithContext(ctx)

			cfg, err := opts.LoadConfig(ctx)
			if err != nil {
				return err
			}

			ui := log.NewUserLogger(ctx)
			convention := cfg.Convention()

			count := 0
			err = cfg.Selector().Walk(ctx, func(rel string) error {
				ui.Candidate(rel, convention.Extract(rel))
				count++
				return nil
			})
			if err != nil {
				return errors.Errorf("scanning %s: %w", cfg.Root, err)
			}

			pterm.Println()
			pterm.Info.Printfln("%d candidate files under %s", count, cfg.Root)
			return nil
		},
	}

	return cmd
}
