package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func pruneCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest generated audio files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep") {
				keep = cfg.Storage.MaxFiles
			}
			if keep < 0 {
				return fmt.Errorf("--keep must not be negative")
			}

			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.services.Prune(keep)
			if err != nil {
				return err
			}
			for _, name := range removed {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&keep, "keep", "k", 0, "number of files to keep (defaults to storage.max_files)")
	return cmd
}
