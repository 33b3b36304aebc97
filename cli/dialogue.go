package cli

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/srgchrksv/ieltspodcaster/models"
)

func dialogueCmd() *cobra.Command {
	var topic, difficulty string

	cmd := &cobra.Command{
		Use:   "dialogue",
		Short: "Generate one interview and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.loadGenerator(ctx); err != nil {
				return err
			}
			lines, err := a.services.GenerateDialogue(ctx, topic, difficulty)
			if err != nil {
				return err
			}

			out, err := sonic.ConfigStd.MarshalIndent(models.NewDialogueResponse(lines), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "interview topic")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", string(models.Intermediate), "beginner, intermediate or advanced")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}
