package cmd

import (
	"github.com/spf13/cobra"

	"github.com/f3rmion/palavra/internal/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review saved words as flashcards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTUI(cmd, tui.RunReview)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
