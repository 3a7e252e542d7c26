package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var speakCmd = &cobra.Command{
	Use:   "speak <text...>",
	Short: "Speak text aloud",
	Long: `Synthesize text with the configured voice and play it.

Example:
  palavra speak "Bom dia, tudo bem?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSpeak,
}

func init() {
	rootCmd.AddCommand(speakCmd)
}

func runSpeak(cmd *cobra.Command, args []string) error {
	svc, err := cliServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	return explain(svc.player.Speak(cmd.Context(), svc.client, strings.Join(args, " ")))
}
