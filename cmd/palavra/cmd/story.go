package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/f3rmion/palavra/internal/clipboard"
	"github.com/f3rmion/palavra/internal/story"
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Weave a short story from your most recent saved words",
	Long: fmt.Sprintf(`Ask the tutor for a short story, written in your native language,
that uses your %d most recent saved words in bold. At least %d saved
words are needed.`, story.MaxItems, story.MinItems),
	Args: cobra.NoArgs,
	RunE: runStory,
}

func init() {
	rootCmd.AddCommand(storyCmd)
	storyCmd.Flags().Bool("copy", false, "copy the story to the clipboard")
	storyCmd.Flags().Bool("plain", false, "print raw markdown instead of rendering it")
}

func runStory(cmd *cobra.Command, args []string) error {
	copyIt, _ := cmd.Flags().GetBool("copy")
	plain, _ := cmd.Flags().GetBool("plain")

	svc, err := cliServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	items := svc.notebook.List()
	if len(items) < story.MinItems {
		return fmt.Errorf("save at least %d words first (you have %d)", story.MinItems, len(items))
	}

	text, err := story.New(svc.client).Weave(cmd.Context(), items, svc.cfg.Native().DisplayName)
	if err != nil {
		return explain(err)
	}

	out := text
	if !plain {
		if rendered, err := glamour.Render(text, "auto"); err == nil {
			out = rendered
		} else {
			svc.log.Debug("markdown rendering failed", "error", err)
		}
	}
	fmt.Println(out)

	if copyIt {
		if err := clipboard.Write(text); err != nil {
			fmt.Fprintln(os.Stderr, "Copy failed:", err)
		} else {
			fmt.Fprintln(os.Stderr, "Story copied to clipboard.")
		}
	}
	return nil
}
