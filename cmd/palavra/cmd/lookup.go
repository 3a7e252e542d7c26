package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/f3rmion/palavra/internal/lookup"
	"github.com/f3rmion/palavra/internal/palavra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <query...>",
	Short: "Look up a word or phrase",
	Long: `Look up a word or phrase in any language and explain it in your
native language: meaning, examples, a friendly note and, for verbs,
a conjugation table.

Examples:
  palavra lookup comboio
  palavra lookup "to have breakfast" --target pt-PT --save
  palavra lookup 你好 --target zh --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().Bool("save", false, "save the result to the notebook")
	lookupCmd.Flags().Bool("speak", false, "speak the headword")
	lookupCmd.Flags().Bool("json", false, "print the result as JSON")
}

func runLookup(cmd *cobra.Command, args []string) error {
	save, _ := cmd.Flags().GetBool("save")
	say, _ := cmd.Flags().GetBool("speak")
	asJSON, _ := cmd.Flags().GetBool("json")

	svc, err := cliServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	query := strings.Join(args, " ")
	out, err := svc.lookup.Lookup(ctx, query, svc.cfg.Native().DisplayName, svc.cfg.Target().DisplayName)
	if err != nil {
		return explain(err)
	}
	r := out.Result

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		printResult(r)
		if out.Status == lookup.StatusPartial {
			fmt.Println("\n(illustration unavailable)")
		}
	}

	if save {
		item, added, err := svc.notebook.Save(ctx, r)
		if err != nil {
			return fmt.Errorf("saving to notebook: %w", err)
		}
		if added {
			fmt.Fprintf(os.Stderr, "Saved %q to your notebook.\n", item.Word)
		} else {
			fmt.Fprintf(os.Stderr, "%q is already in your notebook.\n", item.Word)
		}
	}

	if say {
		if err := svc.player.Speak(ctx, svc.client, r.Word); err != nil {
			return explain(err)
		}
	}
	return nil
}

func printResult(r palavra.DictionaryResult) {
	fmt.Printf("%s", r.Word)
	if reading, ok := r.Reading.Get(); ok {
		fmt.Printf("  [%s]", reading)
	}
	fmt.Printf("\n%s → %s\n\n", r.SourceLang, r.TargetLang)

	fmt.Println(wordwrap.String(r.Explanation, 76))

	if len(r.Examples) > 0 {
		fmt.Println("\nExamples:")
		for _, ex := range r.Examples {
			fmt.Printf("  • %s\n    %s\n", ex.Original, ex.Translated)
		}
	}

	if c, ok := r.Conjugations.Get(); ok {
		fmt.Printf("\n%s (%s):\n", c.Infinitive, c.TenseName)
		for _, f := range c.Forms {
			fmt.Printf("  %-12s %s\n", f.Pronoun, f.Form)
		}
	}

	if r.FriendlyNote != "" {
		fmt.Printf("\nNote: %s\n", wordwrap.String(r.FriendlyNote, 70))
	}
	if r.ImageURL.IsSome() {
		fmt.Println("\n(illustration available in the TUI)")
	}
}

// explain turns a collaborator failure into a message that says what to do.
func explain(err error) error {
	switch {
	case errors.Is(err, palavra.ErrCredential):
		return fmt.Errorf("%w\nset one with 'palavra settings set --api-key <key>' or PALAVRA_API_KEY", err)
	case errors.Is(err, palavra.ErrEmptyQuery):
		return errors.New("nothing to look up")
	}
	return err
}
