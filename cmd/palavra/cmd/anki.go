package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/palavra/internal/anki"
)

var ankiInspectLimit int

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Export the notebook to Anki and inspect decks",
}

var ankiExportCmd = &cobra.Command{
	Use:   "export <file.apkg>",
	Short: "Export the notebook as an Anki deck",
	Long: `Write every saved word to an .apkg file that Anki can import. Each
word becomes one card with its reading, meaning, examples, note,
conjugations and illustration.

Example:
  palavra anki export palavra.apkg --deck "Portuguese::Palavra"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiExport,
}

var ankiInspectCmd = &cobra.Command{
	Use:   "inspect <file.apkg>",
	Short: "Inspect an Anki deck",
	Long: `Inspect an Anki .apkg file to see its structure:
  - Decks
  - Note types (models) and their fields
  - Sample notes

Example:
  palavra anki inspect palavra.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiInspect,
}

func init() {
	rootCmd.AddCommand(ankiCmd)
	ankiCmd.AddCommand(ankiExportCmd, ankiInspectCmd)

	ankiExportCmd.Flags().String("deck", "", "deck name (default from config)")
	ankiInspectCmd.Flags().IntVarP(&ankiInspectLimit, "limit", "n", 5, "number of sample notes to show")
}

func runAnkiExport(cmd *cobra.Command, args []string) error {
	svc, err := cliServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	deck, _ := cmd.Flags().GetString("deck")
	if deck == "" {
		deck = svc.cfg.AnkiDeck
	}

	items := svc.notebook.List()
	if err := anki.NewExporter(svc.log).Export(args[0], deck, items); err != nil {
		return fmt.Errorf("exporting deck: %w", err)
	}
	fmt.Printf("Exported %d words to %s (deck %q).\n", len(items), args[0], deck)
	return nil
}

var htmlTags = regexp.MustCompile(`<[^>]*>`)

func runAnkiInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	fmt.Printf("Opening: %s\n\n", path)

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	fmt.Print(pkg.Summary())
	fmt.Println()

	fmt.Println("Field Details:")
	for _, model := range pkg.Models {
		fmt.Printf("  %s:\n", model.Name)
		for _, field := range model.Fields {
			fmt.Printf("    [%d] %s\n", field.Ord, field.Name)
		}
	}
	fmt.Println()

	fmt.Printf("Sample Notes (first %d):\n", ankiInspectLimit)
	for i, note := range pkg.Notes {
		if i >= ankiInspectLimit {
			break
		}
		model := pkg.Models[note.ModelID]
		if model == nil {
			fmt.Printf("\n  Note %d (unknown model)\n", note.ID)
			continue
		}
		fmt.Printf("\n  Note %d (Model: %s):\n", note.ID, model.Name)
		for _, f := range model.Fields {
			v := strings.TrimSpace(htmlTags.ReplaceAllString(pkg.FieldValue(note, f.Name), " "))
			if r := []rune(v); len(r) > 60 {
				v = string(r[:57]) + "..."
			}
			if v != "" {
				fmt.Printf("    %s: %s\n", f.Name, v)
			}
		}
	}
	return nil
}
