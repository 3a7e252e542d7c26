package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var notebookCmd = &cobra.Command{
	Use:     "notebook",
	Aliases: []string{"nb"},
	Short:   "Manage saved words",
}

var notebookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved words, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runNotebookList,
}

var notebookDeleteCmd = &cobra.Command{
	Use:   "delete <id|word>",
	Short: "Delete a saved word",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotebookDelete,
}

var notebookClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved word",
	Args:  cobra.NoArgs,
	RunE:  runNotebookClear,
}

func init() {
	rootCmd.AddCommand(notebookCmd)
	notebookCmd.AddCommand(notebookListCmd, notebookDeleteCmd, notebookClearCmd)
	notebookClearCmd.Flags().Bool("yes", false, "do not ask for confirmation")
}

func runNotebookList(cmd *cobra.Command, args []string) error {
	svc, err := cliServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	items := svc.notebook.List()
	if len(items) == 0 {
		fmt.Println("Your notebook is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWORD\tREADING\tLANGUAGES\tSAVED")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s → %s\t%s\n",
			shortID(it.ID), it.Word, it.Reading.OrElse(""),
			it.SourceLang, it.TargetLang, humanize.Time(it.Timestamp))
	}
	return w.Flush()
}

func runNotebookDelete(cmd *cobra.Command, args []string) error {
	svc, err := cliServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	id := args[0]
	item, ok := svc.notebook.Get(id)
	if !ok {
		item, ok = svc.notebook.FindByWord(id)
	}
	if !ok {
		for _, it := range svc.notebook.List() {
			if shortID(it.ID) == id {
				item, ok = it, true
				break
			}
		}
	}
	if !ok {
		return fmt.Errorf("no saved word matches %q", id)
	}

	if err := svc.notebook.Delete(cmd.Context(), item.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted %q.\n", item.Word)
	return nil
}

func runNotebookClear(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	svc, err := cliServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	n := svc.notebook.Len()
	if n == 0 {
		fmt.Println("Your notebook is already empty.")
		return nil
	}
	if !yes {
		fmt.Printf("Delete all %d saved words? [y/N] ", n)
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := svc.notebook.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("Deleted %d words.\n", n)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
