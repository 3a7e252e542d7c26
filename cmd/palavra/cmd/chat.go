package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/f3rmion/palavra/internal/chat"
	"github.com/f3rmion/palavra/internal/palavra"
)

const chatHistoryFile = "chat_history"

var chatCmd = &cobra.Command{
	Use:   "chat <word...>",
	Short: "Chat with the tutor about a word",
	Long: `Start a conversation about a word. A saved word is used as is;
anything else is looked up first.

Type your questions at the prompt. Enter an empty line or press
Ctrl-D to leave.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	svc, err := cliServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	word := strings.Join(args, " ")

	var result palavra.DictionaryResult
	if item, ok := svc.notebook.FindByWord(word); ok {
		result = item.DictionaryResult
	} else {
		out, err := svc.lookup.Lookup(ctx, word, svc.cfg.Native().DisplayName, svc.cfg.Target().DisplayName)
		if err != nil {
			return explain(err)
		}
		result = out.Result
	}

	session := chat.Open(svc.client, result, svc.log)
	renderer, _ := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := filepath.Join(svc.dir, chatHistoryFile)
	if f, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.OpenFile(historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("Chatting about %s. Empty line or Ctrl-D to quit.\n\n", result.Word)
	for {
		input, err := line.Prompt("you> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return nil
		}
		line.AppendHistory(input)

		turns, err := session.Send(ctx, input)
		if err != nil {
			if errors.Is(err, palavra.ErrCredential) {
				return explain(err)
			}
			fmt.Fprintln(os.Stderr, "error:", err)
			fmt.Fprintln(os.Stderr, "(your message was kept, ask again to retry)")
			continue
		}

		reply := turns[len(turns)-1].Text
		if renderer != nil {
			if out, err := renderer.Render(reply); err == nil {
				reply = out
			}
		}
		fmt.Printf("tutor>\n%s\n", reply)
	}
}
