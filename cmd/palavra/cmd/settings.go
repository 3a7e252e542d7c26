package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the API key and text model",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
	Long: `Change the stored API key or text model. Settings apply to the next
request.

Examples:
  palavra settings set --api-key AIza...
  palavra settings set --model gemini-2.5-pro`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
	settingsSetCmd.Flags().String("api-key", "", "API key for the AI service")
	settingsSetCmd.Flags().String("model", "", "text model name")
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	svc, err := cliServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	cur := svc.settings.Get()
	keySource := "settings"
	key := cur.APIKey
	if strings.TrimSpace(key) == "" {
		key = viper.GetString("api_key")
		keySource = "environment"
	}

	fmt.Printf("Config dir:    %s\n", svc.dir)
	fmt.Printf("API key:       %s", maskKey(key))
	if key != "" {
		fmt.Printf(" (from %s)", keySource)
	}
	fmt.Println()
	fmt.Printf("Text model:    %s\n", cur.TextModel)
	fmt.Printf("Image model:   %s\n", svc.cfg.Models.Image)
	fmt.Printf("Speech model:  %s (voice %s)\n", svc.cfg.Models.Speech, svc.cfg.Voice)
	fmt.Printf("Languages:     %s → %s\n", svc.cfg.Native().DisplayName, svc.cfg.Target().DisplayName)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	keyChanged := cmd.Flags().Changed("api-key")
	modelChanged := cmd.Flags().Changed("model")
	if !keyChanged && !modelChanged {
		return fmt.Errorf("nothing to change: pass --api-key or --model")
	}

	svc, err := cliServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	next := svc.settings.Get()
	if keyChanged {
		next.APIKey, _ = cmd.Flags().GetString("api-key")
	}
	if modelChanged {
		next.TextModel, _ = cmd.Flags().GetString("model")
	}
	if err := svc.settings.Save(cmd.Context(), next); err != nil {
		return err
	}
	fmt.Println("Settings saved.")
	return nil
}

// maskKey shows only the last four characters of key.
func maskKey(key string) string {
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 4:
		return strings.Repeat("•", len(key))
	}
	return strings.Repeat("•", 8) + key[len(key)-4:]
}
