// Command sheetctl previews, repairs and plays PGTE character sheets from the
// terminal. Stored characters are reached through the same STORE_BACKEND
// settings the bot uses.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pgte-bot/internal/chat"
	"github.com/KirkDiggler/pgte-bot/internal/config"
	"github.com/KirkDiggler/pgte-bot/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "sheetctl",
	Short: "Inspect and maintain PGTE character sheets",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is fine; the environment may already be set
		_ = godotenv.Load()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		os.Exit(1)
	}
}

// openProvider connects the configured store and builds the services over it.
// Rolls are written to sink.
func openProvider(ctx context.Context, sink chat.Sink) (*services.Provider, func() error, error) {
	cfg, err := config.LoadStorage()
	if err != nil {
		return nil, nil, err
	}
	repo, closeRepo, err := services.OpenRepository(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	provider := services.NewProvider(&services.ProviderConfig{
		CharacterRepository: repo,
		ChatSink:            sink,
	})
	return provider, closeRepo, nil
}
