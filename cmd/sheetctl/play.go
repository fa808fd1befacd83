package main

import (
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pgte-bot/internal/chat"
	"github.com/KirkDiggler/pgte-bot/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play <character-id>",
	Short: "Open an interactive sheet for one stored character",
	Long: `Open a terminal view over a stored character. Arrow keys pick a track,
+ and - adjust it, digits click hit markers and r rolls the story die.
Changes are written as --user, so only the owner can edit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		logFile, _ := cmd.Flags().GetString("log")
		ctx := cmd.Context()

		// The screen belongs to the TUI; logs and rolls go to a file or nowhere
		if logFile != "" {
			f, err := tea.LogToFile(logFile, "sheetctl")
			if err != nil {
				return err
			}
			defer f.Close()
		} else {
			log.SetOutput(io.Discard)
		}

		provider, closeStore, err := openProvider(ctx, chat.LogSink{})
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		model := tui.New(ctx, provider.CharacterService, userID, args[0])
		_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
		return err
	},
}

func init() {
	playCmd.Flags().StringP("user", "u", "", "Discord user ID to act as (must own the sheet to edit)")
	playCmd.Flags().String("log", "", "Write logs and rolls to this file")
	_ = playCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(playCmd)
}
