package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	"github.com/KirkDiggler/pgte-bot/internal/render"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a character sheet in the terminal",
	Long: `Render a normalized character sheet from a YAML fixture.

Without --file a built-in sample character is shown. Partial or legacy
documents are repaired the same way the bot repairs stored sheets.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		width, _ := cmd.Flags().GetInt("width")

		c := render.BuiltinSample()
		if file != "" {
			loaded, err := render.LoadSample(file)
			if err != nil {
				return err
			}
			c = loaded
		}

		fmt.Fprintln(cmd.OutOrStdout(), render.Sheet(sheet.NewView(c), width))
		return nil
	},
}

func init() {
	previewCmd.Flags().StringP("file", "f", "", "YAML fixture to render")
	previewCmd.Flags().IntP("width", "w", 72, "Box width in columns (0 for unbounded)")
	rootCmd.AddCommand(previewCmd)
}
