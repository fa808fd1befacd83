package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pgte-bot/internal/chat"
	"github.com/KirkDiggler/pgte-bot/internal/services/character"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Rewrite stored sheets into the normalized shape",
	Long: `Load every stored character, normalize its document and store the
result when it differs. Legacy single hits counters become the physical
track. Use --dry-run to list what would change without writing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		ctx := cmd.Context()

		provider, closeStore, err := openProvider(ctx, chat.LogSink{})
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		out, err := provider.CharacterService.Migrate(ctx, &character.MigrateInput{DryRun: dryRun})
		if err != nil {
			return err
		}

		printMigrateReport(cmd, out, dryRun)
		if len(out.Failed) > 0 {
			return fmt.Errorf("%d sheet(s) could not be migrated", len(out.Failed))
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolP("dry-run", "n", false, "Report changes without writing")
	rootCmd.AddCommand(migrateCmd)
}

func printMigrateReport(cmd *cobra.Command, out *character.MigrateOutput, dryRun bool) {
	w := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "%s\n", cyan("=== Sheet Migration ==="))
	if dryRun {
		fmt.Fprintf(w, "%s\n", yellow("Dry run: nothing was written"))
	}
	fmt.Fprintf(w, "Checked: %d\n", out.Checked)

	verb := "Repaired"
	if dryRun {
		verb = "Needs repair"
	}
	if len(out.Repaired) == 0 {
		fmt.Fprintf(w, "%s\n", gray("All sheets already normalized"))
	} else {
		fmt.Fprintf(w, "%s: %d\n", verb, len(out.Repaired))
		for _, id := range out.Repaired {
			fmt.Fprintf(w, "  %s %s\n", green("●"), id)
		}
	}

	if len(out.Failed) > 0 {
		ids := make([]string, 0, len(out.Failed))
		for id := range out.Failed {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Fprintf(w, "%s: %d\n", red("Failed"), len(out.Failed))
		for _, id := range ids {
			fmt.Fprintf(w, "  %s %s: %v\n", red("✗"), id, out.Failed[id])
		}
	}
}
