package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	"github.com/KirkDiggler/pgte-bot/internal/render"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Print the normalized JSON document for a sheet",
	Long: `Read a raw sheet document and print its normalized form.

A .json file is read as the bare document; any other file is read as a YAML
fixture like the ones preview accepts. --get prints one dotted path instead of
the whole document.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		get, _ := cmd.Flags().GetString("get")
		return runNormalize(cmd.OutOrStdout(), args[0], get)
	},
}

func init() {
	normalizeCmd.Flags().String("get", "", "Print only this dotted path, e.g. resources.hits.physical")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(out io.Writer, path, get string) error {
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if get == "" {
		fmt.Fprintln(out, string(data))
		return nil
	}

	result := gjson.GetBytes(data, get)
	if !result.Exists() {
		return fmt.Errorf("path %q not found in document", get)
	}
	fmt.Fprintln(out, result.String())
	return nil
}

func loadDocument(path string) (*sheet.Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return sheet.NormalizeJSON(data), nil
	}

	c, err := render.LoadSample(path)
	if err != nil {
		return nil, err
	}
	return sheet.Normalize(c.System), nil
}
