package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pressmark/internal/config"
	"pressmark/internal/inbox"
)

// Recognized CSV header names, case-insensitive.
var csvColumnAliases = map[string]string{
	"title":          "title",
	"album":          "title",
	"release":        "title",
	"artist":         "artist",
	"barcode":        "barcode",
	"upc":            "barcode",
	"ean":            "barcode",
	"catalog":        "catalog_number",
	"catalog_number": "catalog_number",
	"catno":          "catalog_number",
	"cat_no":         "catalog_number",
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import inbox items from a CSV export",
		Long: "Import reads a CSV file with a header row and creates one inbox item per " +
			"data row. Recognized columns: title/album, artist, barcode/upc/ean, and " +
			"catalog/catno. The full original row is kept on each item for audit.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer file.Close()

			items, skipped, err := readImportRows(file)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				added := 0
				for _, item := range items {
					if _, err := store.Add(cmd.Context(), item); err != nil {
						return fmt.Errorf("add row %d: %w", added+1, err)
					}
					added++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d item(s)", added)
				if skipped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), ", skipped %d empty row(s)", skipped)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
}

func readImportRows(r io.Reader) ([]*inbox.Item, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, errors.New("csv file is empty")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	columns := make([]string, len(header))
	known := 0
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := csvColumnAliases[key]; ok {
			columns[i] = canonical
			known++
		}
	}
	if known == 0 {
		return nil, 0, errors.New("csv header has no recognized columns (title, artist, barcode, catalog)")
	}

	var items []*inbox.Item
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read csv row: %w", err)
		}

		raw := make(map[string]string, len(record))
		fields := map[string]string{}
		for i, value := range record {
			if i >= len(header) {
				break
			}
			raw[strings.TrimSpace(header[i])] = value
			if columns[i] != "" {
				fields[columns[i]] = strings.TrimSpace(value)
			}
		}

		if fields["title"] == "" && fields["artist"] == "" &&
			fields["barcode"] == "" && fields["catalog_number"] == "" {
			skipped++
			continue
		}

		rawJSON, err := json.Marshal(raw)
		if err != nil {
			return nil, 0, fmt.Errorf("encode raw row: %w", err)
		}
		items = append(items, inbox.NewImportRow(
			string(rawJSON),
			fields["title"],
			fields["artist"],
			fields["barcode"],
			fields["catalog_number"],
		))
	}
	return items, skipped, nil
}
