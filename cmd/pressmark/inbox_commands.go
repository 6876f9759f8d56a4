package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pressmark/internal/config"
	"pressmark/internal/inbox"
	"pressmark/internal/reason"
)

func newInboxCommand(ctx *commandContext) *cobra.Command {
	inboxCmd := &cobra.Command{
		Use:   "inbox",
		Short: "Inspect and manage the resolution inbox",
	}

	inboxCmd.AddCommand(newAddCommand(ctx))
	inboxCmd.AddCommand(newImportCommand(ctx))
	inboxCmd.AddCommand(newListCommand(ctx))
	inboxCmd.AddCommand(newShowCommand(ctx))
	inboxCmd.AddCommand(newStatsCommand(ctx))
	inboxCmd.AddCommand(newEditCommand(ctx))
	inboxCmd.AddCommand(newUndoCommand(ctx))
	inboxCmd.AddCommand(newUnknownCommand(ctx))
	inboxCmd.AddCommand(newRetryCommand(ctx))
	inboxCmd.AddCommand(newRemoveCommand(ctx))
	inboxCmd.AddCommand(newClearCommand(ctx))

	return inboxCmd
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var barcode string
	var title string
	var artist string
	var catalogNumber string
	var photos []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an inbox item from a barcode, cover photos, or typed fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := buildItem(barcode, title, artist, catalogNumber, photos)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				stored, err := store.Add(cmd.Context(), item)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added item %d (%s, lookup %s)\n",
					stored.ID, stored.Source, stored.LookupStatus)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&barcode, "barcode", "", "Scanned barcode")
	cmd.Flags().StringVar(&title, "title", "", "Release title")
	cmd.Flags().StringVar(&artist, "artist", "", "Artist name")
	cmd.Flags().StringVar(&catalogNumber, "catalog", "", "Catalog number")
	cmd.Flags().StringArrayVar(&photos, "photo", nil, "Cover photo reference (repeatable)")
	return cmd
}

func buildItem(barcode, title, artist, catalogNumber string, photos []string) (*inbox.Item, error) {
	hasPhotos := len(photos) > 0
	hasFields := strings.TrimSpace(title) != "" || strings.TrimSpace(artist) != "" ||
		strings.TrimSpace(catalogNumber) != ""
	hasBarcode := strings.TrimSpace(barcode) != ""

	switch {
	case hasPhotos:
		if hasBarcode || hasFields {
			return nil, errors.New("--photo cannot be combined with other fields; add two separate items")
		}
		return inbox.NewCoverPhoto(photos...), nil
	case hasBarcode && !hasFields:
		return inbox.NewBarcodeScan(barcode), nil
	case hasBarcode:
		return inbox.NewImportRow("", title, artist, barcode, catalogNumber), nil
	case hasFields:
		return inbox.NewManualEntry(title, artist, catalogNumber), nil
	default:
		return nil, errors.New("provide at least one of --barcode, --photo, --title/--artist, or --catalog")
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var statusFilters []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inbox items",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatusFilters(statusFilters)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				items, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Inbox is empty")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						string(item.Source),
						item.EffectiveArtist(),
						item.EffectiveTitle(),
						item.Barcode,
						string(item.LookupStatus),
						confidenceCell(item),
					})
				}
				out := renderTable(
					[]string{"ID", "Source", "Artist", "Title", "Barcode", "Lookup", "Conf"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statusFilters, "status", nil, "Filter by lookup status (repeatable)")
	return cmd
}

func parseStatusFilters(filters []string) ([]inbox.LookupStatus, error) {
	statuses := make([]inbox.LookupStatus, 0, len(filters))
	for _, filter := range filters {
		status, ok := inbox.ParseLookupStatus(filter)
		if !ok {
			return nil, fmt.Errorf("unknown lookup status %q", filter)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func confidenceCell(item *inbox.Item) string {
	if item.Confidence == 0 && item.ReasonsJSON == "" {
		return ""
	}
	return strconv.Itoa(item.Confidence)
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one inbox item in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				item, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("item %d not found", id)
				}
				printItem(cmd, item)
				return nil
			})
		},
	}
}

func printItem(cmd *cobra.Command, item *inbox.Item) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Item %d (%s)\n", item.ID, item.Source)
	fmt.Fprintf(out, "  Lookup:      %s\n", item.LookupStatus)
	fmt.Fprintf(out, "  OCR:         %s\n", item.OCRStatus)
	if item.Barcode != "" {
		fmt.Fprintf(out, "  Barcode:     %s\n", item.Barcode)
	}
	if title := item.EffectiveTitle(); title != "" {
		fmt.Fprintf(out, "  Title:       %s\n", title)
	}
	if artist := item.EffectiveArtist(); artist != "" {
		fmt.Fprintf(out, "  Artist:      %s\n", artist)
	}
	if label := strings.TrimSpace(item.ExtractedLabel); label != "" {
		fmt.Fprintf(out, "  Label:       %s\n", label)
	}
	if catalog := item.EffectiveCatalogNumber(); catalog != "" {
		fmt.Fprintf(out, "  Catalog no:  %s\n", catalog)
	}
	if len(item.PhotoRefs) > 0 {
		fmt.Fprintf(out, "  Photos:      %s\n", strings.Join(item.PhotoRefs, ", "))
	}
	if item.LookupStatus == inbox.LookupCommitted {
		fmt.Fprintf(out, "  Committed:   %s release %s\n", item.CommittedProvider, item.CommittedRelease)
	}
	if item.ReasonsJSON != "" {
		codes := reason.Decode(item.ReasonsJSON)
		parts := make([]string, 0, len(codes))
		for _, code := range codes {
			parts = append(parts, string(code))
		}
		fmt.Fprintf(out, "  Confidence:  %d\n", item.Confidence)
		fmt.Fprintf(out, "  Reasons:     %s\n", strings.Join(parts, ", "))
	}
	if item.ErrorCode != inbox.ErrorNone {
		fmt.Fprintf(out, "  Last error:  %s (retry %d)\n", item.ErrorCode, item.RetryCount)
	}
	if item.NextLookupAt != nil {
		fmt.Fprintf(out, "  Next lookup: %s\n", item.NextLookupAt.Local().Format(time.RFC3339))
	}
	if item.NextOCRAt != nil {
		fmt.Fprintf(out, "  Next OCR:    %s\n", item.NextOCRAt.Local().Format(time.RFC3339))
	}
	if item.WasUndone {
		fmt.Fprintln(out, "  Auto-commit disabled: a previous commit was undone")
	}
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show inbox status counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if len(stats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Inbox is empty")
					return nil
				}
				order := []inbox.LookupStatus{
					inbox.LookupNotEligible,
					inbox.LookupPending,
					inbox.LookupInProgress,
					inbox.LookupNeedsReview,
					inbox.LookupFailed,
					inbox.LookupCommitted,
				}
				rows := make([][]string, 0, len(order))
				for _, status := range order {
					count, ok := stats[status]
					if !ok {
						continue
					}
					rows = append(rows, []string{string(status), strconv.Itoa(count)})
				}
				out := renderTable([]string{"Lookup status", "Count"}, rows,
					[]columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var title string
	var artist string
	var catalogNumber string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an item's title, artist, and catalog number",
		Long: "Edit replaces the raw title, artist, and catalog number and re-arms lookup " +
			"eligibility from the merged evidence. All three values are replaced; omit a " +
			"flag to clear the field.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				item, err := store.UpdateFields(cmd.Context(), id, title, artist, catalogNumber)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("item %d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated item %d (lookup %s)\n", item.ID, item.LookupStatus)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Release title")
	cmd.Flags().StringVar(&artist, "artist", "", "Artist name")
	cmd.Flags().StringVar(&catalogNumber, "catalog", "", "Catalog number")
	return cmd
}

func newUndoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <id>",
		Short: "Undo an automatic commit and return the item to review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				undone, err := store.UndoCommit(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !undone {
					return fmt.Errorf("item %d is not committed", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d returned to review; it will not auto-commit again\n", id)
				return nil
			})
		},
	}
}

func newUnknownCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unknown <id>",
		Short: "Mark an item as unidentifiable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				marked, err := store.MarkUnknown(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !marked {
					return fmt.Errorf("item %d cannot be marked unknown in its current state", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d marked unknown\n", id)
				return nil
			})
		},
	}
}

func newRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Requeue all failed items for another lookup pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				count, err := store.RetryFailed(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d failed item(s)\n", count)
				return nil
			})
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove one inbox item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				removed, err := store.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("item %d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d\n", id)
				return nil
			})
		},
	}
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	var committedOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear inbox items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				var count int64
				var err error
				if committedOnly {
					count, err = store.ClearCommitted(cmd.Context())
				} else {
					count, err = store.Clear(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d item(s)\n", count)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&committedOnly, "committed", false, "Only clear committed items")
	return cmd
}

func parseItemID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", raw)
	}
	return id, nil
}
