package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"deliverylog/internal/domain/delivery"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all deliveries",
	Long: `List all recorded deliveries with their capture date, coordinate and
photo status. The list is loaded fresh on every invocation.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := application.Deliveries.List(cmd.Context())
		if err != nil {
			return err
		}

		switch listFormat {
		case "json":
			return printRecordsJSON(records)
		case "table":
			return printRecordsTable(records)
		default:
			return printRecordsSimple(records)
		}
	},
}

func printRecordsSimple(records []delivery.Delivery) error {
	if len(records) == 0 {
		fmt.Println("No deliveries yet. Run 'deliverylog add' to record the first one.")
		return nil
	}

	fmt.Printf("Deliveries: %d\n\n", len(records))
	for i, rec := range records {
		color.New(color.Bold).Printf("%d. %s\n", i+1, rec.Name)
		if rec.Description != "" {
			fmt.Printf("   %s\n", truncate(rec.Description, 60))
		}
		fmt.Printf("   ID: %s | %s | %.6f, %.6f | photo %s\n",
			rec.ID,
			rec.Date.Format("2006-01-02 15:04"),
			rec.Latitude,
			rec.Longitude,
			photoStatus(rec),
		)
		fmt.Println()
	}
	return nil
}

func printRecordsTable(records []delivery.Delivery) error {
	if len(records) == 0 {
		fmt.Println("No deliveries yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tDATE\tLATITUDE\tLONGITUDE\tPHOTO\t\n")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.6f\t%.6f\t%s\t\n",
			rec.ID,
			truncate(rec.Name, 30),
			rec.Date.Format("2006-01-02 15:04"),
			rec.Latitude,
			rec.Longitude,
			photoStatus(rec),
		)
	}
	w.Flush()
	fmt.Printf("\nTotal: %d\n", len(records))
	return nil
}

func printRecordsJSON(records []delivery.Delivery) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

// photoStatus lazily resolves the record's photo; an unreadable blob shows
// as a placeholder and never blocks the row.
func photoStatus(rec delivery.Delivery) string {
	if _, err := application.Deliveries.Photo(&rec); err != nil {
		return "✗"
	}
	return "✓"
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func init() {
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "simple", "output format (simple, table, json)")

	rootCmd.AddCommand(listCmd)
}
