package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"deliverylog/internal/mapview"
)

var mapHTML string

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Show all deliveries on a map",
	Long: `Summarize the map view: the computed region and a marker per
delivery. With --html a self-contained Leaflet page is written that renders
photo pins on OpenStreetMap tiles.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := application.Deliveries.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No deliveries to show on map.")
			return nil
		}

		region := mapview.ComputeRegion(records)
		markers := mapview.BuildMarkers(records, application.Photos, log)

		fmt.Printf("Center: %.6f, %.6f\n", region.Center.Latitude, region.Center.Longitude)
		if region.Bounds != nil {
			fmt.Printf("Bounds: %.6f, %.6f to %.6f, %.6f\n",
				region.Bounds.MinLat, region.Bounds.MinLon,
				region.Bounds.MaxLat, region.Bounds.MaxLon,
			)
		}
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "NAME\tDATE\tLATITUDE\tLONGITUDE\tPHOTO\t\n")
		for _, m := range markers {
			status := "✓"
			if m.PhotoDataURI == "" {
				status = "✗"
			}
			fmt.Fprintf(w, "%s\t%s\t%.6f\t%.6f\t%s\t\n",
				truncate(m.Name, 30),
				m.Date.Format("2006-01-02 15:04"),
				m.Latitude,
				m.Longitude,
				status,
			)
		}
		w.Flush()

		if mapHTML == "" {
			return nil
		}

		f, err := os.Create(mapHTML)
		if err != nil {
			return fmt.Errorf("create map file: %w", err)
		}
		defer f.Close()

		if err := mapview.WriteHTML(f, region, markers); err != nil {
			return fmt.Errorf("write map: %w", err)
		}
		color.Green("Map written to %s", mapHTML)
		return nil
	},
}

func init() {
	mapCmd.Flags().StringVar(&mapHTML, "html", "", "write an interactive map page to a file")

	rootCmd.AddCommand(mapCmd)
}
