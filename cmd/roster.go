package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/kozaktomas/attendance-kiosk/internal/encoder"
	"github.com/kozaktomas/attendance-kiosk/internal/roster"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage the enrolled roster",
}

var rosterEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode all enrollment images and report the roster",
	Long: `Run every image in the enrollment directory through the face encoder
and report which identities would be loaded. Useful to validate new
enrollment photos before restarting the kiosk.`,
	RunE: runRosterEncode,
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the enrolled identities",
	RunE:  runRosterList,
}

func init() {
	rootCmd.AddCommand(rosterCmd)
	rosterCmd.AddCommand(rosterEncodeCmd)
	rosterCmd.AddCommand(rosterListCmd)
}

// countEnrollmentImages counts files the loader would consider.
func countEnrollmentImages(dir string) int {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, f := range files {
		if !f.IsDir() && roster.IsEnrollmentImage(f.Name()) {
			count++
		}
	}
	return count
}

func runRosterEncode(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	enc := encoder.NewClient(cfg.Encoder.URL, cfg.Encoder.Model)

	total := countEnrollmentImages(cfg.Kiosk.ImagesPath)
	if total == 0 {
		fmt.Printf("No enrollment images in %s\n", cfg.Kiosk.ImagesPath)
		return nil
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Encoding faces"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var skipped int
	r, err := roster.LoadWithProgress(context.Background(), cfg.Kiosk.ImagesPath, enc,
		func(filename string, enrolled bool) {
			if !enrolled {
				skipped++
			}
			bar.Add(1)
		})
	if err != nil {
		return fmt.Errorf("loading roster: %w", err)
	}

	fmt.Printf("\n\nEnrolled: %d, skipped: %d\n", r.Len(), skipped)
	for _, name := range r.Names() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func runRosterList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	enc := encoder.NewClient(cfg.Encoder.URL, cfg.Encoder.Model)

	r, err := roster.Load(context.Background(), cfg.Kiosk.ImagesPath, enc)
	if err != nil {
		return fmt.Errorf("loading roster: %w", err)
	}

	if r.Len() == 0 {
		fmt.Println("Roster is empty")
		return nil
	}

	for i, name := range r.Names() {
		fmt.Printf("%3d  %s\n", i+1, name)
	}
	return nil
}
