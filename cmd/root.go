package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "attendance-kiosk",
	Short: "A browser-based face attendance kiosk",
	Long: `Attendance Kiosk is a web service that samples a camera feed in the
browser, matches detected faces against an enrolled roster, and keeps a
dated ledger of first-seen-today attendance events.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
