package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "agencyd",
	Short: "Social media content agency server",
	Long: "agencyd runs the content agency: commands that research a topic on the\n" +
		"web and produce platform-optimized social media copy, with task records\n" +
		"persisted to the record store and progress streamed to a webhook target.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
