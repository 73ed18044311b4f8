package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "finos",
	Short: "A CLI for managing the FinOS backend services",
	Long:  `FinOS is the backend for a personal finance dashboard: portfolio, watchlist, trading journal, market data, news, and chat.`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
