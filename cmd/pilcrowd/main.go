package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pilcrow-ai/pilcrow/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pilcrowd",
		Short: "Pilcrow daemon",
		Long:  "Pilcrow daemon for running the document Q&A API server",
	}

	rootCmd.AddCommand(cli.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
