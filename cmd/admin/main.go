package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "contests-admin",
		Short: "Admin CLI tool for the contest service",
	}

	rootCmd.AddCommand(newProblemCmd(openPgCatalog))
	rootCmd.AddCommand(newTokenCmd(os.Getenv))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
