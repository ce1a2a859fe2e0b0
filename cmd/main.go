package main

import (
	"os"

	"github.com/spf13/cobra"
)

var mainCMD = &cobra.Command{
	Use:   "readmegen",
	Short: "Generate README files for codebases",
	Long:  "Analyzes a codebase and generates a comprehensive README.md for it using an LLM API.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	mainCMD.AddCommand(generateCMD)
	mainCMD.AddCommand(serveCMD)
}

func main() {
	if err := mainCMD.Execute(); err != nil {
		os.Exit(1)
	}
}
