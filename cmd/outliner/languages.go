package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/outliner/internal/language"
)

// languagesCmd represents the languages command
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages",
	Long:  `List the supported language names and their OCR engine codes.`,
	Run:   runLanguages,
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

func runLanguages(_ *cobra.Command, _ []string) {
	fmt.Println("Supported languages:")
	for _, name := range language.Supported() {
		code, _ := language.EngineCode(name)
		fmt.Printf("  %-20s %s\n", name, code)
	}
}
