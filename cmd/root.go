package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arranger",
	Short: "Ocarina arranger MIDI import tools",
	Long:  `Decodes Standard MIDI Files into note timelines, with recovery for malformed files.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
