package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "narrator",
	Short: "Turn presentation text into narrated slide audio",
	Long: `narrator splits presentation text into caption units, generates one
audio file per caption with ElevenLabs and publishes the audio and captions
to a slide of a presentation stored in Firestore.

Scripts dropped into the inbox directory are loaded into the entry screen.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file (.yaml or .toml)")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
