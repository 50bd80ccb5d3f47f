package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nguyentantai21042004/slide-narrator/internal/config"
	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices available to the configured ElevenLabs account",
	RunE:  runVoices,
}

func init() {
	rootCmd.AddCommand(voicesCmd)
}

func runVoices(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		printError("load config", err)
		return err
	}

	voices, err := newSpeechClient(cfg).Voices(context.Background())
	if err != nil {
		printError("list voices", err)
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLANGUAGE")
	for _, v := range voices {
		marker := ""
		if v.ID == cfg.ElevenLabs.VoiceID {
			marker = " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%s%s\n", v.ID, v.Name, v.Language, marker)
	}
	return w.Flush()
}
