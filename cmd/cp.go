package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// cpCmd copies the transcript to the system clipboard instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp [YouTube URL or ID]",
	Short: "Copy the transcript of a single video to the clipboard",
	Example: `  # Copy a transcript
  ytrag cp "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  ytrag cp dQw4w9WgXcQ`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transcript, err := fetchTranscript(cmd, args[0])
		if err != nil {
			return err
		}

		if err := clipboard.WriteAll(transcript); err != nil {
			return fmt.Errorf("copying transcript to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Println("Transcript copied to clipboard")
		}

		return nil
	},
}

func init() {
	addTranscriptFlags(cpCmd)
	rootCmd.AddCommand(cpCmd)
}
