package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytrag/internal"
)

// transcriptCmd prints the flattened transcript of one video
var transcriptCmd = &cobra.Command{
	Use:   "transcript [YouTube URL or ID]",
	Short: "Print the transcript of a single video",
	Example: `  # Print the transcript of a video
  ytrag transcript "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  ytrag transcript dQw4w9WgXcQ

  # Save it to a file
  ytrag transcript dQw4w9WgXcQ -o transcript.txt

  # Use German captions through yt-dlp
  ytrag transcript dQw4w9WgXcQ --lang de --backend ytdlp`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transcript, err := fetchTranscript(cmd, args[0])
		if err != nil {
			return err
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(transcript+"\n"), 0644)
		}

		fmt.Println(transcript)
		return nil
	},
}

// fetchTranscript applies the backend and language flags and retrieves one transcript
func fetchTranscript(cmd *cobra.Command, arg string) (string, error) {
	if err := internal.HandleLanguageFlag(cmd, config); err != nil {
		return "", err
	}
	if err := internal.HandleBackendFlag(cmd, config); err != nil {
		return "", err
	}
	if config.TranscriptBackend == internal.BackendYTDLP {
		if err := internal.InstallYTDLP(cmd.Context()); err != nil {
			return "", err
		}
	}

	app, err := internal.NewApp(config)
	if err != nil {
		return "", err
	}
	return app.GetTranscript(cmd.Context(), internal.ExtractVideoID(arg))
}

// addTranscriptFlags adds the flags shared by commands fetching one transcript
func addTranscriptFlags(cmd *cobra.Command) {
	internal.AddLanguageFlag(cmd)
	cmd.Flags().String("backend", "", "Transcript backend: innertube or ytdlp (default from config)")
}

func init() {
	addTranscriptFlags(transcriptCmd)
	transcriptCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(transcriptCmd)
}
