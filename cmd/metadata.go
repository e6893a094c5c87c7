package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytrag/internal"
)

// metadataCmd represents the metadata command
var metadataCmd = &cobra.Command{
	Use:   "metadata [YouTube URL or ID]",
	Short: "Print the descriptor of a single video as JSON",
	Example: `  # Get metadata of a video
  ytrag metadata "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  ytrag metadata dQw4w9WgXcQ

  # Save metadata to file
  ytrag metadata dQw4w9WgXcQ -o metadata.json

  # Format output as pretty JSON
  ytrag metadata dQw4w9WgXcQ --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateYouTubeAPIKey(config.YouTubeAPIKey); err != nil {
			return err
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}

		video, err := app.Describe(cmd.Context(), internal.ExtractVideoID(args[0]))
		if err != nil {
			return err
		}

		var jsonData []byte
		pretty, _ := cmd.Flags().GetBool("pretty")
		if pretty {
			jsonData, err = json.MarshalIndent(video, "", "  ")
		} else {
			jsonData, err = json.Marshal(video)
		}
		if err != nil {
			return fmt.Errorf("error converting metadata to JSON: %w", err)
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, jsonData, 0644)
		}

		fmt.Println(string(jsonData))

		return nil
	},
}

func init() {
	metadataCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	metadataCmd.Flags().Bool("pretty", false, "Format output as pretty JSON")
	rootCmd.AddCommand(metadataCmd)
}
