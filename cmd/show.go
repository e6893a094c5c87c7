package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytrag/internal"
)

// showCmd lists the last run's manifest or renders a saved document
var showCmd = &cobra.Command{
	Use:   "show [document]",
	Short: "List the videos of the last run or render a saved document",
	Example: `  # List the videos recorded in the output directory's manifest
  ytrag show

  # Render one document in the terminal
  ytrag show "Never Gonna Give You Up"
  ytrag show ./transcripts/Never_Gonna_Give_You_Up.md

  # Print the raw Markdown
  ytrag show "Never Gonna Give You Up" --raw`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir := config.OutputDir
		if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
			outputDir, _ = cmd.Flags().GetString("output")
		}

		if len(args) == 0 {
			return listManifest(outputDir)
		}

		raw, _ := cmd.Flags().GetBool("raw")
		return showDocument(outputDir, args[0], raw)
	},
}

func listManifest(outputDir string) error {
	manifest, err := internal.LoadManifest(outputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no manifest in %s, run a fetch first", outputDir)
		}
		return err
	}

	fmt.Printf("Fetched at: %s\n", manifest.FetchedAt)
	fmt.Printf("Videos: %d\n\n", manifest.VideoCount)
	for _, video := range manifest.Videos {
		mark := " "
		if video.HasTranscript {
			mark = "x"
		}
		fmt.Printf("[%s] %s\n    %s | %s\n", mark, video.Title, video.Channel, video.URL)
	}
	return nil
}

// resolveDocumentPath accepts a path, a filename in the output directory,
// or a title that sanitizes to one
func resolveDocumentPath(outputDir, arg string) (string, error) {
	candidates := []string{arg, filepath.Join(outputDir, arg)}
	if !strings.HasSuffix(arg, internal.DocumentExt) {
		candidates = append(candidates, filepath.Join(outputDir, arg+internal.DocumentExt))
	}
	candidates = append(candidates, filepath.Join(outputDir, internal.DocumentFilename(arg)))

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("document not found: %s", arg)
}

func showDocument(outputDir, arg string, raw bool) error {
	path, err := resolveDocumentPath(outputDir, arg)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	if raw {
		fmt.Print(string(content))
		return nil
	}

	rendered, err := internal.RenderMarkdown(string(content))
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}

func init() {
	showCmd.Flags().StringP("output", "o", "", "Output directory to read (default from config)")
	showCmd.Flags().Bool("raw", false, "Print the Markdown without rendering")
	rootCmd.AddCommand(showCmd)
}
