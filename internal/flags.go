package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddSelectorFlags adds the four mutually exclusive ways to pick videos
func AddSelectorFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("search", "s", "", "Search query (only videos with captions)")
	cmd.Flags().StringP("channel", "c", "", "Channel ID (most recent videos first)")
	cmd.Flags().String("creator", "", "Creator name to search for")
	cmd.Flags().StringP("video", "v", "", "Single video ID or URL")
}

// AddOutputFlags adds flags controlling how many videos are fetched and where documents go
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("max-videos", "m", 0, "Max videos to fetch (default from config, 5)")
	cmd.Flags().StringP("output", "o", "", "Output directory (default from config)")
	cmd.Flags().String("backend", "", "Transcript backend: innertube or ytdlp (default from config)")
	cmd.Flags().Bool("dedupe", false, "Append the video ID when two titles map to the same filename")
}

// ReadSelector reads the selector flags into a validated Selector
func ReadSelector(cmd *cobra.Command) (Selector, error) {
	var in SelectorInput
	var err error

	if in.Search, err = cmd.Flags().GetString("search"); err != nil {
		return Selector{}, fmt.Errorf("failed to get search flag: %w", err)
	}
	if in.Channel, err = cmd.Flags().GetString("channel"); err != nil {
		return Selector{}, fmt.Errorf("failed to get channel flag: %w", err)
	}
	if in.Creator, err = cmd.Flags().GetString("creator"); err != nil {
		return Selector{}, fmt.Errorf("failed to get creator flag: %w", err)
	}
	if in.Video, err = cmd.Flags().GetString("video"); err != nil {
		return Selector{}, fmt.Errorf("failed to get video flag: %w", err)
	}

	return ParseSelector(in)
}

// HandleOutputFlags applies explicitly set output flags over the config values.
// The max count is only checked for modes that use it.
func HandleOutputFlags(cmd *cobra.Command, config *Config, mode SelectorMode) error {
	if f := cmd.Flags().Lookup("max-videos"); f != nil && f.Changed {
		maxVideos, err := cmd.Flags().GetInt("max-videos")
		if err != nil {
			return fmt.Errorf("failed to get max-videos flag: %w", err)
		}
		config.MaxVideos = maxVideos
	}
	if mode != SelectorVideo && config.MaxVideos <= 0 {
		return fmt.Errorf("max videos must be positive, got %d", config.MaxVideos)
	}

	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return fmt.Errorf("failed to get output flag: %w", err)
		}
		config.OutputDir = output
	}
	if config.OutputDir == "" {
		return fmt.Errorf("output directory is empty")
	}

	if f := cmd.Flags().Lookup("dedupe"); f != nil && f.Changed {
		dedupe, err := cmd.Flags().GetBool("dedupe")
		if err != nil {
			return fmt.Errorf("failed to get dedupe flag: %w", err)
		}
		config.DedupeFilenames = dedupe
	}

	return HandleBackendFlag(cmd, config)
}

// HandleBackendFlag applies the --backend flag when set and validates the result
func HandleBackendFlag(cmd *cobra.Command, config *Config) error {
	if f := cmd.Flags().Lookup("backend"); f != nil && f.Changed {
		backend, err := cmd.Flags().GetString("backend")
		if err != nil {
			return fmt.Errorf("failed to get backend flag: %w", err)
		}
		config.TranscriptBackend = backend
	}
	return ValidateBackend(config.TranscriptBackend)
}

// AddLanguageFlag adds the caption language flag
func AddLanguageFlag(cmd *cobra.Command) {
	cmd.Flags().String("lang", "", "Caption language (default from config, en)")
}

// HandleLanguageFlag applies the --lang flag when set
func HandleLanguageFlag(cmd *cobra.Command, config *Config) error {
	f := cmd.Flags().Lookup("lang")
	if f == nil || !f.Changed {
		return nil
	}
	lang, err := cmd.Flags().GetString("lang")
	if err != nil {
		return fmt.Errorf("failed to get lang flag: %w", err)
	}
	config.Language = lang
	return nil
}

// HandleVerboseFlag processes the --verbose and --quiet flags to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	if f := cmd.Flags().Lookup("verbose"); f != nil && f.Changed {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		config.Verbose = verbose
	}
	if f := cmd.Flags().Lookup("quiet"); f != nil && f.Changed {
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		config.Quiet = quiet
	}
	return nil
}
