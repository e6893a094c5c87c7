package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytrag/internal"
)

var (
	config *internal.Config
)

const rootExamples = `  # Search videos (only those with captions) and save their transcripts
  ytrag --search "AI coding workflow"

  # Search by creator name
  ytrag --creator "Ryan Carson"

  # Most recent videos of a channel
  ytrag --channel UCxxxxxxxxxxxxxxxxxxxxxx --max-videos 10

  # A single video, by ID or URL
  ytrag --video dQw4w9WgXcQ
  ytrag --video "https://youtu.be/dQw4w9WgXcQ" -o ./transcripts`

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytrag",
	Short: "Fetch YouTube transcripts as documents for RAG pipelines",
	Long: `ytrag finds YouTube videos by search query, channel, creator name or video ID
and saves each available closed-caption transcript as a Markdown document,
plus a _metadata.json manifest describing every video found in the run.

Video lookups use the YouTube Data API and need YOUTUBE_API_KEY
(environment, .env file or config.toml). Transcripts need no key.`,
	Example:       rootExamples,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleVerboseFlag(cmd, config)
	},
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := internal.ReadSelector(cmd)
		if err != nil {
			return usageError(cmd, err)
		}

		if err := internal.HandleOutputFlags(cmd, config, sel.Mode); err != nil {
			return usageError(cmd, err)
		}
		if err := internal.HandleLanguageFlag(cmd, config); err != nil {
			return err
		}
		if err := internal.ValidateYouTubeAPIKey(config.YouTubeAPIKey); err != nil {
			return err
		}
		if config.TranscriptBackend == internal.BackendYTDLP {
			if err := internal.InstallYTDLP(cmd.Context()); err != nil {
				return err
			}
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}

		_, err = app.Run(cmd.Context(), sel, config.MaxVideos, config.OutputDir)
		return err
	},
}

// usageError prints usage guidance for selector and flag mistakes
func usageError(cmd *cobra.Command, err error) error {
	cmd.PrintErrln(cmd.UsageString())
	if errors.Is(err, internal.ErrNoSelector) {
		cmd.PrintErrln("Example usage:")
		cmd.PrintErrln(rootExamples)
		cmd.PrintErrln()
	}
	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configFile := configFileFromArgs(os.Args[1:])
	config = internal.InitConfig(configFile)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal. Cleaning up and shutting down...")

		cancel()

		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cleanupCancel()

		cleanupDone := make(chan struct{})
		go func() {
			if err := internal.CleanupSubtitleCache(config.CacheDir); err != nil {
				fmt.Fprintf(os.Stderr, "Error cleaning up cached subtitles: %v\n", err)
			}
			close(cleanupDone)
		}()

		select {
		case <-cleanupDone:
		case <-cleanupCtx.Done():
			fmt.Fprintln(os.Stderr, "Warning: Cleanup timed out, forcing exit")
		}

		os.Exit(130)
	}()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// configFileFromArgs finds --config before cobra parses flags, since the
// config must be loaded before any command runs
func configFileFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func init() {
	internal.AddSelectorFlags(rootCmd)
	internal.AddOutputFlags(rootCmd)
	internal.AddLanguageFlag(rootCmd)
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print errors")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/ytrag/config.toml)")
}
