package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// UIManager handles all user interface concerns (progress, verbose output, status lines)
type UIManager interface {
	// Progress bars
	NewProgressBar(total int, description string) ProgressBar

	// Verbose output
	Verbose(format string, args ...any)

	// Status messages
	Printf(format string, args ...any)
	Println(args ...any)
}

// ProgressBar interface abstracts progress bar operations
type ProgressBar interface {
	Set(current int)
	Describe(description string)
	Finish()
}

// StandardUIManager handles normal UI operations
type StandardUIManager struct {
	out     io.Writer
	verbose bool
	quiet   bool
	isTTY   bool
}

// NewUIManager creates a UI manager writing to stdout
func NewUIManager(verbose, quiet bool) UIManager {
	return NewUIManagerWithWriter(os.Stdout, verbose, quiet)
}

// NewUIManagerWithWriter creates a UI manager writing to out. Progress bars
// are only drawn when out is a terminal.
func NewUIManagerWithWriter(out io.Writer, verbose, quiet bool) UIManager {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &StandardUIManager{
		out:     out,
		verbose: verbose,
		quiet:   quiet,
		isTTY:   isTTY,
	}
}

// NewProgressBar returns a visible bar on interactive terminals and a no-op otherwise.
// Verbose mode prints per-step lines, which a bar would overwrite.
func (ui *StandardUIManager) NewProgressBar(total int, description string) ProgressBar {
	if ui.quiet || ui.verbose || !ui.isTTY {
		return &SilentProgressBar{bar: progressbar.DefaultSilent(int64(total))}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(ui.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return &VisibleProgressBar{bar: bar}
}

// Verbose prints only in verbose mode
func (ui *StandardUIManager) Verbose(format string, args ...any) {
	if ui.verbose {
		fmt.Fprintf(ui.out, format, args...)
	}
}

// Printf prints unless quiet
func (ui *StandardUIManager) Printf(format string, args ...any) {
	if !ui.quiet {
		fmt.Fprintf(ui.out, format, args...)
	}
}

// Println prints unless quiet
func (ui *StandardUIManager) Println(args ...any) {
	if !ui.quiet {
		fmt.Fprintln(ui.out, args...)
	}
}

// VisibleProgressBar wraps the actual progress bar
type VisibleProgressBar struct {
	bar *progressbar.ProgressBar
}

func (v *VisibleProgressBar) Set(current int) {
	_ = v.bar.Set(current)
}

func (v *VisibleProgressBar) Describe(description string) {
	v.bar.Describe(description)
}

func (v *VisibleProgressBar) Finish() {
	_ = v.bar.Finish()
}

// SilentProgressBar implements a silent progress bar
type SilentProgressBar struct {
	bar *progressbar.ProgressBar
}

func (s *SilentProgressBar) Set(current int) {
	_ = s.bar.Set(current)
}

func (s *SilentProgressBar) Describe(description string) {
	// Do nothing for silent mode
}

func (s *SilentProgressBar) Finish() {
	_ = s.bar.Finish()
}
