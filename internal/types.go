package internal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSelector is returned when none of the selector flags is set
	ErrNoSelector = errors.New("one of --search, --channel, --creator or --video is required")
	// ErrConflictingSelectors is returned when more than one selector flag is set
	ErrConflictingSelectors = errors.New("--search, --channel, --creator and --video are mutually exclusive")
)

// SelectorMode represents how videos are located
type SelectorMode int

const (
	SelectorUnknown SelectorMode = iota
	SelectorSearch
	SelectorChannel
	SelectorCreator
	SelectorVideo
)

// String returns a human-readable representation of the selector mode
func (m SelectorMode) String() string {
	switch m {
	case SelectorSearch:
		return "search"
	case SelectorChannel:
		return "channel"
	case SelectorCreator:
		return "creator"
	case SelectorVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Selector is the user's choice of how to locate videos
type Selector struct {
	Mode  SelectorMode
	Value string
}

// String returns a formatted representation of the selector
func (s Selector) String() string {
	return fmt.Sprintf("%s=%q", s.Mode, s.Value)
}

// Describe returns the status line printed before locating videos
func (s Selector) Describe() string {
	switch s.Mode {
	case SelectorSearch:
		return fmt.Sprintf("Searching for: %s", s.Value)
	case SelectorCreator:
		return fmt.Sprintf("Searching for creator: %s", s.Value)
	case SelectorChannel:
		return fmt.Sprintf("Fetching from channel: %s", s.Value)
	case SelectorVideo:
		return fmt.Sprintf("Fetching video: %s", s.Value)
	default:
		return "Nothing to fetch"
	}
}

// SelectorInput holds the raw values of the four selector flags
type SelectorInput struct {
	Search  string
	Channel string
	Creator string
	Video   string
}

// ParseSelector turns the raw flag values into exactly one Selector.
// Blank values count as unset.
func ParseSelector(in SelectorInput) (Selector, error) {
	candidates := []Selector{
		{Mode: SelectorVideo, Value: strings.TrimSpace(in.Video)},
		{Mode: SelectorSearch, Value: strings.TrimSpace(in.Search)},
		{Mode: SelectorCreator, Value: strings.TrimSpace(in.Creator)},
		{Mode: SelectorChannel, Value: strings.TrimSpace(in.Channel)},
	}

	var chosen []Selector
	for _, c := range candidates {
		if c.Value != "" {
			chosen = append(chosen, c)
		}
	}

	switch len(chosen) {
	case 0:
		return Selector{}, ErrNoSelector
	case 1:
		sel := chosen[0]
		if sel.Mode == SelectorVideo {
			sel.Value = ExtractVideoID(sel.Value)
		}
		return sel, nil
	default:
		modes := make([]string, len(chosen))
		for i, c := range chosen {
			modes[i] = c.Mode.String()
		}
		return Selector{}, fmt.Errorf("%w (got %s)", ErrConflictingSelectors, strings.Join(modes, ", "))
	}
}

// VideoDescriptor is the metadata record for one located video
type VideoDescriptor struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Channel       string `json:"channel"`
	Description   string `json:"description"`
	Published     string `json:"published"`
	URL           string `json:"url"`
	HasTranscript bool   `json:"has_transcript"`
}

// VideoURL derives the canonical watch URL for a video ID
func VideoURL(id string) string {
	return "https://youtube.com/watch?v=" + id
}

// RunReport summarizes one fetch run
type RunReport struct {
	Located      int
	Saved        int
	Documents    []string
	ManifestPath string
	OutputDir    string
	Videos       []VideoDescriptor
}

// Tally returns the saved/located ratio as printed at the end of a run
func (r *RunReport) Tally() string {
	return fmt.Sprintf("%d/%d", r.Saved, r.Located)
}
