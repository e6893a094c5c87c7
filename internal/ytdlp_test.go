package internal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSRT(t *testing.T) {
	content := "1\r\n00:00:00,000 --> 00:00:01,500\r\nHello\r\n\r\n" +
		"2\r\n00:00:01,500 --> 00:00:03,000\r\nwide\r\nworld\r\n\r\n" +
		"3\r\n00:00:03,000 --> 00:00:04,000\r\n\r\n"

	assert.Equal(t, []string{"Hello", "wide world"}, parseSRT(content))
}

func TestParseSRT_Empty(t *testing.T) {
	assert.Empty(t, parseSRT(""))
	assert.Empty(t, parseSRT("1\n00:00:00,000 --> 00:00:01,000\n"))
}

func TestCaptionInfo_Pick(t *testing.T) {
	parse := func(t *testing.T, raw string) captionInfo {
		t.Helper()
		var info captionInfo
		require.NoError(t, json.Unmarshal([]byte(raw), &info))
		return info
	}

	t.Run("manual", func(t *testing.T) {
		info := parse(t, `{"subtitles":{"en":[]},"automatic_captions":{"de":[]}}`)
		lang, err := info.pick("en")
		require.NoError(t, err)
		assert.Equal(t, "en", lang)
	})

	t.Run("automatic regional", func(t *testing.T) {
		info := parse(t, `{"subtitles":{},"automatic_captions":{"en-US":[],"fr":[]}}`)
		lang, err := info.pick("en")
		require.NoError(t, err)
		assert.Equal(t, "en-US", lang)
	})

	t.Run("live chat only means disabled", func(t *testing.T) {
		info := parse(t, `{"subtitles":{"live_chat":[]}}`)
		_, err := info.pick("en")
		assert.ErrorIs(t, err, ErrTranscriptsDisabled)
	})

	t.Run("no captions", func(t *testing.T) {
		_, err := parse(t, `{}`).pick("en")
		assert.ErrorIs(t, err, ErrTranscriptsDisabled)
	})

	t.Run("other language", func(t *testing.T) {
		_, err := parse(t, `{"subtitles":{"de":[]}}`).pick("en")
		assert.ErrorIs(t, err, ErrNoTranscript)
	})
}

func TestCaptionInfo_LanguagesManualFirst(t *testing.T) {
	info := captionInfo{
		Subtitles:         map[string]json.RawMessage{"fr": nil, "de": nil},
		AutomaticCaptions: map[string]json.RawMessage{"en": nil},
	}
	assert.Equal(t, []string{"de", "fr", "en"}, info.languages())
}
