package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectCaptionLanguage(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		want      string
		got       string
		ok        bool
	}{
		{"exact", []string{"de", "en"}, "en", "en", true},
		{"case insensitive", []string{"EN"}, "en", "EN", true},
		{"exact beats regional", []string{"en-US", "en"}, "en", "en", true},
		{"regional fallback", []string{"de", "en-GB"}, "en", "en-GB", true},
		{"default english", []string{"fr", "en"}, "", "en", true},
		{"no prefix confusion", []string{"eng"}, "en", "", false},
		{"missing", []string{"de", "fr"}, "en", "", false},
		{"none", nil, "en", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := selectCaptionLanguage(tt.available, tt.want)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.got, got)
		})
	}
}

func TestNewInnertubeSource(t *testing.T) {
	s := NewInnertubeSource(nil, "de")
	assert.NotNil(t, s.client.HTTPClient)
	assert.Equal(t, "de", s.language)
}
