package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "watch url", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch url with extra params", url: "https://youtube.com/watch?list=PL1&v=dQw4w9WgXcQ&t=42", want: "dQw4w9WgXcQ"},
		{name: "mobile host", url: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short link", url: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short link with timestamp", url: "https://youtu.be/dQw4w9WgXcQ?t=10", want: "dQw4w9WgXcQ"},
		{name: "shorts", url: "https://www.youtube.com/shorts/abcdefghijk", want: "abcdefghijk"},
		{name: "embed", url: "https://www.youtube.com/embed/abc_def-123", want: "abc_def-123"},
		{name: "live", url: "https://www.youtube.com/live/abcdefghijk", want: "abcdefghijk"},
		{name: "bare id", url: "dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "surrounding whitespace", url: "  https://youtu.be/dQw4w9WgXcQ  ", want: "dQw4w9WgXcQ"},
		{name: "other host", url: "https://example.com/watch?v=dQw4w9WgXcQ", wantErr: true},
		{name: "missing v", url: "https://www.youtube.com/watch", wantErr: true},
		{name: "id too short", url: "https://youtu.be/abc", wantErr: true},
		{name: "channel page", url: "https://www.youtube.com/@somebody", wantErr: true},
		{name: "not a url", url: "play this song", wantErr: true},
		{name: "ftp scheme", url: "ftp://youtu.be/dQw4w9WgXcQ", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoVideoID)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVideoDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "PT4M13S", want: 253},
		{input: "PT1H", want: 3600},
		{input: "PT1H2M3S", want: 3723},
		{input: "PT45S", want: 45},
		{input: "PT10M", want: 600},
		{input: "P1DT1S", want: 86401},
		{input: "P0D", want: 0},
		{input: "4M13S", wantErr: true},
		{input: "PTxM", wantErr: true},
		{input: "PT4M13", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVideoDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
