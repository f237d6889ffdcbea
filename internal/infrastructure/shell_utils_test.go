package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteArg(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain flag", "--dump-single-json", "--dump-single-json"},
		{"plain path", "/tmp/ytdl_123/file.mp4", "/tmp/ytdl_123/file.mp4"},
		{"empty", "", "''"},
		{"spaces", "/tmp/my videos", "'/tmp/my videos'"},
		{"output template", "%(title).200B-%(id)s.%(ext)s", "'%(title).200B-%(id)s.%(ext)s'"},
		{"single quote", "it's", `'it'"'"'s'`},
		{"query string", "https://www.youtube.com/watch?v=abc&t=10", "'https://www.youtube.com/watch?v=abc&t=10'"},
		{"format selector", "137+140", "137+140"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, quoteArg(tt.input))
		})
	}
}

func TestCommandLine(t *testing.T) {
	line := CommandLine("yt-dlp", "-f", "22", "-o", "/tmp/ytdl_1/%(title).200B-%(id)s.%(ext)s", "https://youtu.be/abc")
	assert.Equal(t, "yt-dlp -f 22 -o '/tmp/ytdl_1/%(title).200B-%(id)s.%(ext)s' https://youtu.be/abc", line)

	assert.Equal(t, "'/opt/my tools/yt-dlp' --version", CommandLine("/opt/my tools/yt-dlp", "--version"))
}

func TestIsShellSpecialChar(t *testing.T) {
	for _, c := range " \t'\"$`\\!*?[](){}|;<>&~#%\n\r" {
		assert.True(t, isShellSpecialChar(c), "expected %q to be special", c)
	}
	for _, c := range "abcABC123_-./:@=+" {
		assert.False(t, isShellSpecialChar(c), "expected %q to be plain", c)
	}
}
