package downloader

import "testing"

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "punctuation to spaces", input: "Song: Title / Remix!!", want: "Song Title Remix"},
		{name: "keeps accents", input: "Canción número uno", want: "Canción número uno"},
		{name: "keeps hyphen and period", input: "Artist - Song (feat. Nobody)", want: "Artist - Song feat. Nobody"},
		{name: "collapses underscores", input: "a___b", want: "a_b"},
		{name: "collapses spaces", input: "a    b", want: "a b"},
		{name: "trims", input: "  padded  ", want: "padded"},
		{name: "empty falls back", input: "!!!", want: "audio"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeTitle(tc.input); got != tc.want {
				t.Fatalf("SanitizeTitle(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestMimeToExt(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "audio/webm; codecs=\"opus\"", want: "webm"},
		{input: "audio/mp4", want: "mp4"},
		{input: "nonsense", want: "bin"},
	}

	for _, tc := range cases {
		if got := mimeToExt(tc.input); got != tc.want {
			t.Fatalf("mimeToExt(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
