package downloader

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "seconds only", input: "45", want: 45 * time.Second},
		{name: "minutes seconds", input: "1:30", want: 90 * time.Second},
		{name: "hours minutes seconds", input: "1:02:03", want: 3723 * time.Second},
		{name: "zero", input: "0:00", want: 0},
		{name: "padding tolerated", input: " 3:45 ", want: 225 * time.Second},
		{name: "non numeric", input: "abc", wantErr: true},
		{name: "non numeric part", input: "1:xx", wantErr: true},
		{name: "too many parts", input: "1:2:3:4", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "negative part", input: "-1:30", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseClock(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("parseClock(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
