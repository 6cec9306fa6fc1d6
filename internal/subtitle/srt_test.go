package subtitle

import (
	"strings"
	"testing"

	"reelforge/models"
)

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Fatalf("expected empty document, got %q", got)
	}
	if got := Format([]models.Beat{}); got != "" {
		t.Fatalf("expected empty document, got %q", got)
	}
}

func TestFormatNumbersAndSeparatesCues(t *testing.T) {
	beats := []models.Beat{
		{TStart: 0, TEnd: 2, Text: "Space is completely silent."},
		{TStart: 2, TEnd: 4, Text: "A day on Venus is longer than a year."},
		{TStart: 4, TEnd: 6.5, Text: "There are more stars than grains of sand."},
	}

	got := Format(beats)
	want := "1\n00:00:00,000 --> 00:00:02,000\nSpace is completely silent.\n" +
		"\n2\n00:00:02,000 --> 00:00:04,000\nA day on Venus is longer than a year.\n" +
		"\n3\n00:00:04,000 --> 00:00:06,500\nThere are more stars than grains of sand.\n"
	if got != want {
		t.Fatalf("unexpected document:\n%q\nwant:\n%q", got, want)
	}

	if n := strings.Count(got, "-->"); n != 3 {
		t.Fatalf("expected 3 cue timing lines, got %d", n)
	}
}

func TestFormatDeterministic(t *testing.T) {
	beats := []models.Beat{
		{TStart: 0.5, TEnd: 1.25, Text: "a"},
		{TStart: 1.25, TEnd: 3, Text: "b"},
	}
	if Format(beats) != Format(beats) {
		t.Fatal("formatting the same beats twice must be byte-identical")
	}
}

func TestTimestampPrecision(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{61.234, "00:01:01,234"},
		{63.0, "00:01:03,000"},
		{3599.999, "00:59:59,999"},
		{3600, "01:00:00,000"},
		{-1, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := Timestamp(tc.seconds); got != tc.want {
			t.Errorf("Timestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatPassesMalformedRangesThrough(t *testing.T) {
	// Inverted ranges are not validated here; they surface verbatim.
	beats := []models.Beat{{TStart: 5, TEnd: 2, Text: "backwards"}}
	got := Format(beats)
	if !strings.Contains(got, "00:00:05,000 --> 00:00:02,000") {
		t.Fatalf("inverted range should pass through untouched, got %q", got)
	}
}
