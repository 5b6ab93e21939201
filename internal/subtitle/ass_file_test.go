package subtitle

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"testing"
)

func TestParseDialogue(t *testing.T) {
	tests := []struct {
		name string
		line string
		opts ParseOptions
		want DialogueEvent
	}{
		{
			name: "comma kept in text",
			line: "Dialogue,0,0:00:01.50,0:00:03.20,Default,,0,0,0,,Hello, world",
			opts: DefaultParseOptions(),
			want: DialogueEvent{
				Start: "0:00:01,500",
				End:   "0:00:03,200",
				Text:  "Hello, world",
			},
		},
		{
			name: "marker as its own field with space join",
			line: "Dialogue,0,0:00:01.50,0:00:03.20,Default,,0,0,0,,Hello, world",
			opts: ParseOptions{TextFields: TextFieldsSpace},
			want: DialogueEvent{
				Start: "0:00:01,500",
				End:   "0:00:03,200",
				Text:  "Hello  world",
			},
		},
		{
			name: "standard ASS prefix",
			line: "Dialogue: 0,1:23:45.67,1:23:46.00,Default,,0,0,0,,Line",
			opts: DefaultParseOptions(),
			want: DialogueEvent{
				Start: "1:23:45,670",
				End:   "1:23:46,0",
				Text:  "Line",
			},
		},
		{
			name: "millis are not zero padded",
			line: "Dialogue,0,0:00:00.05,0:00:00.09,Default,,0,0,0,,x",
			opts: DefaultParseOptions(),
			want: DialogueEvent{
				Start: "0:00:00,50",
				End:   "0:00:00,90",
				Text:  "x",
			},
		},
		{
			name: "space join",
			line: "Dialogue,0,0:00:01.50,0:00:03.20,Default,,0,0,0,,a,b,c",
			opts: ParseOptions{TextFields: TextFieldsSpace},
			want: DialogueEvent{
				Start: "0:00:01,500",
				End:   "0:00:03,200",
				Text:  "a b c",
			},
		},
		{
			name: "empty text",
			line: "Dialogue,0,0:00:01.00,0:00:02.00,Default,,0,0,0,,",
			opts: DefaultParseOptions(),
			want: DialogueEvent{
				Start: "0:00:01,0",
				End:   "0:00:02,0",
				Text:  "",
			},
		},
		{
			name: "override tags left untouched",
			line: `Dialogue: 0,0:00:05.00,0:00:08.00,Default,,0,0,0,,{\pos(100,200)}Tagged`,
			opts: DefaultParseOptions(),
			want: DialogueEvent{
				Start: "0:00:05,0",
				End:   "0:00:08,0",
				Text:  `{\pos(100,200)}Tagged`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDialogue(tt.line, tt.opts)
			if err != nil {
				t.Fatalf("ParseDialogue returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseDialogueErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"too few fields", "Dialogue,0,0:00:01.50,0:00:03.20,Default", ErrTooFewFields},
		{"bare prefix", "Dialogue", ErrTooFewFields},
		{"no centiseconds", "Dialogue,0,0:00:01,0:00:03.20,Default,,0,0,0,,x", ErrMalformedTimestamp},
		{"two dots", "Dialogue,0,0:00:01.5.0,0:00:03.20,Default,,0,0,0,,x", ErrMalformedTimestamp},
		{"letters", "Dialogue,0,0:00:01.ab,0:00:03.20,Default,,0,0,0,,x", ErrMalformedTimestamp},
		{"negative", "Dialogue,0,0:00:01.-5,0:00:03.20,Default,,0,0,0,,x", ErrMalformedTimestamp},
		{"three digits", "Dialogue,0,0:00:01.500,0:00:03.20,Default,,0,0,0,,x", ErrMalformedTimestamp},
		{"empty fraction", "Dialogue,0,0:00:01.,0:00:03.20,Default,,0,0,0,,x", ErrMalformedTimestamp},
		{"bad end", "Dialogue,0,0:00:01.50,0:00:03. 2,Default,,0,0,0,,x", ErrMalformedTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDialogue(tt.line, DefaultParseOptions())
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCentisecondsBecomeMilliseconds(t *testing.T) {
	for cs := 0; cs <= 99; cs++ {
		line := fmt.Sprintf(
			"Dialogue,0,0:00:01.%02d,0:00:02.%d,Default,,0,0,0,,x",
			cs,
			cs,
		)
		event, err := ParseDialogue(line, DefaultParseOptions())
		if err != nil {
			t.Fatalf("cs=%d: unexpected error: %v", cs, err)
		}

		for _, ts := range []string{event.Start, event.End} {
			_, ms, _ := strings.Cut(ts, ",")
			got, err := strconv.Atoi(ms)
			if err != nil {
				t.Fatalf("cs=%d: millis %q not numeric", cs, ms)
			}
			if got != cs*10 || got < 0 || got > 990 {
				t.Errorf("cs=%d: expected %d ms, got %d", cs, cs*10, got)
			}
		}
	}
}

func TestIsDialogue(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,x", true},
		{"Dialogue,0,0:00:01.00", true},
		{" Dialogue: 0,0:00:01.00", false},
		{"; Dialogue lines follow", false},
		{"Comment: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,Dialogue", false},
		{"dialogue: 0,0:00:01.00", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := IsDialogue(tt.line); got != tt.want {
				t.Errorf("IsDialogue(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestExtractPreservesOrder(t *testing.T) {
	lines := []string{
		"[Events]",
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text",
		"Dialogue: 0,0:00:05.00,0:00:06.00,Default,,0,0,0,,second in time",
		"Comment: 0,0:00:00.00,0:00:01.00,Default,,0,0,0,,ignored",
		"Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,first in time",
		"  Dialogue: 0,0:00:03.00,0:00:04.00,Default,,0,0,0,,indented",
	}

	events, err := NewExtractor(DefaultParseOptions()).Extract(slices.Values(lines))
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Text != "second in time" || events[1].Text != "first in time" {
		t.Errorf("events out of source order: %+v", events)
	}
}

func TestExtractStopsOnMalformedLine(t *testing.T) {
	lines := []string{
		"Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,ok",
		"Dialogue: 0,0:00:01.xx,0:00:02.00,Default,,0,0,0,,bad",
		"Dialogue: 0,0:00:03.00,0:00:04.00,Default,,0,0,0,,ok",
	}

	_, err := NewExtractor(DefaultParseOptions()).Extract(slices.Values(lines))

	var lineErr *LineError
	if !errors.As(err, &lineErr) {
		t.Fatalf("expected *LineError, got %v", err)
	}
	if lineErr.Line != 2 {
		t.Errorf("expected line 2, got %d", lineErr.Line)
	}
	if !errors.Is(err, ErrMalformedTimestamp) {
		t.Errorf("expected ErrMalformedTimestamp, got %v", err)
	}
}

func TestExtractSkipMalformed(t *testing.T) {
	lines := []string{
		"Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,one",
		"Dialogue: 0,0:00:01.00",
		"Dialogue: 0,0:00:03.00,0:00:04.00,Default,,0,0,0,,two",
	}

	var skipped []*LineError
	extractor := NewExtractor(DefaultParseOptions())
	extractor.SkipMalformed = true
	extractor.OnSkip = func(err *LineError) {
		skipped = append(skipped, err)
	}

	events, err := extractor.Extract(slices.Values(lines))
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if len(skipped) != 1 || skipped[0].Line != 2 {
		t.Fatalf("expected line 2 to be skipped, got %v", skipped)
	}
	if !errors.Is(skipped[0], ErrTooFewFields) {
		t.Errorf("expected ErrTooFewFields, got %v", skipped[0])
	}
}

func TestParseTextFields(t *testing.T) {
	tests := []struct {
		input   string
		want    TextFields
		wantErr bool
	}{
		{"", TextFieldsPreserve, false},
		{"preserve", TextFieldsPreserve, false},
		{" Space ", TextFieldsSpace, false},
		{"comma", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTextFields(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTextFields(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTextFields(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
