package subtitle

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

const (
	dialoguePrefix = "Dialogue"

	// Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
	dialogueFieldCount = 10

	startField = 1
	endField   = 2
	textField  = 9
)

// controls how the Text column of a Dialogue line is rebuilt
type TextFields string

const (
	// keeps commas inside the text column verbatim
	TextFieldsPreserve TextFields = "preserve"
	// rejoins every comma separated piece of the text column with a space
	TextFieldsSpace TextFields = "space"
)

type ParseOptions struct {
	TextFields TextFields
}

func DefaultParseOptions() ParseOptions {
	return ParseOptions{TextFields: TextFieldsPreserve}
}

func ParseTextFields(s string) (TextFields, error) {
	switch TextFields(strings.ToLower(strings.TrimSpace(s))) {
	case "", TextFieldsPreserve:
		return TextFieldsPreserve, nil
	case TextFieldsSpace:
		return TextFieldsSpace, nil
	default:
		return "", fmt.Errorf(
			"invalid text fields mode %q: use preserve or space",
			s,
		)
	}
}

// Extractor turns the lines of one ASS file into dialogue events.
//
// With SkipMalformed unset the first malformed Dialogue line stops
// extraction and is returned as a *LineError. With SkipMalformed set the
// line is handed to OnSkip (when non-nil) and extraction continues.
type Extractor struct {
	Options       ParseOptions
	SkipMalformed bool
	OnSkip        func(err *LineError)
}

func NewExtractor(opts ParseOptions) *Extractor {
	return &Extractor{Options: opts}
}

// Extract numbers lines from 1 in the order they are yielded.
func (e *Extractor) Extract(lines iter.Seq[string]) ([]DialogueEvent, error) {
	return e.ExtractNumbered(func(yield func(int, string) bool) {
		n := 0
		for line := range lines {
			n++
			if !yield(n, line) {
				return
			}
		}
	})
}

// ExtractNumbered is Extract for sources that know the physical line number
// of every line, such as LineReader.Lines, which skips unreadable lines.
func (e *Extractor) ExtractNumbered(
	lines iter.Seq2[int, string],
) ([]DialogueEvent, error) {
	events := make([]DialogueEvent, 0)

	for lineNum, line := range lines {
		if !IsDialogue(line) {
			continue
		}

		event, err := ParseDialogue(line, e.Options)
		if err != nil {
			lineErr := &LineError{Line: lineNum, Err: err}
			if !e.SkipMalformed {
				return nil, lineErr
			}
			if e.OnSkip != nil {
				e.OnSkip(lineErr)
			}
			continue
		}

		events = append(events, event)
	}

	return events, nil
}

// reports whether the line is a Dialogue event; the prefix must start at
// column 0
func IsDialogue(line string) bool {
	return strings.HasPrefix(line, dialoguePrefix)
}

// ParseDialogue reads the start, end, and text columns of a Dialogue line.
// The event marker belongs to field 0 in both "Dialogue: 0,..." and
// "Dialogue,0,..." so the start time is always field 1 and the text
// starts at field 9.
func ParseDialogue(line string, opts ParseOptions) (DialogueEvent, error) {
	fields := dialogueFields(line, opts.TextFields)

	if len(fields) < dialogueFieldCount {
		return DialogueEvent{}, fmt.Errorf(
			"%w: expected at least %d, got %d",
			ErrTooFewFields,
			dialogueFieldCount,
			len(fields),
		)
	}

	start, err := convertASSTimestamp(fields[startField])
	if err != nil {
		return DialogueEvent{}, fmt.Errorf("start time: %w", err)
	}

	end, err := convertASSTimestamp(fields[endField])
	if err != nil {
		return DialogueEvent{}, fmt.Errorf("end time: %w", err)
	}

	return DialogueEvent{
		Start: start,
		End:   end,
		Text:  strings.Join(fields[textField:], " "),
	}, nil
}

func dialogueFields(line string, mode TextFields) []string {
	// "Dialogue," carries the marker as a field of its own; fold it into
	// the layer field
	body, _ := strings.CutPrefix(line, dialoguePrefix+",")

	if mode == TextFieldsSpace {
		return strings.Split(body, ",")
	}
	return strings.SplitN(body, ",", dialogueFieldCount)
}

// rewrites "H:MM:SS.cc" into "H:MM:SS,<cc*10>"
func convertASSTimestamp(ts string) (string, error) {
	parts := strings.Split(ts, ".")
	if len(parts) != 2 {
		return "", fmt.Errorf(
			"%w: %q is not of the form H:MM:SS.cc",
			ErrMalformedTimestamp,
			ts,
		)
	}

	centis, err := parseCentiseconds(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedTimestamp, ts, err)
	}

	return parts[0] + "," + strconv.Itoa(centis*10), nil
}

func parseCentiseconds(s string) (int, error) {
	if s == "" || len(s) > 2 {
		return 0, fmt.Errorf("centiseconds must be 1 or 2 digits, got %q", s)
	}

	// ParseUint rejects signs and whitespace
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid centiseconds %q", s)
	}

	return int(v), nil
}
