package subtitle

import (
	"errors"
	"fmt"
)

// represents single caption extracted from an ASS Dialogue line
type DialogueEvent struct {
	Start string
	End   string
	Text  string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatASS Format = "ass"
)

var (
	ErrTooFewFields       = errors.New("dialogue line has too few fields")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// error tied to a 1-based line number of the source file
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatASS:
		return ".ass"
	default:
		return ".srt"
	}
}
