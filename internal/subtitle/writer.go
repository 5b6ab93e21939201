package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// SubRip format
type SRTWriter struct {
	// pad hours to two digits and milliseconds to three instead of
	// prefixing a literal "0"
	NormalizeTimestamps bool
}

func NewSRTWriter(normalize bool) *SRTWriter {
	return &SRTWriter{NormalizeTimestamps: normalize}
}

// writes one block per event and returns the number of blocks written
func (w *SRTWriter) Write(out io.Writer, events []DialogueEvent) (int, error) {
	bw := bufio.NewWriter(out)

	blocks := 0
	for i, event := range events {
		// index (1-based)
		if _, err := fmt.Fprintf(bw, "%d\n", i+1); err != nil {
			return blocks, err
		}

		if _, err := fmt.Fprintf(bw, "%s --> %s\n",
			w.formatTime(event.Start),
			w.formatTime(event.End)); err != nil {
			return blocks, err
		}

		if _, err := bw.WriteString(event.Text + "\n\n"); err != nil {
			return blocks, err
		}
		blocks++
	}

	if err := bw.Flush(); err != nil {
		return blocks, err
	}
	return blocks, nil
}

func (w *SRTWriter) Render(events []DialogueEvent) string {
	var sb strings.Builder
	// strings.Builder never fails
	_, _ = w.Write(&sb, events)
	return sb.String()
}

func (w *SRTWriter) formatTime(ts string) string {
	if !w.NormalizeTimestamps {
		return "0" + ts
	}
	return normalizeSRTTime(ts)
}

// "1:02:03,50" -> "01:02:03,050"
func normalizeSRTTime(ts string) string {
	clock, millis, hasMillis := strings.Cut(ts, ",")

	if hours, rest, ok := strings.Cut(clock, ":"); ok && len(hours) < 2 {
		clock = strings.Repeat("0", 2-len(hours)) + hours + ":" + rest
	}

	if !hasMillis {
		return clock + ",000"
	}
	if len(millis) < 3 {
		millis = strings.Repeat("0", 3-len(millis)) + millis
	}
	return clock + "," + millis
}
