package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ASS/SSA file read into memory as dialogue events
type File struct {
	Path    string
	Charset string
	Events  []DialogueEvent
}

// reads every Dialogue event of the ASS file at path
func Open(path string, enc Encoding, extractor *Extractor) (*File, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ass" && ext != ".ssa" {
		return nil, fmt.Errorf("unsupported subtitle format: %s", ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ASS file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader, err := NewLineReader(file, enc)
	if err != nil {
		return nil, err
	}

	events, err := extractor.ExtractNumbered(reader.Lines())
	if err != nil {
		return nil, err
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}

	return &File{
		Path:    path,
		Charset: reader.Charset(),
		Events:  events,
	}, nil
}
