package convert

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mgpai22/ass2srt/internal/logging"
	"github.com/mgpai22/ass2srt/internal/subtitle"
)

// decides how far a failure inside one input file reaches
type Policy string

const (
	// any input or parse failure stops the whole run
	PolicyAbort Policy = "abort"
	// a failing file is reported and the batch moves on
	PolicySkipFile Policy = "skip-file"
	// malformed Dialogue lines are reported and dropped, other
	// failures behave as PolicySkipFile
	PolicySkipLine Policy = "skip-line"
)

var (
	ErrOutputExists = errors.New("output file already exists")
	ErrCreateOutput = errors.New("couldn't create output file")
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicySkipFile:
		return PolicySkipFile, nil
	case PolicyAbort:
		return PolicyAbort, nil
	case PolicySkipLine:
		return PolicySkipLine, nil
	default:
		return "", fmt.Errorf(
			"invalid error policy %q: use abort, skip-file, or skip-line",
			s,
		)
	}
}

type Options struct {
	// directory for .srt files; next to each input when empty
	OutputDir           string
	Policy              Policy
	Parse               subtitle.ParseOptions
	Encoding            subtitle.Encoding
	NormalizeTimestamps bool
}

func DefaultOptions() Options {
	return Options{
		Policy:   PolicySkipFile,
		Parse:    subtitle.DefaultParseOptions(),
		Encoding: subtitle.EncodingAuto,
	}
}

// outcome of one converted file
type Result struct {
	Input  string
	Output string
	Blocks int
}

type Summary struct {
	Converted int
	// inputs whose .srt already existed or could not be created
	Skipped int
	Failed  []error
}

type Converter struct {
	opts   Options
	logger *logging.Logger
	stdout io.Writer
	stderr io.Writer
	writer *subtitle.SRTWriter
}

func New(
	opts Options,
	logger *logging.Logger,
	stdout, stderr io.Writer,
) *Converter {
	if opts.Policy == "" {
		opts.Policy = PolicySkipFile
	}
	if opts.Encoding == "" {
		opts.Encoding = subtitle.EncodingAuto
	}
	if opts.Parse.TextFields == "" {
		opts.Parse.TextFields = subtitle.TextFieldsPreserve
	}

	return &Converter{
		opts:   opts,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
		writer: subtitle.NewSRTWriter(opts.NormalizeTimestamps),
	}
}

// Discover lists the .ass files directly inside dir, sorted by name.
// Directories are skipped even when their name ends in .ass.
func (c *Converter) Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("couldn't get ass files: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if IsASSFile(entry.Name()) {
			paths = append(paths, path)
		}
	}

	slices.Sort(paths)
	return paths, nil
}

func IsASSFile(path string) bool {
	return filepath.Ext(path) == subtitle.GetExtensionForFormat(subtitle.FormatASS)
}

func (c *Converter) OutputPath(input string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) +
		subtitle.GetExtensionForFormat(subtitle.FormatSRT)

	dir := c.opts.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

// ConvertFile reads one ASS file and writes its SRT counterpart. The
// output is created exclusively; ErrOutputExists is returned when it
// already exists and nothing is written.
func (c *Converter) ConvertFile(path string) (Result, error) {
	result := Result{Input: path, Output: c.OutputPath(path)}

	extractor := subtitle.NewExtractor(c.opts.Parse)
	if c.opts.Policy == PolicySkipLine {
		extractor.SkipMalformed = true
		extractor.OnSkip = func(err *subtitle.LineError) {
			c.logger.Warnw("Skipping malformed dialogue line",
				"file", path,
				"line", err.Line,
				"error", err.Err,
			)
		}
	}

	file, err := subtitle.Open(path, c.opts.Encoding, extractor)
	if err != nil {
		return result, fmt.Errorf("%s: %w", path, err)
	}

	c.logger.Debugw("Parsed subtitle file",
		"file", path,
		"charset", file.Charset,
		"events", len(file.Events),
	)

	blocks, err := c.writeExclusive(result.Output, file.Events)
	if err != nil {
		return result, err
	}
	result.Blocks = blocks

	return result, nil
}

func (c *Converter) writeExclusive(
	path string,
	events []subtitle.DialogueEvent,
) (int, error) {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return 0, fmt.Errorf("%w: %w", ErrCreateOutput, err)
	}

	blocks, err := c.writer.Write(out, events)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// never leave a partial file behind
		_ = os.Remove(path)
		return 0, fmt.Errorf("failed to write SRT file: %w", err)
	}

	return blocks, nil
}

// Run converts every .ass file in dir, one at a time. The returned error
// is non-nil only for failures that stop the batch.
func (c *Converter) Run(dir string) (Summary, error) {
	var summary Summary

	paths, err := c.Discover(dir)
	if err != nil {
		return summary, err
	}

	c.logger.Infow("Discovered ASS files",
		"dir", dir,
		"count", len(paths),
	)

	for _, path := range paths {
		if err := c.process(path, &summary); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

// converts one file, reports it, and returns an error only when the
// policy says the batch must stop
func (c *Converter) process(path string, summary *Summary) error {
	result, err := c.ConvertFile(path)
	if err == nil {
		summary.Converted++
		fmt.Fprintf(c.stdout, "%q -> %q\n",
			filepath.Base(result.Input),
			filepath.Base(result.Output))
		c.logger.Debugw("Converted",
			"input", result.Input,
			"output", result.Output,
			"blocks", result.Blocks,
		)
		return nil
	}

	if isCreateError(err) {
		summary.Skipped++
		fmt.Fprintf(c.stderr, "skipping %s: %v\n", filepath.Base(path), err)
		return nil
	}

	if c.opts.Policy == PolicyAbort {
		return err
	}

	summary.Failed = append(summary.Failed, err)
	fmt.Fprintf(c.stderr, "couldn't convert file: %v\n", err)
	return nil
}

// Process converts a single file with the same reporting and policy as
// Run. Used by the watcher and the extract command.
func (c *Converter) Process(path string) (Summary, error) {
	var summary Summary
	err := c.process(path, &summary)
	return summary, err
}

func isCreateError(err error) bool {
	return errors.Is(err, ErrOutputExists) || errors.Is(err, ErrCreateOutput)
}
