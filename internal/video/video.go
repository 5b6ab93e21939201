package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

var ErrOutputExists = errors.New("subtitle output already exists")

// defines interface for media processing operations
type Processor interface {
	// writes one subtitle stream of the media file as ASS
	ExtractSubtitles(
		ctx context.Context,
		mediaPath, outputPath string,
		opts ExtractSubtitlesOptions,
	) error
}

// holds options for subtitle extraction
type ExtractSubtitlesOptions struct {
	Stream int // index among the subtitle streams, starting at 0
}

// default implementation using ffmpeg
type DefaultProcessor struct {
	ffmpegPath string
}

func NewProcessor(ffmpegPath string) *DefaultProcessor {
	return &DefaultProcessor{
		ffmpegPath: ffmpegPath,
	}
}

// extracts a subtitle stream, converting it to ASS; never overwrites
func (p *DefaultProcessor) ExtractSubtitles(
	ctx context.Context,
	mediaPath, outputPath string,
	opts ExtractSubtitlesOptions,
) error {
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("media file not found: %s", mediaPath)
	}
	if opts.Stream < 0 {
		return fmt.Errorf("subtitle stream must not be negative, got %d", opts.Stream)
	}
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, outputPath)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	stream := ffmpeg.Input(mediaPath).
		Output(outputPath, subtitleKwArgs(opts))
	if p.ffmpegPath != "" {
		stream = stream.SetFfmpegPath(p.ffmpegPath)
	}

	if err := stream.Run(); err != nil {
		return fmt.Errorf("ffmpeg subtitle extraction failed: %w", err)
	}

	return nil
}

func subtitleKwArgs(opts ExtractSubtitlesOptions) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"map": fmt.Sprintf("0:s:%d", opts.Stream),
		"c:s": "ass", // text subtitle codecs are re-encoded as ASS
		"n":   "",    // never overwrite output
	}
}
