package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/ass2srt/internal/ffmpeg"
	"github.com/mgpai22/ass2srt/internal/logging"
	"github.com/mgpai22/ass2srt/internal/subtitle"
	"github.com/mgpai22/ass2srt/internal/video"
	"github.com/spf13/cobra"
)

// replaced in tests
var newProcessor = func(ffmpegPath string) video.Processor {
	return video.NewProcessor(ffmpegPath)
}

func newExtractCmd(flags *globalFlags) *cobra.Command {
	var stream int

	extractCmd := &cobra.Command{
		Use:   "extract [media_file]",
		Short: "Extract a subtitle track from a video and convert it to SRT",
		Long: `Extract a text subtitle track from a media container with ffmpeg,
save it as an .ass file next to the media, then convert it to SRT.

Neither the .ass nor the .srt file is overwritten if it exists.

Examples:
  ass2srt extract episode.mkv
  ass2srt extract episode.mkv --stream 1
  ass2srt extract episode.mkv --ffmpeg /opt/ffmpeg/bin/ffmpeg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, flags, args[0], stream)
		},
	}

	extractCmd.Flags().
		IntVarP(&stream, "stream", "s", 0, "Subtitle stream index (0 = first subtitle track)")

	return extractCmd
}

func assPathFor(mediaPath string) string {
	return strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) +
		subtitle.GetExtensionForFormat(subtitle.FormatASS)
}

func runExtract(
	cmd *cobra.Command,
	flags *globalFlags,
	mediaPath string,
	stream int,
) error {
	cfg, err := flags.resolve(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ffmpegPath, err := ffmpeg.Locate(cfg.FFmpeg.Path)
	if err != nil {
		return err
	}

	assPath := assPathFor(mediaPath)

	logger.Infow("Extracting subtitles",
		"media", mediaPath,
		"output", assPath,
		"stream", stream,
		"ffmpeg", ffmpegPath,
	)

	processor := newProcessor(ffmpegPath)
	if err := processor.ExtractSubtitles(
		cmd.Context(),
		mediaPath,
		assPath,
		video.ExtractSubtitlesOptions{Stream: stream},
	); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	converter, err := newConverter(cmd, cfg, logger)
	if err != nil {
		return err
	}

	summary, err := converter.Process(assPath)
	if err != nil {
		return err
	}
	return summaryError(summary)
}
