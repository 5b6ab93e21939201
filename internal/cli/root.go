package cli

import (
	"context"

	"github.com/mgpai22/ass2srt/internal/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "ass2srt",
		Short: "Convert ASS subtitles to SRT",
		Long: `ass2srt converts every .ass file in a directory into a SubRip (.srt)
file with the same name.

Only Dialogue lines are converted. Styling, override tags and comments
are left as they are or dropped. Existing .srt files are never
overwritten.

Examples:
  ass2srt
  ass2srt --dir subs --output-dir out
  ass2srt --on-error skip-line --normalize-timestamps`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, flags)
		},
	}

	flags.register(rootCmd)

	rootCmd.AddCommand(
		newWatchCmd(flags),
		newExtractCmd(flags),
		newLicenseCmd(),
	)

	return rootCmd
}

func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func runConvert(cmd *cobra.Command, flags *globalFlags) error {
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

	converter, err := newConverter(cmd, cfg, logger)
	if err != nil {
		return err
	}

	logger.Infow("Starting conversion",
		"dir", cfg.Convert.Dir,
		"output_dir", cfg.Convert.OutputDir,
		"on_error", cfg.Convert.OnError,
		"text_fields", cfg.Convert.TextFields,
		"encoding", cfg.Convert.Encoding,
	)

	summary, err := converter.Run(cfg.Convert.Dir)
	if err != nil {
		return err
	}

	logger.Infow("Conversion complete",
		"converted", summary.Converted,
		"skipped", summary.Skipped,
		"failed", len(summary.Failed),
	)

	return summaryError(summary)
}
