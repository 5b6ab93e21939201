package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mgpai22/ass2srt/internal/convert"
	"github.com/mgpai22/ass2srt/internal/logging"
	"github.com/mgpai22/ass2srt/internal/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(flags *globalFlags) *cobra.Command {
	var existing bool

	watchCmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Convert .ass files as they appear in a directory",
		Long: `Watch a directory and convert every .ass file created in it until
interrupted. Files are converted one at a time.

Examples:
  ass2srt watch
  ass2srt watch downloads --existing
  ass2srt watch subs --output-dir srt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("dir", args[0]); err != nil {
					return err
				}
			}
			return runWatch(cmd, flags, existing)
		},
	}

	watchCmd.Flags().
		BoolVar(&existing, "existing", false, "Convert the .ass files already in the directory first")

	return watchCmd
}

func runWatch(cmd *cobra.Command, flags *globalFlags, existing bool) error {
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

	if existing {
		if _, err := converter.Run(cfg.Convert.Dir); err != nil {
			return err
		}
	}

	handler := func(ctx context.Context, path string) error {
		_, err := converter.Process(path)
		return err
	}

	w, err := watch.New(
		cfg.Convert.Dir,
		convert.IsASSFile,
		handler,
		logger,
		cfg.Watch.Delay,
	)
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Stop()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Infow("Shutting down")
	return nil
}
