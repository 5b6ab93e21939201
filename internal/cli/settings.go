package cli

import (
	"fmt"

	"github.com/mgpai22/ass2srt/internal/config"
	"github.com/mgpai22/ass2srt/internal/convert"
	"github.com/mgpai22/ass2srt/internal/logging"
	"github.com/mgpai22/ass2srt/internal/subtitle"
	"github.com/spf13/cobra"
)

// flag values shared by every command
type globalFlags struct {
	verbose             bool
	configPath          string
	dir                 string
	outputDir           string
	onError             string
	textFields          string
	normalizeTimestamps bool
	encoding            string
	ffmpegPath          string
}

func (g *globalFlags) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVarP(&g.configPath, "config", "c", "", "Path to a YAML config file")
	flags.StringVarP(&g.dir, "dir", "d", ".", "Directory to scan for .ass files")
	flags.StringVarP(&g.outputDir, "output-dir", "o", "", "Directory for .srt files (default: next to each input)")
	flags.StringVar(&g.onError, "on-error", "skip-file", "What a malformed file does: abort, skip-file, skip-line")
	flags.StringVar(&g.textFields, "text-fields", "preserve", "How commas in dialogue text are kept: preserve, space")
	flags.BoolVar(&g.normalizeTimestamps, "normalize-timestamps", false, "Zero-pad hours and milliseconds instead of prefixing a literal 0")
	flags.StringVar(&g.encoding, "encoding", "auto", "Input encoding handling: auto, utf-8")
	flags.StringVar(&g.ffmpegPath, "ffmpeg", "", "Path to the ffmpeg binary (default: search PATH)")
}

// loads the config file, if any, and applies explicitly set flags on top
func (g *globalFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if g.configPath != "" {
		loaded, err := config.Load(g.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Convert.Dir = g.dir
	}
	if flags.Changed("output-dir") {
		cfg.Convert.OutputDir = g.outputDir
	}
	if flags.Changed("on-error") {
		cfg.Convert.OnError = g.onError
	}
	if flags.Changed("text-fields") {
		cfg.Convert.TextFields = g.textFields
	}
	if flags.Changed("normalize-timestamps") {
		cfg.Convert.NormalizeTimestamps = g.normalizeTimestamps
	}
	if flags.Changed("encoding") {
		cfg.Convert.Encoding = g.encoding
	}
	if flags.Changed("ffmpeg") {
		cfg.FFmpeg.Path = g.ffmpegPath
	}
	if g.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func converterOptions(cfg *config.Config) (convert.Options, error) {
	policy, err := convert.ParsePolicy(cfg.Convert.OnError)
	if err != nil {
		return convert.Options{}, err
	}
	textFields, err := subtitle.ParseTextFields(cfg.Convert.TextFields)
	if err != nil {
		return convert.Options{}, err
	}
	encoding, err := subtitle.ParseEncoding(cfg.Convert.Encoding)
	if err != nil {
		return convert.Options{}, err
	}

	return convert.Options{
		OutputDir:           cfg.Convert.OutputDir,
		Policy:              policy,
		Parse:               subtitle.ParseOptions{TextFields: textFields},
		Encoding:            encoding,
		NormalizeTimestamps: cfg.Convert.NormalizeTimestamps,
	}, nil
}

func newConverter(
	cmd *cobra.Command,
	cfg *config.Config,
	logger *logging.Logger,
) (*convert.Converter, error) {
	opts, err := converterOptions(cfg)
	if err != nil {
		return nil, err
	}
	return convert.New(opts, logger, cmd.OutOrStdout(), cmd.ErrOrStderr()), nil
}

func summaryError(summary convert.Summary) error {
	if n := len(summary.Failed); n > 0 {
		return fmt.Errorf("%d file(s) failed to convert", n)
	}
	return nil
}
