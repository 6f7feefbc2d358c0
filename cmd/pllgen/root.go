package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/llm-d/pll-table-generator/internal/config"
	"github.com/llm-d/pll-table-generator/internal/emitter"
	"github.com/llm-d/pll-table-generator/internal/generator"
	"github.com/llm-d/pll-table-generator/internal/logging"
	"github.com/llm-d/pll-table-generator/internal/metrics"
)

// NewRootCommand builds the pllgen command. All files are read and written through fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "pllgen",
		Short: "Generate the PLL divider lookup table for firmware",
		Long: `pllgen enumerates every output frequency the clock synthesizer can produce,
selects the preferred divider registers for each one and writes them as a
static table, so firmware never searches the divider space on-device.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), fs, v, configFile, cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "configuration file (YAML, JSON or TOML)")
	flags.String(config.KeyProfile, config.StandardProfileName, "hardware profile to generate for")
	flags.String(config.KeyProfilesFile, "", "YAML file with additional hardware profiles")
	flags.StringP(config.KeyOutput, "o", config.DefaultOutput, "output path")
	flags.String(config.KeyFormat, config.DefaultFormat, `output format: "c-header" or "yaml"`)
	flags.String(config.KeyMetricsFile, "", "write run metrics to this Prometheus textfile")
	flags.IntP(config.KeyVerbosity, "v", logging.INFO, "log verbosity (1 logs every eviction)")
	flags.String(config.KeyLogFormat, config.DefaultLogFormat, `log format: "console" or "json"`)

	cobra.CheckErr(bindFlags(v, flags))
	return cmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{
		config.KeyProfile,
		config.KeyProfilesFile,
		config.KeyOutput,
		config.KeyFormat,
		config.KeyMetricsFile,
		config.KeyVerbosity,
		config.KeyLogFormat,
	} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return fmt.Errorf("binding flag %s: %w", key, err)
		}
	}
	return nil
}

func run(ctx context.Context, fs afero.Fs, v *viper.Viper, configFile string, logOut io.Writer) error {
	cfg, err := config.Load(v, fs, configFile)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(logging.Options{
		Verbosity: cfg.Verbosity,
		Format:    cfg.LogFormat,
		Writer:    logOut,
	})
	if err != nil {
		return err
	}
	ctx = logging.IntoContext(ctx, logger)

	profile, err := cfg.ResolveProfile(ctx, fs)
	if err != nil {
		return err
	}
	logger.V(logging.DEBUG).Info("Using hardware profile",
		"profile", profile.Name,
		"refClockMHz", profile.RefClockMHz,
		"feedbackDiv", fmt.Sprintf("%d-%d", profile.MinFeedbackDiv, profile.MaxFeedbackDiv),
		"refDivValues", profile.RefDivValues,
		"postDiv1Values", profile.PostDiv1Values,
		"vcoMaxMHz", profile.VCOMaxMHz,
		"maxFreqMHz", profile.MaxFreqMHz)

	format, err := emitter.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	e, err := emitter.NewEmitter(fs, cfg.Output, format, emitter.DefaultOptions())
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder(profile.Name)
	gen, err := generator.New(profile.Params(), e, recorder)
	if err != nil {
		return err
	}
	if _, err := gen.Run(ctx); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(fs, cfg.MetricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
