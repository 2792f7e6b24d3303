package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ordercheck/internal/config"
	"github.com/JonMunkholm/ordercheck/internal/core"
	"github.com/JonMunkholm/ordercheck/internal/decode"
	"github.com/JonMunkholm/ordercheck/internal/logging"
	"github.com/JonMunkholm/ordercheck/internal/metrics"
	"github.com/JonMunkholm/ordercheck/internal/source"
)

// app carries what every subcommand needs once the root has loaded it.
type app struct {
	cfg     *config.Config
	dataDir []string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "ordercheck",
		Short:         "Check production orders for unfinished and cross-month postings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if len(a.dataDir) > 0 {
				cfg.Source.Dirs = a.dataDir
			}
			a.cfg = cfg

			// Logs go to stderr so stdout stays clean for reports.
			logging.Setup(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
			slog.Debug("configuration loaded", "config", cfg.String())
			return nil
		},
	}

	cmd.PersistentFlags().StringSliceVar(&a.dataDir, "data-dir", nil,
		"directory holding header.csv and material.csv (repeatable; overrides DATA_DIRS)")

	cmd.AddCommand(
		newServeCmd(a),
		newReportCmd(a),
		newOrderCmd(a),
	)
	return cmd
}

// newSource builds the file source described by the loaded configuration.
func (a *app) newSource(opts ...source.Option) *source.FileSource {
	sc := a.cfg.Source
	return source.New(source.Config{
		Dirs:         sc.Dirs,
		HeaderFile:   sc.HeaderFile,
		MaterialFile: sc.MaterialFile,
		Decode: decode.Options{
			Encoding:  sc.Encoding,
			Delimiter: sc.DelimiterRune(),
		},
	}, opts...)
}

// newService wires a source to a query service, reporting to reg when set.
func (a *app) newService(reg *metrics.Registry) (*core.Service, *source.FileSource) {
	var srcOpts []source.Option
	var svcOpts []core.ServiceOption
	if reg != nil {
		srcOpts = append(srcOpts, source.WithLoadObserver(reg))
		svcOpts = append(svcOpts, core.WithAnalysisObserver(reg))
	}
	src := a.newSource(srcOpts...)
	return core.NewService(src, svcOpts...), src
}
