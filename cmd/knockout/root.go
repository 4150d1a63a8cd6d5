// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/knockout/internal/config"
	"github.com/katalvlaran/knockout/knockout"
	"github.com/katalvlaran/knockout/lp"
	"github.com/katalvlaran/knockout/model"
)

var errNoModel = errors.New("no model: pass --model or set " + config.EnvModel)

// app holds the global flags and what PersistentPreRunE builds from them.
type app struct {
	configPath string
	modelPath  string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "knockout",
		Short: "Flux-balance knockouts on COBRA models",
		Long: `knockout compiles a COBRA JSON model into a linear program, maximizes its
objective with a presolving simplex, and reports the growth rate after
knocking reactions out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			zc := zap.NewProductionConfig()
			level, err := zapcore.ParseLevel(cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("failed to parse log level: %w", err)
			}
			zc.Level = zap.NewAtomicLevelAt(level)
			if a.verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			if a.logger, err = zc.Build(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "knockout.yaml", "config file (YAML); missing means defaults")
	root.PersistentFlags().StringVarP(&a.modelPath, "model", "m", "", "COBRA JSON model (overrides config and "+config.EnvModel+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newSolveCmd(a), newSweepCmd(a), newPlayCmd(a))

	return root
}

// loadModel reads the model named by --model, or by the configuration.
func (a *app) loadModel() (*model.Model, error) {
	path := a.modelPath
	if path == "" {
		path = a.cfg.Model
	}
	if path == "" {
		return nil, errNoModel
	}
	m, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("model loaded",
		zap.String("path", path),
		zap.String("id", m.ID),
		zap.Int("metabolites", len(m.Metabolites)),
		zap.Int("reactions", len(m.Reactions)),
	)

	return m, nil
}

// options maps the configuration to knockout options wired to the logger.
func (a *app) options() []knockout.Option {
	opts := a.cfg.SessionOptions(lp.WithLogger(a.logger.Named("lp")))
	return append(opts, knockout.WithLogger(a.logger.Named("knockout")))
}
