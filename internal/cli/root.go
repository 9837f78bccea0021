// root.go
//
// Resonance aggregation service for the habit tracker
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of resonance.
// resonance is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// resonance is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with resonance.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package cli implements resonancectl, the operator command line for the
// resonance engine.
package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/localnerve/resonance/internal/config"
	"github.com/localnerve/resonance/internal/database"
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/services"
)

// RootOptions holds the global flags shared by every subcommand
type RootOptions struct {
	Verbose bool
	Format  string
	EnvFile string

	// Config overrides the environment when set
	Config *config.Config
}

// NewRootCommand builds the resonancectl command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resonancectl",
		Short: "Inspect and repair community resonance",
		Long: `resonancectl talks to the resonance database directly.

It records events, reads a user's hexagon or a day's constellation,
re-derives aggregates from the event log and follows realtime updates.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.Format {
			case FormatJSON, FormatText:
				return nil
			default:
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be json or text", opts.Format))
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log engine activity to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.EnvFile, "env-file", "f", "", "load settings from this .env file")

	cmd.AddCommand(NewRecordCommand(opts))
	cmd.AddCommand(NewCheckInCommand(opts))
	cmd.AddCommand(NewHexagonCommand(opts))
	cmd.AddCommand(NewConstellationCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// session is an open database with the engine wired to it
type session struct {
	cfg    *config.Config
	db     *gorm.DB
	log    *logger.Logger
	engine *services.Engine
}

func (s *session) Close() {
	_ = database.Close(s.db)
	s.log.Sync()
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	if o.Config != nil {
		return o.Config, nil
	}
	if o.EnvFile != "" {
		if err := godotenv.Load(o.EnvFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", o.EnvFile, err)
		}
	}
	return config.Load()
}

func (o *RootOptions) logger() *logger.Logger {
	if !o.Verbose {
		return logger.NewNop()
	}
	log, err := logger.New("development")
	if err != nil {
		return logger.NewNop()
	}
	return log
}

// open connects, migrates and wires the engine
func (o *RootOptions) open() (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	log := o.logger()
	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, WrapExitError(ExitCommandError, "failed to migrate database", err)
	}

	engine := services.NewEngine(db, services.EngineOptions{
		Log:   log,
		Clock: services.Clock{Location: loc},
	})
	return &session{cfg: cfg, db: db, log: log, engine: engine}, nil
}
