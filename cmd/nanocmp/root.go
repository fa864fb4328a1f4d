package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pthm/nanocmp"
)

type rootFlags struct {
	manifest string
	logLevel string
	verbose  bool
	stateKey string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "nanocmp",
		Short:         "nanocmp renders custom elements and scoped styles into static HTML",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.manifest, "manifest", "m", "nanocmp.yaml", "Component manifest")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.stateKey, "state-key", "", "Sign instance state into data-nc-state with this key")

	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newCSSCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// session is what every manifest-driven command needs: the parsed manifest
// and registry options with a logger attached.
type session struct {
	manifest *Manifest
	opts     nanocmp.Options
	log      zerolog.Logger
}

func (f *rootFlags) open(cmd *cobra.Command) (*session, error) {
	level := f.logLevel
	if f.verbose {
		level = "debug"
	}
	log, err := newLogger(loggerOptions{Level: level, HumanReadable: true, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}

	m, err := LoadManifest(f.manifest)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("manifest", f.manifest).Int("components", len(m.Components)).Msg("manifest loaded")

	opts := nanocmp.Options{Logger: &log}
	if f.stateKey != "" {
		enc, err := nanocmp.NewEncoder([]byte(f.stateKey))
		if err != nil {
			return nil, err
		}
		opts.StateEncoder = enc
	}

	return &session{manifest: m, opts: opts, log: log}, nil
}
