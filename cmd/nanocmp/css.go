package main

import (
	"github.com/spf13/cobra"

	"github.com/pthm/nanocmp"
)

func newCSSCmd(flags *rootFlags) *cobra.Command {
	var wrap bool

	cmd := &cobra.Command{
		Use:   "css",
		Short: "Print the scoped stylesheet of the manifest's components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}

			reg := nanocmp.NewRegistry(nil, s.opts)
			if err := s.manifest.Setup(s.log)(reg); err != nil {
				return err
			}
			if err := reg.Initialize(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if wrap {
				return reg.Stylesheet().Component().Render(cmd.Context(), out)
			}
			if _, err := reg.Stylesheet().WriteTo(out); err != nil {
				return err
			}
			_, err = out.Write([]byte("\n"))
			return err
		},
	}

	cmd.Flags().BoolVar(&wrap, "wrap", false, "Wrap the rules in a <style> element")
	return cmd
}
