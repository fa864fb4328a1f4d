package main

import (
	"bufio"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/nanocmp"
)

func newRenderCmd(flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the manifest's components into an HTML document",
		Long: `Render parses an HTML document (from file, or stdin when omitted), defines
every component in the manifest, and writes the processed document with the
scoped stylesheet in <head>.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			bw := bufio.NewWriter(out)
			reg, err := nanocmp.Process(in, bw, s.manifest.Setup(s.log), s.opts)
			if err != nil {
				return err
			}
			s.log.Info().Int("components", reg.Len()).Int("rules", reg.Stylesheet().Len()).Msg("document rendered")
			return bw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
