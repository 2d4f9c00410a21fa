package scan

import (
	"fmt"
	"io"

	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/config"
	"github.com/inscription-c/ccoin/internal/engine"
	"github.com/inscription-c/ccoin/internal/signal"
	"github.com/inscription-c/ccoin/internal/util"
	"github.com/spf13/cobra"
)

// NewColorValueCmd returns the colorvalue command printing the color
// values held by an outpoint.
func NewColorValueCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "colorvalue <txid:vout> [color_desc...]",
		Short: "print the color values held by an output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outpoint, err := util.StringToOutpoint(args[0])
			if err != nil {
				return err
			}
			e, err := engine.New(cfg)
			if err != nil {
				return err
			}
			defer e.Close()
			set, err := e.ColorSet(args[1:])
			if err != nil {
				return err
			}
			values, err := e.Reader().GetColorValues(signal.Context(), set, &outpoint.Hash, outpoint.Index)
			if err != nil {
				return err
			}
			printValues(cmd.OutOrStdout(), values)
			return nil
		},
	}
}

func printValues(w io.Writer, values []*coloring.ColorValue) {
	if len(values) == 0 {
		fmt.Fprintln(w, "uncolored")
		return
	}
	for _, v := range values {
		if v.Label() != "" {
			fmt.Fprintf(w, "%s %d %s\n", v.ColorDef().ColorDesc(), v.Value(), v.Label())
			continue
		}
		fmt.Fprintf(w, "%s %d\n", v.ColorDef().ColorDesc(), v.Value())
	}
}
