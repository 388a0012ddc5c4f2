package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/render/sink"
)

// drawCommand prints the bordered serial square, the quickest way to look
// at a row from the terminal.
func (c *CLI) drawCommand() *cobra.Command {
	var display displayFlags

	cmd := &cobra.Command{
		Use:   "draw <row>...",
		Short: "Print the serial square of a row",
		Example: `  webern draw 11 10 2 3 7 6 8 4 5 0 1 9
  webern draw --no-pitches B Bb D Eb`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rowFromArgs(args)
			if err != nil {
				return err
			}
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			display.apply(cmd.Flags(), &opts)
			label, err := opts.Labeler()
			if err != nil {
				return err
			}
			return sink.WriteText(cmd.OutOrStdout(), matrix.Square(r), sink.WithTextLabeler(label))
		},
	}

	display.register(cmd.Flags())
	return cmd
}
