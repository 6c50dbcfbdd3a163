package exporter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ginjaninja78/basketminer/internal/types"
)

// NoPatternsMessage is printed instead of a table when nothing was found.
const NoPatternsMessage = "no frequent itemsets found"

// RenderTable prints patterns as an aligned text table with the same columns
// as the exported sheet. Support is shown with six decimals.
func RenderTable(w io.Writer, patterns []types.Pattern) error {
	if len(patterns) == 0 {
		_, err := fmt.Fprintln(w, NoPatternsMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", Header[0], Header[1], Header[2])
	for _, p := range patterns {
		fmt.Fprintf(tw, "%d\t%.6f\t%s\n", p.Index, p.Support, p.String())
	}
	return tw.Flush()
}
