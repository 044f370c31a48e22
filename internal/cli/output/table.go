package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// KV is an ordered key/value result, the shape every tmppg command reports
// in: instance details, plan summaries, connection parameters.
type KV [][2]string

// Set appends a pair, keeping insertion order.
func (kv *KV) Set(key, value string) {
	*kv = append(*kv, [2]string{key, value})
}

// PrintKV writes the pairs as a borderless two-column table.
func PrintKV(w io.Writer, kv KV) error {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator(":")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, pair := range kv {
		table.Append([]string{pair[0], pair[1]})
	}

	table.Render()
	return nil
}
