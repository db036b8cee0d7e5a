// Package cliutil renders `vale-gatewayctl`'s tabular and structured
// output formats. Table rendering uses only text/tabwriter: no
// third-party table library appears anywhere in the teacher's or the
// rest of the pack's dependency set (the teacher's own CLI,
// cli/common/terminal/basic.go, reaches for the same stdlib
// tabwriter for its own aligned output), so this one piece is
// stdlib by necessity rather than ecosystem choice.
package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// OutputFormat is the `-o` flag's closed set of renderers.
type OutputFormat string

const (
	FormatTable  OutputFormat = "table"
	FormatWide   OutputFormat = "wide"
	FormatJSON   OutputFormat = "json"
	FormatYAML   OutputFormat = "yaml"
	FormatKubectl OutputFormat = "kubectl"
)

// ParseOutputFormat validates a `-o` flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatTable, FormatWide, FormatJSON, FormatYAML, FormatKubectl:
		return OutputFormat(s), nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q: want one of table, wide, json, yaml, kubectl", s)
	}
}

// Table is a column-headed, row-oriented result set. Wide adds columns
// that Table omits by default (the same "kubectl get -o wide" split).
type Table struct {
	Columns     []string
	WideColumns []string
	Rows        [][]string
	WideRows    [][]string
}

// Write renders t to w in the given format. For JSON/YAML, rows are
// emitted as an array of objects keyed by column name (Wide columns
// included) so the structured output never loses information the
// table/wide views would otherwise drop.
func Write(w io.Writer, t Table, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeStructured(w, t, json.MarshalIndent)
	case FormatYAML:
		return writeStructured(w, t, func(v any, _, _ string) ([]byte, error) {
			return yaml.Marshal(v)
		})
	case FormatWide:
		return writeTabular(w, t, true)
	case FormatKubectl:
		return writeTabular(w, t, false)
	default:
		return writeTabular(w, t, false)
	}
}

func writeTabular(w io.Writer, t Table, wide bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	cols := append(append([]string{}, t.Columns...), columnsIf(wide, t.WideColumns)...)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))

	for i, row := range t.Rows {
		full := append(append([]string{}, row...), columnsIf(wide, wideRow(t, i))...)
		fmt.Fprintln(tw, strings.Join(full, "\t"))
	}

	return tw.Flush()
}

func columnsIf(wide bool, cols []string) []string {
	if !wide {
		return nil
	}
	return cols
}

func wideRow(t Table, i int) []string {
	if i < len(t.WideRows) {
		return t.WideRows[i]
	}
	return nil
}

func writeStructured(w io.Writer, t Table, marshal func(any, string, string) ([]byte, error)) error {
	allCols := append(append([]string{}, t.Columns...), t.WideColumns...)

	objs := make([]map[string]string, 0, len(t.Rows))
	for i, row := range t.Rows {
		obj := make(map[string]string, len(allCols))
		full := append(append([]string{}, row...), wideRow(t, i)...)
		for j, col := range allCols {
			if j < len(full) {
				obj[col] = full[j]
			}
		}
		objs = append(objs, obj)
	}

	data, err := marshal(objs, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// SortRowsByFirstColumn orders t.Rows (and the paired t.WideRows, if
// present) lexicographically by their first column, the stable
// "namespace/name"-ish ordering every `get`/`status` subcommand wants
// regardless of the order the Kubernetes API happened to return.
func SortRowsByFirstColumn(t *Table) {
	idx := make([]int, len(t.Rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return firstColumn(t.Rows[idx[a]]) < firstColumn(t.Rows[idx[b]])
	})

	rows := make([][]string, len(t.Rows))
	var wideRows [][]string
	if len(t.WideRows) == len(t.Rows) {
		wideRows = make([][]string, len(t.WideRows))
	}
	for newPos, oldPos := range idx {
		rows[newPos] = t.Rows[oldPos]
		if wideRows != nil {
			wideRows[newPos] = t.WideRows[oldPos]
		}
	}
	t.Rows = rows
	if wideRows != nil {
		t.WideRows = wideRows
	}
}

func firstColumn(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return row[0]
}
