package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

// table writes aligned columns. The header is upper-cased.
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, header ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	for i := range header {
		header[i] = strings.ToUpper(header[i])
	}
	t.row(header...)
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

func (rt *runtime) printJSON(v any) error {
	enc := json.NewEncoder(rt.streams.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (rt *runtime) printf(format string, args ...any) {
	fmt.Fprintf(rt.streams.Out, format, args...)
}

// pageFooter prints the position of a page, e.g. "Page 1 of 3 · 25 total".
func pageFooter[T any](rt *runtime, page apiclient.Page[T]) {
	if page.TotalPages <= 1 && !page.HasNext() {
		return
	}
	rt.printf("\nPage %d of %d · %s total\n", page.Number+1, page.TotalPages, humanize.Comma(page.TotalElements))
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func status(active bool) string {
	if active {
		return "Active"
	}
	return "Disabled"
}

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// paging holds the --page/--size flags. Pages are numbered from 1 on the
// command line and from 0 by the backend.
type paging struct {
	page int
	size int
}

func (p *paging) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&p.size, "size", apiclient.DefaultSize, "Rows per page (max 100)")
}

func (p paging) index() int {
	if p.page < 1 {
		return 0
	}
	return p.page - 1
}
