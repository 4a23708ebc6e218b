package sales

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Columns are the sales table headers, in output order.
var Columns = []string{"nowtime", "vendor", "product_id", "product_name", "brand", "current_price", "units"}

// timestampLayout matches the console form of a nanosecond timestamp.
const timestampLayout = "2006-01-02 15:04:05.000000000"

// Render prints records as an aligned text table with a leading row index.
func Render(w io.Writer, records []Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(Columns, "\t"))
	for i, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t\n",
			i,
			r.Timestamp.Format(timestampLayout),
			r.Vendor,
			r.ProductID,
			r.ProductName,
			r.Brand,
			r.CurrentPrice.String(),
			r.Units,
		)
	}
	fmt.Fprintf(tw, "\n[%d rows x %d columns]\n", len(records), len(Columns))

	return tw.Flush()
}
