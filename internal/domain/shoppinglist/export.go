package shoppinglist

import (
	"encoding/csv"
	"io"
	"strconv"
)

var header = []string{"ingredient name", "total amount", "unit"}

// Write renders lines as CSV with a header row.
func Write(w io.Writer, lines []Line) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, l := range lines {
		if err := cw.Write([]string{l.Name, strconv.FormatInt(l.Total, 10), l.Unit}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
