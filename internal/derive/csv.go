package derive

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes a header row followed by one row per item.
func WriteCSV[T any](w io.Writer, header []string, items []T, row func(T) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, it := range items {
		if err := cw.Write(row(it)); err != nil {
			return fmt.Errorf("csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
