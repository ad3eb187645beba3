// Package export writes expense records to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"expense-tracker/internal/core"
)

// Header is the first row of every export.
var Header = []string{"Serial No", "Item Name", "Item Price", "Purchase Date"}

// WriteCSV writes the header followed by one row per record, in the given
// order.
func WriteCSV(w io.Writer, records []core.ExpenseRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.ItemName,
			r.ItemPrice.String(),
			r.PurchaseDate,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the export to path, replacing any existing file. The file
// is written next to its target first and renamed into place, so a failed
// export never leaves a truncated file behind.
func WriteFile(path string, records []core.ExpenseRecord) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".export-*.csv")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod export file: %w", err)
	}
	if err := WriteCSV(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move export file into place: %w", err)
	}
	return nil
}
