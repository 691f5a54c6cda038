package bank

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV parses a comma separated bank with a header row.
func ReadCSV(id string, r io.Reader) (*Bank, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("bank %s: read csv: %w", id, err)
	}
	return fromRows(id, rows)
}
