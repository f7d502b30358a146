package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"commodity-forecast/internal/model"
)

// ReadCSV decodes a comma-separated dataset whose first row is the header.
func ReadCSV(r io.Reader, opts LoadOptions) ([]model.Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty CSV")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return decodeTable(header, rows, opts)
}
