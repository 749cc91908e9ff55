package ingredient

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseCSV reads headerless "name,measurement_unit" rows.
func ParseCSV(r io.Reader) ([]Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	var out []Ingredient
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRow, line, err)
		}
		name, unit := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if name == "" || unit == "" || len([]rune(name)) > 200 || len([]rune(unit)) > 200 {
			return nil, fmt.Errorf("%w: line %d", ErrInvalidRow, line)
		}
		out = append(out, Ingredient{Name: name, MeasurementUnit: unit})
	}
}
