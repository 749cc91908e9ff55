package tag

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"foodgram/internal/pkg/validator"
)

type row struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"omitempty,hexcolor,len=7"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

// ParseCSV reads headerless "name,color,slug" rows. Color may be empty.
func ParseCSV(r io.Reader) ([]Tag, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	var tags []Tag
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return tags, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRow, line, err)
		}

		in := row{
			Name:  strings.TrimSpace(rec[0]),
			Color: strings.ToUpper(strings.TrimSpace(rec[1])),
			Slug:  strings.TrimSpace(rec[2]),
		}
		if errs := validator.Validate(in); errs != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRow, line, errs)
		}

		t := Tag{Name: in.Name, Slug: in.Slug}
		if in.Color != "" {
			color := in.Color
			t.Color = &color
		}
		tags = append(tags, t)
	}
}
