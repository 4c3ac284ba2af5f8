package catalogue

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	corecat "github.com/kilianp07/menucycle/core/catalogue"
	"github.com/kilianp07/menucycle/core/model"
)

// CSVSource reads dishes from a CSV file with a header row containing a
// "name" column and a "tag" (or "category") column.
type CSVSource struct {
	Path string
}

// NewCSVSource returns a source reading path on every Load.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Load implements catalogue.Provider.
func (s *CSVSource) Load(ctx context.Context) ([]model.Dish, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalogue: %w", err)
	}
	defer func() { _ = f.Close() }()
	dishes, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return dishes, ctx.Err()
}

// ReadCSV parses a catalogue from r.
func ReadCSV(r io.Reader) ([]model.Dish, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty catalogue")
		}
		return nil, err
	}
	nameCol, catCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "name":
			nameCol = i
		case "tag", "category":
			catCol = i
		}
	}
	if nameCol < 0 || catCol < 0 {
		return nil, fmt.Errorf("header must contain name and tag columns, got %v", header)
	}

	var dishes []model.Dish
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		dishes = append(dishes, model.Dish{Name: rec[nameCol], Category: model.Category(rec[catCol])})
	}
	if err := corecat.Validate(dishes); err != nil {
		return nil, err
	}
	return dishes, nil
}

// WriteCSV writes dishes with the name,tag header read by ReadCSV.
func WriteCSV(w io.Writer, dishes []model.Dish) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "tag"}); err != nil {
		return err
	}
	for _, d := range dishes {
		if err := cw.Write([]string{d.Name, string(d.Category)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
