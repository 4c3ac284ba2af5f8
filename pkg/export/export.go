// Package export writes generated schedules in the formats offered by the
// CLI.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/menucycle/core/schedule"
)

// Formats lists the supported output formats.
var Formats = []string{"json", "yaml", "csv"}

// Write dispatches on format.
func Write(w io.Writer, format string, s schedule.Schedule) error {
	switch format {
	case "", "json":
		return WriteJSON(w, s.Menu)
	case "yaml", "yml":
		return WriteYAML(w, s.Menu)
	case "csv":
		return WriteCSV(w, s)
	default:
		return fmt.Errorf("unsupported format %q (want one of %v)", format, Formats)
	}
}

// WriteJSON writes the menu as indented JSON.
func WriteJSON(w io.Writer, m schedule.Menu) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(m)
}

// WriteYAML writes the menu as YAML.
func WriteYAML(w io.Writer, m schedule.Menu) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

// WriteCSV writes one row per slot in calendar order.
func WriteCSV(w io.Writer, s schedule.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"half", "day", "time", "dish", "category"}); err != nil {
		return err
	}
	for _, p := range s.Assignment {
		rec := []string{
			strconv.Itoa(int(p.Slot.Half)),
			p.Slot.Day.String(),
			p.Slot.Time.String(),
			p.Dish.Name,
			string(p.Dish.Category),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
