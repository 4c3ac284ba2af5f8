package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/menucycle/core/model"
	"github.com/kilianp07/menucycle/core/schedule"
)

func sample() schedule.Schedule {
	a := model.Assignment{
		{Slot: model.Slot{SlotKey: model.SlotKey{Half: 1, Day: model.Monday, Time: model.Lunch}}, Dish: model.Dish{Name: "Salmon", Category: "fish"}},
		{Slot: model.Slot{SlotKey: model.SlotKey{Half: 1, Day: model.Saturday, Time: model.Dinner}, Pin: "egg"}, Dish: model.Dish{Name: "Omelette", Category: "egg"}},
		{Slot: model.Slot{SlotKey: model.SlotKey{Half: 2, Day: model.Sunday, Time: model.Dinner}}, Dish: model.Dish{Name: "Chili, mild", Category: "beef"}},
	}
	return schedule.New(a, time.Now())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", sample()))
	var got map[string]map[string]map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Omelette", got["1"]["Saturday"]["Dinner"])
	assert.Contains(t, buf.String(), "\n    \"1\"")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "yaml", sample()))
	var got map[int]map[string]map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Chili, mild", got[2]["Sunday"]["Dinner"])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "csv", sample()))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, []string{"half", "day", "time", "dish", "category"}, recs[0])
	assert.Equal(t, []string{"1", "Monday", "Lunch", "Salmon", "fish"}, recs[1])
	assert.Equal(t, []string{"2", "Sunday", "Dinner", "Chili, mild", "beef"}, recs[3])
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, "xml", sample()))
}
