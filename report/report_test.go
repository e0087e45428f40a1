package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hxsim/exchanger"
	"hxsim/model"
)

func result(q float64) *model.Result {
	r := &model.Result{
		Geometry: *exchanger.NewCoaxial(0.0278, 0.03415, 0.045, 50),
		MassFlow: 0.04,
		TDew:     285,
		Q:        q,
		Charge:   1.5,
		DP:       -2000,
		Outlet:   model.State{T: 290, P: 5.6e5, X: 1.1},
	}
	r.Zones[model.Superheat] = model.Zone{Kind: model.Superheat, W: 0.25, Q: q / 4}
	r.Zones[model.TwoPhase] = model.Zone{Kind: model.TwoPhase, W: 0.75, Q: 3 * q / 4}
	r.Zones[model.Subcool] = model.Zone{Kind: model.Subcool}
	return r
}

func find(t *testing.T, items []Item, label string) Item {
	t.Helper()
	for _, it := range items {
		if it.Label == label {
			return it
		}
	}
	require.Failf(t, "missing item", "label %q", label)
	return Item{}
}

func TestCoaxial(t *testing.T) {
	items := Coaxial(result(8000))
	require.Len(t, items, 36)

	seen := map[string]bool{}
	for _, it := range items {
		assert.False(t, seen[it.Label], it.Label)
		seen[it.Label] = true
		assert.NotEmpty(t, it.Unit)
		assert.False(t, it.IsText())
	}

	assert.Equal(t, 8000.0, find(t, items, "Q Total").Value)
	assert.Equal(t, 2000.0, find(t, items, "Q Superheat").Value)
	assert.Equal(t, 0.75, find(t, items, "Area fraction Two-Phase").Value)
	assert.Equal(t, 5.0, find(t, items, "Outlet Superheat").Value)
	assert.Equal(t, "W", find(t, items, "Q Subcool").Unit)
	assert.Equal(t, 5.6e5, find(t, items, "Outlet ref. pressure").Value)
}

func TestMultiCircuit(t *testing.T) {
	c := model.MultiCircuitCase{TestName: "bench", TestDetails: "two circuits"}
	eq := result(4000)
	eq.Outlet = model.State{T: 289.5, P: 5.5e5, X: 1.05}
	eq.Secondary.Tout = 286.25
	mr := &model.MultiResult{Equivalent: *eq, Circuits: []*model.Result{result(1000), result(3000)}}
	items := MultiCircuit(c, mr)
	require.Len(t, items, 2+36+36*4)

	assert.Equal(t, Item{Label: "Name", Unit: "N/A", Text: "bench"}, items[0])
	assert.Equal(t, "Details", items[1].Label)
	assert.Equal(t, "Length of tube", items[2].Label)
	assert.Equal(t, "Length of tube 0", items[2+36].Label)
	assert.Equal(t, "Length of tube 1", items[3+36].Label)
	assert.Equal(t, "Length of tube sum", items[4+36].Label)
	assert.Equal(t, "Length of tube avg", items[5+36].Label)

	// mixed outlet values exist only on the equivalent exchanger
	assert.Equal(t, 289.5, find(t, items, "Outlet ref. temp").Value)
	assert.Equal(t, 1.05, find(t, items, "Outlet ref. quality").Value)
	assert.Equal(t, 5.5e5, find(t, items, "Outlet ref. pressure").Value)
	assert.Equal(t, 286.25, find(t, items, "Outlet glycol temp").Value)
	assert.Equal(t, 4000.0, find(t, items, "Q Total").Value)

	assert.Equal(t, 4000.0, find(t, items, "Q Total sum").Value)
	assert.Equal(t, 2000.0, find(t, items, "Q Total avg").Value)
	assert.Equal(t, 3000.0, find(t, items, "Q Total 1").Value)
}

func TestHeaderSkipsEmpty(t *testing.T) {
	assert.Empty(t, Header("", "", ""))
	assert.Len(t, Header("a", "b", "c"), 3)
}

func TestWriteCSV(t *testing.T) {
	items := append(Header("bench", "", ""), Coaxial(result(8000))...)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, items))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(items)+1)
	assert.Equal(t, []string{"label", "unit", "value"}, rows[0])
	assert.Equal(t, []string{"Name", "N/A", "bench"}, rows[1])
	assert.Equal(t, []string{"Q Total", "W", "8000"}, rows[10])
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, Coaxial(result(8000))))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 36)
	assert.Contains(t, buf.String(), "Q Total")

	// the value column starts at the same offset on every line
	col := strings.Index(lines[0], "50")
	require.Positive(t, col)
	assert.Equal(t, col, strings.Index(lines[8], "8000"))
}
