// Package report flattens solver results into labelled output items and
// writes them as CSV or aligned text.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"hxsim/model"
)

// Item is one output record. Header records carry Text instead of Value.
type Item struct {
	Label string  `json:"label"`
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
	Text  string  `json:"text,omitempty"`
}

func (it Item) IsText() bool {
	return it.Text != ""
}

// FormatValue renders the value column.
func (it Item) FormatValue() string {
	if it.IsText() {
		return it.Text
	}
	return strconv.FormatFloat(it.Value, 'g', 10, 64)
}

// Coaxial lists every geometry, zone and total of a single circuit result.
func Coaxial(r *model.Result) []Item {
	g := r.Geometry
	items := []Item{
		{Label: "Length of tube", Unit: "m", Value: g.Length},
		{Label: "Annulus wetted OD", Unit: "m", Value: g.AnnulusID},
		{Label: "Annulus wetted ID", Unit: "m", Value: g.TubeOD},
		{Label: "Tube wetted OD", Unit: "m", Value: g.TubeID},
		{Label: "Tubes per bank", Unit: "-", Value: float64(g.Passes)},
		{Label: "Refrigerant flowrate", Unit: "kg/s", Value: r.MassFlow},
		{Label: "Glycol flowrate", Unit: "kg/s", Value: r.Secondary.MassFlow},
		{Label: "Outlet Superheat", Unit: "K", Value: r.Superheat()},
		{Label: "Q Total", Unit: "W", Value: r.Q},
	}
	zone := func(label, unit string, f func(z model.Zone) float64) {
		for k, z := range r.Zones {
			items = append(items, Item{Label: label + " " + model.ZoneKind(k).String(), Unit: unit, Value: f(z)})
		}
	}
	zone("Q", "W", func(z model.Zone) float64 { return z.Q })
	items = append(items,
		Item{Label: "Inlet glycol temp", Unit: "K", Value: r.Secondary.Tin},
		Item{Label: "Outlet glycol temp", Unit: "K", Value: r.Secondary.Tout},
		Item{Label: "Inlet ref. temp", Unit: "K", Value: r.Inlet.T},
		Item{Label: "Outlet ref. temp", Unit: "K", Value: r.Outlet.T},
		Item{Label: "Outlet ref. quality", Unit: "-", Value: r.Outlet.X},
		Item{Label: "Outlet ref. pressure", Unit: "Pa", Value: r.Outlet.P},
		Item{Label: "Charge Total", Unit: "kg", Value: r.Charge},
	)
	zone("Charge", "kg", func(z model.Zone) float64 { return z.Charge })
	zone("Mean HTC Ref.", "W/m^2-K", func(z model.Zone) float64 { return z.HTC })
	items = append(items,
		Item{Label: "Mean HTC Gly.", Unit: "W/m^2-K", Value: r.Secondary.HTC},
		Item{Label: "Mean Reynolds # Gly.", Unit: "-", Value: r.Secondary.Re},
		Item{Label: "Pressure Drop Gly.", Unit: "Pa", Value: r.Secondary.DP},
		Item{Label: "Pressure Drop Ref.", Unit: "Pa", Value: r.DP},
	)
	zone("Pressure Drop Ref.", "Pa", func(z model.Zone) float64 { return z.DP })
	zone("Area fraction", "-", func(z model.Zone) float64 { return z.W })
	items = append(items, Item{Label: "UA Total", Unit: "W/K", Value: r.UA})
	return items
}

// Header lists the optional name, description and details of a case.
func Header(name, description, details string) []Item {
	var items []Item
	for _, h := range []Item{
		{Label: "Name", Unit: "N/A", Text: name},
		{Label: "Description", Unit: "N/A", Text: description},
		{Label: "Details", Unit: "N/A", Text: details},
	} {
		if h.Text != "" {
			items = append(items, h)
		}
	}
	return items
}

// MultiCircuit lists the equivalent exchanger first, then interleaves the
// circuit lists field by field: the value of every circuit suffixed by its
// index, then the sum and the mean over the circuits.
func MultiCircuit(c model.MultiCircuitCase, mr *model.MultiResult) []Item {
	items := Header(c.TestName, c.TestDescription, c.TestDetails)
	items = append(items, Coaxial(&mr.Equivalent)...)
	n := len(mr.Circuits)
	if n == 0 {
		return items
	}
	lists := make([][]Item, n)
	for i, r := range mr.Circuits {
		lists[i] = Coaxial(r)
	}
	for f := range lists[0] {
		var sum float64
		for i := range lists {
			it := lists[i][f]
			sum += it.Value
			items = append(items, Item{Label: fmt.Sprintf("%s %d", it.Label, i), Unit: it.Unit, Value: it.Value})
		}
		base := lists[0][f]
		items = append(items,
			Item{Label: base.Label + " sum", Unit: base.Unit, Value: sum},
			Item{Label: base.Label + " avg", Unit: base.Unit, Value: sum / float64(n)},
		)
	}
	return items
}

// WriteCSV writes a label,unit,value row per item.
func WriteCSV(w io.Writer, items []Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"label", "unit", "value"}); err != nil {
		return err
	}
	for _, it := range items {
		if err := cw.Write([]string{it.Label, it.Unit, it.FormatValue()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes the items as aligned columns.
func WriteTable(w io.Writer, items []Item) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", it.Label, it.FormatValue(), it.Unit); err != nil {
			return err
		}
	}
	return tw.Flush()
}
