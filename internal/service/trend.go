package service

import (
	"encoding/json"
	"strconv"

	"gpatracker/internal/model"
)

// TrendPoint is one canonical slot of the trend. Present is false for a gap;
// SGPA is meaningless then and must not be plotted.
type TrendPoint struct {
	Index   int
	Label   string
	SGPA    float64
	Present bool
}

// Annotation is the point label drawn next to a plotted value.
func (p TrendPoint) Annotation() string {
	return strconv.FormatFloat(p.SGPA, 'f', 1, 64)
}

func (p TrendPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index int      `json:"index"`
		Label string   `json:"label"`
		SGPA  *float64 `json:"sgpa"`
	}{p.Index, p.Label, optional(p.SGPA, p.Present)})
}

// Trend is the SGPA series over the 8 canonical slots. An empty trend has no
// points at all, which is different from 8 gaps.
type Trend struct {
	Points []TrendPoint `json:"points"`
}

func (t Trend) Empty() bool {
	return len(t.Points) == 0
}

// Labels returns the x-axis labels in slot order.
func (t Trend) Labels() []string {
	labels := make([]string, len(t.Points))
	for i, p := range t.Points {
		labels[i] = p.Label
	}
	return labels
}

// Plotted returns only the present points, in slot order.
func (t Trend) Plotted() []TrendPoint {
	var out []TrendPoint
	for _, p := range t.Points {
		if p.Present {
			out = append(out, p)
		}
	}
	return out
}

func BuildTrend(records model.Records) Trend {
	if len(records) == 0 {
		return Trend{}
	}

	slots := model.Slots()
	points := make([]TrendPoint, len(slots))
	for i, slot := range slots {
		rec, ok := records[slot]
		points[i] = TrendPoint{Index: i, Label: slot.String(), SGPA: rec.SGPA, Present: ok}
	}
	return Trend{Points: points}
}
