package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpatracker/internal/model"
)

func TestBuildTrendEmpty(t *testing.T) {
	trend := BuildTrend(model.Records{})
	assert.True(t, trend.Empty())
	assert.Empty(t, trend.Plotted())
}

func TestBuildTrendCanonicalOrder(t *testing.T) {
	// inserted out of slot order
	trend := BuildTrend(records(rec(4, 2, 9.2), rec(1, 1, 6), rec(2, 2, 7.45)))

	require.False(t, trend.Empty())
	assert.Equal(t, []string{"1-1", "1-2", "2-1", "2-2", "3-1", "3-2", "4-1", "4-2"}, trend.Labels())

	present := []bool{true, false, false, true, false, false, false, true}
	for i, p := range trend.Points {
		assert.Equal(t, i, p.Index)
		assert.Equal(t, present[i], p.Present, "slot %s", p.Label)
	}

	plotted := trend.Plotted()
	require.Len(t, plotted, 3)
	assert.Equal(t, []int{0, 3, 7}, []int{plotted[0].Index, plotted[1].Index, plotted[2].Index})
	assert.Equal(t, []string{"6.0", "7.5", "9.2"}, []string{plotted[0].Annotation(), plotted[1].Annotation(), plotted[2].Annotation()})
}

func TestBuildTrendAllGaps(t *testing.T) {
	// a non-empty trend always has 8 slots even if only one is filled
	trend := BuildTrend(records(rec(3, 1, 0)))
	assert.False(t, trend.Empty())
	assert.Len(t, trend.Points, 8)
	assert.Len(t, trend.Plotted(), 1)
	assert.Equal(t, 0.0, trend.Plotted()[0].SGPA)
}

func TestTrendPointJSON(t *testing.T) {
	data, err := json.Marshal(BuildTrend(records(rec(1, 2, 8))))
	require.NoError(t, err)

	var out struct {
		Points []struct {
			Label string   `json:"label"`
			SGPA  *float64 `json:"sgpa"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Points, 8)
	assert.Nil(t, out.Points[0].SGPA)
	require.NotNil(t, out.Points[1].SGPA)
	assert.Equal(t, 8.0, *out.Points[1].SGPA)
}
