package catalog

import (
	"path/filepath"
	"testing"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Default(t *testing.T) {
	jobs, err := Build(Default(), "charts")
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	assert.Equal(t, "top_influencers_roi", jobs[0].Name())
	assert.Equal(t, domain.ChartKindBar, jobs[0].Chart.Kind)
	assert.Equal(t, filepath.Join("charts", "top_influencers_roi.png"), jobs[0].Chart.OutputPath)
	require.NotNil(t, jobs[0].Chart.LabelRotation)
	assert.Equal(t, 20.0, *jobs[0].Chart.LabelRotation)
	assert.Nil(t, jobs[1].Chart.LabelRotation)

	assert.Equal(t, "payment_status_distribution", jobs[1].Name())
	assert.Equal(t, domain.ChartKindPie, jobs[1].Chart.Kind)

	assert.Equal(t, "campaign_completion_rate", jobs[2].Name())
	assert.Equal(t, []string{"campaign_name", "completion_rate"}, jobs[2].Spec.ExpectedColumns())
}

func TestBuild_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Build(nil, "")
		assert.Error(t, err)
	})

	t.Run("duplicate names", func(t *testing.T) {
		defs := Default()
		defs[1].Name = defs[0].Name
		defs[1].Chart.Output = "other.png"

		_, err := Build(defs, "")
		assert.ErrorContains(t, err, "duplicate report name")
	})

	t.Run("duplicate outputs", func(t *testing.T) {
		defs := Default()
		defs[2].Chart.Output = defs[0].Chart.Output

		_, err := Build(defs, "out")
		assert.ErrorContains(t, err, "already written by")
	})

	t.Run("all problems reported", func(t *testing.T) {
		defs := Default()
		defs[0].Chart.Kind = "line"
		defs[2].Columns = nil

		_, err := Build(defs, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "report #1")
		assert.Contains(t, err.Error(), "report #3")
	})
}

func TestBuild_OutputDefaults(t *testing.T) {
	defs := []Definition{{
		Name:    "roi",
		SQL:     "SELECT name, avg_roi FROM v",
		Columns: []string{"name", "avg_roi"},
		Chart:   ChartDefinition{Kind: "bar", Category: "name", Value: "avg_roi"},
	}}

	jobs, err := Build(defs, "/srv/charts")
	require.NoError(t, err)
	assert.Equal(t, "/srv/charts/roi.png", jobs[0].Chart.OutputPath)

	defs[0].Chart.Output = "/abs/roi.png"
	jobs, err = Build(defs, "/srv/charts")
	require.NoError(t, err)
	assert.Equal(t, "/abs/roi.png", jobs[0].Chart.OutputPath)
}

func TestSelect(t *testing.T) {
	jobs, err := Build(Default(), "")
	require.NoError(t, err)

	t.Run("no filter", func(t *testing.T) {
		got, err := Select(jobs, nil)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("keeps original order", func(t *testing.T) {
		got, err := Select(jobs, []string{"campaign_completion_rate", "top_influencers_roi"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "top_influencers_roi", got[0].Name())
		assert.Equal(t, "campaign_completion_rate", got[1].Name())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := Select(jobs, []string{"nope"})
		assert.ErrorContains(t, err, "nope")
	})
}
