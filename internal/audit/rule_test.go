package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/calibra/internal/asset"
	"github.com/roach88/calibra/internal/caldate"
)

func TestPolicy_Cutoff(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 180, p.ThresholdDays)
	assert.Equal(t, "2023-12-04", p.Cutoff(caldate.MustParse("2024-06-01")).String())

	zero := Policy{ThresholdDays: 0}
	assert.Equal(t, "2024-06-01", zero.Cutoff(caldate.MustParse("2024-06-01")).String())
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
	assert.NoError(t, Policy{ThresholdDays: 0}.Validate())
	assert.Error(t, Policy{ThresholdDays: -1}.Validate())
}

func TestEvaluate(t *testing.T) {
	today := caldate.MustParse("2024-06-01")
	cutoff := DefaultPolicy().Cutoff(today)

	tests := []struct {
		name    string
		date    string
		overdue bool
		reason  Reason
	}{
		{"244 days prior", "2023-10-01", true, ReasonExpired},
		{"31 days prior", "2024-05-01", false, ""},
		{"exactly at cutoff", "2023-12-04", false, ""},
		{"one day past cutoff", "2023-12-03", true, ReasonExpired},
		{"calibrated today", "2024-06-01", false, ""},
		{"never calibrated", "", true, ReasonNeverCalibrated},
		{"whitespace only", "   ", true, ReasonNeverCalibrated},
		{"non-canonical", "01/05/2024", true, ReasonUnparseable},
		{"garbage", "not-a-date", true, ReasonUnparseable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := asset.Asset{ID: 1, Name: "X", SerialNumber: "SN-X", LastCalibration: tt.date, Status: asset.StatusActive}
			f, overdue := Evaluate(a, cutoff)
			assert.Equal(t, tt.overdue, overdue)
			if tt.overdue {
				assert.Equal(t, tt.reason, f.Reason)
				assert.Equal(t, a, f.Asset)
			}
		})
	}
}

func TestEvaluate_DaysOverdue(t *testing.T) {
	cutoff := caldate.MustParse("2023-12-04")
	f, overdue := Evaluate(asset.Asset{LastCalibration: "2023-10-01"}, cutoff)
	require.True(t, overdue)
	assert.Equal(t, 64, f.DaysOverdue)
}

func TestEvaluate_NullOverdueRegardlessOfThreshold(t *testing.T) {
	today := caldate.MustParse("2024-06-01")
	for _, days := range []int{0, 1, 180, 36500} {
		_, overdue := Evaluate(asset.Asset{}, Policy{ThresholdDays: days}.Cutoff(today))
		assert.True(t, overdue, "threshold %d", days)
	}
}

func TestSelect_PreservesOrder(t *testing.T) {
	cutoff := caldate.MustParse("2023-12-04")
	assets := []asset.Asset{
		{ID: 1, LastCalibration: "2023-01-01"},
		{ID: 2, LastCalibration: "2024-05-01"},
		{ID: 3, LastCalibration: ""},
		{ID: 4, LastCalibration: "2022-07-07"},
	}

	findings := Select(assets, cutoff)
	require.Len(t, findings, 3)
	assert.Equal(t, int64(1), findings[0].Asset.ID)
	assert.Equal(t, int64(3), findings[1].Asset.ID)
	assert.Equal(t, int64(4), findings[2].Asset.ID)

	assert.NotNil(t, Select(nil, cutoff))
}
