package recalibrate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/calibra/internal/asset"
	"github.com/roach88/calibra/internal/audit"
	"github.com/roach88/calibra/internal/caldate"
	"github.com/roach88/calibra/internal/clock"
	"github.com/roach88/calibra/internal/store"
)

var asOf = caldate.MustParse("2024-06-01")

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "assets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	for _, n := range []asset.New{
		{Name: "Gamma Ray Detector", SerialNumber: "SN-GR-001", LastCalibrated: caldate.MustParse("2023-10-01"), Status: asset.StatusActive},
		{Name: "Resistivity Tool", SerialNumber: "SN-RT-552", LastCalibrated: caldate.MustParse("2024-05-01"), Status: asset.StatusActive},
		{Name: "Pressure Transducer", SerialNumber: "SN-PT-990", Status: asset.StatusMaintenance},
		{Name: "Density Sensor", SerialNumber: "SN-DS-441", LastCalibrated: caldate.MustParse("2023-09-25"), Status: asset.StatusRetired},
	} {
		_, _, err := st.InsertAsset(ctx, n)
		require.NoError(t, err)
	}
	return st
}

func staticID() string { return "run-fixed" }

func TestRun_UpdatesOverdueAssets(t *testing.T) {
	st := seededStore(t)
	ctx := context.Background()

	report, err := New(st, clock.NewFixed(asOf), audit.DefaultPolicy(), Options{NewRunID: staticID}).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, "run-fixed", report.RunID)
	assert.Equal(t, 4, report.Inspected)
	assert.Equal(t, 3, report.Updated)
	require.Len(t, report.Changes, 3)

	c := report.Changes[0]
	assert.Equal(t, "SN-GR-001", c.SerialNumber)
	assert.Equal(t, "2023-10-01", c.OldDate)
	assert.Equal(t, "2024-06-01", c.NewDate.String())
	assert.Equal(t, asset.StatusActive, c.NewStatus)
	assert.Equal(t, audit.ReasonExpired, c.Reason)

	assert.Equal(t, "SN-PT-990", report.Changes[1].SerialNumber)
	assert.Equal(t, "", report.Changes[1].OldDate)
	assert.Equal(t, asset.StatusMaintenance, report.Changes[1].OldStatus)
	assert.Equal(t, audit.ReasonNeverCalibrated, report.Changes[1].Reason)

	assert.Equal(t, asset.StatusRetired, report.Changes[2].OldStatus)

	for _, serial := range []string{"SN-GR-001", "SN-PT-990", "SN-DS-441"} {
		a, err := st.AssetBySerial(ctx, serial)
		require.NoError(t, err)
		assert.Equal(t, "2024-06-01", a.LastCalibration, serial)
		assert.Equal(t, asset.StatusActive, a.Status, serial)
	}

	untouched, err := st.AssetBySerial(ctx, "SN-RT-552")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", untouched.LastCalibration)
}

func TestRun_ClosesAudit(t *testing.T) {
	st := seededStore(t)
	ctx := context.Background()
	clk := clock.NewFixed(asOf)
	policy := audit.DefaultPolicy()

	before, err := audit.NewEngine(st, clk, policy, nil).Run(ctx)
	require.NoError(t, err)
	require.Len(t, before.Overdue, 3)

	_, err = New(st, clk, policy, Options{}).Run(ctx)
	require.NoError(t, err)

	after, err := audit.NewEngine(st, clk, policy, nil).Run(ctx)
	require.NoError(t, err)
	assert.True(t, after.Compliant())
}

func TestRun_SelectsSameSetAsAudit(t *testing.T) {
	for _, days := range []int{0, 30, 180, 365} {
		st := seededStore(t)
		ctx := context.Background()
		clk := clock.NewFixed(asOf)
		policy := audit.Policy{ThresholdDays: days}

		auditReport, err := audit.NewEngine(st, clk, policy, nil).Run(ctx)
		require.NoError(t, err)

		recal, err := New(st, clk, policy, Options{DryRun: true}).Run(ctx)
		require.NoError(t, err)

		require.Len(t, recal.Changes, len(auditReport.Overdue), "threshold %d", days)
		for i := range recal.Changes {
			assert.Equal(t, auditReport.Overdue[i].Asset.ID, recal.Changes[i].ID)
		}
	}
}

func TestRun_SecondRunUpdatesNothing(t *testing.T) {
	st := seededStore(t)
	w := New(st, clock.NewFixed(asOf), audit.DefaultPolicy(), Options{})

	first, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, first.Updated)

	second, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Updated)
	assert.Empty(t, second.Changes)
}

func TestRun_DryRun(t *testing.T) {
	st := seededStore(t)
	ctx := context.Background()

	report, err := New(st, clock.NewFixed(asOf), audit.DefaultPolicy(), Options{DryRun: true}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Updated)

	a, err := st.AssetBySerial(ctx, "SN-GR-001")
	require.NoError(t, err)
	assert.Equal(t, "2023-10-01", a.LastCalibration)

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRun_RecordsJournal(t *testing.T) {
	st := seededStore(t)
	ctx := context.Background()

	_, err := New(st, clock.NewFixed(asOf), audit.Policy{ThresholdDays: 90}, Options{NewRunID: staticID}).Run(ctx)
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.RunRecalibrate, runs[0].Kind)
	require.NotNil(t, runs[0].ThresholdDays)
	assert.Equal(t, 90, *runs[0].ThresholdDays)
	assert.Equal(t, 3, runs[0].Updated)
}

func TestRun_AllOrNothing(t *testing.T) {
	st := seededStore(t)
	ctx := context.Background()
	w := New(st, clock.NewFixed(asOf), audit.DefaultPolicy(), Options{NewRunID: staticID})

	// A run id already in the journal makes the final write fail after every
	// asset update has been issued.
	require.NoError(t, st.WithTx(ctx, func(tx *store.Tx) error {
		return tx.RecordRun(ctx, store.Run{ID: "run-fixed", Kind: store.RunNormalize, AsOf: asOf})
	}))

	_, err := w.Run(ctx)
	require.Error(t, err)

	a, err := st.AssetBySerial(ctx, "SN-GR-001")
	require.NoError(t, err)
	assert.Equal(t, "2023-10-01", a.LastCalibration, "failed run must roll back")
	p, err := st.AssetBySerial(ctx, "SN-PT-990")
	require.NoError(t, err)
	assert.Equal(t, asset.StatusMaintenance, p.Status)
}

func TestRun_InvalidPolicy(t *testing.T) {
	st := seededStore(t)
	_, err := New(st, clock.NewFixed(asOf), audit.Policy{ThresholdDays: -1}, Options{}).Run(context.Background())
	assert.Error(t, err)
}
