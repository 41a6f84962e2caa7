package model_test

import (
	"testing"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()
	allowed := map[[2]model.Status]bool{
		{model.StatusPending, model.StatusActive}:    true,
		{model.StatusPending, model.StatusRejected}:  true,
		{model.StatusActive, model.StatusCompleted}:  true,
		{model.StatusActive, model.StatusOverdue}:    true,
		{model.StatusOverdue, model.StatusCompleted}: true,
	}
	for _, from := range model.Statuses {
		for _, to := range model.Statuses {
			want := allowed[[2]model.Status{from, to}]
			require.Equalf(t, want, model.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalHasNoExit(t *testing.T) {
	t.Parallel()
	for _, from := range []model.Status{model.StatusCompleted, model.StatusRejected} {
		require.True(t, from.Terminal())
		require.False(t, from.HoldsReservation())
		for _, to := range model.Statuses {
			require.False(t, model.CanTransition(from, to))
		}
	}
}

func TestStockActionFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		target   model.Status
		writeOff bool
		want     model.StockAction
	}{
		{target: model.StatusActive, want: model.StockNone},
		{target: model.StatusOverdue, want: model.StockNone},
		{target: model.StatusRejected, want: model.StockRelease},
		{target: model.StatusCompleted, want: model.StockRelease},
		{target: model.StatusCompleted, writeOff: true, want: model.StockConsume},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, model.StockActionFor(tt.target, tt.writeOff), "%s writeOff=%v", tt.target, tt.writeOff)
	}
}

func TestDate_JSON(t *testing.T) {
	t.Parallel()
	var d model.Date
	require.NoError(t, d.UnmarshalJSON([]byte(`"2026-10-19"`)))
	b, err := d.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"2026-10-19"`, string(b))

	require.NoError(t, d.UnmarshalJSON([]byte(`"2026-10-19T23:15:00Z"`)))
	require.Equal(t, "2026-10-19", d.Format("2006-01-02"))

	require.Error(t, d.UnmarshalJSON([]byte(`"19.10.2026"`)))
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	page, size := model.Normalize(0, 0)
	require.Equal(t, 1, page)
	require.Equal(t, model.DefaultPageSize, size)

	_, size = model.Normalize(3, 1000)
	require.Equal(t, model.MaxPageSize, size)
}
