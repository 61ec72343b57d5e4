package device_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/EdilKulzhabay/courier/internal/clock"
	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/gateway/device"
)

func TestParseFixed(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	f, err := device.ParseFixed(" 43.238, 76.945 ", clock.NewManual(now))
	require.NoError(t, err)

	ctx := context.Background()
	on, _ := f.ServicesEnabled(ctx)
	require.True(t, on)
	perm, _ := f.ForegroundPermission(ctx)
	require.Equal(t, domain.PermissionGranted, perm)
	last, err := f.LastKnown(ctx)
	require.NoError(t, err)
	require.Nil(t, last)

	p, err := f.Current(ctx, domain.TierHigh)
	require.NoError(t, err)
	require.InDelta(t, 43.238, p.Lat, 1e-9)
	require.InDelta(t, 76.945, p.Lon, 1e-9)
	require.Equal(t, now, p.CapturedAt)
}

func TestParseFixed_Invalid(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "1", "a,b", "91,0", "0,181", "1,2,3", "NaN,NaN", "43.2,NaN", "Inf,0", "0,-Inf"} {
		_, err := device.ParseFixed(s, nil)
		require.Error(t, err, s)
	}
}

func TestFixed_CurrentCanceled(t *testing.T) {
	t.Parallel()

	f, err := device.ParseFixed("0,0", nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Current(ctx, domain.TierLow)
	require.ErrorIs(t, err, context.Canceled)
}
