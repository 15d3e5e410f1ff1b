package route

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"flight-api/internal/airspace"
	"flight-api/internal/did"
	"flight-api/internal/drone"
	"flight-api/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptimizer(t *testing.T) *Optimizer {
	t.Helper()
	l := testLogger()
	idx := airspace.NewIndex(airspace.DefaultZones, airspace.DefaultSurfaces, l)
	res := did.NewResolver("", t.TempDir(), nil, l)
	return NewOptimizer(idx, res, l)
}

// 岐阜県山間部：制限空域から十分離れた試験座標
func cleanWaypoints(n int) []Waypoint {
	base := geo.Point{Lat: 35.80, Lng: 136.90}
	wps := make([]Waypoint, 0, n)
	for i := 0; i < n; i++ {
		p := geo.OffsetMeters(base, float64(i%3)*800, float64(i/3)*800)
		wps = append(wps, Waypoint{ID: string(rune('a' + i)), Lat: p.Lat, Lng: p.Lng})
	}
	return wps
}

func TestOptimizeEmpty(t *testing.T) {
	opt := testOptimizer(t)
	_, err := opt.Optimize(context.Background(), nil, drone.ByID("generic"), ObjectiveByName("balanced"), "2opt")
	assert.Error(t, err)
}

func TestOptimizeSingle(t *testing.T) {
	opt := testOptimizer(t)
	res, err := opt.Optimize(context.Background(), cleanWaypoints(1), drone.ByID("generic"), ObjectiveByName("balanced"), "2opt")
	require.NoError(t, err)
	require.Len(t, res.Order, 1)
	assert.Equal(t, 0, res.Order[0].Index)
	assert.Zero(t, res.TotalDistance)
}

func TestOptimizeIsPermutation(t *testing.T) {
	opt := testOptimizer(t)
	wps := cleanWaypoints(7)
	res, err := opt.Optimize(context.Background(), wps, drone.ByID("dji-mavic-3"), ObjectiveByName("balanced"), "2opt")
	require.NoError(t, err)
	require.Len(t, res.Order, len(wps))

	seen := map[string]bool{}
	for k, w := range res.Order {
		assert.Equal(t, k, w.Index)
		assert.False(t, seen[w.ID], "duplicate waypoint %s", w.ID)
		seen[w.ID] = true
	}
	for _, w := range wps {
		assert.True(t, seen[w.ID], "missing waypoint %s", w.ID)
	}
}

func TestTwoOptNotWorseThanGreedy(t *testing.T) {
	opt := testOptimizer(t)
	wps := cleanWaypoints(9)
	prof := drone.ByID("dji-mavic-3")
	obj := ObjectiveByName("shortest-distance")

	greedy, err := opt.Optimize(context.Background(), wps, prof, obj, "greedy")
	require.NoError(t, err)
	improved, err := opt.Optimize(context.Background(), wps, prof, obj, "2opt")
	require.NoError(t, err)

	assert.LessOrEqual(t, improved.TotalDistance, greedy.TotalDistance+1e-6)
}

func TestOptimizeUntanglesRoute(t *testing.T) {
	opt := testOptimizer(t)
	base := geo.Point{Lat: 35.80, Lng: 136.90}
	// 正方形の四隅を対角線順（最悪順）で与える
	corners := []geo.Point{
		base,
		geo.OffsetMeters(base, 1000, 1000),
		geo.OffsetMeters(base, 0, 1000),
		geo.OffsetMeters(base, 1000, 0),
	}
	wps := make([]Waypoint, len(corners))
	for i, p := range corners {
		wps[i] = Waypoint{ID: string(rune('a' + i)), Lat: p.Lat, Lng: p.Lng}
	}
	res, err := opt.Optimize(context.Background(), wps, drone.ByID("dji-mavic-3"), ObjectiveByName("shortest-distance"), "2opt")
	require.NoError(t, err)

	// 入力順（対角線 2 本 + 1 辺 ≈ 3828m）より良い周回順（3 辺 = 3000m）になる
	assert.InDelta(t, 3000, res.TotalDistance, 50)
	assert.Greater(t, res.Achievement, 0.0)
}

func TestRiskWeightSteersConstruction(t *testing.T) {
	l := testLogger()
	base := geo.Point{Lat: 35.80, Lng: 136.90}
	// a–b 間の中点に禁止圏：a→b の直行だけが危険辺になる
	zoneCenter := geo.OffsetMeters(base, 0, 1000)
	idx := airspace.NewIndex([]airspace.Zone{
		{Name: "試験禁止区域", Center: zoneCenter, RadiusM: 500, Kind: "prohibited", Severity: "critical"},
	}, nil, l)
	res := did.NewResolver("", t.TempDir(), nil, l)
	opt := NewOptimizer(idx, res, l)

	// a–b は 2km、c は両者から 5km 等距離（中点はいずれも圏外）
	b := geo.OffsetMeters(base, 0, 2000)
	c := geo.OffsetMeters(base, 4899, 1000)
	wps := []Waypoint{
		{ID: "a", Lat: base.Lat, Lng: base.Lng},
		{ID: "b", Lat: b.Lat, Lng: b.Lng},
		{ID: "c", Lat: c.Lat, Lng: c.Lng},
	}
	prof := drone.ByID("generic")

	adjacent := func(r *Result, x, y string) bool {
		for i := 0; i+1 < len(r.Order); i++ {
			p, q := r.Order[i].ID, r.Order[i+1].ID
			if (p == x && q == y) || (p == y && q == x) {
				return true
			}
		}
		return false
	}

	// 距離優先：短い危険辺をそのまま使う
	short, err := opt.Optimize(context.Background(), wps, prof, ObjectiveByName("shortest-distance"), "greedy")
	require.NoError(t, err)
	assert.True(t, adjacent(short, "a", "b"), "距離優先は a–b 直行を選ぶ")

	// 安全優先：遠回りでも危険辺を避けて c を経由する
	safe, err := opt.Optimize(context.Background(), wps, prof, ObjectiveByName("safest"), "greedy")
	require.NoError(t, err)
	assert.False(t, adjacent(safe, "a", "b"), "安全優先は a–b 直行を避ける")
	assert.Equal(t, "c", safe.Order[1].ID)
	assert.Greater(t, safe.TotalDistance, short.TotalDistance)
}

func TestObjectivePresets(t *testing.T) {
	for _, name := range []string{"balanced", "shortest-distance", "fastest-time", "safest", "battery-efficient"} {
		o, ok := Objectives[name]
		require.True(t, ok, name)
		assert.InDelta(t, 1.0, o.Distance+o.Time+o.Battery+o.Risk, 1e-9, name)
	}
	assert.Equal(t, Objectives["balanced"], ObjectiveByName("no-such-preset"))
}

func TestOptimizeTradeoffOverEndurance(t *testing.T) {
	opt := testOptimizer(t)
	base := geo.Point{Lat: 35.80, Lng: 136.90}
	// generic（実効 18.75 分 ≒ 11.25km）を大きく超える長距離
	wps := []Waypoint{
		{ID: "a", Lat: base.Lat, Lng: base.Lng},
	}
	far := geo.OffsetMeters(base, 20000, 0)
	wps = append(wps, Waypoint{ID: "b", Lat: far.Lat, Lng: far.Lng})

	res, err := opt.Optimize(context.Background(), wps, drone.ByID("generic"), ObjectiveByName("balanced"), "2opt")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Tradeoffs)
}
