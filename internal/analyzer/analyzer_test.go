package analyzer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"flight-api/internal/airspace"
	"flight-api/internal/did"
	"flight-api/internal/geo"
	"flight-api/internal/route"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// 単一の禁止圏（半径 1000m）だけを持つ分析器
func singleZoneAnalyzer(t *testing.T, center geo.Point) *Analyzer {
	t.Helper()
	l := testLogger()
	zones := []airspace.Zone{
		{Name: "試験禁止区域", Center: center, RadiusM: 1000, Kind: "prohibited", Severity: "critical"},
	}
	idx := airspace.NewIndex(zones, nil, l)
	res := did.NewResolver("", t.TempDir(), nil, l)
	return New(idx, res, l)
}

func noDID() Settings {
	return Settings{AvoidDID: false, WarnDID: false, AvoidanceDistanceM: 500, ZoneMarginM: 300}
}

func TestGeneratePlanEmpty(t *testing.T) {
	a := singleZoneAnalyzer(t, geo.Point{Lat: 35.80, Lng: 136.90})
	plan := a.GeneratePlan(context.Background(), nil, noDID())
	assert.False(t, plan.Success)
}

func TestGeneratePlanClean(t *testing.T) {
	center := geo.Point{Lat: 35.80, Lng: 136.90}
	a := singleZoneAnalyzer(t, center)
	p := geo.OffsetMeters(center, 0, 5000)
	plan := a.GeneratePlan(context.Background(), []route.Waypoint{{ID: "a", Lat: p.Lat, Lng: p.Lng}}, noDID())
	require.True(t, plan.Success)
	assert.False(t, plan.HasIssues)
	assert.Empty(t, plan.Gaps)
	assert.Empty(t, plan.RecommendedWaypoints)
}

func TestCorrectionPushesOutToMargin(t *testing.T) {
	center := geo.Point{Lat: 35.80, Lng: 136.90}
	a := singleZoneAnalyzer(t, center)
	// 圏内 500m 東
	p := geo.OffsetMeters(center, 0, 500)
	plan := a.GeneratePlan(context.Background(), []route.Waypoint{{ID: "a", Lat: p.Lat, Lng: p.Lng}}, noDID())

	require.True(t, plan.HasIssues)
	require.Len(t, plan.Gaps, 1)
	gap := plan.Gaps[0]
	assert.Equal(t, "a", gap.WaypointID)
	require.NotEmpty(t, gap.Issues)
	assert.Equal(t, "prohibited", gap.Issues[0].Type)
	require.NotNil(t, gap.RecommendedPos)

	// 半径 1000m + 边距 300m まで押し出される
	assert.InDelta(t, 1300, geo.DistanceMeters(center, *gap.RecommendedPos), 10)
	// 押し出し方向は中心から見て元の点と同じ東向き
	assert.Greater(t, gap.RecommendedPos.Lng, center.Lng)

	require.Len(t, plan.RecommendedWaypoints, 1)
	assert.True(t, plan.RecommendedWaypoints[0].Modified)
}

func TestCorrectionIdempotent(t *testing.T) {
	center := geo.Point{Lat: 35.80, Lng: 136.90}
	a := singleZoneAnalyzer(t, center)
	p := geo.OffsetMeters(center, 300, 400)
	first := a.GeneratePlan(context.Background(), []route.Waypoint{{ID: "a", Lat: p.Lat, Lng: p.Lng}}, noDID())
	require.True(t, first.HasIssues)
	require.Len(t, first.RecommendedWaypoints, 1)

	// 修正後の航点を再分析しても違反は出ない
	second := a.GeneratePlan(context.Background(), first.RecommendedWaypoints, noDID())
	assert.True(t, second.Success)
	assert.False(t, second.HasIssues)
}

func TestCorrectionDegenerateCenter(t *testing.T) {
	center := geo.Point{Lat: 35.80, Lng: 136.90}
	a := singleZoneAnalyzer(t, center)
	// 中心と一致する退化点は固定で東へ押し出す
	plan := a.GeneratePlan(context.Background(), []route.Waypoint{{ID: "a", Lat: center.Lat, Lng: center.Lng}}, noDID())
	require.Len(t, plan.Gaps, 1)
	rec := plan.Gaps[0].RecommendedPos
	require.NotNil(t, rec)
	assert.Greater(t, rec.Lng, center.Lng)
	assert.InDelta(t, center.Lat, rec.Lat, 1e-6)
}

func TestCorrectionBetweenTwoZones(t *testing.T) {
	l := testLogger()
	c1 := geo.Point{Lat: 35.80, Lng: 136.90}
	c2 := geo.OffsetMeters(c1, 0, 1500)
	zones := []airspace.Zone{
		{Name: "west", Center: c1, RadiusM: 1000, Kind: "prohibited", Severity: "critical"},
		{Name: "east", Center: c2, RadiusM: 1000, Kind: "prohibited", Severity: "critical"},
	}
	idx := airspace.NewIndex(zones, nil, l)
	res := did.NewResolver("", t.TempDir(), nil, l)
	a := New(idx, res, l)

	// 両圏の重なり部分：合成ベクトルで双方の外へ出るか、出られなければ nil
	mid := geo.Midpoint(c1, c2)
	plan := a.GeneratePlan(context.Background(), []route.Waypoint{{ID: "a", Lat: mid.Lat, Lng: mid.Lng}}, noDID())
	require.Len(t, plan.Gaps, 1)
	if rec := plan.Gaps[0].RecommendedPos; rec != nil {
		assert.Empty(t, a.issuesAt(*rec, noDID()), "修正位置は両圏の外")
	}
}

func TestDIDIssueReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"name":"試験地区"},"geometry":{"type":"Polygon","coordinates":[[[136.80,35.70],[137.00,35.70],[137.00,35.90],[136.80,35.90],[136.80,35.70]]]}}]}`))
	}))
	defer srv.Close()

	l := testLogger()
	idx := airspace.NewIndex(nil, nil, l)
	res := did.NewResolver(srv.URL, "", nil, l)
	a := New(idx, res, l)

	set := Settings{AvoidDID: true, WarnDID: true, AvoidanceDistanceM: 500, ZoneMarginM: 300}
	plan := a.GeneratePlan(context.Background(), []route.Waypoint{{ID: "a", Lat: 35.80, Lng: 136.90}}, set)
	require.True(t, plan.HasIssues)
	require.Len(t, plan.Gaps, 1)
	assert.Equal(t, "did", plan.Gaps[0].Issues[0].Type)
}

func TestCheckAllRestrictions(t *testing.T) {
	center := geo.Point{Lat: 35.80, Lng: 136.90}
	a := singleZoneAnalyzer(t, center)
	out := geo.OffsetMeters(center, 0, 5000)
	res := a.CheckAllRestrictions([]route.Waypoint{
		{ID: "in", Lat: center.Lat, Lng: center.Lng},
		{ID: "out", Lat: out.Lat, Lng: out.Lng},
	})
	require.Len(t, res, 2)
	assert.True(t, res["in"].Colliding)
	assert.False(t, res["out"].Colliding)
}

func TestCheckFlightPath(t *testing.T) {
	center := geo.Point{Lat: 35.80, Lng: 136.90}
	a := singleZoneAnalyzer(t, center)
	west := geo.OffsetMeters(center, 0, -3000)
	east := geo.OffsetMeters(center, 0, 3000)
	res := a.CheckFlightPath([]route.Waypoint{
		{ID: "a", Lat: west.Lat, Lng: west.Lng},
		{ID: "b", Lat: east.Lat, Lng: east.Lng},
	})
	require.True(t, res.Colliding)
	assert.Contains(t, res.ZoneNames, "試験禁止区域")
}
