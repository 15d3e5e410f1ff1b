package geo

import (
    "math"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestDistanceMeters(t *testing.T) {
    tokyo := Point{Lat: 35.6812, Lng: 139.7671}
    osaka := Point{Lat: 34.7024, Lng: 135.4959}

    assert.Zero(t, DistanceMeters(tokyo, tokyo))
    assert.InDelta(t, DistanceMeters(tokyo, osaka), DistanceMeters(osaka, tokyo), 1e-9)
    // 東京駅〜新大阪駅はおよそ 400km
    assert.InDelta(t, 400000, DistanceMeters(tokyo, osaka), 10000)
}

func TestDistanceTriangleInequality(t *testing.T) {
    a := Point{Lat: 35.0, Lng: 139.0}
    b := Point{Lat: 35.1, Lng: 139.2}
    c := Point{Lat: 34.9, Lng: 139.1}
    assert.LessOrEqual(t, DistanceMeters(a, c), DistanceMeters(a, b)+DistanceMeters(b, c)+1e-6)
}

func TestOffsetMeters(t *testing.T) {
    p := Point{Lat: 35.0, Lng: 139.0}
    q := OffsetMeters(p, 1000, 0)
    assert.InDelta(t, 1000, DistanceMeters(p, q), 5)
    q = OffsetMeters(p, 0, -2000)
    assert.InDelta(t, 2000, DistanceMeters(p, q), 10)
    assert.Less(t, q.Lng, p.Lng)
}

func TestPointInRing(t *testing.T) {
    square := []Point{
        {Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}, {Lat: 1, Lng: 0}, {Lat: 0, Lng: 0},
    }
    assert.True(t, PointInRing(Point{Lat: 0.5, Lng: 0.5}, square))
    assert.False(t, PointInRing(Point{Lat: 1.5, Lng: 0.5}, square))
    assert.False(t, PointInRing(Point{Lat: 0.5, Lng: 0.5}, square[:2]))
}

func TestPointInPolygonWithHole(t *testing.T) {
    outer := []Point{{0, 0}, {0, 4}, {4, 4}, {4, 0}, {0, 0}}
    hole := []Point{{1, 1}, {1, 3}, {3, 3}, {3, 1}, {1, 1}}
    rings := [][]Point{outer, hole}

    assert.True(t, PointInPolygon(Point{Lat: 0.5, Lng: 0.5}, rings))
    assert.False(t, PointInPolygon(Point{Lat: 2, Lng: 2}, rings), "hole interior")
    assert.False(t, PointInPolygon(Point{Lat: 5, Lng: 5}, rings))
}

func TestBBox(t *testing.T) {
    ring := []Point{{Lat: 35.0, Lng: 139.0}, {Lat: 35.2, Lng: 139.5}, {Lat: 34.9, Lng: 139.2}}
    b := ComputeBBox(ring)
    assert.Equal(t, BBox{139.0, 34.9, 139.5, 35.2}, b)
    assert.True(t, InBBox(Point{Lat: 35.1, Lng: 139.3}, b))
    assert.False(t, InBBox(Point{Lat: 35.3, Lng: 139.3}, b))

    eb := ExpandBBox(b, 1000)
    assert.Less(t, eb[0], b[0])
    assert.Greater(t, eb[3], b[3])
}

func TestDistanceToSegmentMeters(t *testing.T) {
    a := Point{Lat: 35.0, Lng: 139.0}
    b := OffsetMeters(a, 0, 2000)
    // 線分中央の真北 500m
    mid := Midpoint(a, b)
    p := OffsetMeters(mid, 500, 0)
    d, closest := DistanceToSegmentMeters(p, a, b)
    assert.InDelta(t, 500, d, 5)
    assert.InDelta(t, mid.Lat, closest.Lat, 1e-4)

    // 端点の外側は端点までの距離
    q := OffsetMeters(a, 0, -300)
    d, closest = DistanceToSegmentMeters(q, a, b)
    assert.InDelta(t, 300, d, 3)
    assert.InDelta(t, a.Lng, closest.Lng, 1e-6)
}

func TestRingAreaSqMeters(t *testing.T) {
    // 一辺 1km の正方形
    o := Point{Lat: 35.0, Lng: 139.0}
    ring := []Point{
        o,
        OffsetMeters(o, 0, 1000),
        OffsetMeters(o, 1000, 1000),
        OffsetMeters(o, 1000, 0),
        o,
    }
    area := RingAreaSqMeters(ring)
    assert.InDelta(t, 1e6, area, 2e4)
}

func TestRingCentroid(t *testing.T) {
    ring := []Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}, {0, 0}}
    c := RingCentroid(ring)
    assert.InDelta(t, 1.0, c.Lat, 1e-9)
    assert.InDelta(t, 1.0, c.Lng, 1e-9)
}

func TestIntersectionAreaSqMeters(t *testing.T) {
    o := Point{Lat: 35.0, Lng: 139.0}
    sq := func(origin Point, sideM float64) []Point {
        return []Point{
            origin,
            OffsetMeters(origin, 0, sideM),
            OffsetMeters(origin, sideM, sideM),
            OffsetMeters(origin, sideM, 0),
            origin,
        }
    }
    a := sq(o, 1000)
    // 東に 500m ずらした同寸正方形：重なりは半分
    b := sq(OffsetMeters(o, 0, 500), 1000)
    area := IntersectionAreaSqMeters(a, b)
    assert.InDelta(t, 5e5, area, 2e4)

    // 交差なし
    far := sq(OffsetMeters(o, 5000, 5000), 1000)
    assert.Zero(t, IntersectionAreaSqMeters(a, far))
}

func TestCircleRing(t *testing.T) {
    c := Point{Lat: 35.0, Lng: 139.0}
    ring := CircleRing(c, 1000, 64)
    require.Len(t, ring, 65)
    assert.Equal(t, ring[0], ring[len(ring)-1])
    for _, p := range ring[:64] {
        assert.InDelta(t, 1000, DistanceMeters(c, p), 10)
    }
    // 64 角形の面積は円にほぼ一致
    assert.InDelta(t, math.Pi*1000*1000, RingAreaSqMeters(ring), math.Pi*1e6*0.02)
}
