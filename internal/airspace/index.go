package airspace

import (
	"log/slog"

	"flight-api/internal/geo"
	"flight-api/internal/metrics"

	"github.com/dhconnelly/rtreego"
)

// zoneEntry：R-Tree 存储项（圆的外包矩形）
type zoneEntry struct {
	zone *Zone
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial
func (e *zoneEntry) Bounds() rtreego.Rect { return e.rect }

// 文档注释：空域限制索引
// 背景：点/航段/多边形查询都先经 R-Tree 以包围盒取候选，再做精确距离或 PIP 判定，
//       避免对全部禁飞区做 O(zones) 扫描；索引构建一次后只读。
// 约束：表面数据缺失或损坏时该区降级为忽略（记日志），绝不降级为"永远命中"。
type Index struct {
	tree     *rtreego.Rtree
	surfaces map[string][]geo.Point
	log      *slog.Logger
}

// NewIndex：从静态数据构建索引
func NewIndex(zones []Zone, surfaces []Surface, l *slog.Logger) *Index {
	idx := &Index{tree: rtreego.NewTree(2, 4, 16), surfaces: map[string][]geo.Point{}, log: l}
	for _, s := range surfaces {
		if len(s.Ring) < 4 {
			l.Warn("surface_ignored", "airport", s.Airport, "reason", "degenerate_ring")
			continue
		}
		idx.surfaces[s.Airport] = s.Ring
	}
	for i := range zones {
		z := &zones[i]
		if z.RadiusM <= 0 {
			l.Warn("zone_ignored", "name", z.Name, "reason", "bad_radius")
			continue
		}
		b := geo.ExpandBBox(geo.BBox{z.Center.Lng, z.Center.Lat, z.Center.Lng, z.Center.Lat}, z.RadiusM)
		rect, err := rtreego.NewRect(rtreego.Point{b[0], b[1]}, []float64{b[2] - b[0], b[3] - b[1]})
		if err != nil {
			l.Warn("zone_ignored", "name", z.Name, "err", err)
			continue
		}
		idx.tree.Insert(&zoneEntry{zone: z, rect: rect})
	}
	l.Info("airspace_index_ready", "zones", idx.tree.Size(), "surfaces", len(idx.surfaces))
	return idx
}

// candidates：包围盒与给定 BBox 相交的候选区
func (idx *Index) candidates(b geo.BBox) []*Zone {
	w := b[2] - b[0]
	h := b[3] - b[1]
	if w <= 0 {
		w = 1e-9
	}
	if h <= 0 {
		h = 1e-9
	}
	rect, err := rtreego.NewRect(rtreego.Point{b[0], b[1]}, []float64{w, h})
	if err != nil {
		return nil
	}
	hits := idx.tree.SearchIntersect(rect)
	out := make([]*Zone, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*zoneEntry).zone)
	}
	return out
}

// surfaceClears：机场圆命中后按精确表面复判
// 返回 true 表示点在表面外，应解除该机场的命中
func (idx *Index) surfaceClears(z *Zone, p geo.Point) bool {
	if z.Kind != "airport" {
		return false
	}
	ring, ok := idx.surfaces[z.Name]
	if !ok {
		return false
	}
	if geo.PointInRing(p, ring) {
		return false
	}
	metrics.SurfaceOverrideTotal.Inc()
	idx.log.Debug("surface_override_clear", "airport", z.Name, "lat", p.Lat, "lng", p.Lng)
	return true
}

// surfaceClearsSegment：航段版表面复判
// 约束：最近点在表面外时不能直接解除——航段可能在圆内别处穿过表面，
//       因此沿圆内区间等距采样复查；只有整段都在表面外才解除命中。
func (idx *Index) surfaceClearsSegment(z *Zone, a, b, closest geo.Point) bool {
	if z.Kind != "airport" {
		return false
	}
	ring, ok := idx.surfaces[z.Name]
	if !ok {
		return false
	}
	if geo.PointInRing(closest, ring) {
		return false
	}
	const samples = 16
	for i := 0; i <= samples; i++ {
		t := float64(i) / samples
		p := geo.Point{Lat: a.Lat + (b.Lat-a.Lat)*t, Lng: a.Lng + (b.Lng-a.Lng)*t}
		if geo.DistanceMeters(p, z.Center) >= z.RadiusM {
			continue
		}
		if geo.PointInRing(p, ring) {
			return false
		}
	}
	metrics.SurfaceOverrideTotal.Inc()
	idx.log.Debug("surface_override_clear", "airport", z.Name, "lat", closest.Lat, "lng", closest.Lng)
	return true
}

// ZonesAt：点命中的全部禁飞区（表面复判后），供修正计算使用
func (idx *Index) ZonesAt(p geo.Point, marginM float64) []*Zone {
	b := geo.ExpandBBox(geo.BBox{p.Lng, p.Lat, p.Lng, p.Lat}, marginM)
	var out []*Zone
	for _, z := range idx.candidates(b) {
		d := geo.DistanceMeters(p, z.Center)
		if d >= z.RadiusM+marginM {
			continue
		}
		if idx.surfaceClears(z, p) {
			continue
		}
		out = append(out, z)
	}
	return out
}

// QueryPoint：单点查询，返回最高严重度（并列时取距中心更近者）
func (idx *Index) QueryPoint(p geo.Point) PointResult {
	metrics.ZoneQueriesTotal.WithLabelValues("point").Inc()
	var best *Zone
	var bestD float64
	for _, z := range idx.ZonesAt(p, 0) {
		d := geo.DistanceMeters(p, z.Center)
		if best == nil || severityRank(z.Severity) > severityRank(best.Severity) ||
			(severityRank(z.Severity) == severityRank(best.Severity) && d < bestD) {
			best = z
			bestD = d
		}
	}
	if best == nil {
		return PointResult{}
	}
	metrics.ZoneHitsTotal.Inc()
	return PointResult{Colliding: true, ZoneName: best.Name, Kind: best.Kind, Severity: best.Severity, DistanceM: bestD, RadiusM: best.RadiusM}
}

// QueryBatch：批量单点查询
// 约束：复杂度与逐点查询等价（同一索引、同一候选路径），不做逐点以外的重复工作
func (idx *Index) QueryBatch(points map[string]geo.Point) map[string]PointResult {
	metrics.ZoneQueriesTotal.WithLabelValues("batch").Inc()
	out := make(map[string]PointResult, len(points))
	for id, p := range points {
		out[id] = idx.QueryPoint(p)
	}
	return out
}

// 文档注释：路径查询（逐航段 vs 候选区）
// 背景：航段与圆相交等价于圆心到航段的最短距离小于半径；命中点取航段上的最近点。
// 约束：严重度取所有航段命中的最大值；机场命中经表面复判。
func (idx *Index) QueryPath(coords []geo.Point) PathResult {
	metrics.ZoneQueriesTotal.WithLabelValues("path").Inc()
	var res PathResult
	seen := map[string]bool{}
	for i := 0; i+1 < len(coords); i++ {
		a, b := coords[i], coords[i+1]
		segBox := geo.BBox{min(a.Lng, b.Lng), min(a.Lat, b.Lat), max(a.Lng, b.Lng), max(a.Lat, b.Lat)}
		for _, z := range idx.candidates(segBox) {
			d, closest := geo.DistanceToSegmentMeters(z.Center, a, b)
			if d >= z.RadiusM {
				continue
			}
			if idx.surfaceClearsSegment(z, a, b, closest) {
				continue
			}
			res.Colliding = true
			res.IntersectionPoints = append(res.IntersectionPoints, closest)
			res.Severity = MaxSeverity(res.Severity, z.Severity)
			if !seen[z.Name] {
				seen[z.Name] = true
				res.ZoneNames = append(res.ZoneNames, z.Name)
			}
		}
	}
	return res
}

// 文档注释：多边形重叠查询
// 背景：作业区域与禁飞圈的重叠比例用于阈值告警；圆近似为 64 边形后做凸裁剪求面积。
// 约束：多个区的重叠面积直接相加并截断到 1.0，不做并集去重（保守近似）。
func (idx *Index) QueryPolygon(ring []geo.Point) PolygonResult {
	metrics.ZoneQueriesTotal.WithLabelValues("polygon").Inc()
	var res PolygonResult
	if len(ring) < 3 {
		return res
	}
	total := geo.RingAreaSqMeters(ring)
	if total <= 0 {
		return res
	}
	for _, z := range idx.candidates(geo.ComputeBBox(ring)) {
		circle := geo.CircleRing(z.Center, z.RadiusM, 64)
		area := geo.IntersectionAreaSqMeters(ring, circle)
		if area <= 0 {
			continue
		}
		res.Colliding = true
		res.OverlapAreaRatio += area / total
		res.Intersections = append(res.Intersections, z.Name)
	}
	if res.OverlapAreaRatio > 1 {
		res.OverlapAreaRatio = 1
	}
	return res
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
