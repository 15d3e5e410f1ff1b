package airspace

import "flight-api/internal/geo"

// 文档注释：空域限制的最小数据结构
// 背景：圆形禁飞区为静态参照数据，运行期只读；机场可附带精确的障碍制限表面多边形，
//       表面存在时以表面判定为准（圆为保守外包近似）。
// 约束：Kind 取值 airport/prohibited/military；Severity 取值 low/medium/high/critical。
type Zone struct {
	Name     string
	Center   geo.Point
	RadiusM  float64
	Kind     string
	Severity string
}

// Surface：机场障碍制限表面（精确多边形，首尾闭合）
type Surface struct {
	Airport string
	Ring    []geo.Point
}

// PointResult：单点查询结果（最高严重度命中）
type PointResult struct {
	Colliding bool    `json:"colliding"`
	ZoneName  string  `json:"zoneName"`
	Kind      string  `json:"kind"`
	Severity  string  `json:"severity"`
	DistanceM float64 `json:"distanceM"`
	RadiusM   float64 `json:"radiusM"`
}

// PathResult：路径查询结果（逐航段聚合）
type PathResult struct {
	Colliding          bool        `json:"isColliding"`
	IntersectionPoints []geo.Point `json:"intersectionPoints"`
	Severity           string      `json:"severity"`
	ZoneNames          []string    `json:"zoneNames"`
}

// PolygonResult：多边形重叠查询结果
type PolygonResult struct {
	Colliding        bool     `json:"colliding"`
	OverlapAreaRatio float64  `json:"overlapAreaRatio"`
	Intersections    []string `json:"intersections"`
}

// severityRank：严重度排序；未知值按最低处理
func severityRank(s string) int {
	switch s {
	case "critical":
		return 3
	case "high":
		return 2
	case "medium":
		return 1
	}
	return 0
}

// MaxSeverity：两个严重度取较高者
func MaxSeverity(a, b string) string {
	if severityRank(b) > severityRank(a) {
		return b
	}
	return a
}
