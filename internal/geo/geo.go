// 包 geo：球面距离与多边形判定的基础原语（WGS84）
package geo

import "math"

// 点坐标（WGS84）
type Point struct { Lat float64; Lng float64 }

// BBox：minLng, minLat, maxLng, maxLat
type BBox [4]float64

const earthRadiusM = 6371000.0

// 文档注释：球面距离（Haversine），返回米
// 背景：航段长度与禁飞圈判定的统一度量；对称且 a==b 时为零（浮点容差内）。
func DistanceMeters(a, b Point) float64 {
    dLat := (b.Lat - a.Lat) * math.Pi / 180
    dLng := (b.Lng - a.Lng) * math.Pi / 180
    h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
    c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
    return earthRadiusM * c
}

// Midpoint：两点中点（平面近似）
// 约束：用于航段风险采样，数百公里内误差可忽略；不做跨经度 180° 处理
func Midpoint(a, b Point) Point {
    return Point{Lat: (a.Lat + b.Lat) / 2, Lng: (a.Lng + b.Lng) / 2}
}

// OffsetMeters：按北向/东向位移（米）平移坐标
// 背景：违规点外推修正需要把"推出向量"换算回经纬度；纬度越高经度步长越大。
func OffsetMeters(p Point, dNorthM, dEastM float64) Point {
    dLat := dNorthM / 111320.0
    cos := math.Cos(p.Lat * math.Pi / 180)
    if math.Abs(cos) < 1e-9 { cos = 1e-9 }
    dLng := dEastM / (111320.0 * cos)
    return Point{Lat: p.Lat + dLat, Lng: p.Lng + dLng}
}

// 射线法判定点是否在环内（Even-Odd）
func PointInRing(pt Point, ring []Point) bool {
    n := len(ring)
    if n < 3 { return false }
    inside := false
    x := pt.Lng
    y := pt.Lat
    for i, j := 0, n-1; i < n; j, i = i, i+1 {
        xi := ring[i].Lng; yi := ring[i].Lat
        xj := ring[j].Lng; yj := ring[j].Lat
        intersect := ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi+1e-12)+xi)
        if intersect { inside = !inside }
    }
    return inside
}

// 文档注释：点入多边形判定（带洞）
// 背景：外环命中且不在任何洞内视为命中；畸形环（<3 点）一律视为未命中而非报错。
func PointInPolygon(pt Point, rings [][]Point) bool {
    if len(rings) == 0 { return false }
    if !PointInRing(pt, rings[0]) { return false }
    for i := 1; i < len(rings); i++ {
        if PointInRing(pt, rings[i]) { return false }
    }
    return true
}

// ComputeBBox：环的包围盒
func ComputeBBox(ring []Point) BBox {
    b := BBox{180, 90, -180, -90}
    for _, pt := range ring {
        if pt.Lng < b[0] { b[0] = pt.Lng }
        if pt.Lat < b[1] { b[1] = pt.Lat }
        if pt.Lng > b[2] { b[2] = pt.Lng }
        if pt.Lat > b[3] { b[3] = pt.Lat }
    }
    return b
}

// 快速包围盒过滤
func InBBox(pt Point, b BBox) bool {
    return pt.Lng >= b[0] && pt.Lng <= b[2] && pt.Lat >= b[1] && pt.Lat <= b[3]
}

// ExpandBBox：包围盒按米外扩，用于带边距的候选筛选
func ExpandBBox(b BBox, marginM float64) BBox {
    dLat := marginM / 111320.0
    midLat := (b[1] + b[3]) / 2
    cos := math.Cos(midLat * math.Pi / 180)
    if math.Abs(cos) < 1e-9 { cos = 1e-9 }
    dLng := marginM / (111320.0 * cos)
    return BBox{b[0] - dLng, b[1] - dLat, b[2] + dLng, b[3] + dLat}
}

// 文档注释：点到线段的最短距离（米）与最近点
// 背景：路径与禁飞圈的相交判定归结为圆心到航段的距离比较；平面近似在城市尺度足够。
func DistanceToSegmentMeters(p, a, b Point) (float64, Point) {
    // 以 a 为原点换算成米制平面
    cos := math.Cos(a.Lat * math.Pi / 180)
    ax, ay := 0.0, 0.0
    bx := (b.Lng - a.Lng) * 111320.0 * cos
    by := (b.Lat - a.Lat) * 111320.0
    px := (p.Lng - a.Lng) * 111320.0 * cos
    py := (p.Lat - a.Lat) * 111320.0
    dx, dy := bx-ax, by-ay
    l2 := dx*dx + dy*dy
    t := 0.0
    if l2 > 1e-12 { t = (px*dx + py*dy) / l2 }
    if t < 0 { t = 0 }
    if t > 1 { t = 1 }
    cx, cy := ax+t*dx, ay+t*dy
    closest := Point{Lat: a.Lat + cy/111320.0, Lng: a.Lng + cx/(111320.0*cos)}
    ddx, ddy := px-cx, py-cy
    return math.Sqrt(ddx*ddx + ddy*ddy), closest
}

// CircleRing：把圆近似为 n 边形环（首尾闭合）
// 背景：障碍制限表面与重叠面积计算统一走多边形路径；n 足够大时误差在 1% 内。
func CircleRing(center Point, radiusM float64, n int) []Point {
    if n < 8 { n = 8 }
    out := make([]Point, 0, n+1)
    for i := 0; i < n; i++ {
        th := 2 * math.Pi * float64(i) / float64(n)
        out = append(out, OffsetMeters(center, radiusM*math.Cos(th), radiusM*math.Sin(th)))
    }
    out = append(out, out[0])
    return out
}
