// 包 geo：多边形面积与相交裁剪
package geo

import (
    "math"

    "github.com/paulmach/orb"
    orbgeo "github.com/paulmach/orb/geo"
    "github.com/paulmach/orb/planar"
)

// toOrbRing：内部环转 orb.Ring（经度在前）
func toOrbRing(ring []Point) orb.Ring {
    r := make(orb.Ring, 0, len(ring))
    for _, p := range ring {
        r = append(r, orb.Point{p.Lng, p.Lat})
    }
    if len(r) > 0 && r[0] != r[len(r)-1] { r = append(r, r[0]) }
    return r
}

// RingAreaSqMeters：环的球面面积（平方米）
// 背景：重叠比例需要真实面积而非度数面积；orb/geo 在 WGS84 椭球上计算。
func RingAreaSqMeters(ring []Point) float64 {
    if len(ring) < 3 { return 0 }
    return math.Abs(orbgeo.Area(toOrbRing(ring)))
}

// RingCentroid：环的平面质心
// 约束：退化环（面积≈0）回退到顶点均值，避免除零
func RingCentroid(ring []Point) Point {
    if len(ring) == 0 { return Point{} }
    c, area := planar.CentroidArea(toOrbRing(ring))
    if math.Abs(area) < 1e-12 {
        var sLat, sLng float64
        for _, p := range ring { sLat += p.Lat; sLng += p.Lng }
        n := float64(len(ring))
        return Point{Lat: sLat / n, Lng: sLng / n}
    }
    return Point{Lat: c[1], Lng: c[0]}
}

// 文档注释：凸多边形裁剪（Sutherland-Hodgman）
// 背景：禁飞圈近似多边形为凸，多边形与圈的交集用逐边裁剪求得；
//       裁剪环必须为凸，被裁剪环任意。
// 约束：输出可能为空（无交集）；畸形输入返回空而非报错。
func ClipByConvex(subject []Point, clip []Point) []Point {
    if len(subject) < 3 || len(clip) < 3 { return nil }
    // 保证裁剪环为逆时针，便于统一"内侧"判定
    cw := ringSignedArea(clip)
    c := clip
    if cw < 0 { c = reverseRing(clip) }
    out := append([]Point(nil), subject...)
    n := len(c)
    for i := 0; i < n; i++ {
        a := c[i]
        b := c[(i+1)%n]
        if a == b { continue }
        in := out
        out = nil
        m := len(in)
        if m == 0 { return nil }
        for j := 0; j < m; j++ {
            cur := in[j]
            prev := in[(j+m-1)%m]
            curIn := cross(a, b, cur) >= 0
            prevIn := cross(a, b, prev) >= 0
            if curIn {
                if !prevIn { out = append(out, intersect(prev, cur, a, b)) }
                out = append(out, cur)
            } else if prevIn {
                out = append(out, intersect(prev, cur, a, b))
            }
        }
    }
    return out
}

// IntersectionAreaSqMeters：被裁剪多边形与凸裁剪环的交集面积（平方米）
func IntersectionAreaSqMeters(subject []Point, convexClip []Point) float64 {
    inter := ClipByConvex(subject, convexClip)
    if len(inter) < 3 { return 0 }
    return RingAreaSqMeters(inter)
}

func ringSignedArea(ring []Point) float64 {
    s := 0.0
    n := len(ring)
    for i := 0; i < n; i++ {
        j := (i + 1) % n
        s += ring[i].Lng*ring[j].Lat - ring[j].Lng*ring[i].Lat
    }
    return s / 2
}

func reverseRing(ring []Point) []Point {
    out := make([]Point, len(ring))
    for i, p := range ring { out[len(ring)-1-i] = p }
    return out
}

// cross：点 p 相对有向边 a->b 的叉积符号（>0 在左侧/内侧）
func cross(a, b, p Point) float64 {
    return (b.Lng-a.Lng)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lng-a.Lng)
}

// intersect：线段 p1->p2 与无限直线 a->b 的交点
func intersect(p1, p2, a, b Point) Point {
    a1 := b.Lat - a.Lat
    b1 := a.Lng - b.Lng
    c1 := a1*a.Lng + b1*a.Lat
    a2 := p2.Lat - p1.Lat
    b2 := p1.Lng - p2.Lng
    c2 := a2*p1.Lng + b2*p1.Lat
    det := a1*b2 - a2*b1
    if math.Abs(det) < 1e-15 { return p1 }
    return Point{Lng: (b2*c1 - b1*c2) / det, Lat: (a1*c2 - a2*c1) / det}
}
