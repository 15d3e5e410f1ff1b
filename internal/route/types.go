// 包 route：多目标航线优化与电量分割
package route

import "flight-api/internal/geo"

// Waypoint：航点（入力顺序即初始访问顺序）
// 约束：ID 在一次请求内唯一。入力时 Index 可带 UI 侧的多边形内表示顺序，
//       但优化结果中会被整条航线的访问序号覆盖（0 起），前端按返回值重绘。
type Waypoint struct {
	ID        string  `json:"id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Index     int     `json:"index"`
	PolygonID string  `json:"polygonId,omitempty"`
	Elevation float64 `json:"elevation,omitempty"`
	Modified  bool    `json:"modified,omitempty"`
}

// Pos：航点坐标
func (w Waypoint) Pos() geo.Point { return geo.Point{Lat: w.Lat, Lng: w.Lng} }
