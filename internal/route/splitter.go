package route

import (
	"log/slog"

	"flight-api/internal/airspace"
	"flight-api/internal/drone"
	"flight-api/internal/geo"
)

// Flight：一次起降内完成的航段
type Flight struct {
	Waypoints        []Waypoint `json:"waypoints"`
	TotalDistance    float64    `json:"totalDistance"`
	ReturnDistance   float64    `json:"returnDistance"`
	EstimatedTimeMin float64    `json:"estimatedTimeMin"`
	BatteryUsagePct  float64    `json:"batteryUsagePct"`
	RangeExceeded    bool       `json:"rangeExceeded,omitempty"`
	Restrictions     []string   `json:"restrictions,omitempty"`
}

// 文档注释：按电量约束分割航线
// 背景：每次起降都从基点出发并返回基点；贪心累加航段，当"已飞 + 下一段 + 返航"
//       超过最大航程时封闭当前架次。单个航点本身超航程时仍单独成一架次并打超限标记，
//       让操作者看到问题而不是让该点静默消失。
// 约束：航点访问顺序保持传入顺序（分割在优化之后进行）；idx 为 nil 时不做空域标注。
func SplitFlights(wps []Waypoint, home geo.Point, prof drone.Profile, idx *airspace.Index, l *slog.Logger) []Flight {
	if len(wps) == 0 {
		return nil
	}
	maxRange := prof.MaxRangeMeters()
	var flights []Flight
	var cur []Waypoint
	acc := 0.0
	last := home

	flush := func() {
		if len(cur) == 0 {
			return
		}
		ret := geo.DistanceMeters(last, home)
		total := acc + ret
		f := Flight{
			Waypoints:        cur,
			TotalDistance:    total,
			ReturnDistance:   ret,
			EstimatedTimeMin: total / prof.CruiseSpeedMps / 60,
		}
		if maxRange > 0 {
			f.BatteryUsagePct = total / maxRange * 100 * (1 - prof.SafetyMarginRatio)
			if f.BatteryUsagePct > 100 {
				f.BatteryUsagePct = 100
			}
			f.RangeExceeded = total > maxRange
		}
		if idx != nil {
			coords := make([]geo.Point, 0, len(cur)+2)
			coords = append(coords, home)
			for _, w := range cur {
				coords = append(coords, w.Pos())
			}
			coords = append(coords, home)
			if pr := idx.QueryPath(coords); pr.Colliding {
				f.Restrictions = pr.ZoneNames
			}
		}
		flights = append(flights, f)
		cur = nil
		acc = 0
		last = home
	}

	for _, w := range wps {
		p := w.Pos()
		dNext := geo.DistanceMeters(last, p)
		dHome := geo.DistanceMeters(p, home)
		if len(cur) > 0 && maxRange > 0 && acc+dNext+dHome > maxRange {
			flush()
			dNext = geo.DistanceMeters(home, p)
		}
		cur = append(cur, w)
		acc += dNext
		last = p
	}
	flush()

	if l != nil {
		l.Info("flights_split", "waypoints", len(wps), "flights", len(flights), "max_range_m", int(maxRange))
	}
	return flights
}
