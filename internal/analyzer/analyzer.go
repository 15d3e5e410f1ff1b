// 包 analyzer：法规风险分析与修正提案
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"flight-api/internal/airspace"
	"flight-api/internal/did"
	"flight-api/internal/geo"
	"flight-api/internal/metrics"
	"flight-api/internal/route"
)

// Settings：分析开关与边距
// 约束：AvoidDID 蕴含 WarnDID；ZoneMarginM 是禁飞圈外的追加安全边距
type Settings struct {
	AvoidDID           bool    `json:"avoidDID"`
	WarnDID            bool    `json:"warnDID"`
	AvoidanceDistanceM float64 `json:"avoidanceDistanceM"`
	ZoneMarginM        float64 `json:"zoneMarginM"`
}

// DefaultSettings：缺省边距 300m、修正外推 500m
func DefaultSettings() Settings {
	return Settings{AvoidDID: true, WarnDID: true, AvoidanceDistanceM: 500, ZoneMarginM: 300}
}

// Issue：一个航点上的一项违规
type Issue struct {
	Type     string `json:"type"` // airport / prohibited / military / did
	ZoneName string `json:"zoneName,omitempty"`
	Severity string `json:"severity"`
}

// Gap：一个航点的违规集合与修正建议
// 约束：RecommendedPos 为 nil 表示修正未收敛，需人工改点
type Gap struct {
	WaypointID     string     `json:"waypointId"`
	Issues         []Issue    `json:"issues"`
	CurrentPos     geo.Point  `json:"currentPos"`
	RecommendedPos *geo.Point `json:"recommendedPos,omitempty"`
}

// Plan：整条航线的分析结果
type Plan struct {
	Success              bool             `json:"success"`
	HasIssues            bool             `json:"hasIssues"`
	Gaps                 []Gap            `json:"gaps,omitempty"`
	RecommendedWaypoints []route.Waypoint `json:"recommendedWaypoints,omitempty"`
	Summary              string           `json:"summary"`
}

// 文档注释：分析器
// 背景：逐航点查空域索引与人口集中地区，汇总违规并给出推离修正；
//       人口集中地区数据先批量预载，逐点判定只查缓存。
type Analyzer struct {
	idx *airspace.Index
	did *did.Resolver
	log *slog.Logger
}

func New(idx *airspace.Index, d *did.Resolver, l *slog.Logger) *Analyzer {
	return &Analyzer{idx: idx, did: d, log: l}
}

// 文档注释：生成飞行计划分析
// 背景：空航线直接判失败而非空成功；每个违规点尝试给出修正位置，
//       修正后的航线以 RecommendedWaypoints 整体返回（被动点带 Modified 标记）。
func (a *Analyzer) GeneratePlan(ctx context.Context, wps []route.Waypoint, st Settings) *Plan {
	t0 := time.Now()
	metrics.PlanRequestsTotal.Inc()
	defer func() {
		metrics.PlanDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	}()
	if len(wps) == 0 {
		return &Plan{Success: false, Summary: "航点がありません"}
	}
	if st.ZoneMarginM <= 0 {
		st.ZoneMarginM = 300
	}
	if st.AvoidanceDistanceM <= 0 {
		st.AvoidanceDistanceM = 500
	}

	pts := make([]geo.Point, len(wps))
	for i, w := range wps {
		pts[i] = w.Pos()
	}
	if st.AvoidDID || st.WarnDID {
		if err := a.did.Preload(ctx, pts); err != nil {
			return &Plan{Success: false, Summary: "人口集中地区データの取得が中断されました"}
		}
	}

	plan := &Plan{Success: true}
	rec := make([]route.Waypoint, len(wps))
	copy(rec, wps)

	for i, w := range wps {
		p := w.Pos()
		issues := a.issuesAt(p, st)
		if len(issues) == 0 {
			continue
		}
		plan.HasIssues = true
		gap := Gap{WaypointID: w.ID, Issues: issues, CurrentPos: p}
		if fixed, ok := a.correct(p, st); ok {
			gap.RecommendedPos = &fixed
			rec[i].Lat = fixed.Lat
			rec[i].Lng = fixed.Lng
			rec[i].Modified = true
		}
		plan.Gaps = append(plan.Gaps, gap)
	}

	if plan.HasIssues {
		plan.RecommendedWaypoints = rec
		plan.Summary = fmt.Sprintf("%d 地点で制限に抵触しています", len(plan.Gaps))
	} else {
		plan.Summary = "制限への抵触はありません"
	}
	a.log.Info("plan_generated", "waypoints", len(wps), "gaps", len(plan.Gaps), "ms", time.Since(t0).Milliseconds())
	return plan
}

// issuesAt：一点上的全部违规（设定开关生效后）
func (a *Analyzer) issuesAt(p geo.Point, st Settings) []Issue {
	var issues []Issue
	for _, z := range a.idx.ZonesAt(p, st.ZoneMarginM) {
		issues = append(issues, Issue{Type: z.Kind, ZoneName: z.Name, Severity: z.Severity})
	}
	if st.AvoidDID || st.WarnDID {
		if v := a.did.CheckSync(p.Lat, p.Lng); v.IsDID {
			issues = append(issues, Issue{Type: "did", ZoneName: v.AreaName, Severity: "medium"})
		}
	}
	return issues
}

// 文档注释：违规点修正（合成推离向量）
// 背景：多区重叠时逐区修正会在区与区之间来回弹跳，这里把各区的"推出到半径+边距"
//       向量相加一次位移，再复查并迭代，最多 10 轮；不收敛时放弃给建议。
// 约束：点与圆心（或地区质心）重合的退化情形固定向东推；修正位置本身必须是干净的，
//       对已修正位置再跑修正应原样返回（幂等）。
func (a *Analyzer) correct(p geo.Point, st Settings) (geo.Point, bool) {
	cur := p
	for iter := 0; iter < 10; iter++ {
		dNorth, dEast := 0.0, 0.0
		moved := false
		for _, z := range a.idx.ZonesAt(cur, st.ZoneMarginM) {
			push := z.RadiusM + st.ZoneMarginM - geo.DistanceMeters(cur, z.Center)
			if push <= 0 {
				continue
			}
			n, e, ok := unitFrom(z.Center, cur)
			if !ok {
				n, e = 0, 1
			}
			dNorth += n * push
			dEast += e * push
			moved = true
		}
		if st.AvoidDID {
			if v := a.did.CheckSync(cur.Lat, cur.Lng); v.IsDID {
				n, e := 0.0, 1.0
				if v.Centroid != nil {
					if un, ue, ok := unitFrom(*v.Centroid, cur); ok {
						n, e = un, ue
					}
				}
				dNorth += n * st.AvoidanceDistanceM
				dEast += e * st.AvoidanceDistanceM
				moved = true
			}
		}
		if !moved {
			// 首轮即无需移动＝仅警告级违规，不给修正
			return cur, iter > 0
		}
		cur = geo.OffsetMeters(cur, dNorth, dEast)
	}
	a.log.Warn("correction_diverged", "lat", p.Lat, "lng", p.Lng)
	return geo.Point{}, false
}

// unitFrom：from→to 的单位方向（北向、东向分量）
func unitFrom(from, to geo.Point) (float64, float64, bool) {
	d := geo.DistanceMeters(from, to)
	if d < 1e-6 {
		return 0, 0, false
	}
	dn := (to.Lat - from.Lat) * 111320.0
	de := (to.Lng - from.Lng) * 111320.0 * math.Cos(from.Lat*math.Pi/180)
	l := math.Hypot(dn, de)
	if l < 1e-9 {
		return 0, 0, false
	}
	return dn / l, de / l, true
}

// CheckAllRestrictions：批量单点查询（与逐点查询同一代价路径）
func (a *Analyzer) CheckAllRestrictions(wps []route.Waypoint) map[string]airspace.PointResult {
	pts := make(map[string]geo.Point, len(wps))
	for _, w := range wps {
		pts[w.ID] = w.Pos()
	}
	return a.idx.QueryBatch(pts)
}

// CheckFlightPath：整条航线的航段碰撞
func (a *Analyzer) CheckFlightPath(wps []route.Waypoint) airspace.PathResult {
	coords := make([]geo.Point, len(wps))
	for i, w := range wps {
		coords[i] = w.Pos()
	}
	return a.idx.QueryPath(coords)
}
