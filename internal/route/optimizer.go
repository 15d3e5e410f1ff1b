package route

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"flight-api/internal/airspace"
	"flight-api/internal/did"
	"flight-api/internal/drone"
	"flight-api/internal/geo"
	"flight-api/internal/metrics"
)

// 文档注释：多目标航线优化器
// 背景：目标函数是四项加权和（距离 km、时间 min×10、电量比×100、风险×50），
//       先用最近邻贪心构造初始解，再按纯距离做 2-opt 改善；
//       航段风险在中点采样，人口集中地区数据在进入主循环前批量预载，内环只查缓存。
// 约束：2-opt 只按距离交换，不会让总距离变长；风险采样结果按航段对 memo 化。
// 展示用の基準航次（分）；計算には使わない
const baselineFlightMin = 60.0

type Optimizer struct {
	idx          *airspace.Index
	did          *did.Resolver
	log          *slog.Logger
	startScanMax int
}

// Result：优化结果
type Result struct {
	Order         []Waypoint `json:"waypoints"`
	TotalDistance float64    `json:"totalDistance"`
	TotalTimeMin  float64    `json:"totalTimeMin"`
	Achievement   float64    `json:"achievement"`
	Tradeoffs     []string   `json:"tradeoffs,omitempty"`
}

// NewOptimizer：构建；起点全扫描的规模上限取自 OPTIMIZE_START_SCAN_MAX（缺省 30）
func NewOptimizer(idx *airspace.Index, d *did.Resolver, l *slog.Logger) *Optimizer {
	maxN := 30
	if s := os.Getenv("OPTIMIZE_START_SCAN_MAX"); s != "" {
		if n, e := strconv.Atoi(s); e == nil && n > 0 {
			maxN = n
		}
	}
	return &Optimizer{idx: idx, did: d, log: l, startScanMax: maxN}
}

// 文档注释：执行优化
// 背景：algorithm 取 "greedy"（仅最近邻）或 "2opt"（缺省，最近邻+2-opt）；
//       N 不超过起点扫描上限时对每个起点各跑一遍贪心取总分最小者，否则固定首点起步。
func (o *Optimizer) Optimize(ctx context.Context, wps []Waypoint, prof drone.Profile, obj Objective, algorithm string) (*Result, error) {
	t0 := time.Now()
	metrics.OptimizeRequestsTotal.Inc()
	defer func() {
		metrics.OptimizeDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	}()
	n := len(wps)
	metrics.OptimizeWaypoints.Observe(float64(n))
	if n == 0 {
		metrics.OptimizeFailTotal.Inc()
		return nil, errors.New("no waypoints")
	}
	if n == 1 {
		out := []Waypoint{wps[0]}
		out[0].Index = 0
		return &Result{Order: out, Achievement: 100}, nil
	}

	pts := make([]geo.Point, n)
	for i, w := range wps {
		pts[i] = w.Pos()
	}
	if err := o.did.Preload(ctx, pts); err != nil {
		metrics.OptimizeFailTotal.Inc()
		return nil, err
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i < j {
				continue
			}
			d := geo.DistanceMeters(pts[i], pts[j])
			dist[i][j] = d
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist[i][j] = dist[j][i]
		}
	}

	risk := newRiskSampler(o.idx, o.did, pts)
	score := func(i, j int) float64 {
		d := dist[i][j]
		min := d / prof.CruiseSpeedMps / 60
		ratio := 0.0
		if eff := prof.EffectiveFlightTimeMin(); eff > 0 {
			ratio = min / eff
		}
		return obj.Distance*(d/1000) + obj.Time*(min*10) + obj.Battery*(ratio*100) + obj.Risk*(risk.at(i, j)*50)
	}

	tourScore := func(order []int) float64 {
		s := 0.0
		for k := 0; k+1 < len(order); k++ {
			s += score(order[k], order[k+1])
		}
		return s
	}

	best := nearestNeighbor(0, n, score)
	if n <= o.startScanMax {
		bestS := tourScore(best)
		for s := 1; s < n; s++ {
			cand := nearestNeighbor(s, n, score)
			if cs := tourScore(cand); cs < bestS {
				best, bestS = cand, cs
			}
		}
	}

	if algorithm != "greedy" {
		best = twoOpt(best, dist)
	}

	total := 0.0
	for k := 0; k+1 < n; k++ {
		total += dist[best[k]][best[k+1]]
	}
	inputTotal := 0.0
	for k := 0; k+1 < n; k++ {
		inputTotal += dist[k][k+1]
	}

	out := make([]Waypoint, n)
	for k, i := range best {
		out[k] = wps[i]
		out[k].Index = k
	}
	timeMin := total / prof.CruiseSpeedMps / 60

	res := &Result{Order: out, TotalDistance: total, TotalTimeMin: timeMin}
	if inputTotal > 0 {
		res.Achievement = (inputTotal - total) / inputTotal * 100
		if res.Achievement < 0 {
			res.Achievement = 0
		}
	}
	res.Tradeoffs = o.tradeoffs(best, risk, timeMin, prof, obj)
	o.log.Info("optimize_done", "waypoints", n, "algorithm", algorithm,
		"total_m", int(total), "time_min", timeMin, "ms", time.Since(t0).Milliseconds())
	return res, nil
}

// tradeoffs：面向操作者的妥协说明（对照 60 分钟基准航次，仅用于展示）
func (o *Optimizer) tradeoffs(order []int, risk *riskSampler, timeMin float64, prof drone.Profile, obj Objective) []string {
	var notes []string
	if timeMin > baselineFlightMin {
		notes = append(notes, fmt.Sprintf("想定飛行時間が基準の%.0f分を%.0f分超過します", baselineFlightMin, timeMin-baselineFlightMin))
	}
	if timeMin > prof.EffectiveFlightTimeMin() {
		notes = append(notes, "総飛行時間が機体の実効滞空時間を超えるため分割が必要です")
	}
	maxRisk := 0.0
	for k := 0; k+1 < len(order); k++ {
		if r := risk.at(order[k], order[k+1]); r > maxRisk {
			maxRisk = r
		}
	}
	if maxRisk >= 1.0 {
		notes = append(notes, "経路が飛行禁止区域を横切る区間を含みます")
	} else if maxRisk > 0 && obj.Risk < 0.25 {
		notes = append(notes, "距離優先のため制限空域付近を通過する区間があります")
	}
	return notes
}

// nearestNeighbor：从指定起点按加权分贪心构造访问序
func nearestNeighbor(start, n int, score func(i, j int) float64) []int {
	visited := make([]bool, n)
	order := make([]int, 0, n)
	cur := start
	visited[cur] = true
	order = append(order, cur)
	for len(order) < n {
		next := -1
		bestS := 0.0
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if s := score(cur, j); next < 0 || s < bestS {
				next, bestS = j, s
			}
		}
		visited[next] = true
		order = append(order, next)
		cur = next
	}
	return order
}

// 文档注释：2-opt 改善（开路径、纯距离）
// 背景：只按距离交换保证"改善后总距离不增"这一性质与目标权重无关；
//       收敛后再无可交换的反转即停止。
func twoOpt(order []int, dist [][]float64) []int {
	n := len(order)
	improved := true
	for improved {
		improved = false
		for i := 0; i+2 < n; i++ {
			for j := i + 2; j < n; j++ {
				a, b := order[i], order[i+1]
				c := order[j]
				before := dist[a][b]
				after := dist[a][c]
				if j+1 < n {
					d := order[j+1]
					before += dist[c][d]
					after += dist[b][d]
				}
				if after < before-1e-9 {
					for l, r := i+1, j; l < r; l, r = l+1, r-1 {
						order[l], order[r] = order[r], order[l]
					}
					improved = true
				}
			}
		}
	}
	return order
}

// riskSampler：航段风险的中点采样（按航段对 memo 化）
// 约束：人口集中地区 0.3、空港/基地 0.6、禁止区域 1.0，叠加后截断到 1.0；
//       只查已预载的缓存，内环绝不触发取数
type riskSampler struct {
	idx   *airspace.Index
	did   *did.Resolver
	pts   []geo.Point
	cache map[[2]int]float64
}

func newRiskSampler(idx *airspace.Index, d *did.Resolver, pts []geo.Point) *riskSampler {
	return &riskSampler{idx: idx, did: d, pts: pts, cache: map[[2]int]float64{}}
}

func (r *riskSampler) at(i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	key := [2]int{i, j}
	if v, ok := r.cache[key]; ok {
		return v
	}
	mid := geo.Midpoint(r.pts[i], r.pts[j])
	v := 0.0
	if r.did.CheckSync(mid.Lat, mid.Lng).IsDID {
		v += 0.3
	}
	for _, z := range r.idx.ZonesAt(mid, 0) {
		switch z.Kind {
		case "prohibited":
			v += 1.0
		default:
			v += 0.6
		}
	}
	if v > 1.0 {
		v = 1.0
	}
	r.cache[key] = v
	return v
}
