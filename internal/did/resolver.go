// 包 did：人口集中地区（DID）の遅延解決器
// 背景：県単位の GeoJSON を初回参照時に取得してプロセス生存期間キャッシュする；
//       取得失敗・県未解決は安全側（isDID=false）に倒し、呼び出し側を止めない。
package did

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "log/slog"
    "net/http"
    "os"
    "path/filepath"
    "strconv"
    "sync"
    "time"

    "flight-api/internal/geo"
    "flight-api/internal/metrics"

    "github.com/paulmach/orb"
    "github.com/paulmach/orb/geojson"
    "github.com/redis/go-redis/v9"
    "golang.org/x/sync/errgroup"
    "golang.org/x/sync/singleflight"
)

// Verdict：一座標の判定結果
// 约束：Centroid は修正位置の押し出し基準；多面体で質心が取れない場合は nil
type Verdict struct {
    IsDID      bool       `json:"isDID"`
    AreaName   string     `json:"areaName,omitempty"`
    Centroid   *geo.Point `json:"centroid,omitempty"`
    Prefecture string     `json:"prefecture,omitempty"`
}

// didArea：キャッシュ内の一地区
type didArea struct {
    name     string
    rings    [][]geo.Point
    bbox     geo.BBox
    centroid geo.Point
}

type dataset struct {
    code     string
    areas    []didArea
    loadedAt time.Time
}

// 文档注释：DID 解決器（呼び出し側が所有するコンテキストオブジェクト）
// 背景：プロセス全域のシングルトンにせず、テスト分離と複数セッションを可能にする；
//       同一県への並行取得は singleflight で合流させ、多点の事前ロードは errgroup で上限付き並行。
// 约束：キャッシュ無効化は全クリアのみ（県単位の追い出しはしない）；取得失敗も負キャッシュして再取得の嵐を防ぐ。
type Resolver struct {
    mu      sync.RWMutex
    cache   map[string]*dataset
    failed  map[string]bool
    sf      singleflight.Group
    baseURL string
    dataDir string
    client  *http.Client
    rc      *redis.Client
    limit   int
    log     *slog.Logger
}

// NewResolver：構築；baseURL と dataDir はどちらか一方で良い
func NewResolver(baseURL, dataDir string, rc *redis.Client, l *slog.Logger) *Resolver {
    limit := 4
    if s := os.Getenv("DID_PRELOAD_CONCURRENCY"); s != "" {
        if n, e := strconv.Atoi(s); e == nil && n > 0 { limit = n }
    }
    timeout := 10 * time.Second
    if s := os.Getenv("DID_FETCH_TIMEOUT_S"); s != "" {
        if n, e := strconv.Atoi(s); e == nil && n > 0 { timeout = time.Duration(n) * time.Second }
    }
    return &Resolver{
        cache:   map[string]*dataset{},
        failed:  map[string]bool{},
        baseURL: baseURL,
        dataDir: dataDir,
        client:  &http.Client{Timeout: timeout},
        rc:      rc,
        limit:   limit,
        log:     l,
    }
}

// cached：読み取りパス（ロード済みデータセット）
func (r *Resolver) cached(code string) (*dataset, bool) {
    r.mu.RLock()
    defer r.mu.RUnlock()
    ds, ok := r.cache[code]
    return ds, ok
}

// 文档注释：データセットの遅延ロード
// 背景：同一県への並行要求は一回の取得に合流させる；成功はプロセス生存期間キャッシュ、
//       失敗は負キャッシュ（Clear まで再試行しない）。
func (r *Resolver) load(ctx context.Context, code string) (*dataset, bool) {
    if ds, ok := r.cached(code); ok {
        metrics.DIDCacheHitsTotal.Inc()
        return ds, true
    }
    r.mu.RLock()
    bad := r.failed[code]
    r.mu.RUnlock()
    if bad { return nil, false }
    metrics.DIDCacheMissesTotal.Inc()
    v, err, _ := r.sf.Do(code, func() (any, error) {
        if ds, ok := r.cached(code); ok { return ds, nil }
        t0 := time.Now()
        metrics.DIDFetchTotal.Inc()
        raw, err := r.fetch(ctx, code)
        metrics.DIDFetchDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
        if err != nil { return nil, err }
        ds, err := parseDataset(code, raw)
        if err != nil { return nil, err }
        r.mu.Lock()
        r.cache[code] = ds
        r.mu.Unlock()
        r.log.Info("did_dataset_ready", "pref", code, "areas", len(ds.areas), "ms", time.Since(t0).Milliseconds())
        return ds, nil
    })
    if err != nil {
        metrics.DIDFetchFailTotal.Inc()
        r.mu.Lock()
        r.failed[code] = true
        r.mu.Unlock()
        r.log.Warn("did_fetch_error", "pref", code, "err", err)
        return nil, false
    }
    return v.(*dataset), true
}

// fetch：リモート優先・ローカル退避でデータ本体を取得
func (r *Resolver) fetch(ctx context.Context, code string) ([]byte, error) {
    if r.baseURL != "" {
        url := fmt.Sprintf("%s/%s.geojson", r.baseURL, code)
        req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
        if err != nil { return nil, err }
        resp, err := r.client.Do(req)
        if err == nil {
            defer resp.Body.Close()
            if resp.StatusCode == http.StatusOK {
                return io.ReadAll(resp.Body)
            }
            err = fmt.Errorf("did fetch status %d", resp.StatusCode)
        }
        if r.dataDir == "" { return nil, err }
        r.log.Debug("did_fetch_fallback_local", "pref", code, "err", err)
    }
    if r.dataDir == "" { return nil, fmt.Errorf("no did source configured") }
    return os.ReadFile(filepath.Join(r.dataDir, code+".geojson"))
}

// parseDataset：GeoJSON FeatureCollection を内部構造へ
// 约束：Polygon/MultiPolygon 以外のジオメトリは無視；地区名プロパティは複数キーを許容
func parseDataset(code string, raw []byte) (*dataset, error) {
    fc, err := geojson.UnmarshalFeatureCollection(raw)
    if err != nil { return nil, err }
    ds := &dataset{code: code, loadedAt: time.Now()}
    for _, f := range fc.Features {
        name := areaName(f.Properties)
        switch g := f.Geometry.(type) {
        case orb.Polygon:
            ds.addArea(name, g)
        case orb.MultiPolygon:
            for _, p := range g { ds.addArea(name, p) }
        }
    }
    return ds, nil
}

func areaName(props geojson.Properties) string {
    for _, k := range []string{"name", "A16_003", "CITYNAME", "N03_004"} {
        if v := props.MustString(k, ""); v != "" { return v }
    }
    return ""
}

func (ds *dataset) addArea(name string, poly orb.Polygon) {
    if len(poly) == 0 || len(poly[0]) < 4 { return }
    rings := make([][]geo.Point, 0, len(poly))
    for _, ring := range poly {
        rr := make([]geo.Point, 0, len(ring))
        for _, p := range ring { rr = append(rr, geo.Point{Lat: p[1], Lng: p[0]}) }
        rings = append(rings, rr)
    }
    ds.areas = append(ds.areas, didArea{
        name:     name,
        rings:    rings,
        bbox:     geo.ComputeBBox(rings[0]),
        centroid: geo.RingCentroid(rings[0]),
    })
}

// lookup：ロード済みデータセットに対する PIP 走査
func (ds *dataset) lookup(pt geo.Point, pref string) Verdict {
    for i := range ds.areas {
        a := &ds.areas[i]
        if !geo.InBBox(pt, a.bbox) { continue }
        if geo.PointInPolygon(pt, a.rings) {
            c := a.centroid
            return Verdict{IsDID: true, AreaName: a.name, Centroid: &c, Prefecture: pref}
        }
    }
    return Verdict{Prefecture: pref}
}

// 文档注释：一座標の DID 判定（必要ならロードして待つ）
// 背景：Unresolved → PrefectureIdentified → DatasetLoading → {Resolved | FallbackSafe} の状態遷移；
//       Redis が設定されていれば量子化キーで判定結果をミラーする（データ源にはしない）。
func (r *Resolver) CheckPoint(ctx context.Context, lat, lng float64) Verdict {
    if r.rc != nil {
        key := fmt.Sprintf("did:%.3f:%.3f", lat, lng)
        if s, _ := r.rc.Get(ctx, key).Result(); s != "" {
            var v Verdict
            if json.Unmarshal([]byte(s), &v) == nil {
                metrics.RedisHitsTotal.Inc()
                return v
            }
        }
        metrics.RedisMissesTotal.Inc()
    }
    pref, ok := IdentifyPrefecture(lat, lng)
    if !ok {
        r.log.Debug("did_prefecture_unresolved", "lat", lat, "lng", lng)
        return Verdict{}
    }
    ds, ok := r.load(ctx, pref.Code)
    if !ok { return Verdict{Prefecture: pref.Code} }
    v := ds.lookup(geo.Point{Lat: lat, Lng: lng}, pref.Code)
    if r.rc != nil {
        b, _ := json.Marshal(v)
        _ = r.rc.Set(ctx, fmt.Sprintf("did:%.3f:%.3f", lat, lng), string(b), time.Hour).Err()
    }
    return v
}

// CheckSync：キャッシュのみの同期判定
// 背景：フレーム内 UI 判定や最適化の内側ループはブロック不可；未ロード県は安全側 false を返す。
func (r *Resolver) CheckSync(lat, lng float64) Verdict {
    pref, ok := IdentifyPrefecture(lat, lng)
    if !ok { return Verdict{} }
    ds, ok := r.cached(pref.Code)
    if !ok { return Verdict{Prefecture: pref.Code} }
    return ds.lookup(geo.Point{Lat: lat, Lng: lng}, pref.Code)
}

// 文档注释：多点の事前ロード（上限付き並行）
// 背景：点ごとの逐次 await は並行性ゼロの足かせになるため、必要県集合を先に解決して
//       まとめて取得するのが唯一の複数点入口；個別の取得失敗は安全側に落ちるだけでエラーにしない。
func (r *Resolver) Preload(ctx context.Context, pts []geo.Point) error {
    need := map[string]bool{}
    for _, p := range pts {
        if pref, ok := IdentifyPrefecture(p.Lat, p.Lng); ok {
            if _, loaded := r.cached(pref.Code); !loaded { need[pref.Code] = true }
        }
    }
    if len(need) == 0 { return nil }
    g, ctx := errgroup.WithContext(ctx)
    g.SetLimit(r.limit)
    for code := range need {
        code := code
        g.Go(func() error {
            r.load(ctx, code)
            return ctx.Err()
        })
    }
    return g.Wait()
}

// Clear：全クリア（負キャッシュ含む）；県単位の追い出しは提供しない
func (r *Resolver) Clear() {
    r.mu.Lock()
    r.cache = map[string]*dataset{}
    r.failed = map[string]bool{}
    r.mu.Unlock()
    r.log.Info("did_cache_cleared")
}

// LoadedPrefectures：統計用の読み取りビュー
func (r *Resolver) LoadedPrefectures() []string {
    r.mu.RLock()
    defer r.mu.RUnlock()
    out := make([]string, 0, len(r.cache))
    for k := range r.cache { out = append(out, k) }
    return out
}
