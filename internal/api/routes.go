// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"encoding/json"
	"net/http"

	"flight-api/internal/airspace"
	"flight-api/internal/analyzer"
	"flight-api/internal/did"
	"flight-api/internal/drone"
	"flight-api/internal/route"
	"flight-api/internal/store"

	"github.com/google/uuid"
)

// writeJSON：统一响应头与编码
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_ = json.NewEncoder(w).Encode(v)
}

// decode：请求体解析；解析失败是唯一返回 400 的路径，域内失败一律 200 + success:false
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return false
	}
	return true
}

// 构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 /api 前缀
func BuildRoutes(st *store.Store, idx *airspace.Index, opt *route.Optimizer, an *analyzer.Analyzer, res *did.Resolver) *http.ServeMux {
	apiMux := http.NewServeMux()

	apiMux.HandleFunc("POST /optimize", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req optimizeRequest
		if !decode(w, r, &req) {
			return
		}
		prof := drone.ByID(req.DroneID)
		obj := route.ObjectiveByName(req.Objective)
		result, err := opt.Optimize(ctx, req.Waypoints, prof, obj, req.Algorithm)
		if err != nil {
			writeJSON(w, optimizeResponse{Success: false, Error: err.Error()})
			return
		}
		resp := optimizeResponse{Success: true, PlanID: uuid.NewString(), Result: result}
		if req.AutoSplit {
			home := result.Order[0].Pos()
			if req.HomePoint != nil {
				home = *req.HomePoint
			}
			resp.Flights = route.SplitFlights(result.Order, home, prof, idx, nil)
		}
		if req.CheckRegulations {
			resp.Regulations = an.GeneratePlan(ctx, result.Order, analyzer.DefaultSettings())
		}
		st.Incr(ctx)
		writeJSON(w, resp)
	})

	apiMux.HandleFunc("POST /plan", func(w http.ResponseWriter, r *http.Request) {
		var req planRequest
		if !decode(w, r, &req) {
			return
		}
		set := analyzer.DefaultSettings()
		if req.Settings != nil {
			set = *req.Settings
		}
		writeJSON(w, an.GeneratePlan(r.Context(), req.Waypoints, set))
	})

	apiMux.HandleFunc("POST /restrictions", func(w http.ResponseWriter, r *http.Request) {
		var req waypointsRequest
		if !decode(w, r, &req) {
			return
		}
		out := map[string]any{"success": true, "results": an.CheckAllRestrictions(req.Waypoints)}
		if len(req.Polygon) >= 3 {
			out["area"] = idx.QueryPolygon(req.Polygon)
		}
		writeJSON(w, out)
	})

	apiMux.HandleFunc("POST /path-collision", func(w http.ResponseWriter, r *http.Request) {
		var req waypointsRequest
		if !decode(w, r, &req) {
			return
		}
		writeJSON(w, an.CheckFlightPath(req.Waypoints))
	})

	apiMux.HandleFunc("GET /drones", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"drones": drone.Catalog})
	})

	apiMux.HandleFunc("GET /objectives", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"objectives": route.Objectives})
	})

	apiMux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		t := st.GetTotals()
		writeJSON(w, map[string]any{
			"total":             t.Total,
			"today":             t.Today,
			"loadedPrefectures": res.LoadedPrefectures(),
		})
	})

	return apiMux
}
