package api

import (
	"flight-api/internal/analyzer"
	"flight-api/internal/geo"
	"flight-api/internal/route"
)

// optimizeRequest：航线优化请求
// 约束：homePoint 缺省取首航点；objective 未知名回落 balanced
type optimizeRequest struct {
	Waypoints        []route.Waypoint `json:"waypoints"`
	DroneID          string           `json:"droneId"`
	HomePoint        *geo.Point       `json:"homePoint,omitempty"`
	Algorithm        string           `json:"algorithm,omitempty"`
	Objective        string           `json:"objective,omitempty"`
	CheckRegulations bool             `json:"checkRegulations"`
	AutoSplit        bool             `json:"autoSplit"`
}

// optimizeResponse：优化结果（域内失败也走 200 + success:false）
type optimizeResponse struct {
	Success     bool                `json:"success"`
	Error       string              `json:"error,omitempty"`
	PlanID      string              `json:"planId,omitempty"`
	Result      *route.Result       `json:"result,omitempty"`
	Flights     []route.Flight      `json:"flights,omitempty"`
	Regulations *analyzer.Plan      `json:"regulations,omitempty"`
}

// planRequest：法规分析请求
type planRequest struct {
	Waypoints []route.Waypoint   `json:"waypoints"`
	Settings  *analyzer.Settings `json:"settings,omitempty"`
}

// waypointsRequest：携带航点的请求体（restrictions / path-collision 共用）
// 约束：polygon 仅 restrictions 使用，给出作业区域与禁飞圈的重叠比例
type waypointsRequest struct {
	Waypoints []route.Waypoint `json:"waypoints"`
	Polygon   []geo.Point      `json:"polygon,omitempty"`
}
