package airspace

import "flight-api/internal/geo"

// 文档注释：静态参照数据（主要空港・禁止区域・基地・ヘリポート）
// 背景：与人口集中地区不同，禁飞圈数量有限且变化缓慢，作为常量随二进制发布；
//       半径为保守外包值，机场的精确范围由障碍制限表面另行给出。
// 约束：运行期只读；更新走发版流程而非热加载。
var DefaultZones = []Zone{
	// 空港周辺（airport / high）
	{Name: "東京国際空港", Center: geo.Point{Lat: 35.5494, Lng: 139.7798}, RadiusM: 9000, Kind: "airport", Severity: "high"},
	{Name: "成田国際空港", Center: geo.Point{Lat: 35.7720, Lng: 140.3929}, RadiusM: 9000, Kind: "airport", Severity: "high"},
	{Name: "大阪国際空港", Center: geo.Point{Lat: 34.7855, Lng: 135.4382}, RadiusM: 9000, Kind: "airport", Severity: "high"},
	{Name: "関西国際空港", Center: geo.Point{Lat: 34.4347, Lng: 135.2441}, RadiusM: 9000, Kind: "airport", Severity: "high"},
	{Name: "中部国際空港", Center: geo.Point{Lat: 34.8584, Lng: 136.8054}, RadiusM: 9000, Kind: "airport", Severity: "high"},
	{Name: "新千歳空港", Center: geo.Point{Lat: 42.7752, Lng: 141.6923}, RadiusM: 9000, Kind: "airport", Severity: "high"},
	{Name: "福岡空港", Center: geo.Point{Lat: 33.5859, Lng: 130.4508}, RadiusM: 9000, Kind: "airport", Severity: "high"},
	{Name: "那覇空港", Center: geo.Point{Lat: 26.1958, Lng: 127.6459}, RadiusM: 9000, Kind: "airport", Severity: "high"},
	{Name: "仙台空港", Center: geo.Point{Lat: 38.1397, Lng: 140.9170}, RadiusM: 6000, Kind: "airport", Severity: "high"},
	{Name: "広島空港", Center: geo.Point{Lat: 34.4361, Lng: 132.9195}, RadiusM: 6000, Kind: "airport", Severity: "high"},

	// 飛行禁止区域（prohibited / critical）
	{Name: "皇居", Center: geo.Point{Lat: 35.6852, Lng: 139.7528}, RadiusM: 1500, Kind: "prohibited", Severity: "critical"},
	{Name: "国会議事堂", Center: geo.Point{Lat: 35.6758, Lng: 139.7446}, RadiusM: 1000, Kind: "prohibited", Severity: "critical"},
	{Name: "首相官邸", Center: geo.Point{Lat: 35.6732, Lng: 139.7430}, RadiusM: 1000, Kind: "prohibited", Severity: "critical"},
	{Name: "最高裁判所", Center: geo.Point{Lat: 35.6804, Lng: 139.7430}, RadiusM: 800, Kind: "prohibited", Severity: "critical"},
	{Name: "福島第一原子力発電所", Center: geo.Point{Lat: 37.4213, Lng: 141.0325}, RadiusM: 5000, Kind: "prohibited", Severity: "critical"},
	{Name: "柏崎刈羽原子力発電所", Center: geo.Point{Lat: 37.4285, Lng: 138.5983}, RadiusM: 5000, Kind: "prohibited", Severity: "critical"},

	// 基地周辺（military / high）
	{Name: "横田基地", Center: geo.Point{Lat: 35.7486, Lng: 139.3486}, RadiusM: 5000, Kind: "military", Severity: "high"},
	{Name: "厚木基地", Center: geo.Point{Lat: 35.4547, Lng: 139.4500}, RadiusM: 5000, Kind: "military", Severity: "high"},
	{Name: "嘉手納基地", Center: geo.Point{Lat: 26.3516, Lng: 127.7695}, RadiusM: 5000, Kind: "military", Severity: "high"},
	{Name: "三沢基地", Center: geo.Point{Lat: 40.7032, Lng: 141.3686}, RadiusM: 5000, Kind: "military", Severity: "high"},

	// ヘリポート（airport / medium、小半径）
	{Name: "東京ヘリポート", Center: geo.Point{Lat: 35.6367, Lng: 139.8418}, RadiusM: 3000, Kind: "airport", Severity: "medium"},
	{Name: "大阪ヘリポート", Center: geo.Point{Lat: 34.6640, Lng: 135.4693}, RadiusM: 3000, Kind: "airport", Severity: "medium"},
}

// 文档注释：障碍制限表面（精确多边形）
// 背景：羽田・成田の進入表面は海側へ大きく張り出す一方、市街地側は円より狭い；
//       圆内但表面外的点应解除机场判定，避免过度保守。
var DefaultSurfaces = []Surface{
	{
		Airport: "東京国際空港",
		// 滑走路群を含み、東京湾側に延びる八角形近似
		Ring: []geo.Point{
			{Lat: 35.5250, Lng: 139.7450},
			{Lat: 35.5050, Lng: 139.7800},
			{Lat: 35.5150, Lng: 139.8450},
			{Lat: 35.5500, Lng: 139.8800},
			{Lat: 35.5900, Lng: 139.8600},
			{Lat: 35.6000, Lng: 139.8000},
			{Lat: 35.5800, Lng: 139.7500},
			{Lat: 35.5500, Lng: 139.7350},
			{Lat: 35.5250, Lng: 139.7450},
		},
	},
	{
		Airport: "成田国際空港",
		Ring: []geo.Point{
			{Lat: 35.7300, Lng: 140.3500},
			{Lat: 35.7200, Lng: 140.4100},
			{Lat: 35.7700, Lng: 140.4500},
			{Lat: 35.8250, Lng: 140.4300},
			{Lat: 35.8300, Lng: 140.3600},
			{Lat: 35.7800, Lng: 140.3300},
			{Lat: 35.7300, Lng: 140.3500},
		},
	},
}
