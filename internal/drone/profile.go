// 包 drone：机体性能档案
// 背景：分割与电量估算都以机体档案为输入；档案是静态参照数据，随二进制发布。
package drone

// Profile：一种机体的性能参数
// 约束：SafetyMarginRatio 是从总续航中扣除的预留比例（0.2 = 预留 20%）
type Profile struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	CruiseSpeedMps    float64 `json:"cruiseSpeedMps"`
	MaxFlightTimeMin  float64 `json:"maxFlightTimeMin"`
	SafetyMarginRatio float64 `json:"safetyMarginRatio"`
	MaxPayloadKg      float64 `json:"maxPayloadKg"`
	WindResistanceMps float64 `json:"windResistanceMps"`
}

// EffectiveFlightTimeMin：扣除安全预留后的可用续航（分钟）
func (p Profile) EffectiveFlightTimeMin() float64 {
	return p.MaxFlightTimeMin * (1 - p.SafetyMarginRatio)
}

// MaxRangeMeters：可用续航对应的最大航程（米）
func (p Profile) MaxRangeMeters() float64 {
	return p.EffectiveFlightTimeMin() * 60 * p.CruiseSpeedMps
}

// 文档注释：内置机体目录
// 背景：参数取公开规格的巡航值而非极限值；generic 是未指定机体时的保守缺省。
var Catalog = []Profile{
	{ID: "dji-mini-4-pro", Name: "DJI Mini 4 Pro", CruiseSpeedMps: 12, MaxFlightTimeMin: 34, SafetyMarginRatio: 0.2, MaxPayloadKg: 0, WindResistanceMps: 10.7},
	{ID: "dji-mavic-3", Name: "DJI Mavic 3", CruiseSpeedMps: 15, MaxFlightTimeMin: 46, SafetyMarginRatio: 0.2, MaxPayloadKg: 0, WindResistanceMps: 12},
	{ID: "dji-matrice-350", Name: "DJI Matrice 350 RTK", CruiseSpeedMps: 17, MaxFlightTimeMin: 55, SafetyMarginRatio: 0.25, MaxPayloadKg: 2.7, WindResistanceMps: 15},
	{ID: "generic", Name: "汎用機体", CruiseSpeedMps: 10, MaxFlightTimeMin: 25, SafetyMarginRatio: 0.25, MaxPayloadKg: 0.5, WindResistanceMps: 8},
}

// ByID：按 ID 查找；未命中返回 generic 缺省档案
func ByID(id string) Profile {
	for _, p := range Catalog {
		if p.ID == id {
			return p
		}
	}
	return Catalog[len(Catalog)-1]
}
