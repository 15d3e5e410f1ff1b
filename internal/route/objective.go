package route

// Objective：四目标权重（距离・时间・电量・风险）
// 约束：四项权重之和应为 1；偏离时按原值使用不做归一化
type Objective struct {
	Distance float64 `json:"distance"`
	Time     float64 `json:"time"`
	Battery  float64 `json:"battery"`
	Risk     float64 `json:"risk"`
}

// 文档注释：内置目标预设
// 背景：balanced 是缺省；其余预设把单一目标权重提到 0.7，剩余三项平分 0.3。
var Objectives = map[string]Objective{
	"balanced":          {Distance: 0.25, Time: 0.25, Battery: 0.25, Risk: 0.25},
	"shortest-distance": {Distance: 0.7, Time: 0.1, Battery: 0.1, Risk: 0.1},
	"fastest-time":      {Distance: 0.1, Time: 0.7, Battery: 0.1, Risk: 0.1},
	"safest":            {Distance: 0.1, Time: 0.1, Battery: 0.1, Risk: 0.7},
	"battery-efficient": {Distance: 0.1, Time: 0.1, Battery: 0.7, Risk: 0.1},
}

// ObjectiveByName：按名取预设；未知名回落到 balanced
func ObjectiveByName(name string) Objective {
	if o, ok := Objectives[name]; ok {
		return o
	}
	return Objectives["balanced"]
}
