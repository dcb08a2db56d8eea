package entity

import "fmt"

// IntimacyLevel 由进度值推导出的亲密度视图
type IntimacyLevel struct {
	Level    int    `json:"level"`
	Name     string `json:"name"`
	Min      int    `json:"min"`
	Progress int    `json:"progress"`
}

// intimacyTiers 等级表，按 Min 升序排列
var intimacyTiers = []IntimacyLevel{
	{Level: 1, Name: "渡劫道友", Min: 0},
	{Level: 2, Name: "有缘人", Min: 21},
	{Level: 3, Name: "道仙常客", Min: 41},
	{Level: 4, Name: "道仙金主", Min: 61},
	{Level: 5, Name: "尧金的主人", Min: 81},
}

// IntimacyFromProgress 把进度值映射为亲密度等级。
// progress 被钳制在 [0,100]，取 Min 不超过 progress 的最高档。
func IntimacyFromProgress(progress int) IntimacyLevel {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	tier := intimacyTiers[0]
	for _, t := range intimacyTiers {
		if progress >= t.Min {
			tier = t
		}
	}
	tier.Progress = progress
	return tier
}

// IntimacyTracker 跟踪一次会话内的等级变化，升级穿越档位时各产生一次通知。
// 等级只升不降：进度回落不触发任何事件。
type IntimacyTracker struct {
	highest int
}

// NewIntimacyTracker 从初始进度建立跟踪器
func NewIntimacyTracker(progress int) *IntimacyTracker {
	return &IntimacyTracker{highest: IntimacyFromProgress(progress).Level}
}

// Advance 更新进度，若向上穿越档位则返回通知文案，否则返回空串。
func (t *IntimacyTracker) Advance(progress int) string {
	lv := IntimacyFromProgress(progress)
	if lv.Level <= t.highest {
		return ""
	}
	t.highest = lv.Level
	return fmt.Sprintf("与尧金的亲密度已提升至: %d级 - %s", lv.Level, lv.Name)
}
