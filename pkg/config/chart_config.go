package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// HitObjectType 谱面中音符的类型字符串
type HitObjectType string

const (
	// HitObjectCentre 咚（鼓面中心）
	HitObjectCentre HitObjectType = "centre"
	// HitObjectRim 咔（鼓边）
	HitObjectRim HitObjectType = "rim"
	// HitObjectDrumRoll 连打（拉长的音符）
	HitObjectDrumRoll HitObjectType = "drumroll"
)

// ChartConfig 谱面配置
//
// 配置文件位置: data/charts/*.yaml
// 所有时间单位为毫秒。
type ChartConfig struct {
	// Title 谱面标题
	Title string `yaml:"title"`

	// ScrollTime 音符从判定区右边缘滚动到判定点的耗时，0 表示使用默认值
	ScrollTime float64 `yaml:"scrollTime"`

	// Kiai Kiai 时段列表
	Kiai []KiaiSection `yaml:"kiai"`

	// HitObjects 音符列表（加载后按 Time 升序排列）
	HitObjects []HitObjectConfig `yaml:"hitObjects"`
}

// KiaiSection Kiai 时段 [Start, End)
type KiaiSection struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// HitObjectConfig 单个音符配置
type HitObjectConfig struct {
	Time     float64       `yaml:"time"`
	Type     HitObjectType `yaml:"type"`
	Strong   bool          `yaml:"strong"`
	Duration float64       `yaml:"duration"` // 仅连打使用
}

// LoadChart 从文件加载谱面
func LoadChart(path string) (*ChartConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart: %w", err)
	}
	return ParseChart(data)
}

// ParseChart 解析 YAML 格式的谱面
func ParseChart(data []byte) (*ChartConfig, error) {
	var chart ChartConfig
	if err := yaml.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse chart: %w", err)
	}

	if chart.ScrollTime == 0 {
		chart.ScrollTime = DefaultScrollTime
	}

	if err := chart.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart: %w", err)
	}

	sort.SliceStable(chart.HitObjects, func(i, j int) bool {
		return chart.HitObjects[i].Time < chart.HitObjects[j].Time
	})

	return &chart, nil
}

// Validate 验证谱面有效性
func (c *ChartConfig) Validate() error {
	if c.ScrollTime <= 0 {
		return fmt.Errorf("scrollTime must be > 0, got %.1f", c.ScrollTime)
	}

	for i, k := range c.Kiai {
		if k.End <= k.Start {
			return fmt.Errorf("kiai[%d]: end(%.1f) must be greater than start(%.1f)", i, k.End, k.Start)
		}
	}

	for i, h := range c.HitObjects {
		if h.Time < 0 {
			return fmt.Errorf("hitObjects[%d]: time must be >= 0, got %.1f", i, h.Time)
		}
		switch h.Type {
		case HitObjectCentre, HitObjectRim:
			if h.Duration != 0 {
				return fmt.Errorf("hitObjects[%d]: %s cannot have a duration", i, h.Type)
			}
		case HitObjectDrumRoll:
			if h.Duration <= 0 {
				return fmt.Errorf("hitObjects[%d]: drumroll duration must be > 0, got %.1f", i, h.Duration)
			}
		default:
			return fmt.Errorf("hitObjects[%d]: unknown type %q", i, h.Type)
		}
	}

	return nil
}

// IsKiaiAt 判断指定时刻是否处于 Kiai 时段
func (c *ChartConfig) IsKiaiAt(time float64) bool {
	for _, k := range c.Kiai {
		if time >= k.Start && time < k.End {
			return true
		}
	}
	return false
}

// EndTime 返回谱面最后一个音符结束的时间
func (c *ChartConfig) EndTime() float64 {
	end := 0.0
	for _, h := range c.HitObjects {
		if t := h.Time + h.Duration; t > end {
			end = t
		}
	}
	return end
}
