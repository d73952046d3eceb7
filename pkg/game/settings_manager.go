package game

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/taiko/pkg/config"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// SkinSettings 皮肤设置
// 颜色字段为空时使用外观配置中的默认颜色
type SkinSettings struct {
	// 强调色覆盖（#rrggbb）
	CentreColour   string `yaml:"centreColour,omitempty"`
	RimColour      string `yaml:"rimColour,omitempty"`
	DrumRollColour string `yaml:"drumRollColour,omitempty"`

	// KiaiOverride 启动时强制 Kiai
	KiaiOverride bool `yaml:"kiaiOverride"`

	// Fullscreen 启动时是否全屏
	Fullscreen bool `yaml:"fullscreen"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *SkinSettings {
	return &SkinSettings{}
}

// SettingsManager 设置管理器
// 负责皮肤设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *SkinSettings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "skin"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Load 从 gdata 加载设置
//
// gdataManager 为 nil 或数据不存在时使用默认设置。
// 颜色格式无效时同样回退到默认设置并返回错误。
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loaded SkinSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("invalid settings: %w", err)
	}

	sm.settings = &loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
// gdataManager 为 nil 时不做任何事
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *SkinSettings {
	return sm.settings
}

// SetAccentColour 覆盖某类音符的强调色
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetAccentColour(t config.HitObjectType, c color.RGBA) error {
	hex := config.FormatHexColour(c)
	switch t {
	case config.HitObjectCentre:
		sm.settings.CentreColour = hex
	case config.HitObjectRim:
		sm.settings.RimColour = hex
	case config.HitObjectDrumRoll:
		sm.settings.DrumRollColour = hex
	default:
		return fmt.Errorf("unknown hit object type %q", t)
	}
	return nil
}

// ResetColours 清除所有颜色覆盖
func (sm *SettingsManager) ResetColours() {
	sm.settings.CentreColour = ""
	sm.settings.RimColour = ""
	sm.settings.DrumRollColour = ""
}

// SetKiaiOverride 设置强制 Kiai
func (sm *SettingsManager) SetKiaiOverride(enabled bool) {
	sm.settings.KiaiOverride = enabled
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// ResolveColours 将颜色覆盖叠加到基础颜色上
//
// 参数：
//   - base: 外观配置中的默认强调色
//
// 返回：
//   - config.AccentColours: 最终使用的强调色
//   - error: 覆盖颜色格式无效时返回错误
func (sm *SettingsManager) ResolveColours(base config.AccentColours) (config.AccentColours, error) {
	result := base
	overrides := []struct {
		hex string
		dst *color.RGBA
	}{
		{sm.settings.CentreColour, &result.Centre},
		{sm.settings.RimColour, &result.Rim},
		{sm.settings.DrumRollColour, &result.DrumRoll},
	}

	for _, o := range overrides {
		if o.hex == "" {
			continue
		}
		c, err := config.ParseHexColour(o.hex)
		if err != nil {
			return base, err
		}
		*o.dst = c
	}
	return result, nil
}

// Validate 检查颜色覆盖格式
func (s *SkinSettings) Validate() error {
	for name, hex := range map[string]string{
		"centreColour":   s.CentreColour,
		"rimColour":      s.RimColour,
		"drumRollColour": s.DrumRollColour,
	} {
		if hex == "" {
			continue
		}
		if _, err := config.ParseHexColour(hex); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
