package config

import (
	"fmt"
	"image/color"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// 音符块（CirclePiece）默认参数
// 数值取自 osu!taiko 的圆形音符定义
const (
	// CircleRadius 普通音符的半径（像素）
	CircleRadius = 42.0

	// CircleBaseSize 普通音符的基础边长（直径）
	CircleBaseSize = CircleRadius * 2

	// StrongScale 大音符（strong）相对普通音符的放大倍数
	// 同时作用于整体尺寸和内容缩放
	StrongScale = 1.5

	// GlowRadiusCalm 非 Kiai 模式下的外发光半径
	GlowRadiusCalm = 8.0

	// GlowRadiusKiai Kiai 模式下的外发光半径
	GlowRadiusKiai = 50.0

	// RingThickness 白色外环的边框厚度（像素）
	RingThickness = 8.0

	// SymbolSizeFactor 中心符号直径占音符直径的比例
	SymbolSizeFactor = 0.45

	// SymbolSize 中心符号的直径
	SymbolSize = CircleBaseSize * SymbolSizeFactor

	// SymbolBorder 中心符号边框厚度
	SymbolBorder = 8.0

	// SymbolInnerSize 中心符号内圆直径
	SymbolInnerSize = SymbolSize - 2*SymbolBorder

	// TriangleDarken 三角形背景暗色相对白色的变暗量
	TriangleDarken = 0.1
)

// PieceConfig 音符块外观配置
//
// 配置文件位置: data/piece_config.yaml
// 未在文件中出现的字段保留 DefaultPieceConfig 中的默认值。
type PieceConfig struct {
	// CircleRadius 普通音符半径
	CircleRadius float64 `yaml:"circleRadius"`

	// StrongScale 大音符放大倍数
	StrongScale float64 `yaml:"strongScale"`

	// RingThickness 外环厚度
	RingThickness float64 `yaml:"ringThickness"`

	// Glow 外发光半径配置
	Glow GlowConfig `yaml:"glow"`

	// Triangles 背景三角形图案配置
	Triangles TrianglesConfig `yaml:"triangles"`

	// Colours 各类音符的默认强调色（十六进制，如 "#bb1177"）
	Colours ColourConfig `yaml:"colours"`
}

// GlowConfig 外发光配置
type GlowConfig struct {
	Calm float64 `yaml:"calm"` // 普通模式半径
	Kiai float64 `yaml:"kiai"` // Kiai 模式半径
}

// TrianglesConfig 背景三角形图案配置
type TrianglesConfig struct {
	Count    int     `yaml:"count"`    // 每个音符的三角形数量
	Speed    float64 `yaml:"speed"`    // 上升速度（音符高度/秒）
	MinScale float64 `yaml:"minScale"` // 最小尺寸（相对音符高度）
	MaxScale float64 `yaml:"maxScale"` // 最大尺寸（相对音符高度）
	Darken   float64 `yaml:"darken"`   // 暗色三角形的变暗量
}

// ColourConfig 音符强调色配置
type ColourConfig struct {
	Centre   string `yaml:"centre"`   // 咚（中心）
	Rim      string `yaml:"rim"`      // 咔（鼓边）
	DrumRoll string `yaml:"drumRoll"` // 连打
}

// DefaultPieceConfig 返回默认音符块配置
func DefaultPieceConfig() *PieceConfig {
	return &PieceConfig{
		CircleRadius:  CircleRadius,
		StrongScale:   StrongScale,
		RingThickness: RingThickness,
		Glow: GlowConfig{
			Calm: GlowRadiusCalm,
			Kiai: GlowRadiusKiai,
		},
		Triangles: TrianglesConfig{
			Count:    10,
			Speed:    0.25,
			MinScale: 0.15,
			MaxScale: 0.45,
			Darken:   TriangleDarken,
		},
		Colours: ColourConfig{
			Centre:   "#bb1177",
			Rim:      "#2299bb",
			DrumRoll: "#eeaa00",
		},
	}
}

// BaseSize 返回普通音符的边长
func (c *PieceConfig) BaseSize() float64 {
	return c.CircleRadius * 2
}

// LoadPieceConfig 从文件加载音符块配置
func LoadPieceConfig(path string) (*PieceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read piece config: %w", err)
	}
	return ParsePieceConfig(data)
}

// ParsePieceConfig 解析 YAML 格式的音符块配置
// 用于从嵌入资源（embedded.ReadFile）加载
func ParsePieceConfig(data []byte) (*PieceConfig, error) {
	config := DefaultPieceConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse piece config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid piece config: %w", err)
	}

	return config, nil
}

// Validate 验证配置有效性
func (c *PieceConfig) Validate() error {
	if c.CircleRadius <= 0 {
		return fmt.Errorf("circleRadius must be > 0, got %.2f", c.CircleRadius)
	}
	if c.StrongScale < 1 {
		return fmt.Errorf("strongScale must be >= 1, got %.2f", c.StrongScale)
	}
	if c.RingThickness < 0 || c.RingThickness > c.CircleRadius {
		return fmt.Errorf("ringThickness must be within [0, circleRadius], got %.2f", c.RingThickness)
	}
	if c.Glow.Calm < 0 || c.Glow.Kiai < 0 {
		return fmt.Errorf("glow radii must be >= 0, got calm=%.2f kiai=%.2f", c.Glow.Calm, c.Glow.Kiai)
	}
	if c.Triangles.Count < 0 {
		return fmt.Errorf("triangles.count must be >= 0, got %d", c.Triangles.Count)
	}
	if c.Triangles.MinScale <= 0 || c.Triangles.MinScale > c.Triangles.MaxScale {
		return fmt.Errorf("triangles scale range invalid: min(%.2f) max(%.2f)",
			c.Triangles.MinScale, c.Triangles.MaxScale)
	}
	if c.Triangles.Darken < 0 || c.Triangles.Darken >= 1 {
		return fmt.Errorf("triangles.darken must be within [0, 1), got %.2f", c.Triangles.Darken)
	}

	for name, hex := range map[string]string{
		"centre":   c.Colours.Centre,
		"rim":      c.Colours.Rim,
		"drumRoll": c.Colours.DrumRoll,
	} {
		if _, err := ParseHexColour(hex); err != nil {
			return fmt.Errorf("colours.%s: %w", name, err)
		}
	}

	return nil
}

// ParseHexColour 将 "#rrggbb" 形式的字符串解析为不透明 RGBA 颜色
func ParseHexColour(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// FormatHexColour 将颜色格式化为 "#rrggbb"（忽略透明度）
func FormatHexColour(c color.RGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// AccentColours 各类音符的强调色
type AccentColours struct {
	Centre   color.RGBA
	Rim      color.RGBA
	DrumRoll color.RGBA
}

// For 返回指定音符类型的强调色，未知类型返回咚的颜色
func (a AccentColours) For(t HitObjectType) color.RGBA {
	switch t {
	case HitObjectRim:
		return a.Rim
	case HitObjectDrumRoll:
		return a.DrumRoll
	default:
		return a.Centre
	}
}

// AccentColours 解析配置中的强调色
func (c *PieceConfig) AccentColours() (AccentColours, error) {
	var out AccentColours
	var err error
	if out.Centre, err = ParseHexColour(c.Colours.Centre); err != nil {
		return AccentColours{}, fmt.Errorf("colours.centre: %w", err)
	}
	if out.Rim, err = ParseHexColour(c.Colours.Rim); err != nil {
		return AccentColours{}, fmt.Errorf("colours.rim: %w", err)
	}
	if out.DrumRoll, err = ParseHexColour(c.Colours.DrumRoll); err != nil {
		return AccentColours{}, fmt.Errorf("colours.drumRoll: %w", err)
	}
	return out, nil
}
