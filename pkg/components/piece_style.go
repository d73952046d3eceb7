package components

import (
	"image/color"

	"github.com/decker502/taiko/pkg/config"
)

// PieceStyle 音符块的可变外观状态
//
// 强调色和 Kiai 模式是两个互相独立的维度，任意一个变化都会触发同一个
// 外发光重算（见 ResolveGlow）。
type PieceStyle struct {
	// AccentColour 内圆和外发光的颜色
	AccentColour color.RGBA

	// KiaiMode 是否启用 Kiai 外发光效果
	KiaiMode bool
}

// WithAccentColour 返回替换了强调色的新样式
func (s PieceStyle) WithAccentColour(c color.RGBA) PieceStyle {
	s.AccentColour = c
	return s
}

// WithKiaiMode 返回替换了 Kiai 模式的新样式
func (s PieceStyle) WithKiaiMode(kiai bool) PieceStyle {
	s.KiaiMode = kiai
	return s
}

// GlowEffect 背景层的外发光效果
type GlowEffect struct {
	Colour color.RGBA
	Radius float64
}

// GlowRadii 外发光的两档半径
type GlowRadii struct {
	Calm float64 // 普通模式
	Kiai float64 // Kiai 模式
}

// DefaultGlowRadii 默认外发光半径（8 / 50）
var DefaultGlowRadii = GlowRadii{
	Calm: config.GlowRadiusCalm,
	Kiai: config.GlowRadiusKiai,
}

// ResolveGlow 根据样式计算外发光效果
//
// 纯函数：结果只取决于当前样式，与样式的变化历史无关。
func ResolveGlow(style PieceStyle, radii GlowRadii) GlowEffect {
	radius := radii.Calm
	if style.KiaiMode {
		radius = radii.Kiai
	}
	return GlowEffect{
		Colour: style.AccentColour,
		Radius: radius,
	}
}
