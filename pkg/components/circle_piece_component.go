package components

import (
	"image/color"
)

// PieceSymbol 音符内容层绘制的符号
type PieceSymbol int

const (
	// SymbolNone 无符号（连打）
	SymbolNone PieceSymbol = iota
	// SymbolCentre 咚：白色实心内圆
	SymbolCentre
	// SymbolRim 咔：白色空心圆环
	SymbolRim
)

// String 返回符号名称（用于日志）
func (s PieceSymbol) String() string {
	switch s {
	case SymbolCentre:
		return "centre"
	case SymbolRim:
		return "rim"
	default:
		return "none"
	}
}

// Padding 内容层左右内边距
type Padding struct {
	Left  float64
	Right float64
}

// CirclePieceComponent 音符块组件
//
// 音符由四层组成，按顺序绘制：
//   - 外发光（Glow）
//   - 背景：强调色填充 + 三角形图案，裁剪为音符形状
//   - 外环：白色边框，内部透明
//   - 内容：符号，按 ContentScale 缩放并在 ContentPadding 内居中
//
// 宽度不等于高度时音符呈胶囊形（两端为半圆），见 ElongatedSizing。
type CirclePieceComponent struct {
	// BaseSize 普通音符的边长
	BaseSize float64

	// StrongScale 大音符放大倍数（构造时记录）
	StrongScale float64

	// IsStrong 是否为大音符
	IsStrong bool

	// Width/Height 当前绘制尺寸
	Width  float64
	Height float64

	// ContentScale 内容层缩放
	ContentScale float64

	// ContentPadding 内容层左右内边距
	ContentPadding Padding

	// Style 当前样式，只能通过 ApplyStyle 修改
	Style PieceStyle

	// GlowRadii 外发光两档半径
	GlowRadii GlowRadii

	// Glow 当前外发光效果，恒等于 ResolveGlow(Style, GlowRadii)
	Glow GlowEffect

	// BackgroundColour 背景层填充色，恒等于 Style.AccentColour
	BackgroundColour color.RGBA

	// RingThickness 外环厚度
	RingThickness float64

	// Symbol 内容层符号
	Symbol PieceSymbol

	// Sizing 每帧尺寸策略
	Sizing SizingStrategy
}

// NewCirclePieceComponent 创建音符块组件
//
// 大音符的整体尺寸按 strongScale 放大；内容缩放由尺寸策略决定
// （FixedSizing 同样放大，ElongatedSizing 保持 1）。
// sizing 为 nil 时使用 FixedSizing。
func NewCirclePieceComponent(baseSize, strongScale float64, isStrong bool, sizing SizingStrategy) *CirclePieceComponent {
	if sizing == nil {
		sizing = FixedSizing{}
	}

	size := baseSize
	if isStrong {
		size *= strongScale
	}

	p := &CirclePieceComponent{
		BaseSize:     baseSize,
		StrongScale:  strongScale,
		IsStrong:     isStrong,
		Width:        size,
		Height:       size,
		ContentScale: sizing.ContentScale(isStrong, strongScale),
		GlowRadii:    DefaultGlowRadii,
		Sizing:       sizing,
	}
	p.ApplyStyle(PieceStyle{AccentColour: color.RGBA{A: 0xff}})
	return p
}

// ApplyStyle 应用样式并重算背景色和外发光
func (p *CirclePieceComponent) ApplyStyle(style PieceStyle) {
	p.Style = style
	p.BackgroundColour = style.AccentColour
	p.Glow = ResolveGlow(style, p.GlowRadii)
}

// SetGlowRadii 替换外发光半径并立即重算
func (p *CirclePieceComponent) SetGlowRadii(radii GlowRadii) {
	p.GlowRadii = radii
	p.ApplyStyle(p.Style)
}

// ContentBounds 返回内容层相对音符左上角的矩形区域 (x, y, w, h)
func (p *CirclePieceComponent) ContentBounds() (x, y, w, h float64) {
	x = p.ContentPadding.Left
	w = p.Width - p.ContentPadding.Left - p.ContentPadding.Right
	if w < 0 {
		w = 0
	}
	return x, 0, w, p.Height
}
