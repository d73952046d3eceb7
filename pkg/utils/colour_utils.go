package utils

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// 颜色工具函数
//
// 基于 go-colorful 在 HSL / RGB 空间中处理颜色，
// 统一使用不透明度独立的 color.RGBA（非预乘）。

// toColorful 将 RGBA 转换为 colorful.Color（忽略透明度）
func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// fromColorful 将 colorful.Color 转换回 RGBA 并附加透明度
func fromColorful(c colorful.Color, alpha uint8) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}
}

// DarkenColour 按 amount 降低颜色亮度
// HSL 亮度除以 (1 + amount)，amount = 0 时颜色不变
func DarkenColour(c color.RGBA, amount float64) color.RGBA {
	if amount <= 0 {
		return c
	}
	h, s, l := toColorful(c).Hsl()
	return fromColorful(colorful.Hsl(h, s, l/(1+amount)), c.A)
}

// LerpColour 在 a 与 b 之间线性插值，t 限制在 [0, 1]
// 透明度同样插值
func LerpColour(a, b color.RGBA, t float64) color.RGBA {
	t = ClampUnit(t)
	mixed := toColorful(a).BlendRgb(toColorful(b), t)
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return fromColorful(mixed, uint8(alpha+0.5))
}

// MultiplyColour 按通道相乘（用于把白色图案染成强调色）
func MultiplyColour(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(a.R) * uint16(b.R) / 255),
		G: uint8(uint16(a.G) * uint16(b.G) / 255),
		B: uint8(uint16(a.B) * uint16(b.B) / 255),
		A: uint8(uint16(a.A) * uint16(b.A) / 255),
	}
}

// WithAlpha 返回按 alpha 缩放透明度后的颜色
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	c.A = uint8(float64(c.A)*ClampUnit(alpha) + 0.5)
	return c
}

// ClampUnit 将值限制在 [0, 1]
func ClampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RotateHue 在 HSL 空间中旋转色相，degrees 可为负数
func RotateHue(c color.RGBA, degrees float64) color.RGBA {
	h, s, l := toColorful(c).Hsl()
	h = math.Mod(h+degrees, 360)
	if h < 0 {
		h += 360
	}
	return fromColorful(colorful.Hsl(h, s, l), c.A)
}
