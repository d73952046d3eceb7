package utils

import "math"

// 缓动函数
//
// 输入进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 参考：https://easings.net/

// EaseInQuad 二次方缓入
// 公式：f(t) = t²
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseInOutCubic 三次方缓入缓出
// 公式：
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// PingPong 将不断增长的 x 映射为在 [0, 1] 之间往返的进度，周期为 period
func PingPong(x, period float64) float64 {
	if period <= 0 {
		return 0
	}
	phase := math.Mod(x, period) / period
	if phase < 0 {
		phase += 1
	}
	if phase < 0.5 {
		return phase * 2
	}
	return 2 - phase*2
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
