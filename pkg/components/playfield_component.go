package components

import "github.com/decker502/taiko/pkg/config"

// PlayfieldComponent 判定区（音符滚动的横条）
//
// 判定区是连打音符的参考长度来源：连打的 Length 以滚动长度为单位，
// 因此 ReferenceLength 返回判定点到右边缘的像素距离。
type PlayfieldComponent struct {
	// X/Y/Width/Height 判定区矩形（屏幕坐标）
	X      float64
	Y      float64
	Width  float64
	Height float64

	// HitPositionX 判定点相对左边缘的偏移
	HitPositionX float64

	// ScrollTime 音符滚过 ReferenceLength 所需时间（毫秒）
	ScrollTime float64

	// CurrentTime 当前谱面时间（毫秒）
	CurrentTime float64

	// KiaiMode 当前是否处于 Kiai 时段
	KiaiMode bool

	// KiaiOverride 强制开启 Kiai（演示程序按键切换）
	KiaiOverride bool

	// Chart 正在播放的谱面
	Chart *config.ChartConfig

	// NextHitObject 下一个待创建的音符在 Chart.HitObjects 中的下标
	NextHitObject int
}

// ReferenceLength 判定点到判定区右边缘的距离（像素），nil 时为 0
func (p *PlayfieldComponent) ReferenceLength() float64 {
	if p == nil {
		return 0
	}
	return p.Width - p.HitPositionX
}

// HitPositionScreenX 判定点的屏幕X坐标
func (p *PlayfieldComponent) HitPositionScreenX() float64 {
	return p.X + p.HitPositionX
}

// TimeToX 将音符时间转换为屏幕X坐标
func (p *PlayfieldComponent) TimeToX(time float64) float64 {
	return p.HitPositionScreenX() + (time-p.CurrentTime)/p.ScrollTime*p.ReferenceLength()
}

// CentreY 判定区中线Y坐标
func (p *PlayfieldComponent) CentreY() float64 {
	return p.Y + p.Height/2
}
