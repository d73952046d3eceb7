package components

// PositionComponent 实体的屏幕坐标
// 对音符块而言是胶囊左侧半圆的圆心（即判定时与判定点对齐的点）
type PositionComponent struct {
	X float64
	Y float64
}
