package components

import "image/color"

// Triangle 背景图案中的单个三角形
// 坐标相对音符背景区域归一化到 [0, 1]
type Triangle struct {
	X     float64 // 中心X（相对宽度）
	Y     float64 // 中心Y（相对高度）
	Scale float64 // 边长（相对高度）
	Shade float64 // 0 = 亮色，1 = 暗色
}

// TrianglesComponent 背景三角形图案
//
// 三角形以 Speed 向上漂移，完全移出顶部后从底部重新出现。
// 绘制时按 Shade 在 ColourLight 和 ColourDark 之间插值，
// 再乘上音符强调色，整体裁剪为音符形状。
type TrianglesComponent struct {
	Triangles []Triangle

	// ColourLight 亮色（白色）
	ColourLight color.RGBA

	// ColourDark 暗色（白色变暗 0.1）
	ColourDark color.RGBA

	// Speed 上升速度（音符高度/秒）
	Speed float64

	// MinScale/MaxScale 重生时的尺寸范围
	MinScale float64
	MaxScale float64

	// Alpha 图案整体透明度
	Alpha float64
}
