//go:build mobile

package utils

// IsMobile 移动端构建只有触屏输入，HUD 显示点击区域说明
func IsMobile() bool {
	return true
}
