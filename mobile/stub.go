//go:build !mobile

// stub.go - 桌面端构建时的占位文件
//
// 移动端入口（mobile.go、embed.go）只在 -tags mobile 时编译，
// 普通构建 ./... 时本包只包含此文件。
package mobile

// Dummy 空导出函数，保证包在桌面端构建时非空
func Dummy() {}
