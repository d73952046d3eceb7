//go:build !android

package utils

// EnsureStorageDir 皮肤设置目录由 gdata 在首次保存时创建，这里无需处理
func EnsureStorageDir() error {
	return nil
}

// GetStoragePath 桌面端的设置位置由 gdata 决定，返回空字符串表示不记录日志
func GetStoragePath() string {
	return ""
}
