//go:build !mobile

package utils

import (
	"os"
	"strconv"
)

// MobileEmulateEnv 桌面端模拟触屏操作的环境变量
// 值按 strconv.ParseBool 解析，无法解析时视为关闭
const MobileEmulateEnv = "TAIKO_MOBILE_EMULATE"

// IsMobile 是否按触屏设备处理输入提示
// 桌面构建默认用键盘操作说明，设置 MobileEmulateEnv 后切换到点击说明
func IsMobile() bool {
	enabled, err := strconv.ParseBool(os.Getenv(MobileEmulateEnv))
	return err == nil && enabled
}
