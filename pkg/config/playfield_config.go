package config

// 窗口与判定区布局常量
const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 1024

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 576

	// PlayfieldX 判定区左上角X坐标
	PlayfieldX = 0.0

	// PlayfieldY 判定区左上角Y坐标
	PlayfieldY = 160.0

	// PlayfieldHeight 判定区高度
	// 需要能容纳大音符（CircleBaseSize * StrongScale = 126）
	PlayfieldHeight = 168.0

	// HitPositionX 判定点相对判定区左边缘的X偏移
	// 音符中心在 StartTime 时刻恰好经过此处
	HitPositionX = 200.0

	// DefaultScrollTime 音符从判定区右边缘滚动到判定点的默认耗时（毫秒）
	DefaultScrollTime = 2500.0

	// SpawnLeadTime 在音符进入可见区域之前提前创建实体的时间余量（毫秒）
	SpawnLeadTime = 200.0
)
