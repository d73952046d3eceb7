package components

import (
	"github.com/decker502/taiko/pkg/config"
	"github.com/decker502/taiko/pkg/ecs"
)

// HitObjectComponent 谱面音符
// 由 PlayfieldSystem 根据时间创建，滚出判定区后销毁
type HitObjectComponent struct {
	// StartTime 音符到达判定点的时间（毫秒）
	StartTime float64

	// Duration 持续时间（毫秒，仅连打非零）
	Duration float64

	// Type 音符类型
	Type config.HitObjectType

	// IsStrong 是否为大音符
	IsStrong bool

	// Playfield 所属判定区实体
	Playfield ecs.EntityID
}
