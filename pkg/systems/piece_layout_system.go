package systems

import (
	"github.com/decker502/taiko/pkg/components"
	"github.com/decker502/taiko/pkg/ecs"
)

// PieceLayoutSystem 音符块布局系统
// 每帧执行各音符的尺寸策略（连打根据参考长度重算宽度和内边距）
type PieceLayoutSystem struct {
	entityManager *ecs.EntityManager
}

// NewPieceLayoutSystem 创建布局系统
func NewPieceLayoutSystem(em *ecs.EntityManager) *PieceLayoutSystem {
	return &PieceLayoutSystem{
		entityManager: em,
	}
}

// Update 重算所有音符块的尺寸
// 纯重算，不累积状态，每帧调用多次结果相同
func (s *PieceLayoutSystem) Update() {
	entities := ecs.GetEntitiesWith1[*components.CirclePieceComponent](s.entityManager)

	for _, id := range entities {
		piece, ok := ecs.GetComponent[*components.CirclePieceComponent](s.entityManager, id)
		if !ok || piece.Sizing == nil {
			continue
		}
		piece.Sizing.Resize(piece)
	}
}
