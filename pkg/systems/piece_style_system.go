package systems

import (
	"image/color"
	"log"

	"github.com/decker502/taiko/pkg/components"
	"github.com/decker502/taiko/pkg/ecs"
)

// PieceStyleSystem 音符块样式系统
//
// 强调色和 Kiai 模式的所有修改都汇总到 ApplyStyle，
// 由组件在一次调用中同步背景色和外发光，保证外发光不会过期。
type PieceStyleSystem struct {
	entityManager *ecs.EntityManager
}

// NewPieceStyleSystem 创建样式系统
func NewPieceStyleSystem(em *ecs.EntityManager) *PieceStyleSystem {
	return &PieceStyleSystem{
		entityManager: em,
	}
}

// ApplyStyle 为音符实体应用完整样式
//
// 返回:
//   - bool: 实体不是音符块时返回 false
func (s *PieceStyleSystem) ApplyStyle(id ecs.EntityID, style components.PieceStyle) bool {
	piece, ok := ecs.GetComponent[*components.CirclePieceComponent](s.entityManager, id)
	if !ok {
		log.Printf("[PieceStyleSystem] Warning: entity %d has no CirclePieceComponent", id)
		return false
	}
	piece.ApplyStyle(style)
	return true
}

// SetAccentColour 修改强调色（背景和外发光同时更新）
func (s *PieceStyleSystem) SetAccentColour(id ecs.EntityID, c color.RGBA) bool {
	piece, ok := ecs.GetComponent[*components.CirclePieceComponent](s.entityManager, id)
	if !ok {
		return false
	}
	piece.ApplyStyle(piece.Style.WithAccentColour(c))
	return true
}

// SetKiaiMode 修改 Kiai 模式（外发光半径随之切换）
func (s *PieceStyleSystem) SetKiaiMode(id ecs.EntityID, kiai bool) bool {
	piece, ok := ecs.GetComponent[*components.CirclePieceComponent](s.entityManager, id)
	if !ok {
		return false
	}
	if piece.Style.KiaiMode == kiai {
		return true
	}
	piece.ApplyStyle(piece.Style.WithKiaiMode(kiai))
	return true
}

// SetKiaiModeAll 修改所有音符块的 Kiai 模式
// 返回实际发生变化的音符数量
func (s *PieceStyleSystem) SetKiaiModeAll(kiai bool) int {
	changed := 0
	for _, id := range ecs.GetEntitiesWith1[*components.CirclePieceComponent](s.entityManager) {
		piece, ok := ecs.GetComponent[*components.CirclePieceComponent](s.entityManager, id)
		if !ok || piece.Style.KiaiMode == kiai {
			continue
		}
		piece.ApplyStyle(piece.Style.WithKiaiMode(kiai))
		changed++
	}
	return changed
}
