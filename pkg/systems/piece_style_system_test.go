package systems

import (
	"image/color"
	"testing"

	"github.com/decker502/taiko/pkg/components"
	"github.com/decker502/taiko/pkg/ecs"
)

func addTestPiece(em *ecs.EntityManager, strong bool) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: 100, Y: 100})
	em.AddComponent(id, components.NewCirclePieceComponent(84, 1.5, strong, nil))
	return id
}

func TestPieceStyleSystemApplyStyle(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewPieceStyleSystem(em)
	id := addTestPiece(em, false)

	accent := color.RGBA{R: 0xbb, G: 0x11, B: 0x77, A: 0xff}
	if !system.ApplyStyle(id, components.PieceStyle{AccentColour: accent, KiaiMode: true}) {
		t.Fatal("ApplyStyle should succeed for a piece entity")
	}

	piece, _ := ecs.GetComponent[*components.CirclePieceComponent](em, id)
	if piece.BackgroundColour != accent {
		t.Errorf("Expected background %v, got %v", accent, piece.BackgroundColour)
	}
	if piece.Glow.Colour != accent {
		t.Errorf("Expected glow colour %v, got %v", accent, piece.Glow.Colour)
	}
	if piece.Glow.Radius != components.DefaultGlowRadii.Kiai {
		t.Errorf("Expected kiai glow radius %.1f, got %.1f", components.DefaultGlowRadii.Kiai, piece.Glow.Radius)
	}
}

func TestPieceStyleSystemMissingEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewPieceStyleSystem(em)

	plain := em.CreateEntity()
	em.AddComponent(plain, &components.PositionComponent{})

	tests := []struct {
		name string
		id   ecs.EntityID
	}{
		{"不存在的实体", 999},
		{"没有音符组件的实体", plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if system.ApplyStyle(tt.id, components.PieceStyle{}) {
				t.Error("ApplyStyle should return false")
			}
			if system.SetAccentColour(tt.id, color.RGBA{A: 0xff}) {
				t.Error("SetAccentColour should return false")
			}
			if system.SetKiaiMode(tt.id, true) {
				t.Error("SetKiaiMode should return false")
			}
		})
	}
}

func TestPieceStyleSystemAccentThenKiai(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewPieceStyleSystem(em)
	id := addTestPiece(em, true)

	red := color.RGBA{R: 255, A: 255}
	system.SetAccentColour(id, red)
	system.SetKiaiMode(id, true)

	piece, _ := ecs.GetComponent[*components.CirclePieceComponent](em, id)
	if piece.Glow.Colour != red || piece.Glow.Radius != components.DefaultGlowRadii.Kiai {
		t.Errorf("Expected red kiai glow, got %+v", piece.Glow)
	}

	// 关闭 Kiai 后颜色保留，半径恢复
	system.SetKiaiMode(id, false)
	if piece.Glow.Colour != red || piece.Glow.Radius != components.DefaultGlowRadii.Calm {
		t.Errorf("Expected red calm glow, got %+v", piece.Glow)
	}

	// Kiai 期间换色，外发光颜色立即跟随
	blue := color.RGBA{B: 255, A: 255}
	system.SetKiaiMode(id, true)
	system.SetAccentColour(id, blue)
	if piece.Glow.Colour != blue || piece.BackgroundColour != blue {
		t.Errorf("Expected blue glow and background, got glow %v background %v", piece.Glow.Colour, piece.BackgroundColour)
	}
}

func TestPieceStyleSystemSetKiaiModeAll(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewPieceStyleSystem(em)

	a := addTestPiece(em, false)
	addTestPiece(em, true)
	addTestPiece(em, false)
	system.SetKiaiMode(a, true)

	if changed := system.SetKiaiModeAll(true); changed != 2 {
		t.Errorf("Expected 2 changed pieces, got %d", changed)
	}
	if changed := system.SetKiaiModeAll(true); changed != 0 {
		t.Errorf("Expected no change on repeat, got %d", changed)
	}
	if changed := system.SetKiaiModeAll(false); changed != 3 {
		t.Errorf("Expected 3 changed pieces, got %d", changed)
	}
}
