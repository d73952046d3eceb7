package entities

import (
	"testing"

	"github.com/decker502/taiko/pkg/components"
	"github.com/decker502/taiko/pkg/config"
	"github.com/decker502/taiko/pkg/ecs"
)

func newTestPlayfield(t *testing.T, em *ecs.EntityManager) ecs.EntityID {
	t.Helper()
	id, err := NewPlayfield(em, &config.ChartConfig{ScrollTime: 2000})
	if err != nil {
		t.Fatalf("NewPlayfield() error: %v", err)
	}
	return id
}

func TestNewPlayfield(t *testing.T) {
	em := ecs.NewEntityManager()
	id := newTestPlayfield(t, em)

	pf, ok := ecs.GetComponent[*components.PlayfieldComponent](em, id)
	if !ok {
		t.Fatal("PlayfieldComponent missing")
	}
	if pf.ScrollTime != 2000 {
		t.Errorf("ScrollTime = %v, want 2000", pf.ScrollTime)
	}
	if pf.ReferenceLength() != config.GameWindowWidth-config.HitPositionX {
		t.Errorf("ReferenceLength() = %v", pf.ReferenceLength())
	}

	if _, err := NewPlayfield(em, nil); err == nil {
		t.Error("expected error for nil chart")
	}
}

func TestNewHitObject(t *testing.T) {
	colours, err := config.DefaultPieceConfig().AccentColours()
	if err != nil {
		t.Fatalf("AccentColours() error: %v", err)
	}

	tests := []struct {
		name       string
		hit        config.HitObjectConfig
		wantSymbol components.PieceSymbol
		elongated  bool
	}{
		{"咚", config.HitObjectConfig{Time: 1000, Type: config.HitObjectCentre}, components.SymbolCentre, false},
		{"大咔", config.HitObjectConfig{Time: 1000, Type: config.HitObjectRim, Strong: true}, components.SymbolRim, false},
		{"连打", config.HitObjectConfig{Time: 1000, Type: config.HitObjectDrumRoll, Duration: 1000}, components.SymbolNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			pfID := newTestPlayfield(t, em)
			pf, _ := ecs.GetComponent[*components.PlayfieldComponent](em, pfID)

			id, err := NewHitObject(em, pfID, tt.hit, HitObjectOptions{Colours: colours})
			if err != nil {
				t.Fatalf("NewHitObject() error: %v", err)
			}

			piece, _ := ecs.GetComponent[*components.CirclePieceComponent](em, id)
			if piece.Symbol != tt.wantSymbol {
				t.Errorf("Symbol = %v, want %v", piece.Symbol, tt.wantSymbol)
			}
			if piece.IsStrong != tt.hit.Strong {
				t.Errorf("IsStrong = %v, want %v", piece.IsStrong, tt.hit.Strong)
			}
			if piece.Style.AccentColour != colours.For(tt.hit.Type) {
				t.Errorf("AccentColour = %v, want %v", piece.Style.AccentColour, colours.For(tt.hit.Type))
			}

			_, isElongated := piece.Sizing.(*components.ElongatedSizing)
			if isElongated != tt.elongated {
				t.Errorf("elongated = %v, want %v", isElongated, tt.elongated)
			}
			if tt.elongated {
				// 时长为半个滚动周期：宽度 = 参考长度 × 0.5 + 高度
				want := pf.ReferenceLength()*0.5 + piece.Height
				if piece.Width != want {
					t.Errorf("Width = %v, want %v", piece.Width, want)
				}
			}

			pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
			if pos.X != pf.TimeToX(1000) || pos.Y != pf.CentreY() {
				t.Errorf("position = %+v, want (%v, %v)", pos, pf.TimeToX(1000), pf.CentreY())
			}

			hitComp, ok := ecs.GetComponent[*components.HitObjectComponent](em, id)
			if !ok || hitComp.Playfield != pfID || hitComp.StartTime != 1000 {
				t.Errorf("HitObjectComponent = %+v", hitComp)
			}
		})
	}
}

func TestNewHitObject_InheritsKiai(t *testing.T) {
	em := ecs.NewEntityManager()
	pfID := newTestPlayfield(t, em)
	pf, _ := ecs.GetComponent[*components.PlayfieldComponent](em, pfID)
	pf.KiaiMode = true

	id, err := NewHitObject(em, pfID, config.HitObjectConfig{Type: config.HitObjectCentre}, HitObjectOptions{})
	if err != nil {
		t.Fatalf("NewHitObject() error: %v", err)
	}

	piece, _ := ecs.GetComponent[*components.CirclePieceComponent](em, id)
	if !piece.Style.KiaiMode || piece.Glow.Radius != config.GlowRadiusKiai {
		t.Errorf("piece should start in kiai mode, glow = %+v", piece.Glow)
	}
}

func TestNewHitObject_Errors(t *testing.T) {
	em := ecs.NewEntityManager()
	pfID := newTestPlayfield(t, em)

	if _, err := NewHitObject(em, ecs.EntityID(999), config.HitObjectConfig{Type: config.HitObjectCentre}, HitObjectOptions{}); err == nil {
		t.Error("expected error for missing playfield")
	}
	if _, err := NewHitObject(em, pfID, config.HitObjectConfig{Type: "swell"}, HitObjectOptions{}); err == nil {
		t.Error("expected error for unknown type")
	}
}
