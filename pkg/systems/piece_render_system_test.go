package systems

import (
	"image/color"
	"math"
	"testing"

	"github.com/decker502/taiko/pkg/components"
	"github.com/decker502/taiko/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestPieceRenderSystemDraw(t *testing.T) {
	em, playfieldSystem, pfID := newTestPlayfieldSystem(t)
	system := NewPieceRenderSystem(em)

	playfieldSystem.ToggleKiaiOverride(pfID)
	playfieldSystem.Update(0)

	// 额外添加一个不属于谱面的拉长音符（无参考长度）
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: 400, Y: 450})
	em.AddComponent(id, components.NewCirclePieceComponent(84, 1.5, true, components.NewElongatedSizing(1)))

	// Draw 应该不会崩溃
	screen := ebiten.NewImage(1024, 576)
	system.Draw(screen)

	// 第二次绘制复用离屏图像
	system.Draw(screen)
}

func TestPieceRenderSystemLongDrumRoll(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewPieceRenderSystem(em)

	// 30 秒以上的连打：宽度远超纹理尺寸上限
	sizing := components.NewElongatedSizing(40)
	sizing.Attach(components.LengthReferenceFunc(func() float64 { return 824 }))
	piece := components.NewCirclePieceComponent(84, 1.5, false, sizing)
	piece.ApplyStyle(components.PieceStyle{AccentColour: color.RGBA{R: 0xee, G: 0xaa, A: 0xff}, KiaiMode: true})
	piece.RingThickness = 8
	piece.Sizing.Resize(piece)
	if piece.Width != 40*824+84 {
		t.Fatalf("Width = %v, want %v", piece.Width, 40*824+84)
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: -5000, Y: 240})
	em.AddComponent(id, piece)

	screen := ebiten.NewImage(1024, 576)
	system.Draw(screen)

	if system.scratch == nil {
		t.Fatal("Visible roll should have been drawn through the scratch image")
	}
	maxWidth := 1024 + int(2*clipMargin) + 1
	if got := system.scratch.Bounds().Dx(); got > maxWidth {
		t.Errorf("Scratch width = %d, want at most %d", got, maxWidth)
	}
}

func TestVisibleSpan(t *testing.T) {
	screen := ebiten.NewImage(100, 50)

	tests := []struct {
		name        string
		x0, x1      float64
		wantLo      float64
		wantHi      float64
		wantVisible bool
	}{
		{"完全在屏幕内", 10, 60, 10, 60, true},
		{"左侧超出", -500, 40, -clipMargin, 40, true},
		{"两侧超出", -500, 5000, -clipMargin, 100 + clipMargin, true},
		{"完全在左侧", -300, -10, 0, 0, false},
		{"完全在右侧", 200, 300, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, ok := visibleSpan(screen, tt.x0, tt.x1)
			if ok != tt.wantVisible {
				t.Fatalf("visibleSpan(%v, %v) visible = %v, want %v", tt.x0, tt.x1, ok, tt.wantVisible)
			}
			if ok && (lo != tt.wantLo || hi != tt.wantHi) {
				t.Errorf("visibleSpan(%v, %v) = [%v, %v), want [%v, %v)", tt.x0, tt.x1, lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

func TestPieceRenderSystemSkipsIncompleteEntities(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewPieceRenderSystem(em)

	// 只有音符组件，没有位置
	noPos := em.CreateEntity()
	em.AddComponent(noPos, components.NewCirclePieceComponent(84, 1.5, false, nil))

	// 尺寸为 0 的音符
	zero := em.CreateEntity()
	em.AddComponent(zero, &components.PositionComponent{X: 10, Y: 10})
	em.AddComponent(zero, &components.CirclePieceComponent{})

	screen := ebiten.NewImage(200, 200)
	system.Draw(screen)

	if got := len(system.drawOrder()); got != 1 {
		t.Errorf("Expected 1 positioned piece in draw order, got %d", got)
	}
}

func TestPieceRenderSystemDrawOrder(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewPieceRenderSystem(em)

	preview := addTestPiece(em, false)

	later := addTestPiece(em, false)
	em.AddComponent(later, &components.HitObjectComponent{StartTime: 2000})

	earlier := addTestPiece(em, false)
	em.AddComponent(earlier, &components.HitObjectComponent{StartTime: 1000})

	order := system.drawOrder()
	want := []ecs.EntityID{later, earlier, preview}
	if len(order) != len(want) {
		t.Fatalf("Expected %d entities, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Draw order[%d]: expected %d, got %d", i, want[i], order[i])
		}
	}
}

func TestGlowAlpha(t *testing.T) {
	prev := math.Inf(1)
	total := 0.0
	for step := 1; step <= glowSteps; step++ {
		a := glowAlpha(step, glowSteps)
		if a <= 0 {
			t.Errorf("Step %d alpha should be positive, got %.4f", step, a)
		}
		if a >= prev {
			t.Errorf("Alpha should fall off outward: step %d %.4f >= %.4f", step, a, prev)
		}
		prev = a
		total += a
	}
	if total > 1 {
		t.Errorf("Accumulated glow alpha should not exceed 1, got %.4f", total)
	}
}

func TestTriangleVertices(t *testing.T) {
	tri := &components.TrianglesComponent{
		Triangles: []components.Triangle{
			{X: 0.5, Y: 0.5, Scale: 0.5, Shade: 0},
			{X: 0.25, Y: 0.75, Scale: 0.2, Shade: 1},
		},
		ColourLight: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		ColourDark:  color.RGBA{R: 200, G: 200, B: 200, A: 255},
		Alpha:       0.35,
	}
	accent := color.RGBA{R: 255, G: 0, B: 0, A: 255}

	vs, is := triangleVertices(tri, 200, 100, accent)
	if len(vs) != 6 || len(is) != 6 {
		t.Fatalf("Expected 6 vertices and 6 indices, got %d and %d", len(vs), len(is))
	}

	// 第一个三角形：中心 (100, 50)，边长 50，尖端朝上
	side := 50.0
	height := side * math.Sqrt(3) / 2
	if math.Abs(float64(vs[0].DstX)-100) > 1e-3 || math.Abs(float64(vs[0].DstY)-(50-height*2/3)) > 1e-3 {
		t.Errorf("Unexpected apex (%.2f, %.2f)", vs[0].DstX, vs[0].DstY)
	}
	if math.Abs(float64(vs[2].DstX-vs[1].DstX)-side) > 1e-3 {
		t.Errorf("Base width should be %.1f, got %.2f", side, vs[2].DstX-vs[1].DstX)
	}
	if vs[1].DstY != vs[2].DstY || vs[1].DstY <= vs[0].DstY {
		t.Error("Base vertices should share Y below the apex")
	}

	// 颜色乘上强调色：绿色和蓝色通道为 0
	for i, v := range vs {
		if v.ColorG != 0 || v.ColorB != 0 {
			t.Errorf("Vertex %d should be tinted red, got (%.2f, %.2f, %.2f)", i, v.ColorR, v.ColorG, v.ColorB)
		}
		if math.Abs(float64(v.ColorA)-0.35) > 1e-6 {
			t.Errorf("Vertex %d alpha should be 0.35, got %.3f", i, v.ColorA)
		}
	}
	if vs[0].ColorR <= vs[3].ColorR {
		t.Error("Light triangle should be brighter than dark triangle")
	}

	for i, idx := range is {
		if int(idx) != i {
			t.Errorf("Index %d should be %d, got %d", i, i, idx)
		}
	}
}

func TestSymbolMetrics(t *testing.T) {
	tests := []struct {
		name       string
		piece      *components.CirclePieceComponent
		wantSize   float64
		wantBorder float64
	}{
		{"普通音符", components.NewCirclePieceComponent(84, 1.5, false, nil), 84 * 0.45, 8},
		{"大音符内容放大", components.NewCirclePieceComponent(84, 1.5, true, nil), 84 * 0.45 * 1.5, 12},
		{"拉长大音符内容不放大", components.NewCirclePieceComponent(84, 1.5, true, components.NewElongatedSizing(1)), 84 * 0.45, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, border := symbolMetrics(tt.piece)
			if math.Abs(size-tt.wantSize) > 1e-9 {
				t.Errorf("Expected size %.3f, got %.3f", tt.wantSize, size)
			}
			if math.Abs(border-tt.wantBorder) > 1e-9 {
				t.Errorf("Expected border %.3f, got %.3f", tt.wantBorder, border)
			}
		})
	}
}
