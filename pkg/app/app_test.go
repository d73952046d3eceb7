package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/taiko/pkg/components"
	"github.com/decker502/taiko/pkg/config"
	"github.com/decker502/taiko/pkg/ecs"
	"github.com/decker502/taiko/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

// initTestData 使用项目根目录的 data/ 初始化 embedded 包
func initTestData(t *testing.T) {
	t.Helper()
	embedded.Init(os.DirFS(filepath.Join("..", "..")))
}

// isolateStorage 将 gdata 存储重定向到临时目录
func isolateStorage(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
}

func TestLoadChart(t *testing.T) {
	initTestData(t)

	diskChart := filepath.Join(t.TempDir(), "disk.yaml")
	content := "title: disk\nhitObjects:\n  - time: 500\n    type: rim\n"
	if err := os.WriteFile(diskChart, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write chart: %v", err)
	}

	tests := []struct {
		name      string
		chart     string
		wantTitle string
		wantErr   string
	}{
		{"默认谱面", "", "Demo", ""},
		{"名称", "demo", "Demo", ""},
		{"完整路径", "data/charts/demo.yaml", "Demo", ""},
		{"磁盘文件", diskChart, "disk", ""},
		{"不存在", "missing", "", "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart, err := LoadChart(tt.chart)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadChart() error: %v", err)
			}
			if chart.Title != tt.wantTitle {
				t.Errorf("Expected title %q, got %q", tt.wantTitle, chart.Title)
			}
			if len(chart.HitObjects) == 0 {
				t.Error("Chart should contain hit objects")
			}
		})
	}
}

func TestEmbeddedPieceConfigMatchesDefaults(t *testing.T) {
	initTestData(t)

	got := loadPieceConfig()
	want := config.DefaultPieceConfig()
	if *got != *want {
		t.Errorf("data/piece_config.yaml = %+v, want defaults %+v", got, want)
	}
}

func TestAppRunsDemoChart(t *testing.T) {
	initTestData(t)
	isolateStorage(t)

	a, err := NewApp(Config{Chart: "demo", Seed: 3})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}

	if len(a.previewIDs) != 4 {
		t.Fatalf("Expected 4 preview pieces, got %d", len(a.previewIDs))
	}

	screen := ebiten.NewImage(config.GameWindowWidth, config.GameWindowHeight)
	for frame := 0; frame < 600; frame++ {
		a.step(1.0 / 60.0)
	}
	a.Draw(screen)

	pf, ok := ecs.GetComponent[*components.PlayfieldComponent](a.entityManager, a.playfieldID)
	if !ok {
		t.Fatal("Playfield should exist")
	}
	if pf.CurrentTime < 9999 || pf.CurrentTime > 10001 {
		t.Errorf("Expected ~10000ms after 600 frames, got %.1f", pf.CurrentTime)
	}

	// 演示谱面 8000~14000ms 为 Kiai，预览行跟随
	if !pf.KiaiMode {
		t.Error("Playfield should be in kiai at 10s")
	}
	for _, id := range a.previewIDs {
		piece, _ := ecs.GetComponent[*components.CirclePieceComponent](a.entityManager, id)
		if !piece.Style.KiaiMode {
			t.Errorf("Preview piece %d should follow playfield kiai", id)
		}
	}

	// 无参考长度的连打宽度等于高度
	detached, _ := ecs.GetComponent[*components.CirclePieceComponent](a.entityManager, a.previewIDs[3])
	if detached.Width != detached.Height {
		t.Errorf("Detached roll width %.1f should equal height %.1f", detached.Width, detached.Height)
	}
}

func TestAppColourRotationAppliesToPieces(t *testing.T) {
	initTestData(t)
	isolateStorage(t)

	a, err := NewApp(Config{})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	for frame := 0; frame < 60; frame++ {
		a.step(1.0 / 60.0)
	}

	a.rotateColours(120)

	for _, id := range ecs.GetEntitiesWith1[*components.HitObjectComponent](a.entityManager) {
		hit, _ := ecs.GetComponent[*components.HitObjectComponent](a.entityManager, id)
		piece, _ := ecs.GetComponent[*components.CirclePieceComponent](a.entityManager, id)
		want := a.colours.For(hit.Type)
		if piece.BackgroundColour != want || piece.Glow.Colour != want {
			t.Errorf("Hit object %d should use rotated colour %v, got background %v glow %v", id, want, piece.BackgroundColour, piece.Glow.Colour)
		}
	}

	centre, _ := ecs.GetComponent[*components.CirclePieceComponent](a.entityManager, a.previewIDs[0])
	if centre.BackgroundColour != a.colours.Centre {
		t.Errorf("Preview centre should use %v, got %v", a.colours.Centre, centre.BackgroundColour)
	}
	if a.colours == a.baseColours {
		t.Error("Rotated colours should differ from base colours")
	}

	a.resetColours()
	if a.colours != a.baseColours {
		t.Error("resetColours should restore base colours")
	}
	if a.settingsManager.GetSettings().CentreColour != "" {
		t.Error("resetColours should clear colour overrides")
	}
}

func TestAppPersistsKiaiOverride(t *testing.T) {
	initTestData(t)
	isolateStorage(t)

	a, err := NewApp(Config{})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	a.toggleKiai()

	b, err := NewApp(Config{})
	if err != nil {
		t.Fatalf("NewApp() error on reload: %v", err)
	}
	pf, _ := ecs.GetComponent[*components.PlayfieldComponent](b.entityManager, b.playfieldID)
	if !pf.KiaiOverride {
		t.Error("Kiai override should be restored from saved settings")
	}

	b.step(0)
	if !pf.KiaiMode {
		t.Error("Kiai override should put the playfield into kiai")
	}
}

func TestAppStrongPreview(t *testing.T) {
	initTestData(t)
	isolateStorage(t)

	a, err := NewApp(Config{})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}

	a.previewStrong = true
	if err := a.rebuildPreview(); err != nil {
		t.Fatalf("rebuildPreview() error: %v", err)
	}
	a.step(1.0 / 60.0)

	if len(a.previewIDs) != 4 {
		t.Fatalf("Expected 4 preview pieces, got %d", len(a.previewIDs))
	}

	centre, _ := ecs.GetComponent[*components.CirclePieceComponent](a.entityManager, a.previewIDs[0])
	if centre.Height != 126 || centre.ContentScale != 1.5 {
		t.Errorf("Strong centre: expected height 126 and content scale 1.5, got %.1f and %.2f", centre.Height, centre.ContentScale)
	}

	roll, _ := ecs.GetComponent[*components.CirclePieceComponent](a.entityManager, a.previewIDs[2])
	if roll.Height != 126 || roll.ContentScale != 1 {
		t.Errorf("Strong roll: expected height 126 and content scale 1, got %.1f and %.2f", roll.Height, roll.ContentScale)
	}
	if roll.ContentPadding.Left != 63 || roll.ContentPadding.Right != 63 {
		t.Errorf("Strong roll padding should be 63/63, got %+v", roll.ContentPadding)
	}
	if roll.Width <= roll.Height {
		t.Errorf("Referenced roll should be wider than tall, got %.1f", roll.Width)
	}
}

func TestTapActionAt(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want tapAction
	}{
		{"判定区上方", 500, 50, tapRotateColours},
		{"判定区", 500, 200, tapToggleKiai},
		{"判定区下边缘之外", 500, 328, tapToggleStrong},
		{"预览行", 100, 470, tapToggleStrong},
		{"屏幕外", -1, 200, tapNone},
		{"屏幕下方之外", 500, 600, tapNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tapActionAt(tt.x, tt.y); got != tt.want {
				t.Errorf("tapActionAt(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestLoadTitleFace(t *testing.T) {
	face, err := loadTitleFace(titleFontSize)
	if err != nil {
		t.Fatalf("loadTitleFace() error: %v", err)
	}
	if face.Size != titleFontSize {
		t.Errorf("Expected size %.0f, got %.0f", titleFontSize, face.Size)
	}
	if face.Source == nil {
		t.Error("Font source should not be nil")
	}
}
