// Package app 提供演示程序的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/decker502/taiko/pkg/components"
	"github.com/decker502/taiko/pkg/config"
	"github.com/decker502/taiko/pkg/ecs"
	"github.com/decker502/taiko/pkg/embedded"
	"github.com/decker502/taiko/pkg/entities"
	"github.com/decker502/taiko/pkg/game"
	"github.com/decker502/taiko/pkg/systems"
	"github.com/decker502/taiko/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/quasilyte/gdata/v2"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// DefaultChart 未指定谱面时加载的内置谱面
	DefaultChart = "demo"

	pieceConfigPath = "data/piece_config.yaml"
	storageAppName  = "taiko_pieces"

	// 预览行位置
	previewY       = 470.0
	previewStartX  = 120.0
	previewSpacing = 160.0

	// 预览连打的参考长度在 [min, max] 之间往返，周期为 previewPeriod 秒
	previewMinLength = 80.0
	previewMaxLength = 320.0
	previewPeriod    = 4.0

	// hueStep 每次按 C 键旋转的色相角度
	hueStep = 30.0

	// titleFontSize 谱面标题字号
	titleFontSize = 28.0
)

var backgroundColour = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xff}

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Chart 谱面名称（data/charts 下的文件名，不含扩展名）或磁盘上的 YAML 路径
	Chart string
	// Seed 三角形图案随机种子，0 表示使用固定默认值
	Seed int64
}

// App 演示程序，实现 ebiten.Game 接口
//
// 上半部分是按谱面滚动的判定区，下半部分是各类音符的预览行。
type App struct {
	entityManager   *ecs.EntityManager
	styleSystem     *systems.PieceStyleSystem
	layoutSystem    *systems.PieceLayoutSystem
	trianglesSystem *systems.TrianglesSystem
	playfieldSystem *systems.PlayfieldSystem
	renderSystem    *systems.PieceRenderSystem

	settingsManager *game.SettingsManager
	pieceConfig     *config.PieceConfig
	baseColours     config.AccentColours
	colours         config.AccentColours
	rng             *rand.Rand

	chart       *config.ChartConfig
	playfieldID ecs.EntityID

	titleFace *text.GoTextFace

	previewIDs    []ecs.EntityID
	previewStrong bool
	elapsed       float64

	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化演示程序
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入数据。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	pieceConfig := loadPieceConfig()
	baseColours, err := pieceConfig.AccentColours()
	if err != nil {
		return nil, fmt.Errorf("外观配置颜色无效: %w", err)
	}

	chart, err := LoadChart(cfg.Chart)
	if err != nil {
		return nil, fmt.Errorf("谱面加载失败: %w", err)
	}
	log.Printf("[App] Chart %q: %d hit objects, %.0fms", chart.Title, len(chart.HitObjects), chart.EndTime())

	settingsManager := game.NewSettingsManager(openStorage())
	colours, err := settingsManager.ResolveColours(baseColours)
	if err != nil {
		log.Printf("[App] Warning: invalid colour override: %v (using defaults)", err)
		settingsManager.ResetColours()
		colours = baseColours
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	em := ecs.NewEntityManager()
	styleSystem := systems.NewPieceStyleSystem(em)

	a := &App{
		entityManager:   em,
		styleSystem:     styleSystem,
		layoutSystem:    systems.NewPieceLayoutSystem(em),
		trianglesSystem: systems.NewTrianglesSystem(em, rng),
		renderSystem:    systems.NewPieceRenderSystem(em),
		settingsManager: settingsManager,
		pieceConfig:     pieceConfig,
		baseColours:     baseColours,
		colours:         colours,
		rng:             rng,
		chart:           chart,
		verbose:         cfg.Verbose,
	}
	a.playfieldSystem = systems.NewPlayfieldSystem(em, styleSystem, a.hitObjectOptions())

	a.titleFace, err = loadTitleFace(titleFontSize)
	if err != nil {
		// 标题只是装饰，字体加载失败时不绘制
		log.Printf("[App] Warning: %v", err)
	}

	a.playfieldID, err = entities.NewPlayfield(em, chart)
	if err != nil {
		return nil, fmt.Errorf("判定区创建失败: %w", err)
	}
	if pf, ok := ecs.GetComponent[*components.PlayfieldComponent](em, a.playfieldID); ok {
		pf.KiaiOverride = settingsManager.GetSettings().KiaiOverride
	}

	if err := a.rebuildPreview(); err != nil {
		return nil, fmt.Errorf("预览音符创建失败: %w", err)
	}

	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return a, nil
}

// loadPieceConfig 加载嵌入的外观配置，失败时使用默认配置
func loadPieceConfig() *config.PieceConfig {
	data, err := embedded.ReadFile(pieceConfigPath)
	if err != nil {
		log.Printf("[App] Warning: %v (using default piece config)", err)
		return config.DefaultPieceConfig()
	}

	pieceConfig, err := config.ParsePieceConfig(data)
	if err != nil {
		log.Printf("[App] Warning: %v (using default piece config)", err)
		return config.DefaultPieceConfig()
	}
	return pieceConfig
}

// LoadChart 按名称或路径加载谱面
//
// 磁盘上存在的文件直接读取；否则在嵌入的 data/charts 中查找，
// 名称可以省略目录和 .yaml 扩展名。
//
// 参数:
//   - name: 谱面名称或路径，为空时使用 DefaultChart
//
// 返回:
//   - *config.ChartConfig: 解析后的谱面
//   - error: 文件不存在或格式无效
func LoadChart(name string) (*config.ChartConfig, error) {
	if name == "" {
		name = DefaultChart
	}

	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return config.LoadChart(name)
	}

	path := name
	if !strings.HasPrefix(path, "data/") {
		path = "data/charts/" + path
	}
	if !strings.HasSuffix(path, ".yaml") {
		path += ".yaml"
	}

	data, err := embedded.ReadFile(path)
	if err != nil {
		available, _ := embedded.Glob("data/charts/*.yaml")
		return nil, fmt.Errorf("chart %q not found (available: %s): %w", name, strings.Join(available, ", "), err)
	}
	return config.ParseChart(data)
}

// loadTitleFace 加载标题字体（Go Regular）
func loadTitleFace(size float64) (*text.GoTextFace, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load title font: %w", err)
	}
	return &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}, nil
}

// openStorage 打开 gdata 存储，失败时返回 nil（设置仅保存在内存中）
func openStorage() *gdata.Manager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	if path := utils.GetStoragePath(); path != "" {
		log.Printf("[App] Storage path: %s", path)
	}

	manager, err := gdata.Open(gdata.Config{
		AppName: storageAppName,
	})
	if err != nil {
		log.Printf("[App] Warning: failed to open storage: %v (settings will not persist)", err)
		return nil
	}
	return manager
}

// hitObjectOptions 返回当前皮肤下创建音符使用的参数
func (a *App) hitObjectOptions() entities.HitObjectOptions {
	return entities.HitObjectOptions{
		Colours: a.colours,
		Config:  a.pieceConfig,
		Rand:    a.rng,
	}
}

// rebuildPreview 重新创建预览行：咚、咔、连打（参考长度随时间变化）、无参考的连打
func (a *App) rebuildPreview() error {
	for _, id := range a.previewIDs {
		a.entityManager.DestroyEntity(id)
	}
	a.entityManager.RemoveMarkedEntities()
	a.previewIDs = a.previewIDs[:0]

	opts := entities.CirclePieceOptions{
		Y:        previewY,
		IsStrong: a.previewStrong,
		Config:   a.pieceConfig,
		Rand:     a.rng,
	}

	opts.X = previewStartX
	opts.Symbol = components.SymbolCentre
	opts.Style = components.PieceStyle{AccentColour: a.colours.Centre}
	centre, err := entities.NewCirclePiece(a.entityManager, opts)
	if err != nil {
		return err
	}

	opts.X += previewSpacing
	opts.Symbol = components.SymbolRim
	opts.Style = components.PieceStyle{AccentColour: a.colours.Rim}
	rim, err := entities.NewCirclePiece(a.entityManager, opts)
	if err != nil {
		return err
	}

	opts.X += previewSpacing
	opts.Symbol = components.SymbolNone
	opts.Style = components.PieceStyle{AccentColour: a.colours.DrumRoll}
	breathing := components.LengthReferenceFunc(func() float64 {
		return utils.Lerp(previewMinLength, previewMaxLength, utils.EaseInOutCubic(utils.PingPong(a.elapsed, previewPeriod)))
	})
	roll, _, err := entities.NewElongatedCirclePiece(a.entityManager, opts, 1, breathing)
	if err != nil {
		return err
	}

	opts.X = previewStartX + previewSpacing*5
	detached, _, err := entities.NewElongatedCirclePiece(a.entityManager, opts, 1, nil)
	if err != nil {
		return err
	}

	a.previewIDs = append(a.previewIDs, centre, rim, roll, detached)

	if pf, ok := ecs.GetComponent[*components.PlayfieldComponent](a.entityManager, a.playfieldID); ok {
		for _, id := range a.previewIDs {
			a.styleSystem.SetKiaiMode(id, pf.KiaiMode)
		}
	}
	return nil
}

// previewColour 返回预览音符对应的强调色
func (a *App) previewColour(index int) color.RGBA {
	switch index {
	case 0:
		return a.colours.Centre
	case 1:
		return a.colours.Rim
	default:
		return a.colours.DrumRoll
	}
}

// applyColours 将当前强调色应用到所有已存在的音符
func (a *App) applyColours() {
	a.playfieldSystem.SetHitObjectOptions(a.hitObjectOptions())

	for _, id := range ecs.GetEntitiesWith1[*components.HitObjectComponent](a.entityManager) {
		if hit, ok := ecs.GetComponent[*components.HitObjectComponent](a.entityManager, id); ok {
			a.styleSystem.SetAccentColour(id, a.colours.For(hit.Type))
		}
	}
	for i, id := range a.previewIDs {
		a.styleSystem.SetAccentColour(id, a.previewColour(i))
	}
}

// rotateColours 旋转所有强调色的色相并保存为皮肤覆盖
func (a *App) rotateColours(degrees float64) {
	a.colours = config.AccentColours{
		Centre:   utils.RotateHue(a.colours.Centre, degrees),
		Rim:      utils.RotateHue(a.colours.Rim, degrees),
		DrumRoll: utils.RotateHue(a.colours.DrumRoll, degrees),
	}
	for _, t := range []config.HitObjectType{config.HitObjectCentre, config.HitObjectRim, config.HitObjectDrumRoll} {
		if err := a.settingsManager.SetAccentColour(t, a.colours.For(t)); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
	}
	a.applyColours()
	a.saveSettings()
}

// resetColours 恢复外观配置中的默认强调色
func (a *App) resetColours() {
	a.colours = a.baseColours
	a.settingsManager.ResetColours()
	a.applyColours()
	a.saveSettings()
}

// toggleKiai 切换强制 Kiai 并保存
func (a *App) toggleKiai() {
	a.playfieldSystem.ToggleKiaiOverride(a.playfieldID)
	if pf, ok := ecs.GetComponent[*components.PlayfieldComponent](a.entityManager, a.playfieldID); ok {
		a.settingsManager.SetKiaiOverride(pf.KiaiOverride)
	}
	a.saveSettings()
}

func (a *App) saveSettings() {
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// tapAction 点击/触摸区域对应的操作
type tapAction int

const (
	tapNone tapAction = iota
	tapRotateColours
	tapToggleKiai
	tapToggleStrong
)

// tapActionAt 返回点击位置对应的操作
// 判定区上方旋转颜色，判定区切换 Kiai，预览行切换大音符
func tapActionAt(x, y int) tapAction {
	if x < 0 || x >= config.GameWindowWidth || y < 0 {
		return tapNone
	}

	fy := float64(y)
	switch {
	case fy < config.PlayfieldY:
		return tapRotateColours
	case fy < config.PlayfieldY+config.PlayfieldHeight:
		return tapToggleKiai
	case y < config.GameWindowHeight:
		return tapToggleStrong
	default:
		return tapNone
	}
}

// togglePreviewStrong 切换预览行大音符
func (a *App) togglePreviewStrong() {
	a.previewStrong = !a.previewStrong
	if err := a.rebuildPreview(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// handleInput 处理演示按键和点击
//
//	K   切换强制 Kiai（点击判定区同样生效）
//	S   切换预览行大音符
//	C   旋转强调色
//	X   恢复默认强调色
//	R   重新开始谱面
//	F11 切换全屏
func (a *App) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		a.toggleKiai()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		a.togglePreviewStrong()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.rotateColours(hueStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		a.resetColours()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.playfieldSystem.Restart(a.playfieldID)
	}

	if ok, x, y := utils.IsJustTouchedOrClicked(); ok {
		switch tapActionAt(x, y) {
		case tapRotateColours:
			a.rotateColours(hueStep)
		case tapToggleKiai:
			a.toggleKiai()
		case tapToggleStrong:
			a.togglePreviewStrong()
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settingsManager.SetFullscreen(false)
		} else {
			ebiten.SetFullscreen(true)
			a.settingsManager.SetFullscreen(true)
		}
		a.saveSettings()
	}
}

// Update 更新演示逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	a.handleInput()
	a.step(1.0 / 60.0)
	return nil
}

// step 推进一帧
func (a *App) step(dt float64) {
	a.elapsed += dt

	a.playfieldSystem.Update(dt)
	if a.playfieldSystem.IsFinished(a.playfieldID) {
		a.playfieldSystem.Restart(a.playfieldID)
	}

	// 预览行跟随判定区的 Kiai 状态
	if pf, ok := ecs.GetComponent[*components.PlayfieldComponent](a.entityManager, a.playfieldID); ok {
		for _, id := range a.previewIDs {
			a.styleSystem.SetKiaiMode(id, pf.KiaiMode)
		}
	}

	a.layoutSystem.Update()
	a.trianglesSystem.Update(dt)
	a.entityManager.RemoveMarkedEntities()
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColour)
	a.renderSystem.Draw(screen)
	a.drawHUD(screen)
}

// drawHUD 绘制状态和按键说明
func (a *App) drawHUD(screen *ebiten.Image) {
	pf, ok := ecs.GetComponent[*components.PlayfieldComponent](a.entityManager, a.playfieldID)
	if !ok {
		return
	}

	if a.titleFace != nil {
		op := &text.DrawOptions{}
		op.GeoM.Translate(10, 40)
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, a.chart.Title, a.titleFace, op)
	}

	status := fmt.Sprintf("%.1fs / %.1fs  kiai:%v  override:%v  FPS:%.0f",
		pf.CurrentTime/1000, a.chart.EndTime()/1000, pf.KiaiMode, pf.KiaiOverride, ebiten.ActualFPS())
	ebitenutil.DebugPrintAt(screen, status, 10, 10)

	preview := "preview: normal"
	if a.previewStrong {
		preview = "preview: strong"
	}
	ebitenutil.DebugPrintAt(screen, preview, 10, int(previewY)-110)
	help := "K kiai  S strong  C colour  X reset  R restart  F11 fullscreen"
	if utils.IsMobile() {
		help = "tap: top colour  playfield kiai  bottom strong"
	}
	ebitenutil.DebugPrintAt(screen, help, 10, config.GameWindowHeight-24)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
