package systems

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/decker502/taiko/pkg/components"
	"github.com/decker502/taiko/pkg/config"
	"github.com/decker502/taiko/pkg/ecs"
	"github.com/decker502/taiko/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 渲染参数
const (
	// glowSteps 外发光的分层数量，层数越多过渡越平滑
	glowSteps = 6

	// glowMaxAlpha 最内层外发光的不透明度
	glowMaxAlpha = 0.45

	// playfieldBackgroundAlpha 判定区背景条不透明度
	playfieldBackgroundAlpha = 0.85

	// clipMargin 离屏图层在屏幕左右两侧额外保留的像素（抗锯齿边缘）
	clipMargin = 2.0
)

var (
	ringColour        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	symbolColour      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	playfieldColour   = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	hitTargetColour   = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	kiaiPlayfieldTint = color.RGBA{R: 0x44, G: 0x2a, B: 0x10, A: 0xff}
)

// PieceRenderSystem 音符块渲染系统
//
// 每个音符按层绘制：外发光 → 背景（强调色 + 三角形，裁剪为音符形状）→ 外环 → 内容符号。
// 需要裁剪的层先画到复用的离屏图像上，再合成到屏幕。
// 离屏图层只覆盖音符在屏幕内的水平区间，很长的连打也不会超出纹理尺寸上限。
type PieceRenderSystem struct {
	entityManager *ecs.EntityManager

	// scratch 离屏图像，按需扩大，各层依次复用
	scratch *ebiten.Image

	// whiteSubImage DrawTriangles 使用的 1x1 白色纹理
	whiteSubImage *ebiten.Image
}

// NewPieceRenderSystem 创建音符块渲染系统
func NewPieceRenderSystem(em *ecs.EntityManager) *PieceRenderSystem {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)

	return &PieceRenderSystem{
		entityManager: em,
		whiteSubImage: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// Draw 绘制所有判定区和音符块
func (s *PieceRenderSystem) Draw(screen *ebiten.Image) {
	for _, pfID := range ecs.GetEntitiesWith1[*components.PlayfieldComponent](s.entityManager) {
		if pf, ok := ecs.GetComponent[*components.PlayfieldComponent](s.entityManager, pfID); ok {
			s.drawPlayfield(screen, pf)
		}
	}

	for _, id := range s.drawOrder() {
		piece, ok := ecs.GetComponent[*components.CirclePieceComponent](s.entityManager, id)
		if !ok {
			continue
		}
		pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !ok {
			continue
		}
		tri, _ := ecs.GetComponent[*components.TrianglesComponent](s.entityManager, id)

		s.drawPiece(screen, pos, piece, tri)
	}
}

// drawOrder 返回音符的绘制顺序
//
// 谱面音符按开始时间倒序绘制，使更早到达判定点的音符位于上层；
// 不属于谱面的音符（如预览）最后按实体ID顺序绘制。
func (s *PieceRenderSystem) drawOrder() []ecs.EntityID {
	ids := ecs.GetEntitiesWith2[*components.CirclePieceComponent, *components.PositionComponent](s.entityManager)

	startTime := func(id ecs.EntityID) (float64, bool) {
		hit, ok := ecs.GetComponent[*components.HitObjectComponent](s.entityManager, id)
		if !ok {
			return 0, false
		}
		return hit.StartTime, true
	}

	sort.SliceStable(ids, func(i, j int) bool {
		ti, okI := startTime(ids[i])
		tj, okJ := startTime(ids[j])
		if okI != okJ {
			return okI
		}
		return ti > tj
	})
	return ids
}

// drawPlayfield 绘制判定区背景条和判定点
func (s *PieceRenderSystem) drawPlayfield(screen *ebiten.Image, pf *components.PlayfieldComponent) {
	bg := playfieldColour
	if pf.KiaiMode {
		bg = kiaiPlayfieldTint
	}
	vector.DrawFilledRect(screen,
		float32(pf.X), float32(pf.Y), float32(pf.Width), float32(pf.Height),
		utils.WithAlpha(bg, playfieldBackgroundAlpha), true)

	cx := float32(pf.HitPositionScreenX())
	cy := float32(pf.CentreY())
	vector.StrokeCircle(screen, cx, cy, float32(config.CircleRadius), 2, hitTargetColour, true)
	vector.StrokeCircle(screen, cx, cy, float32(config.CircleRadius*config.StrongScale), 1, utils.WithAlpha(hitTargetColour, 0.5), true)
}

// drawPiece 按层绘制单个音符
func (s *PieceRenderSystem) drawPiece(screen *ebiten.Image, pos *components.PositionComponent, piece *components.CirclePieceComponent, tri *components.TrianglesComponent) {
	if piece.Width <= 0 || piece.Height <= 0 {
		return
	}

	// 音符左上角（位置是左侧半圆的圆心）
	left := pos.X - piece.Height/2
	top := pos.Y - piece.Height/2

	s.drawGlow(screen, left, top, piece)
	s.drawBackground(screen, left, top, piece, tri)
	s.drawRing(screen, left, top, piece)
	s.drawContent(screen, left, top, piece)
}

// drawGlow 由外向内绘制逐层加深的胶囊形外发光
func (s *PieceRenderSystem) drawGlow(screen *ebiten.Image, left, top float64, piece *components.CirclePieceComponent) {
	glow := piece.Glow
	if glow.Radius <= 0 || glow.Colour.A == 0 {
		return
	}

	opaque := glow.Colour
	opaque.A = 0xff

	for step := glowSteps; step >= 1; step-- {
		r := glow.Radius * float64(step) / glowSteps
		w := piece.Width + 2*r
		h := piece.Height + 2*r

		x0, x1, ok := visibleSpan(screen, left-r, left-r+w)
		if !ok {
			continue
		}
		layer := s.scratchFor(x1-x0, h)
		fillCapsule(layer, left-r-x0, 0, w, h, opaque)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(x0, top-r)
		op.ColorScale.ScaleAlpha(float32(glowAlpha(step, glowSteps) * float64(glow.Colour.A) / 255))
		screen.DrawImage(layer, op)
	}
}

// glowAlpha 第 step 层（1 为最内层）的不透明度，向外二次衰减
// 各层叠加，最内层累计最亮
func glowAlpha(step, steps int) float64 {
	falloff := 1 - float64(step-1)/float64(steps)
	return glowMaxAlpha * utils.EaseInQuad(falloff) / float64(steps) * 2
}

// drawBackground 绘制强调色填充和三角形图案，三角形只在音符形状内可见
func (s *PieceRenderSystem) drawBackground(screen *ebiten.Image, left, top float64, piece *components.CirclePieceComponent, tri *components.TrianglesComponent) {
	x0, x1, ok := visibleSpan(screen, left, left+piece.Width)
	if !ok {
		return
	}
	offset := left - x0

	layer := s.scratchFor(x1-x0, piece.Height)
	fillCapsule(layer, offset, 0, piece.Width, piece.Height, piece.BackgroundColour)

	if tri != nil && len(tri.Triangles) > 0 {
		vs, is := triangleVertices(tri, piece.Width, piece.Height, piece.BackgroundColour)
		for i := range vs {
			vs[i].DstX += float32(offset)
		}
		op := &ebiten.DrawTrianglesOptions{}
		// 只在已有像素（音符形状）上绘制
		op.Blend = ebiten.BlendSourceAtop
		op.AntiAlias = true
		layer.DrawTriangles(vs, is, s.whiteSubImage, op)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x0, top)
	screen.DrawImage(layer, op)
}

// drawRing 绘制内部透明的白色外环
func (s *PieceRenderSystem) drawRing(screen *ebiten.Image, left, top float64, piece *components.CirclePieceComponent) {
	t := piece.RingThickness
	if t <= 0 {
		return
	}

	w, h := piece.Width, piece.Height
	x0, x1, ok := visibleSpan(screen, left, left+w)
	if !ok {
		return
	}

	layer := s.scratchFor(x1-x0, h)
	strokeCapsule(layer, left-x0, w, h, t, ringColour)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x0, top)
	screen.DrawImage(layer, op)
}

// visibleSpan 返回 [x0, x1) 与屏幕水平范围（两侧外扩 clipMargin）的交集
// 没有交集时 ok 为 false
func visibleSpan(screen *ebiten.Image, x0, x1 float64) (lo, hi float64, ok bool) {
	b := screen.Bounds()
	lo = math.Max(x0, float64(b.Min.X)-clipMargin)
	hi = math.Min(x1, float64(b.Max.X)+clipMargin)
	return lo, hi, hi > lo
}

// drawContent 在内容区域中心绘制符号
func (s *PieceRenderSystem) drawContent(screen *ebiten.Image, left, top float64, piece *components.CirclePieceComponent) {
	if piece.Symbol == components.SymbolNone {
		return
	}

	x, y, w, h := piece.ContentBounds()
	cx := float32(left + x + w/2)
	cy := float32(top + y + h/2)

	size, border := symbolMetrics(piece)

	switch piece.Symbol {
	case components.SymbolCentre:
		vector.DrawFilledCircle(screen, cx, cy, float32(size/2-border), symbolColour, true)
	case components.SymbolRim:
		vector.StrokeCircle(screen, cx, cy, float32((size-border)/2), float32(border), symbolColour, true)
	}
}

// symbolMetrics 返回按内容缩放后的符号直径和边框厚度
func symbolMetrics(piece *components.CirclePieceComponent) (size, border float64) {
	size = piece.BaseSize * config.SymbolSizeFactor * piece.ContentScale
	border = config.SymbolBorder * piece.ContentScale
	return size, border
}

// scratchFor 返回大小为 w×h 且已清空的离屏区域
func (s *PieceRenderSystem) scratchFor(w, h float64) *ebiten.Image {
	iw := int(math.Ceil(w))
	ih := int(math.Ceil(h))
	if iw < 1 {
		iw = 1
	}
	if ih < 1 {
		ih = 1
	}

	if s.scratch == nil || s.scratch.Bounds().Dx() < iw || s.scratch.Bounds().Dy() < ih {
		bw, bh := iw, ih
		if s.scratch != nil {
			bw = max(bw, s.scratch.Bounds().Dx())
			bh = max(bh, s.scratch.Bounds().Dy())
			s.scratch.Deallocate()
		}
		s.scratch = ebiten.NewImage(bw, bh)
	}

	region := s.scratch.SubImage(image.Rect(0, 0, iw, ih)).(*ebiten.Image)
	region.Clear()
	return region
}

// fillCapsule 在 (x, y, w, h) 内填充胶囊形（两端为直径 h 的半圆）
// w <= h 时退化为圆形
func fillCapsule(dst *ebiten.Image, x, y, w, h float64, clr color.Color) {
	r := h / 2
	if w <= h {
		vector.DrawFilledCircle(dst, float32(x+w/2), float32(y+r), float32(math.Min(w, h)/2), clr, true)
		return
	}

	vector.DrawFilledCircle(dst, float32(x+r), float32(y+r), float32(r), clr, true)
	vector.DrawFilledCircle(dst, float32(x+w-r), float32(y+r), float32(r), clr, true)
	vector.DrawFilledRect(dst, float32(x+r), float32(y), float32(w-2*r), float32(h), clr, true)
}

// strokeCapsule 在 (x, 0, w, h) 内绘制厚度为 t 的胶囊形边框
//
// 两端半圆用整圆描边，随后擦除两圆心之间的内部区域，
// 只保留上下两条边和外侧半圆弧。
func strokeCapsule(dst *ebiten.Image, x, w, h, t float64, clr color.Color) {
	r := h / 2
	mid := r - t/2
	if w <= h {
		vector.StrokeCircle(dst, float32(x+w/2), float32(r), float32(mid), float32(t), clr, true)
		return
	}

	left := x + r
	right := x + w - r
	vector.StrokeCircle(dst, float32(left), float32(r), float32(mid), float32(t), clr, true)
	vector.StrokeCircle(dst, float32(right), float32(r), float32(mid), float32(t), clr, true)

	inner := image.Rect(int(math.Ceil(left)), int(math.Ceil(t)), int(math.Floor(right)), int(math.Floor(h-t)))
	if !inner.Empty() {
		dst.SubImage(inner).(*ebiten.Image).Clear()
	}

	vector.StrokeLine(dst, float32(left), float32(t/2), float32(right), float32(t/2), float32(t), clr, true)
	vector.StrokeLine(dst, float32(left), float32(h-t/2), float32(right), float32(h-t/2), float32(t), clr, true)
}

// triangleVertices 生成三角形图案的顶点和索引
//
// 三角形为尖端朝上的正三角形，颜色为亮/暗色插值后乘以强调色。
// 坐标相对离屏图像左上角。
func triangleVertices(tri *components.TrianglesComponent, w, h float64, accent color.RGBA) ([]ebiten.Vertex, []uint16) {
	vs := make([]ebiten.Vertex, 0, len(tri.Triangles)*3)
	is := make([]uint16, 0, len(tri.Triangles)*3)

	for i, t := range tri.Triangles {
		side := t.Scale * h
		cx := t.X * w
		cy := t.Y * h
		height := side * math.Sqrt(3) / 2

		shade := utils.MultiplyColour(utils.LerpColour(tri.ColourLight, tri.ColourDark, t.Shade), accent)
		cr := float32(shade.R) / 255
		cg := float32(shade.G) / 255
		cb := float32(shade.B) / 255
		ca := float32(tri.Alpha)

		points := [3][2]float64{
			{cx, cy - height*2/3},
			{cx - side/2, cy + height/3},
			{cx + side/2, cy + height/3},
		}
		for _, p := range points {
			vs = append(vs, ebiten.Vertex{
				DstX:   float32(p[0]),
				DstY:   float32(p[1]),
				SrcX:   1,
				SrcY:   1,
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: ca,
			})
		}

		base := uint16(i * 3)
		is = append(is, base, base+1, base+2)
	}

	return vs, is
}
