package entities

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/decker502/taiko/pkg/components"
	"github.com/decker502/taiko/pkg/config"
	"github.com/decker502/taiko/pkg/ecs"
	"github.com/decker502/taiko/pkg/utils"
)

// CirclePieceOptions 创建音符块的参数
type CirclePieceOptions struct {
	// X/Y 左侧半圆圆心的屏幕坐标
	X float64
	Y float64

	// IsStrong 是否为大音符
	IsStrong bool

	// Style 初始样式
	Style components.PieceStyle

	// Symbol 内容层符号
	Symbol components.PieceSymbol

	// Config 外观配置，nil 时使用默认配置
	Config *config.PieceConfig

	// Rand 三角形图案的随机源，nil 时使用全局随机源
	Rand *rand.Rand
}

// NewCirclePiece 创建圆形音符块实体
//
// 实体包含 PositionComponent、CirclePieceComponent 和 TrianglesComponent。
// 大音符的整体尺寸和内容缩放都按 StrongScale 放大。
//
// 返回:
//   - ecs.EntityID: 创建的实体ID，失败时返回 0
//   - error: 参数无效时返回错误
func NewCirclePiece(em *ecs.EntityManager, opts CirclePieceOptions) (ecs.EntityID, error) {
	return newPiece(em, opts, components.FixedSizing{})
}

// NewElongatedCirclePiece 创建拉长的音符块实体（连打）
//
// 大音符只放大整体尺寸，内容缩放保持基础值。
// ref 为 nil（包括 nil 指针）时参考长度按 0 处理（宽度等于高度），
// 之后可以通过返回的 ElongatedSizing.Attach 设置。
//
// 返回:
//   - ecs.EntityID: 创建的实体ID，失败时返回 0
//   - *components.ElongatedSizing: 尺寸策略（用于后续修改长度或参考）
//   - error: 参数无效时返回错误
func NewElongatedCirclePiece(em *ecs.EntityManager, opts CirclePieceOptions, length float64, ref components.LengthReference) (ecs.EntityID, *components.ElongatedSizing, error) {
	if !components.IsValidLength(length) {
		return 0, nil, fmt.Errorf("elongated piece length must be a finite value >= 0, got %.3f", length)
	}

	sizing := components.NewElongatedSizing(length)
	sizing.Attach(ref)

	id, err := newPiece(em, opts, sizing)
	if err != nil {
		return 0, nil, err
	}
	return id, sizing, nil
}

// newPiece 两种音符共用的组装逻辑，差异只在尺寸策略
func newPiece(em *ecs.EntityManager, opts CirclePieceOptions, sizing components.SizingStrategy) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultPieceConfig()
	}

	piece := components.NewCirclePieceComponent(cfg.BaseSize(), cfg.StrongScale, opts.IsStrong, sizing)
	piece.RingThickness = cfg.RingThickness
	piece.Symbol = opts.Symbol
	piece.GlowRadii = components.GlowRadii{Calm: cfg.Glow.Calm, Kiai: cfg.Glow.Kiai}
	piece.ApplyStyle(opts.Style)

	// 第一帧之前先算一次尺寸，避免连打在首帧以圆形绘制
	piece.Sizing.Resize(piece)

	entityID := em.CreateEntity()

	em.AddComponent(entityID, &components.PositionComponent{
		X: opts.X,
		Y: opts.Y,
	})
	em.AddComponent(entityID, piece)
	em.AddComponent(entityID, newTrianglesComponent(cfg.Triangles, opts.Rand))

	return entityID, nil
}

// newTrianglesComponent 创建随机分布的背景三角形图案
func newTrianglesComponent(cfg config.TrianglesConfig, rng *rand.Rand) *components.TrianglesComponent {
	float := rand.Float64
	if rng != nil {
		float = rng.Float64
	}

	light := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	tri := &components.TrianglesComponent{
		Triangles:   make([]components.Triangle, cfg.Count),
		ColourLight: light,
		ColourDark:  utils.DarkenColour(light, cfg.Darken),
		Speed:       cfg.Speed,
		MinScale:    cfg.MinScale,
		MaxScale:    cfg.MaxScale,
		Alpha:       0.35,
	}

	for i := range tri.Triangles {
		tri.Triangles[i] = components.Triangle{
			X:     float(),
			Y:     float(),
			Scale: cfg.MinScale + float()*(cfg.MaxScale-cfg.MinScale),
			Shade: float(),
		}
	}

	return tri
}
