package entities

import (
	"fmt"
	"math/rand"

	"github.com/decker502/taiko/pkg/components"
	"github.com/decker502/taiko/pkg/config"
	"github.com/decker502/taiko/pkg/ecs"
)

// NewPlayfield 创建判定区实体
//
// 参数:
//   - em: 实体管理器
//   - chart: 要播放的谱面（不能为 nil）
//
// 返回:
//   - ecs.EntityID: 判定区实体ID
//   - error: 参数无效时返回错误
func NewPlayfield(em *ecs.EntityManager, chart *config.ChartConfig) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if chart == nil {
		return 0, fmt.Errorf("chart cannot be nil")
	}

	scrollTime := chart.ScrollTime
	if scrollTime <= 0 {
		scrollTime = config.DefaultScrollTime
	}

	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.PlayfieldComponent{
		X:            config.PlayfieldX,
		Y:            config.PlayfieldY,
		Width:        config.GameWindowWidth,
		Height:       config.PlayfieldHeight,
		HitPositionX: config.HitPositionX,
		ScrollTime:   scrollTime,
		Chart:        chart,
	})

	return entityID, nil
}

// HitObjectOptions 创建谱面音符的参数
type HitObjectOptions struct {
	// Colours 各类音符强调色
	Colours config.AccentColours

	// Config 外观配置，nil 时使用默认配置
	Config *config.PieceConfig

	// Rand 三角形图案的随机源
	Rand *rand.Rand
}

// NewHitObject 根据谱面中的音符配置创建音符实体
//
// 咚/咔创建为圆形音符，连打创建为拉长音符：
// 长度 = Duration / ScrollTime，参考长度来源为所属判定区。
//
// 参数:
//   - em: 实体管理器
//   - playfieldID: 所属判定区实体
//   - hit: 音符配置
//   - opts: 外观参数
//
// 返回:
//   - ecs.EntityID: 音符实体ID
//   - error: 判定区不存在或音符类型未知时返回错误
func NewHitObject(em *ecs.EntityManager, playfieldID ecs.EntityID, hit config.HitObjectConfig, opts HitObjectOptions) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}

	playfield, ok := ecs.GetComponent[*components.PlayfieldComponent](em, playfieldID)
	if !ok {
		return 0, fmt.Errorf("entity %d is not a playfield", playfieldID)
	}

	pieceOpts := CirclePieceOptions{
		X:        playfield.TimeToX(hit.Time),
		Y:        playfield.CentreY(),
		IsStrong: hit.Strong,
		Style: components.PieceStyle{
			AccentColour: opts.Colours.For(hit.Type),
			KiaiMode:     playfield.KiaiMode,
		},
		Config: opts.Config,
		Rand:   opts.Rand,
	}

	var (
		entityID ecs.EntityID
		err      error
	)

	switch hit.Type {
	case config.HitObjectCentre:
		pieceOpts.Symbol = components.SymbolCentre
		entityID, err = NewCirclePiece(em, pieceOpts)
	case config.HitObjectRim:
		pieceOpts.Symbol = components.SymbolRim
		entityID, err = NewCirclePiece(em, pieceOpts)
	case config.HitObjectDrumRoll:
		pieceOpts.Symbol = components.SymbolNone
		length := hit.Duration / playfield.ScrollTime
		entityID, _, err = NewElongatedCirclePiece(em, pieceOpts, length, playfield)
	default:
		return 0, fmt.Errorf("unknown hit object type %q", hit.Type)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create %s piece: %w", hit.Type, err)
	}

	em.AddComponent(entityID, &components.HitObjectComponent{
		StartTime: hit.Time,
		Duration:  hit.Duration,
		Type:      hit.Type,
		IsStrong:  hit.Strong,
		Playfield: playfieldID,
	})

	return entityID, nil
}
