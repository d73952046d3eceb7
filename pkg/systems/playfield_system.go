package systems

import (
	"log"

	"github.com/decker502/taiko/pkg/components"
	"github.com/decker502/taiko/pkg/config"
	"github.com/decker502/taiko/pkg/ecs"
	"github.com/decker502/taiko/pkg/entities"
)

// PlayfieldSystem 判定区系统
//
// 每帧：
//  1. 推进谱面时间
//  2. 根据 Kiai 时段切换所有音符的 Kiai 模式
//  3. 创建即将进入可见区域的音符
//  4. 更新音符位置，销毁已滚出左边缘的音符
type PlayfieldSystem struct {
	entityManager *ecs.EntityManager
	styleSystem   *PieceStyleSystem
	hitOptions    entities.HitObjectOptions
}

// NewPlayfieldSystem 创建判定区系统
func NewPlayfieldSystem(em *ecs.EntityManager, styleSystem *PieceStyleSystem, opts entities.HitObjectOptions) *PlayfieldSystem {
	return &PlayfieldSystem{
		entityManager: em,
		styleSystem:   styleSystem,
		hitOptions:    opts,
	}
}

// SetHitObjectOptions 替换后续创建音符时使用的外观参数（如皮肤颜色变化）
func (s *PlayfieldSystem) SetHitObjectOptions(opts entities.HitObjectOptions) {
	s.hitOptions = opts
}

// Update 更新所有判定区
//
// 参数：
//   - dt: 时间增量（秒）
func (s *PlayfieldSystem) Update(dt float64) {
	playfields := ecs.GetEntitiesWith1[*components.PlayfieldComponent](s.entityManager)

	for _, pfID := range playfields {
		pf, ok := ecs.GetComponent[*components.PlayfieldComponent](s.entityManager, pfID)
		if !ok {
			continue
		}

		pf.CurrentTime += dt * 1000

		s.updateKiai(pfID, pf)
		s.spawnHitObjects(pfID, pf)
	}

	s.updateHitObjects()
}

// updateKiai 根据谱面 Kiai 时段切换判定区及其音符的 Kiai 模式
func (s *PlayfieldSystem) updateKiai(pfID ecs.EntityID, pf *components.PlayfieldComponent) {
	kiai := pf.KiaiOverride
	if pf.Chart != nil && pf.Chart.IsKiaiAt(pf.CurrentTime) {
		kiai = true
	}
	if kiai == pf.KiaiMode {
		return
	}

	pf.KiaiMode = kiai
	changed := 0
	for _, id := range s.hitObjectsOf(pfID) {
		if s.styleSystem.SetKiaiMode(id, kiai) {
			changed++
		}
	}
	log.Printf("[PlayfieldSystem] Kiai %v at %.0fms (%d pieces)", kiai, pf.CurrentTime, changed)
}

// spawnHitObjects 创建即将从右边缘进入的音符
func (s *PlayfieldSystem) spawnHitObjects(pfID ecs.EntityID, pf *components.PlayfieldComponent) {
	if pf.Chart == nil {
		return
	}

	horizon := pf.CurrentTime + pf.ScrollTime + config.SpawnLeadTime
	for pf.NextHitObject < len(pf.Chart.HitObjects) {
		hit := pf.Chart.HitObjects[pf.NextHitObject]
		if hit.Time > horizon {
			break
		}
		pf.NextHitObject++

		if _, err := entities.NewHitObject(s.entityManager, pfID, hit, s.hitOptions); err != nil {
			log.Printf("[PlayfieldSystem] Warning: failed to spawn hit object at %.0fms: %v", hit.Time, err)
		}
	}
}

// updateHitObjects 更新音符位置并销毁滚出判定区的音符
func (s *PlayfieldSystem) updateHitObjects() {
	hits := ecs.GetEntitiesWith3[
		*components.HitObjectComponent,
		*components.CirclePieceComponent,
		*components.PositionComponent,
	](s.entityManager)

	for _, id := range hits {
		hit, _ := ecs.GetComponent[*components.HitObjectComponent](s.entityManager, id)
		piece, _ := ecs.GetComponent[*components.CirclePieceComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		pf, ok := ecs.GetComponent[*components.PlayfieldComponent](s.entityManager, hit.Playfield)
		if !ok {
			// 判定区已移除，音符随之销毁
			s.entityManager.DestroyEntity(id)
			continue
		}

		pos.X = pf.TimeToX(hit.StartTime)
		pos.Y = pf.CentreY()

		// 右边缘 = 左半圆圆心 - 半径 + 宽度
		if pos.X-piece.Height/2+piece.Width < pf.X {
			s.entityManager.DestroyEntity(id)
		}
	}
}

// hitObjectsOf 返回属于指定判定区的音符
func (s *PlayfieldSystem) hitObjectsOf(pfID ecs.EntityID) []ecs.EntityID {
	result := make([]ecs.EntityID, 0)
	for _, id := range ecs.GetEntitiesWith1[*components.HitObjectComponent](s.entityManager) {
		hit, ok := ecs.GetComponent[*components.HitObjectComponent](s.entityManager, id)
		if ok && hit.Playfield == pfID {
			result = append(result, id)
		}
	}
	return result
}

// Restart 将判定区倒回谱面开头并移除所有已创建的音符
func (s *PlayfieldSystem) Restart(pfID ecs.EntityID) {
	pf, ok := ecs.GetComponent[*components.PlayfieldComponent](s.entityManager, pfID)
	if !ok {
		return
	}

	for _, id := range s.hitObjectsOf(pfID) {
		s.entityManager.DestroyEntity(id)
	}
	s.entityManager.RemoveMarkedEntities()

	pf.CurrentTime = 0
	pf.NextHitObject = 0
	pf.KiaiMode = false
	log.Printf("[PlayfieldSystem] Playfield %d restarted", pfID)
}

// ToggleKiaiOverride 切换强制 Kiai
func (s *PlayfieldSystem) ToggleKiaiOverride(pfID ecs.EntityID) {
	if pf, ok := ecs.GetComponent[*components.PlayfieldComponent](s.entityManager, pfID); ok {
		pf.KiaiOverride = !pf.KiaiOverride
	}
}

// IsFinished 最后一个音符滚出判定区后返回 true
func (s *PlayfieldSystem) IsFinished(pfID ecs.EntityID) bool {
	pf, ok := ecs.GetComponent[*components.PlayfieldComponent](s.entityManager, pfID)
	if !ok || pf.Chart == nil {
		return true
	}
	if pf.NextHitObject < len(pf.Chart.HitObjects) {
		return false
	}
	return len(s.hitObjectsOf(pfID)) == 0
}
