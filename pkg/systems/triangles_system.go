package systems

import (
	"math/rand"

	"github.com/decker502/taiko/pkg/components"
	"github.com/decker502/taiko/pkg/ecs"
	"github.com/decker502/taiko/pkg/utils"
)

// TrianglesSystem 背景三角形图案动画系统
type TrianglesSystem struct {
	entityManager *ecs.EntityManager
	rng           *rand.Rand
}

// NewTrianglesSystem 创建三角形动画系统
// rng 为 nil 时使用全局随机源
func NewTrianglesSystem(em *ecs.EntityManager, rng *rand.Rand) *TrianglesSystem {
	return &TrianglesSystem{
		entityManager: em,
		rng:           rng,
	}
}

func (s *TrianglesSystem) float() float64 {
	if s.rng != nil {
		return s.rng.Float64()
	}
	return rand.Float64()
}

// Update 让三角形向上漂移，完全移出顶部的三角形从底部重新出现
//
// 参数：
//   - dt: 时间增量（秒）
func (s *TrianglesSystem) Update(dt float64) {
	entities := ecs.GetEntitiesWith1[*components.TrianglesComponent](s.entityManager)

	for _, id := range entities {
		tri, ok := ecs.GetComponent[*components.TrianglesComponent](s.entityManager, id)
		if !ok {
			continue
		}

		for i := range tri.Triangles {
			t := &tri.Triangles[i]
			// 越大的三角形移动越快，形成视差
			t.Y -= tri.Speed * dt * (0.5 + t.Scale)

			// 底边（Y + Scale/2）离开顶部后重生
			if t.Y+t.Scale/2 < 0 {
				t.Scale = utils.Lerp(tri.MinScale, tri.MaxScale, s.float())
				t.X = s.float()
				t.Y = 1 + t.Scale/2
				t.Shade = s.float()
			}
		}
	}
}
