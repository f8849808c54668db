package systems

import (
	"github.com/th3quietloop/tinycat-extension/pkg/components"
	"github.com/th3quietloop/tinycat-extension/pkg/ecs"
)

// LifetimeSystem 管理短命特效实体的生命周期
//
// 目前只有点击涟漪一种特效。过期实体先标记，实际删除由场景
// 在所有系统更新完后统一执行（RemoveMarkedEntities），
// 迭代期间不修改实体表。
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
}

// NewLifetimeSystem 创建生命周期系统
func NewLifetimeSystem(em *ecs.EntityManager) *LifetimeSystem {
	return &LifetimeSystem{
		entityManager: em,
	}
}

// Update 推进所有涟漪实体的年龄，过期的标记销毁
func (s *LifetimeSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith1[*components.RippleComponent](s.entityManager)

	for _, id := range entities {
		ripple, ok := ecs.GetComponent[*components.RippleComponent](s.entityManager, id)
		if !ok {
			continue
		}

		ripple.Age += deltaTime
		if ripple.Age >= ripple.Duration {
			s.entityManager.DestroyEntity(id)
		}
	}
}
