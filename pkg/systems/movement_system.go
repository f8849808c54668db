package systems

import (
	"github.com/th3quietloop/tinycat-extension/pkg/components"
	"github.com/th3quietloop/tinycat-extension/pkg/ecs"
	"github.com/th3quietloop/tinycat-extension/pkg/utils"
)

// MovementSystem 位置插值器
//
// 每帧把实体位置向目标做指数平滑：pos += (target - pos) * k，
// 其中 k = Smoothing * SpeedFactor（截断到 [0,1]）。
//
// 单写者纪律：TransformComponent 只由本系统写入。
// 本系统在控制器之后、下一帧分类器之前执行，保证分类器读到的
// 永远是已结算的位置。
type MovementSystem struct {
	entityManager *ecs.EntityManager
}

// NewMovementSystem 创建位置插值系统
func NewMovementSystem(em *ecs.EntityManager) *MovementSystem {
	return &MovementSystem{
		entityManager: em,
	}
}

// Update 更新所有拥有位置与插值目标的实体
func (s *MovementSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith2[
		*components.TransformComponent,
		*components.MovementComponent,
	](s.entityManager)

	for _, id := range entities {
		tf, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if !ok {
			continue
		}
		mv, ok := ecs.GetComponent[*components.MovementComponent](s.entityManager, id)
		if !ok {
			continue
		}

		k := utils.Clamp(mv.Smoothing*mv.SpeedFactor, 0, 1)
		tf.X = utils.Lerp(tf.X, mv.TargetX, k)
		tf.Y = utils.Lerp(tf.Y, mv.TargetY, k)
	}
}
