package systems

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/th3quietloop/tinycat-extension/pkg/components"
	"github.com/th3quietloop/tinycat-extension/pkg/config"
	"github.com/th3quietloop/tinycat-extension/pkg/ecs"
	"github.com/th3quietloop/tinycat-extension/pkg/fsm"
	"github.com/th3quietloop/tinycat-extension/pkg/utils"
)

// CursorProvider 返回当前光标的逻辑坐标
// 默认实现为 ebiten.CursorPosition，测试注入脚本化的光标轨迹
type CursorProvider func() (int, int)

// ClickProvider 返回本帧是否发生了鼠标左键按下
// 默认实现为 inpututil.IsMouseButtonJustPressed
type ClickProvider func() bool

// SignalEmitter 信号发射回调
// 分类器把每个信号连同本帧光标坐标一起推给行为控制器
type SignalEmitter func(sig fsm.Signal, cursorX, cursorY float64)

// SignalSystem 信号分类器
//
// 每个显示帧采样一次光标位置，把连续的指针运动转换为离散行为信号：
// 快速移动、方向突变、画圈、空闲阈值、接近检测。
//
// 分类器是时间窗口统计上的纯信号发生器：它不了解冷却、门限和状态机，
// 所有信号通过唯一的 emit 回调交给控制器。
type SignalSystem struct {
	entityManager *ecs.EntityManager
	petID         ecs.EntityID
	cfg           config.ClassifierConfig
	emit          SignalEmitter

	cursor  CursorProvider
	clicked ClickProvider

	gameTime float64 // 游戏时间累计（秒）

	// 上一帧采样（除环形缓冲外不保留更早的历史）
	hasPrev      bool
	prevX, prevY float64
	prevAngle    float64
	hasPrevAngle bool

	// 快速移动爆发检测：窗口内的触发时间戳（环形，按窗口修剪）
	fastTimes []float64
	// 圆周运动检测：最近的有符号角度增量（环形，固定容量）
	angleDeltas []float64

	// 空闲期跟踪：每个空闲期 Medium/Long 各最多发一次，移动时复位
	idleTime    float64
	mediumFired bool
	longFired   bool
}

// NewSignalSystem 创建信号分类器
//
// 参数：
//   - em: EntityManager 实例
//   - petID: 宠物实体ID（读取 TransformComponent 做接近检测）
//   - cfg: 分类器阈值配置
//   - emit: 信号发射回调（通常是 ControllerSystem.HandleSignal）
func NewSignalSystem(em *ecs.EntityManager, petID ecs.EntityID, cfg config.ClassifierConfig, emit SignalEmitter) *SignalSystem {
	return &SignalSystem{
		entityManager: em,
		petID:         petID,
		cfg:           cfg,
		emit:          emit,
		cursor: func() (int, int) {
			return ebiten.CursorPosition()
		},
		clicked: func() bool {
			return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
		},
	}
}

// SetProviders 替换光标与点击来源（测试注入脚本化输入）
func (s *SignalSystem) SetProviders(cursor CursorProvider, clicked ClickProvider) {
	if cursor != nil {
		s.cursor = cursor
	}
	if clicked != nil {
		s.clicked = clicked
	}
}

// SetMediumIdleSeconds 更新中等空闲阈值（对应设置中的 idleTimeoutSeconds）
func (s *SignalSystem) SetMediumIdleSeconds(seconds float64) {
	if seconds > 0 {
		s.cfg.MediumIdleSeconds = seconds
	}
}

// Update 执行一帧分类
//
// 发射顺序固定：Click → 方向突变 → 快速移动（含爆发）→ 画圈 →
// CursorMove → 空闲检查 → 接近检查。
// 同一帧内控制器同步消费每个信号，信号之间不会交错。
func (s *SignalSystem) Update(deltaTime float64) {
	s.gameTime += deltaTime

	cx, cy := s.cursor()
	x, y := float64(cx), float64(cy)

	// 点击监听不走运动统计，命中当帧立即发射
	if s.clicked() {
		s.emit(fsm.SignalClick, x, y)
	}

	if !s.hasPrev {
		s.hasPrev = true
		s.prevX, s.prevY = x, y
	}

	dx := x - s.prevX
	dy := y - s.prevY
	speed := math.Hypot(dx, dy)
	moving := speed > s.cfg.StationaryThreshold

	if moving {
		angle := utils.AngleDegrees(dx, dy)

		if s.hasPrevAngle {
			// 方向突变检测
			delta := utils.AngleDeltaDeg(angle, s.prevAngle)
			if delta >= s.cfg.DirectionChangeAngle && speed > s.cfg.DirectionChangeMinSpeed {
				s.emit(fsm.SignalDirectionChange, x, y)
			}
		}

		// 快速移动检测 + 爆发环形缓冲
		if speed >= s.cfg.FastSpeed {
			s.emit(fsm.SignalCursorFast, x, y)
			s.recordFastBurst(x, y)
		}

		// 圆周运动检测
		if s.hasPrevAngle {
			s.recordAngleDelta(utils.WrapDeltaDeg(angle-s.prevAngle), x, y)
		}

		s.prevAngle = angle
		s.hasPrevAngle = true

		s.emit(fsm.SignalCursorMove, x, y)

		// 任何移动复位空闲期（两个"已发射"标记一起清除）
		s.idleTime = 0
		s.mediumFired = false
		s.longFired = false
	} else {
		// 静止帧：只累计空闲时间，跳过方向相关检测
		s.idleTime += deltaTime

		// Long 优先于 Medium（同一帧两个阈值都满足时只发 LongIdle）
		if s.idleTime >= s.cfg.LongIdleSeconds && !s.longFired {
			s.emit(fsm.SignalLongIdle, x, y)
			s.longFired = true
		} else if s.idleTime >= s.cfg.MediumIdleSeconds && !s.mediumFired {
			s.emit(fsm.SignalMediumIdle, x, y)
			s.mediumFired = true
		}
	}

	// 接近检查（读取宠物上一帧已结算的位置）
	if tf, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.petID); ok {
		dist := utils.Distance(x, y, tf.X, tf.Y)
		if dist < s.cfg.NearDistance {
			s.emit(fsm.SignalNearTarget, x, y)
		} else if dist > s.cfg.AwayDistance {
			s.emit(fsm.SignalCursorAway, x, y)
		}
		// Near 与 Away 之间是死区：不发信号
	}

	s.prevX, s.prevY = x, y
}

// recordFastBurst 记录一次快速移动并检测爆发
//
// 缓冲只保留窗口内的时间戳；达到阈值次数时发射 RepeatedFast 并清空
func (s *SignalSystem) recordFastBurst(x, y float64) {
	cutoff := s.gameTime - s.cfg.FastBurstWindow
	kept := s.fastTimes[:0]
	for _, t := range s.fastTimes {
		if t >= cutoff {
			kept = append(kept, t)
		}
	}
	s.fastTimes = append(kept, s.gameTime)

	if len(s.fastTimes) >= s.cfg.FastBurstCount {
		s.emit(fsm.SignalRepeatedFast, x, y)
		s.fastTimes = s.fastTimes[:0]
	}
}

// recordAngleDelta 记录一个有符号角度增量并检测画圈
//
// 缓冲填满后求绝对增量之和：达到阈值发射 CircularMotion 并清空，
// 未达到则丢弃最旧样本（环形滑动）。
func (s *SignalSystem) recordAngleDelta(delta, x, y float64) {
	s.angleDeltas = append(s.angleDeltas, delta)
	if len(s.angleDeltas) < s.cfg.CircularSampleCount {
		return
	}
	if len(s.angleDeltas) > s.cfg.CircularSampleCount {
		s.angleDeltas = s.angleDeltas[1:]
	}

	total := 0.0
	for _, d := range s.angleDeltas {
		total += math.Abs(d)
	}
	if total >= s.cfg.CircularTotalAngle {
		s.emit(fsm.SignalCircularMotion, x, y)
		s.angleDeltas = s.angleDeltas[:0]
	}
}
