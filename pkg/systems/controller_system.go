package systems

import (
	"log"

	"github.com/th3quietloop/tinycat-extension/pkg/components"
	"github.com/th3quietloop/tinycat-extension/pkg/config"
	"github.com/th3quietloop/tinycat-extension/pkg/ecs"
	"github.com/th3quietloop/tinycat-extension/pkg/fsm"
	"github.com/th3quietloop/tinycat-extension/pkg/game"
	"github.com/th3quietloop/tinycat-extension/pkg/utils"
)

// ControllerSystem 行为控制器
//
// 分类器输出与状态机之间的胶水层，承担三类职责：
//  1. 信号准入：每种信号的冷却窗口、快速移动信号的地理门限
//  2. 空间指令：每次状态切换恰好发出一条（追逐/定住/回家/保持）
//  3. 设置转发：applySettings 的各字段独立、幂等地分发到对应子系统
//
// 同时实现 fsm.Scheduler：限时状态的自动推进用宠物实体上的
// TimerComponent 按帧累计，不持有真实时钟。
// 状态机的转移通知是控制器唯一的外部触发，控制器从不轮询。
type ControllerSystem struct {
	entityManager *ecs.EntityManager
	petID         ecs.EntityID
	machine       *fsm.Machine
	cfg           *config.BehaviorConfig

	classifier *SignalSystem // 空闲阈值设置的转发目标

	cooldowns map[fsm.Signal]float64 // 信号 -> 冷却窗口（秒）
	lastFired map[fsm.Signal]float64 // 信号 -> 上次准入时间戳

	gameTime float64 // 游戏时间累计（秒）

	// 本帧光标位置（随每个信号更新，追逐指令需要）
	cursorX float64
	cursorY float64
}

// NewControllerSystem 创建行为控制器
//
// 参数：
//   - em: EntityManager 实例
//   - petID: 宠物实体ID
//   - cfg: 行为配置（冷却表、地理门限、空间指令参数）
//
// 状态机与分类器互相引用，构造完成后通过 AttachMachine /
// AttachClassifier 注入。
func NewControllerSystem(em *ecs.EntityManager, petID ecs.EntityID, cfg *config.BehaviorConfig) *ControllerSystem {
	cooldowns := make(map[fsm.Signal]float64, len(cfg.Controller.Cooldowns))
	for name, window := range cfg.Controller.Cooldowns {
		sig, ok := fsm.ParseSignal(name)
		if !ok {
			log.Printf("[ControllerSystem] 冷却配置包含未知信号: %q", name)
			continue
		}
		cooldowns[sig] = window
	}

	return &ControllerSystem{
		entityManager: em,
		petID:         petID,
		cfg:           cfg,
		cooldowns:     cooldowns,
		lastFired:     make(map[fsm.Signal]float64),
	}
}

// AttachMachine 注入状态机并注册转移观察者
func (s *ControllerSystem) AttachMachine(m *fsm.Machine) {
	s.machine = m
	m.SetScheduler(s)
	m.AddObserver(s.onStateChange)
}

// AttachClassifier 注入分类器（空闲阈值设置的转发目标）
func (s *ControllerSystem) AttachClassifier(classifier *SignalSystem) {
	s.classifier = classifier
}

// Update 推进自动推进计时器
//
// 在分类器之后、插值器之前执行：计时器到点时合成 AnimationDone
// 投递给状态机（同一帧内完成转移与状态进入副作用）。
func (s *ControllerSystem) Update(deltaTime float64) {
	s.gameTime += deltaTime

	timer, ok := ecs.GetComponent[*components.TimerComponent](s.entityManager, s.petID)
	if !ok || timer.IsReady || timer.TargetTime <= 0 {
		return
	}

	timer.CurrentTime += deltaTime
	if timer.CurrentTime >= timer.TargetTime {
		timer.IsReady = true
		s.machine.Send(fsm.SignalAnimationDone)
	}
}

// HandleSignal 处理分类器发射的一个信号
//
// 处理顺序：
//  1. 接近信号先更新 CursorNear 标志（显式豁免冷却门限）
//  2. 快速移动信号做地理门限：光标离宠物太远时直接丢弃
//  3. 冷却检查：窗口内的重复信号静默丢弃
//  4. 存活的信号投递给状态机
func (s *ControllerSystem) HandleSignal(sig fsm.Signal, cursorX, cursorY float64) {
	s.cursorX, s.cursorY = cursorX, cursorY

	// 接近跟踪副作用不受冷却影响
	if bc, ok := ecs.GetComponent[*components.PetBehaviorComponent](s.entityManager, s.petID); ok {
		switch sig {
		case fsm.SignalNearTarget:
			bc.CursorNear = true
		case fsm.SignalCursorAway:
			bc.CursorNear = false
		}
	}

	// 地理门限：宠物只"注意到"身边的快速移动
	if sig == fsm.SignalCursorFast || sig == fsm.SignalRepeatedFast {
		if tf, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.petID); ok {
			if utils.Distance(cursorX, cursorY, tf.X, tf.Y) > s.cfg.Controller.NoticeRadius {
				return
			}
		}
	}

	// 冷却检查（表中没有条目的信号不受限制）
	if window, ok := s.cooldowns[sig]; ok {
		if last, seen := s.lastFired[sig]; seen && s.gameTime-last < window {
			return
		}
		s.lastFired[sig] = s.gameTime
	}

	// 通过准入的点击在光标处留下涟漪反馈
	if sig == fsm.SignalClick {
		s.spawnRipple(cursorX, cursorY)
	}

	s.machine.Send(sig)
}

// rippleDuration 点击涟漪的扩散时长（秒）
const rippleDuration = 0.45

// spawnRipple 在指定位置创建一个涟漪特效实体
func (s *ControllerSystem) spawnRipple(x, y float64) {
	id := s.entityManager.CreateEntity()
	s.entityManager.AddComponent(id, &components.TransformComponent{X: x, Y: y})
	s.entityManager.AddComponent(id, &components.RippleComponent{Duration: rippleDuration})
}

// ApplySettings 应用部分设置更新
//
// 各字段独立且幂等：只更新补丁中出现的字段。
//   - movementSpeedFactor -> MovementComponent
//   - idleTimeoutSeconds  -> 分类器
//   - disabledStates      -> 状态机
func (s *ControllerSystem) ApplySettings(patch *game.SettingsPatch) {
	if patch == nil {
		return
	}

	if patch.MovementSpeedFactor != nil && *patch.MovementSpeedFactor > 0 {
		if mv, ok := ecs.GetComponent[*components.MovementComponent](s.entityManager, s.petID); ok {
			mv.SpeedFactor = *patch.MovementSpeedFactor
		}
	}

	if patch.IdleTimeoutSeconds != nil && s.classifier != nil {
		s.classifier.SetMediumIdleSeconds(*patch.IdleTimeoutSeconds)
	}

	if patch.DisabledStates != nil {
		s.machine.SetDisabledStates(parseStateNames(*patch.DisabledStates))
	}
}

// parseStateNames 把状态名称列表解析为状态集，未知名称记录后跳过
func parseStateNames(names []string) []fsm.State {
	states := make([]fsm.State, 0, len(names))
	for _, name := range names {
		st, ok := fsm.ParseState(name)
		if !ok {
			log.Printf("[ControllerSystem] 忽略未知状态名: %q", name)
			continue
		}
		states = append(states, st)
	}
	return states
}

// onStateChange 状态切换回调：同步行为组件并发出空间指令
func (s *ControllerSystem) onStateChange(newState, oldState fsm.State) {
	if bc, ok := ecs.GetComponent[*components.PetBehaviorComponent](s.entityManager, s.petID); ok {
		bc.State = newState
	}

	mv, okMv := ecs.GetComponent[*components.MovementComponent](s.entityManager, s.petID)
	tf, okTf := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.petID)
	if !okMv || !okTf {
		return
	}

	switch fsm.DirectiveFor(newState) {
	case fsm.DirectiveChase:
		mv.TargetX = s.cursorX + s.cfg.Movement.ChaseOffsetX
		mv.TargetY = s.cursorY + s.cfg.Movement.ChaseOffsetY
	case fsm.DirectiveFreeze:
		mv.TargetX = tf.X
		mv.TargetY = tf.Y
	case fsm.DirectiveHome:
		mv.TargetX = mv.HomeX
		mv.TargetY = mv.HomeY
	case fsm.DirectiveKeep:
		// 目标保持不变
	}

	log.Printf("[ControllerSystem] 状态切换: %s -> %s", oldState, newState)
}

// Schedule 实现 fsm.Scheduler：duration 秒后合成 AnimationDone
func (s *ControllerSystem) Schedule(duration float64) {
	if timer, ok := ecs.GetComponent[*components.TimerComponent](s.entityManager, s.petID); ok {
		timer.Name = "auto_advance"
		timer.TargetTime = duration
		timer.CurrentTime = 0
		timer.IsReady = false
	}
}

// Cancel 实现 fsm.Scheduler：取消尚未触发的排程
func (s *ControllerSystem) Cancel() {
	if timer, ok := ecs.GetComponent[*components.TimerComponent](s.entityManager, s.petID); ok {
		timer.IsReady = true
	}
}
