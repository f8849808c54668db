// Package scenes 提供具体场景实现
//
// 宠物核心只有一个场景：PetScene，承载行为核心的完整数据流：
//
//	指针事件 → 分类器（逐帧采样）→ 离散信号 → 控制器（冷却/门限）
//	→ 状态机（转移）→ 控制器（状态进入反应）→ 目标位置 → 插值器
//
// 插值器结算的位置会在下一帧被分类器的接近检测读回（闭环）。
package scenes

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/th3quietloop/tinycat-extension/pkg/components"
	"github.com/th3quietloop/tinycat-extension/pkg/config"
	"github.com/th3quietloop/tinycat-extension/pkg/ecs"
	"github.com/th3quietloop/tinycat-extension/pkg/fsm"
	"github.com/th3quietloop/tinycat-extension/pkg/game"
	"github.com/th3quietloop/tinycat-extension/pkg/systems"
)

// PetScene 宠物场景
//
// 持有实体管理器、状态机和全部系统，按固定顺序驱动每帧更新：
// 分类器 → 控制器（计时器）→ 插值器。单线程协作式执行，
// 同一帧内分类器先把所有信号发射完，每个信号的转移与副作用
// 在下一个信号之前完全结算。
type PetScene struct {
	entityManager *ecs.EntityManager
	petID         ecs.EntityID

	machine    *fsm.Machine
	classifier *systems.SignalSystem
	controller *systems.ControllerSystem
	movement   *systems.MovementSystem
	lifetime   *systems.LifetimeSystem
	render     *systems.RenderSystem

	mounted bool
}

// NewPetScene 创建并装配宠物场景
//
// 参数：
//   - cfg: 行为调参配置
//   - settings: 初始设置快照（速度倍率、空闲阈值、禁用状态、主题）
//   - rng: 随机源（概率守卫使用；测试注入固定实现）
func NewPetScene(cfg *config.BehaviorConfig, settings *game.PetSettings, rng fsm.RandSource) *PetScene {
	em := ecs.NewEntityManager()

	// 创建宠物实体：初始落在休息位置
	petID := em.CreateEntity()
	em.AddComponent(petID, &components.TransformComponent{
		X: cfg.Movement.HomeX,
		Y: cfg.Movement.HomeY,
	})
	em.AddComponent(petID, &components.MovementComponent{
		TargetX:     cfg.Movement.HomeX,
		TargetY:     cfg.Movement.HomeY,
		HomeX:       cfg.Movement.HomeX,
		HomeY:       cfg.Movement.HomeY,
		Smoothing:   cfg.Movement.Smoothing,
		SpeedFactor: 1.0,
	})
	em.AddComponent(petID, &components.PetBehaviorComponent{
		State: fsm.StateIdle,
	})
	em.AddComponent(petID, &components.TimerComponent{
		Name:    "auto_advance",
		IsReady: true, // 初始无排程
	})

	// 装配顺序：控制器 → 状态机 → 分类器（控制器是双向的粘合点）
	controller := systems.NewControllerSystem(em, petID, cfg)
	machine := fsm.NewMachine(fsm.DefaultTable(), fsm.DefaultDurations(), rng, nil)
	controller.AttachMachine(machine)

	classifier := systems.NewSignalSystem(em, petID, cfg.Classifier, controller.HandleSignal)
	controller.AttachClassifier(classifier)

	scene := &PetScene{
		entityManager: em,
		petID:         petID,
		machine:       machine,
		classifier:    classifier,
		controller:    controller,
		movement:      systems.NewMovementSystem(em),
		lifetime:      systems.NewLifetimeSystem(em),
		render:        systems.NewRenderSystem(em, petID, settings.Theme),
	}

	// 应用初始设置（速度/空闲阈值/禁用状态）
	scene.ApplySettings(&game.SettingsPatch{
		MovementSpeedFactor: &settings.MovementSpeedFactor,
		IdleTimeoutSeconds:  &settings.IdleTimeoutSeconds,
		DisabledStates:      &settings.DisabledStates,
	})

	return scene
}

// Update 驱动一帧行为核心
//
// 固定顺序：分类器采样发射 → 控制器推进计时 → 插值器结算位置
// → 特效老化。标记销毁的特效实体在帧尾统一删除。
// 未挂载时整个核心静止（不采样、不计时、不移动）。
func (ps *PetScene) Update(deltaTime float64) {
	if !ps.mounted {
		return
	}

	ps.classifier.Update(deltaTime)
	ps.controller.Update(deltaTime)
	ps.movement.Update(deltaTime)
	ps.lifetime.Update(deltaTime)
	ps.entityManager.RemoveMarkedEntities()
}

// Draw 渲染宠物
func (ps *PetScene) Draw(screen *ebiten.Image) {
	if !ps.mounted {
		return
	}
	ps.render.Draw(screen)
}

// Mount 挂载宠物（幂等）
func (ps *PetScene) Mount() {
	if ps.mounted {
		return
	}
	ps.mounted = true
	log.Printf("[PetScene] 宠物已挂载")
}

// Unmount 卸载宠物（幂等）
//
// 取消所有排程中的计时并把状态机静默复位到 Idle，
// 没有异步在途操作需要排空。
func (ps *PetScene) Unmount() {
	if !ps.mounted {
		return
	}
	ps.mounted = false
	ps.machine.Reset()

	// Reset 不通知观察者，行为组件需要在这里一并复位，
	// 重新挂载时渲染不会短暂显示卸载前的旧状态
	if bc, ok := ecs.GetComponent[*components.PetBehaviorComponent](ps.entityManager, ps.petID); ok {
		bc.State = fsm.StateIdle
		bc.CursorNear = false
	}

	// 扩散中的涟漪一并清掉，重新挂载从干净画面开始
	for _, id := range ecs.GetEntitiesWith1[*components.RippleComponent](ps.entityManager) {
		ps.entityManager.DestroyEntity(id)
	}
	ps.entityManager.RemoveMarkedEntities()
	log.Printf("[PetScene] 宠物已卸载")
}

// IsMounted 返回宠物是否处于挂载状态
func (ps *PetScene) IsMounted() bool {
	return ps.mounted
}

// ApplySettings 把部分设置更新分发到行为核心
//
// 核心字段（速度/空闲阈值/禁用状态）交给控制器，
// 主题只影响渲染协作方。
func (ps *PetScene) ApplySettings(patch *game.SettingsPatch) {
	if patch == nil {
		return
	}
	ps.controller.ApplySettings(patch)
	if patch.Theme != nil {
		ps.render.SetTheme(*patch.Theme)
	}
}

// State 返回当前行为状态（调试/远程状态查询用）
func (ps *PetScene) State() fsm.State {
	return ps.machine.State()
}
