package systems

import (
	"testing"

	"github.com/th3quietloop/tinycat-extension/pkg/components"
	"github.com/th3quietloop/tinycat-extension/pkg/config"
	"github.com/th3quietloop/tinycat-extension/pkg/ecs"
	"github.com/th3quietloop/tinycat-extension/pkg/fsm"
	"github.com/th3quietloop/tinycat-extension/pkg/game"
)

// fixedRand 固定返回值的随机源
type fixedRand struct{ v float64 }

func (r fixedRand) Float64() float64 { return r.v }

// controllerFixture 控制器测试夹具：完整的实体 + 状态机接线
type controllerFixture struct {
	em         *ecs.EntityManager
	petID      ecs.EntityID
	controller *ControllerSystem
	machine    *fsm.Machine
}

// newControllerFixture 以默认配置和给定随机源搭建控制器
func newControllerFixture(cfg *config.BehaviorConfig, rng fsm.RandSource) *controllerFixture {
	em := ecs.NewEntityManager()
	petID := em.CreateEntity()
	em.AddComponent(petID, &components.TransformComponent{X: cfg.Movement.HomeX, Y: cfg.Movement.HomeY})
	em.AddComponent(petID, &components.MovementComponent{
		TargetX:     cfg.Movement.HomeX,
		TargetY:     cfg.Movement.HomeY,
		HomeX:       cfg.Movement.HomeX,
		HomeY:       cfg.Movement.HomeY,
		Smoothing:   cfg.Movement.Smoothing,
		SpeedFactor: 1.0,
	})
	em.AddComponent(petID, &components.PetBehaviorComponent{State: fsm.StateIdle})
	em.AddComponent(petID, &components.TimerComponent{IsReady: true})

	controller := NewControllerSystem(em, petID, cfg)
	machine := fsm.NewMachine(fsm.DefaultTable(), fsm.DefaultDurations(), rng, nil)
	controller.AttachMachine(machine)

	return &controllerFixture{em: em, petID: petID, controller: controller, machine: machine}
}

func (f *controllerFixture) behavior(t *testing.T) *components.PetBehaviorComponent {
	t.Helper()
	bc, ok := ecs.GetComponent[*components.PetBehaviorComponent](f.em, f.petID)
	if !ok {
		t.Fatal("pet has no PetBehaviorComponent")
	}
	return bc
}

func (f *controllerFixture) movement(t *testing.T) *components.MovementComponent {
	t.Helper()
	mv, ok := ecs.GetComponent[*components.MovementComponent](f.em, f.petID)
	if !ok {
		t.Fatal("pet has no MovementComponent")
	}
	return mv
}

// TestCooldownBlocksRepeat 测试冷却窗口内的重复信号被丢弃
//
// 利用 Sleep/AlertSleep 循环观察：NearTarget 冷却 1 秒，
// 窗口内的第二次 NearTarget 不应再次唤醒。
func TestCooldownBlocksRepeat(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.99})

	// 进入 Sleep
	f.controller.HandleSignal(fsm.SignalLongIdle, 240, 300)
	if f.machine.State() != fsm.StateSleep {
		t.Fatalf("state: got %s, want Sleep", f.machine.State())
	}

	// 第一次 NearTarget：Sleep -> AlertSleep
	f.controller.HandleSignal(fsm.SignalNearTarget, 250, 300)
	if f.machine.State() != fsm.StateAlertSleep {
		t.Fatalf("state: got %s, want AlertSleep", f.machine.State())
	}

	// 回到 Sleep
	f.controller.Update(0.5)
	f.controller.HandleSignal(fsm.SignalCursorAway, 900, 900)
	if f.machine.State() != fsm.StateSleep {
		t.Fatalf("state: got %s, want Sleep after CursorAway", f.machine.State())
	}

	// 冷却窗口内（1 秒）的第二次 NearTarget 被丢弃
	f.controller.HandleSignal(fsm.SignalNearTarget, 250, 300)
	if f.machine.State() != fsm.StateSleep {
		t.Errorf("state: got %s, want Sleep (NearTarget inside cooldown)", f.machine.State())
	}

	// 冷却期满后恢复准入
	f.controller.Update(1.1)
	f.controller.HandleSignal(fsm.SignalNearTarget, 250, 300)
	if f.machine.State() != fsm.StateAlertSleep {
		t.Errorf("state: got %s, want AlertSleep after cooldown elapsed", f.machine.State())
	}
}

// TestGeographicGate 测试快速移动信号的地理门限
func TestGeographicGate(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.0})

	// 宠物在 (240, 300)，光标在 600px 外：CursorFast 被丢弃
	f.controller.HandleSignal(fsm.SignalCursorFast, 840, 300)
	if f.machine.State() != fsm.StateIdle {
		t.Errorf("state: got %s, want Idle (fast signal beyond notice radius)", f.machine.State())
	}

	// 光标在门限以内：准入并转移（随机源 0.0 保证守卫通过）
	f.controller.HandleSignal(fsm.SignalCursorFast, 300, 300)
	if f.machine.State() != fsm.StatePounce {
		t.Errorf("state: got %s, want Pounce", f.machine.State())
	}
}

// TestGateDoesNotConsumeCooldown 测试被门限丢弃的信号不消耗冷却
func TestGateDoesNotConsumeCooldown(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.0})

	// 远处的快速移动被门限丢弃
	f.controller.HandleSignal(fsm.SignalCursorFast, 840, 300)
	// 紧接着近处的快速移动必须准入（门限丢弃不记录 lastFired）
	f.controller.HandleSignal(fsm.SignalCursorFast, 300, 300)
	if f.machine.State() != fsm.StatePounce {
		t.Errorf("state: got %s, want Pounce", f.machine.State())
	}
}

// TestCursorNearFlagExemptFromCooldown 测试接近标志不受冷却影响
func TestCursorNearFlagExemptFromCooldown(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.99})

	f.controller.HandleSignal(fsm.SignalNearTarget, 250, 300)
	if !f.behavior(t).CursorNear {
		t.Fatal("CursorNear: got false, want true")
	}

	// CursorAway 的状态机转移可能被冷却挡住，但标志必须立即更新
	f.controller.HandleSignal(fsm.SignalCursorAway, 900, 900)
	if f.behavior(t).CursorNear {
		t.Error("CursorNear: got true, want false (flag updates before cooldown check)")
	}

	// 冷却窗口内再次接近，标志照样翻转
	f.controller.HandleSignal(fsm.SignalNearTarget, 250, 300)
	if !f.behavior(t).CursorNear {
		t.Error("CursorNear: got false, want true inside cooldown window")
	}
}

// TestChaseDirective 测试追逐指令把目标设为光标加偏移
func TestChaseDirective(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.0})

	f.controller.HandleSignal(fsm.SignalCursorFast, 300, 280)
	if f.machine.State() != fsm.StatePounce {
		t.Fatalf("state: got %s, want Pounce", f.machine.State())
	}

	mv := f.movement(t)
	wantX := 300 + cfg.Movement.ChaseOffsetX
	wantY := 280 + cfg.Movement.ChaseOffsetY
	if mv.TargetX != wantX || mv.TargetY != wantY {
		t.Errorf("chase target: got (%v, %v), want (%v, %v)", mv.TargetX, mv.TargetY, wantX, wantY)
	}
}

// TestFreezeDirective 测试定住指令把目标钉在当前位置
func TestFreezeDirective(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.99})

	// 先把宠物挪离目标，再触发定住
	tf, _ := ecs.GetComponent[*components.TransformComponent](f.em, f.petID)
	tf.X, tf.Y = 123, 77

	f.controller.HandleSignal(fsm.SignalClick, 130, 80)
	if f.machine.State() != fsm.StateStartled {
		t.Fatalf("state: got %s, want Startled", f.machine.State())
	}

	mv := f.movement(t)
	if mv.TargetX != 123 || mv.TargetY != 77 {
		t.Errorf("freeze target: got (%v, %v), want (123, 77)", mv.TargetX, mv.TargetY)
	}
}

// TestHomeDirective 测试回家指令把目标设为栖息点
func TestHomeDirective(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	// 随机源 0.99：MediumIdle 的前两次掷骰都失败，落到 Drinking
	f := newControllerFixture(cfg, fixedRand{0.99})
	mv := f.movement(t)
	mv.TargetX, mv.TargetY = 50, 50

	f.controller.HandleSignal(fsm.SignalMediumIdle, 500, 500)
	if f.machine.State() != fsm.StateDrinking {
		t.Fatalf("state: got %s, want Drinking", f.machine.State())
	}
	if mv.TargetX != cfg.Movement.HomeX || mv.TargetY != cfg.Movement.HomeY {
		t.Errorf("home target: got (%v, %v), want (%v, %v)", mv.TargetX, mv.TargetY, cfg.Movement.HomeX, cfg.Movement.HomeY)
	}
}

// TestKeepDirectiveLeavesTarget 测试保持指令不改目标
func TestKeepDirectiveLeavesTarget(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.0})

	mv := f.movement(t)
	mv.TargetX, mv.TargetY = 111, 222

	// MediumIdle 随机源 0.0 -> Stretching（Keep 指令）
	f.controller.HandleSignal(fsm.SignalMediumIdle, 500, 500)
	if f.machine.State() != fsm.StateStretching {
		t.Fatalf("state: got %s, want Stretching", f.machine.State())
	}
	if mv.TargetX != 111 || mv.TargetY != 222 {
		t.Errorf("keep target: got (%v, %v), want (111, 222)", mv.TargetX, mv.TargetY)
	}
}

// TestAutoAdvanceTiming 测试限时状态按帧累计后自动回落
func TestAutoAdvanceTiming(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.0})

	f.controller.HandleSignal(fsm.SignalCursorFast, 300, 300)
	if f.machine.State() != fsm.StatePounce {
		t.Fatalf("state: got %s, want Pounce", f.machine.State())
	}

	// Pounce 时长 0.8 秒 = 48 帧；47 帧后仍在 Pounce
	for i := 0; i < 47; i++ {
		f.controller.Update(testDT)
	}
	if f.machine.State() != fsm.StatePounce {
		t.Fatalf("state after 47 frames: got %s, want Pounce", f.machine.State())
	}

	// 再推进 3 帧跨过 0.8 秒，AnimationDone 回落到 Idle
	for i := 0; i < 3; i++ {
		f.controller.Update(testDT)
	}
	if f.machine.State() != fsm.StateIdle {
		t.Errorf("state after 50 frames: got %s, want Idle", f.machine.State())
	}
}

// TestTimerFiresOnce 测试到点后的计时器不再重复触发
func TestTimerFiresOnce(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.99})

	f.controller.HandleSignal(fsm.SignalClick, 250, 300)
	if f.machine.State() != fsm.StateStartled {
		t.Fatalf("state: got %s, want Startled", f.machine.State())
	}

	// 跨过 Startled 的 0.6 秒
	f.controller.Update(1.0)
	if f.machine.State() != fsm.StateIdle {
		t.Fatalf("state: got %s, want Idle", f.machine.State())
	}

	// Idle 无时长，后续帧不应再合成 AnimationDone
	for i := 0; i < 120; i++ {
		f.controller.Update(testDT)
	}
	if f.machine.State() != fsm.StateIdle {
		t.Errorf("state: got %s, want Idle (no spurious timer)", f.machine.State())
	}
}

// TestApplySettingsSpeedFactor 测试速度倍率转发到移动组件
func TestApplySettingsSpeedFactor(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.0})

	speed := 1.8
	f.controller.ApplySettings(&game.SettingsPatch{MovementSpeedFactor: &speed})
	if f.movement(t).SpeedFactor != 1.8 {
		t.Errorf("SpeedFactor: got %v, want 1.8", f.movement(t).SpeedFactor)
	}

	// 非正值忽略
	bad := -0.5
	f.controller.ApplySettings(&game.SettingsPatch{MovementSpeedFactor: &bad})
	if f.movement(t).SpeedFactor != 1.8 {
		t.Errorf("SpeedFactor after invalid patch: got %v, want 1.8", f.movement(t).SpeedFactor)
	}
}

// TestApplySettingsDisabledStates 测试禁用状态集转发到状态机
func TestApplySettingsDisabledStates(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.0})

	names := []string{"Pounce", "bogus"}
	f.controller.ApplySettings(&game.SettingsPatch{DisabledStates: &names})

	// Pounce 被禁用：CursorFast 的两条候选规则都指向 Pounce，原地不动
	f.controller.HandleSignal(fsm.SignalCursorFast, 300, 300)
	if f.machine.State() != fsm.StateIdle {
		t.Errorf("state: got %s, want Idle (Pounce disabled)", f.machine.State())
	}

	// 空列表恢复全部状态
	empty := []string{}
	f.controller.ApplySettings(&game.SettingsPatch{DisabledStates: &empty})
	f.controller.Update(3.0) // 跨过 CursorFast 冷却
	f.controller.HandleSignal(fsm.SignalCursorFast, 300, 300)
	if f.machine.State() != fsm.StatePounce {
		t.Errorf("state: got %s, want Pounce after re-enable", f.machine.State())
	}
}

// TestApplySettingsNilPatch 测试空补丁为空操作
func TestApplySettingsNilPatch(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.0})
	f.controller.ApplySettings(nil)
	if f.machine.State() != fsm.StateIdle {
		t.Errorf("state: got %s, want Idle", f.machine.State())
	}
}

// TestAdmittedClickSpawnsRipple 测试通过冷却准入的点击创建涟漪实体
func TestAdmittedClickSpawnsRipple(t *testing.T) {
	cfg := config.DefaultBehaviorConfig()
	f := newControllerFixture(cfg, fixedRand{0.99})

	f.controller.HandleSignal(fsm.SignalClick, 200, 180)
	ripples := ecs.GetEntitiesWith1[*components.RippleComponent](f.em)
	if len(ripples) != 1 {
		t.Fatalf("ripples after first click: got %d, want 1", len(ripples))
	}
	if tf, ok := ecs.GetComponent[*components.TransformComponent](f.em, ripples[0]); !ok || tf.X != 200 || tf.Y != 180 {
		t.Errorf("ripple position: got %+v, want (200, 180)", tf)
	}

	// 冷却窗口内的第二次点击被丢弃，不留涟漪
	f.controller.HandleSignal(fsm.SignalClick, 210, 190)
	if got := len(ecs.GetEntitiesWith1[*components.RippleComponent](f.em)); got != 1 {
		t.Errorf("ripples after blocked click: got %d, want 1", got)
	}
}
