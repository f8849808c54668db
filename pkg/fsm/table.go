package fsm

// 默认转移规则表
//
// 规则顺序即优先级：同一 (状态, 信号) 的多条规则按声明顺序做
// 顺序独立概率试验，最后一条通常是无条件的兜底分支。

// DefaultTable 返回宠物的完整转移规则表
func DefaultTable() map[State][]Rule {
	return map[State][]Rule{
		StateIdle: {
			{Signal: SignalClick, Target: StateStartled},
			{Signal: SignalDirectionChange, Target: StateStartled},
			{Signal: SignalCursorFast, Target: StatePounce, Probability: 0.6},
			{Signal: SignalNearTarget, Target: StateStretching, Probability: 0.3},
			{Signal: SignalNearTarget, Target: StatePounce, Probability: 0.25},
			{Signal: SignalLongIdle, Target: StateSleep},
			{Signal: SignalMediumIdle, Target: StateStretching, Probability: 0.35},
			{Signal: SignalMediumIdle, Target: StateGrooming, Probability: 0.35},
			{Signal: SignalMediumIdle, Target: StateDrinking}, // 级联兜底分支
			{Signal: SignalCircularMotion, Target: StateDizzy},
			{Signal: SignalRepeatedFast, Target: StateDizzy},
		},
		StateStretching: {
			{Signal: SignalClick, Target: StateStartled},
			{Signal: SignalAnimationDone, Target: StateIdle},
		},
		StateDrinking: {
			{Signal: SignalClick, Target: StateStartled},
			{Signal: SignalAnimationDone, Target: StateIdle},
		},
		StatePounce: {
			{Signal: SignalRepeatedFast, Target: StateDizzy},
			{Signal: SignalClick, Target: StateStartled},
			{Signal: SignalAnimationDone, Target: StateIdle},
		},
		StateStartled: {
			{Signal: SignalAnimationDone, Target: StateFalling, Probability: 0.3},
			{Signal: SignalAnimationDone, Target: StateIdle},
		},
		StateFalling: {
			{Signal: SignalAnimationDone, Target: StateGrooming, Probability: 0.6},
			{Signal: SignalAnimationDone, Target: StateIdle},
		},
		StateGrooming: {
			{Signal: SignalClick, Target: StateStartled},
			{Signal: SignalAnimationDone, Target: StateSleep, Probability: 0.2},
			{Signal: SignalAnimationDone, Target: StateIdle},
		},
		StateDizzy: {
			{Signal: SignalClick, Target: StateStartled},
			{Signal: SignalAnimationDone, Target: StateIdle},
		},
		StateSleep: {
			{Signal: SignalNearTarget, Target: StateAlertSleep},
			{Signal: SignalClick, Target: StateStartled},
		},
		StateAlertSleep: {
			{Signal: SignalCursorAway, Target: StateSleep},
			{Signal: SignalClick, Target: StateStartled},
			{Signal: SignalCursorFast, Target: StateStartled, Probability: 0.5},
		},
	}
}

// DefaultDurations 返回限时状态的持续时间表（秒）
//
// 表中没有条目的状态（Idle、Sleep、AlertSleep）不会自动推进。
func DefaultDurations() map[State]float64 {
	return map[State]float64{
		StateStretching: 1.8,
		StateDrinking:   2.6,
		StatePounce:     0.8,
		StateStartled:   0.6,
		StateFalling:    1.2,
		StateGrooming:   3.2,
		StateDizzy:      2.4,
	}
}

// Directive 状态进入时的空间指令
//
// 控制器在每次状态切换时恰好发出一条空间指令：
// 追逐（目标=光标附近）、定住（目标=当前位置）、回家（目标=休息位置）、
// 保持（目标不变）。
type Directive int

const (
	// DirectiveKeep 保持现有目标不变
	DirectiveKeep Directive = iota
	// DirectiveChase 把目标设到光标附近
	DirectiveChase
	// DirectiveFreeze 把目标钉在当前位置（停止移动）
	DirectiveFreeze
	// DirectiveHome 回到休息位置
	DirectiveHome
)

// DirectiveFor 返回进入指定状态时应发出的空间指令
func DirectiveFor(s State) Directive {
	switch s {
	case StatePounce:
		return DirectiveChase
	case StateStartled, StateDizzy, StateSleep, StateAlertSleep:
		return DirectiveFreeze
	case StateDrinking:
		return DirectiveHome
	default:
		return DirectiveKeep
	}
}
