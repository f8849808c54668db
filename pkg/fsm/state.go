package fsm

// BehaviorState 宠物行为状态枚举
//
// 状态集是封闭的：任意时刻恰好有一个状态处于激活。
// Idle 是兜底状态，永远不允许被禁用。
type State int

const (
	// StateIdle 待机（兜底状态，不可禁用）
	StateIdle State = iota
	// StateStretching 伸懒腰（限时状态）
	StateStretching
	// StateDrinking 喝水（限时状态，回到休息位置）
	StateDrinking
	// StatePounce 扑击（限时状态，追逐光标）
	StatePounce
	// StateStartled 受惊（限时状态，原地定住）
	StateStartled
	// StateFalling 摔倒（限时状态）
	StateFalling
	// StateGrooming 理毛（限时状态）
	StateGrooming
	// StateDizzy 眩晕（限时状态，原地定住）
	StateDizzy
	// StateSleep 睡觉（非限时，靠近光标会转为浅眠）
	StateSleep
	// StateAlertSleep 浅眠（非限时，光标远离后回到睡觉）
	StateAlertSleep

	stateCount // 状态总数（内部使用）
)

var stateNames = [...]string{
	StateIdle:       "Idle",
	StateStretching: "Stretching",
	StateDrinking:   "Drinking",
	StatePounce:     "Pounce",
	StateStartled:   "Startled",
	StateFalling:    "Falling",
	StateGrooming:   "Grooming",
	StateDizzy:      "Dizzy",
	StateSleep:      "Sleep",
	StateAlertSleep: "AlertSleep",
}

// String 返回状态名称
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// ParseState 根据名称解析状态（用于设置中的 disabledStates 字符串列表）
//
// 返回：
//   - State: 解析出的状态
//   - bool: 名称是否合法
func ParseState(name string) (State, bool) {
	for i, n := range stateNames {
		if n == name {
			return State(i), true
		}
	}
	return StateIdle, false
}

// AllStates 返回全部状态（按枚举顺序）
func AllStates() []State {
	states := make([]State, 0, stateCount)
	for s := State(0); s < stateCount; s++ {
		states = append(states, s)
	}
	return states
}

// Signal 分类器或计时器产生的离散行为信号
//
// 信号是无状态的事件值，由状态机消费一次后丢弃。
type Signal int

const (
	// SignalCursorMove 光标移动（每个移动帧都会发出，状态表中无规则，等于心跳）
	SignalCursorMove Signal = iota
	// SignalCursorFast 光标快速移动（速度 >= 阈值）
	SignalCursorFast
	// SignalRepeatedFast 短时间内多次快速移动
	SignalRepeatedFast
	// SignalDirectionChange 光标方向突变
	SignalDirectionChange
	// SignalCircularMotion 光标画圈
	SignalCircularMotion
	// SignalMediumIdle 中等时长无操作（每个空闲期最多一次）
	SignalMediumIdle
	// SignalLongIdle 长时间无操作（每个空闲期最多一次）
	SignalLongIdle
	// SignalNearTarget 光标靠近宠物
	SignalNearTarget
	// SignalCursorAway 光标远离宠物
	SignalCursorAway
	// SignalClick 鼠标点击
	SignalClick
	// SignalAnimationDone 限时状态播放完毕（由计时器合成，不来自分类器）
	SignalAnimationDone
)

var signalNames = [...]string{
	SignalCursorMove:      "CursorMove",
	SignalCursorFast:      "CursorFast",
	SignalRepeatedFast:    "RepeatedFast",
	SignalDirectionChange: "DirectionChange",
	SignalCircularMotion:  "CircularMotion",
	SignalMediumIdle:      "MediumIdle",
	SignalLongIdle:        "LongIdle",
	SignalNearTarget:      "NearTarget",
	SignalCursorAway:      "CursorAway",
	SignalClick:           "Click",
	SignalAnimationDone:   "AnimationDone",
}

// String 返回信号名称
func (s Signal) String() string {
	if s < 0 || int(s) >= len(signalNames) {
		return "Unknown"
	}
	return signalNames[s]
}

// ParseSignal 根据名称解析信号（用于冷却时间配置表的键）
func ParseSignal(name string) (Signal, bool) {
	for i, n := range signalNames {
		if n == name {
			return Signal(i), true
		}
	}
	return SignalCursorMove, false
}
