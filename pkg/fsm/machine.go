package fsm

import "log"

// RandSource 提供 [0,1) 区间的随机数
//
// *math/rand.Rand 满足该接口；测试注入固定序列即可让概率守卫确定化
type RandSource interface {
	Float64() float64
}

// Scheduler 延迟信号调度抽象
//
// 状态机进入限时状态时，通过 Scheduler 请求"D 秒后给我一个
// AnimationDone"。具体计时由外部驱动（行为控制器用帧累计计时器实现），
// 状态机本身不持有任何真实时钟，便于独立测试。
//
// 约定：Schedule 总是先隐式取代之前的排程（调用方保证 Cancel 语义）。
type Scheduler interface {
	// Schedule 请求 duration 秒后触发 AnimationDone
	Schedule(duration float64)
	// Cancel 取消尚未触发的排程（无排程时为空操作）
	Cancel()
}

// Observer 状态变更通知回调
// 参数顺序为 (新状态, 旧状态)
type Observer func(newState, oldState State)

// Rule 转移规则
//
// 完整规则表的语义：对 (当前状态, 信号) 按声明顺序逐条尝试，
// 第一条通过守卫且目标未被禁用的规则生效；全部失败则不转移。
type Rule struct {
	// Signal 触发信号
	Signal Signal
	// Target 目标状态
	Target State
	// Probability 概率守卫
	// <= 0 或 >= 1 表示无条件通过
	//
	// 注意：同一信号的多条兄弟规则是“顺序独立试验”（Bernoulli 级联），
	// 不是加权抽签——规则1先按自身概率掷一次，失败后规则2才有机会。
	// 不要“简化”为一次加权随机选择，那会改变各状态驻留时长的分布。
	Probability float64
}

// Machine 行为状态机
//
// 确定性（概率守卫除外）地把 (状态, 信号) 映射为下一个状态，
// 并在进入限时状态时通过 Scheduler 排程自动推进。
// 非并发安全：与所有系统一样运行在单一游戏 tick 线程内。
type Machine struct {
	state     State
	table     map[State][]Rule
	durations map[State]float64 // 限时状态的持续时间（秒）
	disabled  map[State]bool
	rng       RandSource
	scheduler Scheduler
	observers []Observer
}

// NewMachine 创建行为状态机，初始状态为 Idle
//
// 参数：
//   - table: 转移规则表（通常为 DefaultTable()）
//   - durations: 限时状态的持续时间表（通常为 DefaultDurations()）
//   - rng: 随机源（测试可注入固定实现）
//   - scheduler: 延迟信号调度器，可为 nil（不排程自动推进）
func NewMachine(table map[State][]Rule, durations map[State]float64, rng RandSource, scheduler Scheduler) *Machine {
	return &Machine{
		state:     StateIdle,
		table:     table,
		durations: durations,
		disabled:  make(map[State]bool),
		rng:       rng,
		scheduler: scheduler,
	}
}

// State 返回当前激活状态
func (m *Machine) State() State {
	return m.state
}

// SetScheduler 设置延迟信号调度器
// 控制器与状态机互相引用，构造完成后再注入
func (m *Machine) SetScheduler(scheduler Scheduler) {
	m.scheduler = scheduler
}

// AddObserver 注册状态变更观察者
func (m *Machine) AddObserver(o Observer) {
	m.observers = append(m.observers, o)
}

// Send 向状态机投递一个信号
//
// 行为：
//  1. 取当前状态的规则列表，按声明顺序扫描
//  2. 信号不匹配、概率守卫失败、目标被禁用的规则依次跳过
//  3. 第一条存活规则生效：切换状态、重排自动推进计时、通知观察者
//  4. 没有规则匹配时不转移（未知信号是静默空操作，不是错误）
//
// 兜底规则：AnimationDone 没有命中任何规则时（例如声明的目标全部被
// 禁用），强制回到 Idle——限时状态绝不能因为目标被禁用而卡死。
//
// 返回：
//   - bool: 是否发生了转移
func (m *Machine) Send(sig Signal) bool {
	for _, rule := range m.table[m.state] {
		if rule.Signal != sig {
			continue
		}
		if m.disabled[rule.Target] {
			continue
		}
		if rule.Probability > 0 && rule.Probability < 1 && m.rng.Float64() >= rule.Probability {
			continue
		}
		m.transition(rule.Target)
		return true
	}

	// 兜底：限时状态播放完毕必须能离开当前状态
	if sig == SignalAnimationDone && m.state != StateIdle {
		m.transition(StateIdle)
		return true
	}

	return false
}

// SetDisabledStates 替换禁用状态集
//
// Idle 永远被强制排除在禁用集之外。
// 如果当前状态落入新的禁用集，立即强制转移到 Idle（恰好通知一次）。
func (m *Machine) SetDisabledStates(states []State) {
	disabled := make(map[State]bool, len(states))
	for _, s := range states {
		if s == StateIdle {
			log.Printf("[Machine] 忽略禁用 Idle 的请求（Idle 不可禁用）")
			continue
		}
		disabled[s] = true
	}
	m.disabled = disabled

	if m.disabled[m.state] {
		log.Printf("[Machine] 当前状态 %s 已被禁用，强制回到 Idle", m.state)
		m.transition(StateIdle)
	}
}

// Reset 静默复位到 Idle
//
// 用于宠物卸载（unmount）：取消排程、清空状态，不通知观察者。
func (m *Machine) Reset() {
	if m.scheduler != nil {
		m.scheduler.Cancel()
	}
	m.state = StateIdle
}

// transition 执行一次状态切换
//
// 顺序保证：先取消旧排程，再为新状态排程（cancel-on-supersede），
// 最后通知观察者（观察者看到的计时状态是最终的）。
func (m *Machine) transition(target State) {
	old := m.state
	m.state = target

	if m.scheduler != nil {
		m.scheduler.Cancel()
		if d, ok := m.durations[target]; ok {
			m.scheduler.Schedule(d)
		}
	}

	for _, o := range m.observers {
		o(target, old)
	}
}
