package components

// TimerComponent 通用计时器组件
// 用于处理需要时间延迟的行为（如限时状态的自动推进）
//
// 计时由系统按 deltaTime 帧累计推进，不使用真实时钟，
// IsReady 置位后计时停止，直到下一次排程重置。
type TimerComponent struct {
	Name        string  // 计时器名称，如 "auto_advance"
	TargetTime  float64 // 目标时间（秒）
	CurrentTime float64 // 当前已过时间（秒）
	IsReady     bool    // 计时器是否已完成（或被取消）
}
