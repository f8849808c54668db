package components

// RippleComponent 点击反馈涟漪
//
// 控制器在点击信号通过冷却准入时创建，LifetimeSystem 按帧
// 老化，超过持续时间后标记销毁。
type RippleComponent struct {
	Age      float64 // 已存在时间（秒）
	Duration float64 // 总持续时间（秒）
}
