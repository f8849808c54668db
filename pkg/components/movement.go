package components

// MovementComponent 位置插值目标与参数
//
// 目标由行为控制器依据空间指令写入（追逐/定住/回家/保持），
// MovementSystem 每帧把 TransformComponent 向目标做指数平滑。
type MovementComponent struct {
	TargetX float64 // 目标 X 坐标
	TargetY float64 // 目标 Y 坐标

	HomeX float64 // 休息位置 X（"回家"指令的目标）
	HomeY float64 // 休息位置 Y

	// Smoothing 每帧向目标靠拢的基础比例系数
	Smoothing float64
	// SpeedFactor 设置中的移动速度倍率（movementSpeedFactor）
	SpeedFactor float64
}
