package components

// TransformComponent 实体的当前渲染位置
//
// 单写者纪律：只有 MovementSystem 写入该组件，
// 其他系统（分类器的接近检测、渲染）只读。
// 单线程 tick 执行保证读到的总是上一帧已结算的值。
type TransformComponent struct {
	X float64 // 当前 X 坐标
	Y float64 // 当前 Y 坐标
}
