package utils

import "math"

// 指针运动几何辅助函数
// 用于信号分类器计算光标的速度、方向和角度变化

// Distance 计算两点之间的欧几里得距离
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// AngleDegrees 计算位移向量的方向角（度）
//
// 参数：
//   - dx, dy: 位移向量分量
//
// 返回：
//   - 角度，范围 (-180, 180]，使用 atan2 计算
func AngleDegrees(dx, dy float64) float64 {
	return math.Atan2(dy, dx) * 180.0 / math.Pi
}

// AngleDeltaDeg 计算两个方向角之间的无符号夹角
//
// 返回值归一化到 [0, 180]，用于方向突变检测
func AngleDeltaDeg(a, b float64) float64 {
	return math.Abs(WrapDeltaDeg(a - b))
}

// WrapDeltaDeg 将角度差包裹到 [-180, 180]
//
// 圆周运动检测需要有符号的角度增量，顺时针为负、逆时针为正
// （屏幕坐标系 Y 轴向下，方向与数学惯例相反，但检测只关心累计量）
func WrapDeltaDeg(delta float64) float64 {
	for delta > 180 {
		delta -= 360
	}
	for delta < -180 {
		delta += 360
	}
	return delta
}

// Lerp 在 a 和 b 之间线性插值
//
// t=0 返回 a，t=1 返回 b。位置插值器的指数平滑以固定 t 反复调用它
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp 将值限制在 [min, max] 范围内
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
