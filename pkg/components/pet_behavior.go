package components

import "github.com/th3quietloop/tinycat-extension/pkg/fsm"

// PetBehaviorComponent 宠物当前行为状态（纯数据）
//
// 状态机才是状态的权威来源；控制器在每次转移时把新状态同步到
// 该组件，供渲染系统读取。CursorNear 由接近信号直接维护，
// 不受冷却门限影响。
type PetBehaviorComponent struct {
	// State 当前行为状态
	State fsm.State
	// CursorNear 光标是否在宠物附近（渲染协作方可见）
	CursorNear bool
}
