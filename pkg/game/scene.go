package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a game scene (e.g., the pet surface, a future settings panel).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Mountable 是一个可选接口，用于支持场景的挂载/卸载生命周期
//
// 宠物场景实现此接口：总开关切换时挂载或卸载宠物，
// 两个方法都必须幂等（重复调用是空操作）。
type Mountable interface {
	// Mount 挂载场景（开始响应输入与计时）
	Mount()
	// Unmount 卸载场景（取消所有排程中的计时并复位）
	Unmount()
}
