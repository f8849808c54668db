package systems

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/th3quietloop/tinycat-extension/pkg/components"
	"github.com/th3quietloop/tinycat-extension/pkg/ecs"
	"github.com/th3quietloop/tinycat-extension/pkg/game"
	"github.com/th3quietloop/tinycat-extension/pkg/utils"
)

// RenderSystem 占位渲染系统
//
// 行为核心不定义视觉资产；这里只画一个带状态标签的占位圆点，
// 方便肉眼验证状态机与插值行为。正式的精灵渲染是外部协作方。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	petID         ecs.EntityID
	theme         string
}

// NewRenderSystem 创建占位渲染系统
func NewRenderSystem(em *ecs.EntityManager, petID ecs.EntityID, theme string) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		petID:         petID,
		theme:         theme,
	}
}

// SetTheme 切换主题（只影响占位配色）
func (s *RenderSystem) SetTheme(theme string) {
	s.theme = theme
}

// Draw 绘制点击涟漪、宠物占位图形与状态标签
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	s.drawRipples(screen)

	tf, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.petID)
	if !ok {
		return
	}
	bc, ok := ecs.GetComponent[*components.PetBehaviorComponent](s.entityManager, s.petID)
	if !ok {
		return
	}

	body := color.RGBA{R: 235, G: 150, B: 60, A: 255} // 橘猫
	if s.theme == game.ThemeNight {
		body = color.RGBA{R: 120, G: 120, B: 140, A: 255}
	}

	radius := float32(12)
	if bc.CursorNear {
		// 光标靠近时轻微"竖起耳朵"（放大占位圆点）
		radius = 14
	}

	vector.DrawFilledCircle(screen, float32(tf.X), float32(tf.Y), radius, body, true)
	ebitenutil.DebugPrintAt(screen, bc.State.String(), int(tf.X)-16, int(tf.Y)+16)
}

// drawRipples 绘制扩散中的点击涟漪（在宠物下层）
func (s *RenderSystem) drawRipples(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith2[*components.TransformComponent, *components.RippleComponent](s.entityManager) {
		tf, ok1 := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		ripple, ok2 := ecs.GetComponent[*components.RippleComponent](s.entityManager, id)
		if !ok1 || !ok2 || ripple.Duration <= 0 {
			continue
		}

		// 扩散并淡出：半径随进度增大，透明度随进度衰减
		progress := utils.Clamp(ripple.Age/ripple.Duration, 0, 1)
		radius := float32(6 + 18*progress)
		alpha := uint8((1 - progress) * 200)
		col := color.RGBA{R: alpha, G: alpha, B: alpha, A: alpha}
		vector.StrokeCircle(screen, float32(tf.X), float32(tf.Y), radius, 2, col, true)
	}
}
