package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// stubScene 记录更新次数的测试场景
type stubScene struct {
	updates int
	lastDT  float64
}

func (s *stubScene) Update(deltaTime float64) {
	s.updates++
	s.lastDT = deltaTime
}

func (s *stubScene) Draw(screen *ebiten.Image) {}

// TestSceneManagerNoScene 测试无活动场景时更新为空操作
func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()

	if sm.GetCurrentScene() != nil {
		t.Error("GetCurrentScene: got non-nil, want nil")
	}
	// 不应 panic
	sm.Update(1.0 / 60.0)
	sm.Draw(nil)
}

// TestSceneManagerSwitchTo 测试切换后只驱动当前场景
func TestSceneManagerSwitchTo(t *testing.T) {
	sm := NewSceneManager()
	first := &stubScene{}
	second := &stubScene{}

	sm.SwitchTo(first)
	sm.Update(1.0 / 60.0)
	if first.updates != 1 {
		t.Errorf("first.updates: got %d, want 1", first.updates)
	}
	if first.lastDT != 1.0/60.0 {
		t.Errorf("deltaTime: got %v, want %v", first.lastDT, 1.0/60.0)
	}

	sm.SwitchTo(second)
	sm.Update(1.0 / 60.0)
	if first.updates != 1 {
		t.Errorf("first.updates after switch: got %d, want 1", first.updates)
	}
	if second.updates != 1 {
		t.Errorf("second.updates: got %d, want 1", second.updates)
	}
	if sm.GetCurrentScene() != Scene(second) {
		t.Error("GetCurrentScene must return the active scene")
	}
}
