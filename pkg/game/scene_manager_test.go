package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
	unmounted    int
	resizes      [][2]int
}

// Update records that Update was called and stores the deltaTime.
func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

// Draw records that Draw was called.
func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *MockScene) Unmount() { m.unmounted++ }

func (m *MockScene) Resize(w, h int) { m.resizes = append(m.resizes, [2]int{w, h}) }

// plainScene 不实现任何可选接口
type plainScene struct{}

func (plainScene) Update(float64)       {}
func (plainScene) Draw(*ebiten.Image) {}

// TestNewSceneManager verifies that NewSceneManager creates a valid instance.
func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm == nil {
		t.Fatal("NewSceneManager() returned nil")
	}
	if sm.currentScene != nil {
		t.Error("Expected currentScene to be nil initially")
	}
}

// TestSceneManagerUpdate verifies that Update calls the current scene's Update method.
func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	deltaTime := 0.016 // ~60 FPS
	sm.Update(deltaTime)

	if !mockScene.updateCalled {
		t.Error("Scene's Update method was not called")
	}
	if mockScene.deltaTime != deltaTime {
		t.Errorf("Expected deltaTime %.3f, got %.3f", deltaTime, mockScene.deltaTime)
	}
}

// TestSceneManagerNoScene verifies that Update and Draw handle a nil scene gracefully.
func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()
	sm.Update(0.016)
	sm.Draw(ebiten.NewImage(10, 10))
}

// TestSceneManagerDraw verifies that Draw calls the current scene's Draw method.
func TestSceneManagerDraw(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	sm.Draw(ebiten.NewImage(800, 600))

	if !mockScene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

// TestSceneManagerSwitchUnmountsPrevious verifies the old scene is unmounted exactly once.
func TestSceneManagerSwitchUnmountsPrevious(t *testing.T) {
	sm := NewSceneManager()
	scene1 := &MockScene{}
	scene2 := &MockScene{}

	sm.SwitchTo(scene1)
	sm.SwitchTo(scene1) // 重复切换到同一场景不卸载
	if scene1.unmounted != 0 {
		t.Errorf("scene1 unmounted %d times before switching away", scene1.unmounted)
	}

	sm.SwitchTo(scene2)
	if scene1.unmounted != 1 {
		t.Errorf("scene1 unmounted %d times, want 1", scene1.unmounted)
	}
	if sm.GetCurrentScene() != scene2 {
		t.Error("current scene should be scene2")
	}

	sm.SwitchTo(plainScene{})
	if scene2.unmounted != 1 {
		t.Errorf("scene2 unmounted %d times, want 1", scene2.unmounted)
	}
}

// TestSceneManagerResize verifies viewport size propagation.
func TestSceneManagerResize(t *testing.T) {
	sm := NewSceneManager()
	scene := &MockScene{}
	sm.SwitchTo(scene)

	sm.Resize(320, 240)
	sm.Resize(320, 240) // 尺寸未变化不重复通知

	if len(scene.resizes) != 1 || scene.resizes[0] != [2]int{320, 240} {
		t.Errorf("resizes = %v, want [[320 240]]", scene.resizes)
	}

	// 新场景切入时拿到当前尺寸
	next := &MockScene{}
	sm.SwitchTo(next)
	if len(next.resizes) != 1 || next.resizes[0] != [2]int{320, 240} {
		t.Errorf("new scene resizes = %v, want [[320 240]]", next.resizes)
	}

	w, h := sm.Size()
	if w != 320 || h != 240 {
		t.Errorf("Size() = %dx%d, want 320x240", w, h)
	}
}

// TestSceneManagerLoad verifies factory-driven scene loading.
func TestSceneManagerLoad(t *testing.T) {
	sm := NewSceneManager()
	sm.Load("host") // 未设置工厂，不应 panic

	created := &MockScene{}
	sm.SetSceneFactory(func(name string) Scene {
		if name == "host" {
			return created
		}
		return nil
	})

	sm.Load("missing")
	if sm.GetCurrentScene() != nil {
		t.Error("unknown scene name should not change the current scene")
	}

	sm.Load("host")
	if sm.GetCurrentScene() != created {
		t.Error("Load did not switch to the factory scene")
	}
}
