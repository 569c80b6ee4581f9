package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents one full-screen state of the application
// (the scratch overlay, or the gated application underneath it).
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Resizable 是一个可选接口，场景在视口尺寸变化时收到通知
type Resizable interface {
	Resize(width, height int)
}

// Unmountable 是一个可选接口，场景被切换掉时调用
//
// 实现方应取消所有挂起的帧回调，保证卸载后不再有回调执行。
type Unmountable interface {
	Unmount()
}
