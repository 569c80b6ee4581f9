// Package utils 提供输入、平台和字体相关的通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerSource 每帧的原始指针输入
// 生产环境使用 EbitenPointerSource，测试注入脚本化的实现
type PointerSource interface {
	JustPressedTouchIDs() []ebiten.TouchID
	TouchIDs() []ebiten.TouchID
	TouchPosition(id ebiten.TouchID) (int, int)
	MouseJustPressed() bool
	MousePressed() bool
	CursorPosition() (int, int)
}

// EbitenPointerSource 从 ebiten 读取触摸和鼠标状态
type EbitenPointerSource struct{}

// JustPressedTouchIDs 本帧刚按下的触点
func (EbitenPointerSource) JustPressedTouchIDs() []ebiten.TouchID {
	return inpututil.AppendJustPressedTouchIDs(nil)
}

// TouchIDs 当前所有活动触点
func (EbitenPointerSource) TouchIDs() []ebiten.TouchID {
	return ebiten.AppendTouchIDs(nil)
}

// TouchPosition 触点位置
func (EbitenPointerSource) TouchPosition(id ebiten.TouchID) (int, int) {
	return ebiten.TouchPosition(id)
}

// MouseJustPressed 鼠标左键本帧刚按下
func (EbitenPointerSource) MouseJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

// MousePressed 鼠标左键按住
func (EbitenPointerSource) MousePressed() bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// CursorPosition 鼠标位置
func (EbitenPointerSource) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

// ============================================================================
// 拖拽状态管理器 - 把逐帧轮询的指针状态转换为 开始/移动/结束 事件
// ============================================================================

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放）
	DragStateEnded
)

// DragInfo 拖拽信息
type DragInfo struct {
	// State 当前拖拽状态
	State DragState
	// StartX, StartY 拖拽起始位置（屏幕坐标）
	StartX, StartY int
	// CurrentX, CurrentY 当前位置（屏幕坐标）
	CurrentX, CurrentY int
	// Moved 本帧位置是否发生变化
	Moved bool
	// TouchID 当前跟踪的触摸ID（-1 表示鼠标）
	TouchID ebiten.TouchID
	// IsTouchInput 是否为触摸输入（区分触摸和鼠标）
	IsTouchInput bool
}

// DragManager 拖拽管理器
// 只跟踪第一个按下的触点（主触点），拖拽期间其他触点全部忽略
type DragManager struct {
	source PointerSource
	info   DragInfo
}

// NewDragManager 创建拖拽管理器，source 为 nil 时读取 ebiten 输入
func NewDragManager(source PointerSource) *DragManager {
	if source == nil {
		source = EbitenPointerSource{}
	}
	return &DragManager{
		source: source,
		info: DragInfo{
			State:   DragStateNone,
			TouchID: -1,
		},
	}
}

// Update 更新拖拽状态（每帧调用一次）
func (dm *DragManager) Update() {
	currentTouchIDs := dm.source.TouchIDs()
	dm.info.Moved = false

	switch dm.info.State {
	case DragStateNone:
		dm.checkDragStart()

	case DragStateStarted, DragStateDragging:
		if dm.checkDragEnd(currentTouchIDs) {
			dm.info.State = DragStateEnded
		} else {
			dm.info.State = DragStateDragging
			dm.updateCurrentPosition(currentTouchIDs)
		}

	case DragStateEnded:
		// 结束状态只持续一帧，下一帧重置并允许立即开始新的拖拽
		dm.Reset()
		dm.checkDragStart()
	}
}

// checkDragStart 检测拖拽开始，触摸优先于鼠标
func (dm *DragManager) checkDragStart() {
	justPressedTouchIDs := dm.source.JustPressedTouchIDs()
	if len(justPressedTouchIDs) > 0 {
		touchID := justPressedTouchIDs[0]
		x, y := dm.source.TouchPosition(touchID)
		dm.info = DragInfo{
			State:        DragStateStarted,
			StartX:       x,
			StartY:       y,
			CurrentX:     x,
			CurrentY:     y,
			TouchID:      touchID,
			IsTouchInput: true,
		}
		return
	}

	if dm.source.MouseJustPressed() {
		x, y := dm.source.CursorPosition()
		dm.info = DragInfo{
			State:    DragStateStarted,
			StartX:   x,
			StartY:   y,
			CurrentX: x,
			CurrentY: y,
			TouchID:  -1,
		}
	}
}

// checkDragEnd 检测拖拽结束
func (dm *DragManager) checkDragEnd(currentTouchIDs []ebiten.TouchID) bool {
	if dm.info.IsTouchInput {
		for _, id := range currentTouchIDs {
			if id == dm.info.TouchID {
				return false // 触摸仍然活跃
			}
		}
		return true
	}
	return !dm.source.MousePressed()
}

// updateCurrentPosition 更新当前位置
func (dm *DragManager) updateCurrentPosition(currentTouchIDs []ebiten.TouchID) {
	var x, y int
	if dm.info.IsTouchInput {
		found := false
		for _, id := range currentTouchIDs {
			if id == dm.info.TouchID {
				x, y = dm.source.TouchPosition(id)
				found = true
				break
			}
		}
		if !found {
			return
		}
	} else {
		x, y = dm.source.CursorPosition()
	}

	if x != dm.info.CurrentX || y != dm.info.CurrentY {
		dm.info.CurrentX, dm.info.CurrentY = x, y
		dm.info.Moved = true
	}
}

// Reset 重置拖拽状态
func (dm *DragManager) Reset() {
	dm.info = DragInfo{
		State:   DragStateNone,
		TouchID: -1,
	}
}

// GetState 获取当前拖拽状态
func (dm *DragManager) GetState() DragState {
	return dm.info.State
}

// GetInfo 获取完整拖拽信息
func (dm *DragManager) GetInfo() DragInfo {
	return dm.info
}

// IsDragging 是否正在拖拽
func (dm *DragManager) IsDragging() bool {
	return dm.info.State == DragStateDragging
}

// JustStarted 是否刚开始拖拽（本帧）
func (dm *DragManager) JustStarted() bool {
	return dm.info.State == DragStateStarted
}

// JustEnded 是否刚结束拖拽（本帧）
func (dm *DragManager) JustEnded() bool {
	return dm.info.State == DragStateEnded
}

// IsTouchDrag 是否为触摸拖拽
func (dm *DragManager) IsTouchDrag() bool {
	return dm.info.IsTouchInput
}
