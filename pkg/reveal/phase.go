package reveal

// Phase 揭开流程所处阶段
//
// 转换只能单向进行：
//
//	Masked → FadingOut → Completed
//	Masked → FadingOut → Celebrating → Completed
type Phase int

const (
	// PhaseMasked 初始阶段，接受擦除手势
	PhaseMasked Phase = iota
	// PhaseFadingOut 遮罩透明度逐帧递减
	PhaseFadingOut
	// PhaseCelebrating 纪念日烟花
	PhaseCelebrating
	// PhaseCompleted 终止阶段，完成回调已触发
	PhaseCompleted
)

// String 返回阶段名称
func (p Phase) String() string {
	switch p {
	case PhaseMasked:
		return "Masked"
	case PhaseFadingOut:
		return "FadingOut"
	case PhaseCelebrating:
		return "Celebrating"
	case PhaseCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Session 单次挂载期间的揭开状态
// 由 Controller 独占，外部通过 Controller.Session() 拿到副本
type Session struct {
	StrokeCount     int     // 已开始的笔画数，只增不减
	ClearedFraction float64 // 最近一次笔画结束时的清除占比
	Phase           Phase
	Opacity         float64 // 遮罩呈现层透明度
}
