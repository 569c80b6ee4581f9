package utils

// ShouldMountOverlay 决定是否挂载刮开遮罩
// 只有触摸设备（或显式强制）才挂载，桌面端直接进入应用
func ShouldMountOverlay(forceMount bool) bool {
	return forceMount || IsMobile()
}
