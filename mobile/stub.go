//go:build !mobile

// stub.go - 非移动端构建时的占位文件
//
// 桌面端入口在根目录 main.go，这里只提供空的 Dummy 函数，
// 让 ./... 在不带 mobile 标签时也能编译通过。
package mobile

// Dummy 是一个空导出函数，确保包在非移动端构建时也能被引用
func Dummy() {}
