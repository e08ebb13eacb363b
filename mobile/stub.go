//go:build !mobile

// Package mobile 的桌面端占位
//
// 绑定入口 mobile.go 与嵌入声明 embed.go 只在 -tags mobile 时编译，
// 保留此文件使 go build ./... 和 go vet ./... 在桌面端也能通过。
package mobile

// Dummy 与移动端构建导出相同的符号
func Dummy() {}
