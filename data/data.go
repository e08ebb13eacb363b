// Package data 内置的默认配置文件
//
// 终端宿主直接使用这里的字节；ebiten 宿主通过根目录 embed.go 与 pkg/embedded 读取同一个文件。
package data

import _ "embed"

// TimeScaleYAML data/timescale.yaml 的内容
//
//go:embed timescale.yaml
var TimeScaleYAML []byte
