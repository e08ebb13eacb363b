package timescale

import "errors"

// ErrInvalidArgument 基准配置无效（启动时的致命错误）
var ErrInvalidArgument = errors.New("invalid argument")
