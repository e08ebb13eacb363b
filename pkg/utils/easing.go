// Package utils 提供通用工具函数
package utils

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// EasingFunc 缓动曲线
//
// 接受进度 t ∈ [0, 1]，返回缓动后的进度。
// 约束：f(0) = 0，f(1) = 1，时间缩放插值依赖这一点保证终点精确落在目标值上。
type EasingFunc func(t float64) float64

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return t
}

// EaseInQuad 二次方缓入
// 公式：f(t) = t²
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseOutQuad 二次方缓出
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInOutQuad 二次方缓入缓出
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// EaseInCubic 三次方缓入
// 公式：f(t) = t³
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢（适合"急停"式的子弹时间）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutExpo 指数缓出
// t=1 时强制返回 1，避免 2^-10 的残差
func EaseOutExpo(t float64) float64 {
	if t >= 1.0 {
		return 1.0
	}
	return 1 - math.Pow(2, -10*t)
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 将 t 限制在 [0, 1]，NaN 视为 0
func Clamp01(t float64) float64 {
	if t > 1 {
		return 1
	}
	if t > 0 {
		return t
	}
	return 0
}

var easings = map[string]EasingFunc{
	"linear":     EaseLinear,
	"inQuad":     EaseInQuad,
	"outQuad":    EaseOutQuad,
	"inOutQuad":  EaseInOutQuad,
	"inCubic":    EaseInCubic,
	"outCubic":   EaseOutCubic,
	"inOutCubic": EaseInOutCubic,
	"outExpo":    EaseOutExpo,
}

// ParseEasing 根据配置名称查找缓动曲线
//
// 名称大小写不敏感，空字符串返回线性缓动。
func ParseEasing(name string) (EasingFunc, error) {
	if name == "" {
		return EaseLinear, nil
	}
	for key, fn := range easings {
		if strings.EqualFold(key, name) {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("unknown easing %q (known: %s)", name, strings.Join(EasingNames(), ", "))
}

// EasingNames 返回所有已注册的缓动名称（已排序）
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
