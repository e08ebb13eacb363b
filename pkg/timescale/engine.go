// Package timescale 管理模拟时间缩放系数
//
// Engine 持有当前时间缩放值，并由它推导固定步长间隔：
//
//	stepInterval = scale * (RealStepInterval / RealTimeScale)
//
// 引擎支持立即设置、定时插值过渡（同一时刻最多一个）以及场景加载时的自动重置。
// 引擎不做任何调度：宿主在每帧调用 Tick 并传入未缩放的帧间隔，
// 过渡的挂起与取消都是显式的状态数据。
//
// 引擎不是并发安全的，所有调用必须来自宿主的更新线程。
package timescale

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/timescale/pkg/utils"
)

// MaxScale 允许的最大时间缩放值
const MaxScale = 100.0

// Baseline 启动时捕获的基准值（不可变）
type Baseline struct {
	RealTimeScale    float64 // 视为 "1x" 的缩放值，通常为 1.0
	RealStepInterval float64 // 1x 速度下的固定步长（秒）
}

// Validate 检查基准值是否可用于推导步长
func (b Baseline) Validate() error {
	if !(b.RealTimeScale > 0) || math.IsInf(b.RealTimeScale, 0) {
		return fmt.Errorf("%w: realTimeScale must be positive, got %v", ErrInvalidArgument, b.RealTimeScale)
	}
	if !(b.RealStepInterval > 0) || math.IsInf(b.RealStepInterval, 0) {
		return fmt.Errorf("%w: realStepInterval must be positive, got %v", ErrInvalidArgument, b.RealStepInterval)
	}
	return nil
}

// Engine 时间缩放引擎
//
// 由应用的组合根持有，引用传递给驱动帧循环的宿主。
type Engine struct {
	baseline Baseline

	scale        float64
	stepInterval float64

	resetOnContextLoad bool

	active      *transition
	nextID      uint64
	requests    uint64 // SetScale/SetScaleOver 调用计数，用于识别回调中的新请求
	lastOutcome Phase
}

// NewEngine 创建时间缩放引擎
//
// 参数：
//   - baseline: 基准缩放与基准步长，二者都必须为正
//
// 返回：
//   - *Engine: 初始缩放为 baseline.RealTimeScale，场景重置默认开启
//   - error: 基准无效时返回包装了 ErrInvalidArgument 的错误
func NewEngine(baseline Baseline) (*Engine, error) {
	if err := baseline.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		baseline:           baseline,
		resetOnContextLoad: true,
		lastOutcome:        PhaseIdle,
	}
	e.assign(baseline.RealTimeScale)
	return e, nil
}

// Baseline 返回启动时捕获的基准值
func (e *Engine) Baseline() Baseline {
	return e.baseline
}

// Scale 返回当前时间缩放值
func (e *Engine) Scale() float64 {
	return e.scale
}

// StepInterval 返回当前固定步长间隔
func (e *Engine) StepInterval() float64 {
	return e.stepInterval
}

// IsTransitioning 是否有正在运行的过渡
func (e *Engine) IsTransitioning() bool {
	return e.active != nil
}

// Transition 返回活动过渡的快照，没有活动过渡时 ok 为 false
func (e *Engine) Transition() (state TransitionState, ok bool) {
	if e.active == nil {
		return TransitionState{Phase: PhaseIdle}, false
	}
	return e.active.snapshot(), true
}

// LastOutcome 返回最近一次过渡的终止结果（PhaseCompleted 或 PhaseStopped），
// 从未结束过过渡时返回 PhaseIdle
func (e *Engine) LastOutcome() Phase {
	return e.lastOutcome
}

// SetScale 立即设置时间缩放值
//
// 活动过渡会先被中断（触发 OnStop、OnEnd），然后赋值。
// 超出 [0, MaxScale] 的值会被截断到边界而不是拒绝，例如 150 得到 MaxScale；
// NaN 会被忽略（活动过渡仍然被中断）。
// 若被中断过渡的回调发起了新的设置请求，以回调的请求为准，本次调用不再赋值。
func (e *Engine) SetScale(value float64) {
	e.requests++
	if e.cancel() {
		log.Printf("[TimeScale] 设置 %v 被中断回调中的新请求取代", value)
		return
	}
	v, ok := sanitizeScale(value)
	if !ok {
		log.Printf("[TimeScale] 警告: 忽略无效的时间缩放值 %v", value)
		return
	}
	e.assign(v)
}

// ResetScale 立即恢复到基准缩放值
func (e *Engine) ResetScale() {
	e.SetScale(e.baseline.RealTimeScale)
}

// SetScaleOver 在 duration 秒（未缩放时间）内把缩放值插值到 target
//
// 活动过渡会先被中断。duration <= 0 时立即赋值并同步触发 OnComplete、OnEnd。
// target 与 SetScale 一样会被截断到 [0, MaxScale]。
// 若被中断过渡的回调发起了新的设置请求，本次请求被丢弃，不会触发 opts 中的回调。
func (e *Engine) SetScaleOver(target, duration float64, opts TransitionOptions) {
	e.requests++
	if e.cancel() {
		log.Printf("[TimeScale] 过渡到 %v 被中断回调中的新请求取代", target)
		return
	}

	v, ok := sanitizeScale(target)
	if !ok {
		log.Printf("[TimeScale] 警告: 忽略无效的目标缩放值 %v", target)
		return
	}

	e.nextID++
	id := e.nextID

	if !(duration > 0) {
		e.assign(v)
		e.lastOutcome = PhaseCompleted
		log.Printf("[TimeScale] 过渡 #%d 时长 %v，立即完成: scale=%.3f", id, duration, v)
		opts.finish(PhaseCompleted)
		return
	}

	easing := opts.Easing
	if easing == nil {
		easing = utils.EaseLinear
	}
	e.active = &transition{
		id:       id,
		start:    e.scale,
		target:   v,
		duration: duration,
		easing:   easing,
		opts:     opts,
	}
	log.Printf("[TimeScale] 过渡 #%d 开始: %.3f → %.3f, 时长 %.2fs", id, e.scale, v, duration)
}

// ResetScaleOver 在 duration 秒内插值回基准缩放值
func (e *Engine) ResetScaleOver(duration float64, opts TransitionOptions) {
	e.SetScaleOver(e.baseline.RealTimeScale, duration, opts)
}

// Stop 中断活动过渡，保持当前缩放值不变
// 没有活动过渡时什么也不做；OnStop 回调中发起的新过渡会保留
func (e *Engine) Stop() {
	e.cancel()
}

// Tick 推进活动过渡
//
// 宿主每帧调用一次，unscaledDelta 为未缩放的帧间隔（秒），
// 因此过渡速度与正在修改的缩放值无关。负数和 NaN 视为 0。
func (e *Engine) Tick(unscaledDelta float64) {
	tr := e.active
	if tr == nil {
		return
	}
	if !(unscaledDelta > 0) {
		unscaledDelta = 0
	}

	tr.elapsed += unscaledDelta
	if tr.elapsed < tr.duration {
		e.assign(tr.scaleAt())
		return
	}

	// 终点直接赋目标值，避免浮点误差导致的越界
	e.assign(tr.target)
	e.active = nil
	e.lastOutcome = PhaseCompleted
	log.Printf("[TimeScale] 过渡 #%d 完成: scale=%.3f", tr.id, tr.target)
	tr.opts.finish(PhaseCompleted)
}

// SetContextResetEnabled 设置场景加载时是否自动重置缩放值（默认 true）
func (e *Engine) SetContextResetEnabled(enabled bool) {
	e.resetOnContextLoad = enabled
}

// ContextResetEnabled 返回场景重置策略
func (e *Engine) ContextResetEnabled() bool {
	return e.resetOnContextLoad
}

// NotifyContextLoaded 宿主在新场景加载后调用
// 策略开启时立即重置缩放值，并中断活动过渡
func (e *Engine) NotifyContextLoaded() {
	if !e.resetOnContextLoad {
		return
	}
	log.Printf("[TimeScale] 场景加载，重置时间缩放")
	e.ResetScale()
}

// cancel 中断进入时的活动过渡
//
// 只中断一次：回调中发起的新请求不会再被中断，否则重启自身的 OnStop 会无限循环。
// 返回 true 表示回调中发生了新的设置请求，调用方应放弃自己的请求。
func (e *Engine) cancel() (superseded bool) {
	tr := e.active
	if tr == nil {
		return false
	}
	e.active = nil
	e.lastOutcome = PhaseStopped
	log.Printf("[TimeScale] 过渡 #%d 被中断: scale=%.3f (%.2f/%.2fs)", tr.id, e.scale, tr.elapsed, tr.duration)

	requests := e.requests
	tr.opts.finish(PhaseStopped)
	return e.requests != requests
}

// assign 写入缩放值并同步推导步长
func (e *Engine) assign(scale float64) {
	e.scale = scale
	e.stepInterval = scale * (e.baseline.RealStepInterval / e.baseline.RealTimeScale)
}

// sanitizeScale 把缩放值限制在 [0, MaxScale]，NaN 返回 ok=false
func sanitizeScale(v float64) (float64, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	return math.Max(0, math.Min(v, MaxScale)), true
}
