package timescale

import (
	"fmt"

	"github.com/decker502/timescale/pkg/utils"
)

// Phase 插值过渡的生命周期阶段
//
// Idle → Running → {Completed, Stopped} → Idle
// Completed 和 Stopped 是终止结果，不会长期停留。
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseCompleted
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseCompleted:
		return "completed"
	case PhaseStopped:
		return "stopped"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// TransitionOptions 定时过渡的回调与曲线配置
//
// OnComplete 仅在过渡走完全程时调用；OnStop 仅在过渡被打断时调用；
// OnEnd 无论结果如何都会在二者之后恰好调用一次。
// 所有字段均可为 nil。
type TransitionOptions struct {
	OnComplete func()
	OnStop     func()
	OnEnd      func()

	// Easing 插值曲线，nil 表示线性
	Easing utils.EasingFunc
}

// TransitionState 过渡状态快照（只读）
type TransitionState struct {
	ID          uint64
	StartScale  float64
	TargetScale float64
	Duration    float64 // 持续时间（未缩放秒数）
	Elapsed     float64 // 已经过时间（未缩放秒数）
	Phase       Phase
}

// Progress 返回 [0, 1] 的线性进度
func (s TransitionState) Progress() float64 {
	if s.Duration <= 0 {
		return 1
	}
	return utils.Clamp01(s.Elapsed / s.Duration)
}

// transition 引擎内部持有的活动过渡
type transition struct {
	id       uint64
	start    float64
	target   float64
	duration float64
	elapsed  float64
	easing   utils.EasingFunc
	opts     TransitionOptions
}

// scaleAt 返回当前已过时间对应的缩放值
func (tr *transition) scaleAt() float64 {
	fraction := utils.Clamp01(tr.elapsed / tr.duration)
	return utils.Lerp(tr.start, tr.target, tr.easing(fraction))
}

func (tr *transition) snapshot() TransitionState {
	return TransitionState{
		ID:          tr.id,
		StartScale:  tr.start,
		TargetScale: tr.target,
		Duration:    tr.duration,
		Elapsed:     tr.elapsed,
		Phase:       PhaseRunning,
	}
}

// finish 按结果触发回调：Completed → OnComplete, OnEnd；Stopped → OnStop, OnEnd
//
// 调用前引擎必须已经清除 active 并完成赋值。
func (opts TransitionOptions) finish(outcome Phase) {
	switch outcome {
	case PhaseCompleted:
		if opts.OnComplete != nil {
			opts.OnComplete()
		}
	case PhaseStopped:
		if opts.OnStop != nil {
			opts.OnStop()
		}
	}
	if opts.OnEnd != nil {
		opts.OnEnd()
	}
}
