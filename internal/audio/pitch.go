package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	// resampleQuality beep 推荐的默认插值质量
	resampleQuality = 4

	// 重采样比例必须为正，过小的比例按暂停处理
	minRatio = 0.05
	maxRatio = 8.0
)

// PitchFollower 播放一段循环音调，其播放速率跟随时间缩放
// 缩放为 0 时暂停，静音时同样暂停
type PitchFollower struct {
	mu          sync.Mutex
	resampler   *beep.Resampler
	ctrl        *beep.Ctrl
	scale       float64
	muted       bool
	initialized bool
}

// NewPitchFollower creates a follower at normal speed
func NewPitchFollower() *PitchFollower {
	// 生成器不会结束，无需 beep.Loop
	resampler := beep.ResampleRatio(resampleQuality, 1, NewHumGenerator(sampleRate))
	return &PitchFollower{
		resampler: resampler,
		ctrl:      &beep.Ctrl{Streamer: resampler, Paused: false},
		scale:     1,
	}
}

// Initialize sets up the speaker and starts playback
func (p *PitchFollower) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100))
	if err != nil {
		return err
	}

	speaker.Play(p.ctrl)
	p.initialized = true
	return nil
}

// Cleanup pauses the tone and clears the speaker
func (p *PitchFollower) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	speaker.Clear()
	p.initialized = false
}

// Follow 同步当前时间缩放和静音状态
// 每帧调用；值未变化时不会加锁 speaker
func (p *PitchFollower) Follow(scale float64, muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if scale == p.scale && muted == p.muted {
		return
	}
	p.scale = scale
	p.muted = muted

	ratio, audible := RatioForScale(scale)
	paused := muted || !audible

	if p.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	p.ctrl.Paused = paused
	if audible {
		p.resampler.SetRatio(ratio)
	}
}

// Ratio returns the resampler's current ratio
func (p *PitchFollower) Ratio() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resampler.Ratio()
}

// IsPaused reports whether the tone is currently silent
func (p *PitchFollower) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctrl.Paused
}

// RatioForScale 将时间缩放映射为重采样比例
// audible 为 false 表示应暂停播放
func RatioForScale(scale float64) (ratio float64, audible bool) {
	if math.IsNaN(scale) || scale < minRatio {
		return 0, false
	}
	if scale > maxRatio {
		return maxRatio, true
	}
	return scale, true
}

// HumGenerator generates an endless soft two-partial hum
type HumGenerator struct {
	sr      beep.SampleRate
	pos     int
	samples int
}

// NewHumGenerator creates a hum generator with a one second cycle
func NewHumGenerator(sr beep.SampleRate) *HumGenerator {
	return &HumGenerator{
		sr:      sr,
		samples: sr.N(time.Second),
	}
}

func (g *HumGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// 每秒一次的轻微起伏，加速时能明显听出节奏变快
		cyclePos := float64(g.pos%g.samples) / float64(g.samples)
		amplitude := 0.08 * (0.6 + 0.4*math.Sin(cyclePos*math.Pi*2))
		sample := amplitude * (math.Sin(2*math.Pi*220*t) + 0.5*math.Sin(2*math.Pi*330*t))

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *HumGenerator) Err() error {
	return nil
}
