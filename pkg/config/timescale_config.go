package config

import (
	"fmt"
	"math"
	"os"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/decker502/timescale/pkg/timescale"
	"github.com/decker502/timescale/pkg/utils"
)

// TimeScaleConfig 时间缩放控制的启动配置
//
// 加载顺序：默认值 → YAML 文件 → 环境变量（TIMESCALE_*，见 envOverrides）→ 校验
type TimeScaleConfig struct {
	// 基准值（启动时捕获一次）
	RealTimeScale    float64 `yaml:"realTimeScale"`    // 视为 1x 的缩放值
	RealStepInterval float64 `yaml:"realStepInterval"` // 1x 时的固定步长（秒）

	// ResetOnSceneLoad 场景加载时是否重置缩放值
	ResetOnSceneLoad bool `yaml:"resetOnSceneLoad"`

	// 宿主帧循环
	TicksPerSecond   int `yaml:"ticksPerSecond"`   // 宿主每秒帧数
	MaxStepsPerFrame int `yaml:"maxStepsPerFrame"` // 每帧最多执行的固定步数

	// DefaultDuration 平滑重置使用的过渡时长（秒）
	DefaultDuration float64 `yaml:"defaultDuration"`

	// Presets 速度预设，按键触发
	Presets []SpeedPreset `yaml:"presets"`

	// Scenes 可切换的场景名称（按顺序循环）
	Scenes []string `yaml:"scenes"`
}

// SpeedPreset 速度预设
type SpeedPreset struct {
	Key      string  `yaml:"key"`      // 触发按键（单个字符）
	Label    string  `yaml:"label"`    // HUD 显示名称
	Scale    float64 `yaml:"scale"`    // 目标缩放值
	Duration float64 `yaml:"duration"` // 过渡时长（秒），0 表示立即
	Easing   string  `yaml:"easing"`   // 缓动曲线名称，空表示线性
}

// KeyRune 返回预设绑定的按键字符
func (p SpeedPreset) KeyRune() rune {
	r, _ := utf8.DecodeRuneInString(p.Key)
	return r
}

// DefaultTimeScaleConfig 返回默认配置
func DefaultTimeScaleConfig() *TimeScaleConfig {
	return &TimeScaleConfig{
		RealTimeScale:    1.0,
		RealStepInterval: 0.02,
		ResetOnSceneLoad: true,
		TicksPerSecond:   60,
		MaxStepsPerFrame: 8,
		DefaultDuration:  0.5,
		Presets: []SpeedPreset{
			{Key: "1", Label: "pause", Scale: 0, Duration: 0.3, Easing: "outCubic"},
			{Key: "2", Label: "0.25x", Scale: 0.25, Duration: 0.5},
			{Key: "3", Label: "0.5x", Scale: 0.5, Duration: 0.5},
			{Key: "4", Label: "1x", Scale: 1, Duration: 0},
			{Key: "5", Label: "2x", Scale: 2, Duration: 1, Easing: "inOutQuad"},
			{Key: "6", Label: "4x", Scale: 4, Duration: 2},
		},
		Scenes: []string{"lab", "arena"},
	}
}

// LoadTimeScaleConfig 从 YAML 文件加载配置
//
// 参数：
//
//	path - 配置文件路径
//
// 返回：
//
//	*TimeScaleConfig - 合并了默认值与环境变量的配置
//	error - 读取、解析或校验失败时返回错误（带文件路径）
func LoadTimeScaleConfig(path string) (*TimeScaleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timescale config file %s: %w", path, err)
	}

	cfg, err := ParseTimeScaleConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid timescale config in %s: %w", path, err)
	}
	return cfg, nil
}

// ParseTimeScaleConfig 解析 YAML 数据（用于嵌入的默认配置）
// 空数据等价于全部使用默认值
func ParseTimeScaleConfig(data []byte) (*TimeScaleConfig, error) {
	cfg := DefaultTimeScaleConfig()

	// 在默认值之上反序列化，未出现的字段保持默认
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse timescale config YAML: %w", err)
	}

	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envOverrides 可由环境变量覆盖的字段，nil 表示未设置
type envOverrides struct {
	RealTimeScale    *float64 `env:"TIMESCALE_REAL_TIME_SCALE"`
	RealStepInterval *float64 `env:"TIMESCALE_REAL_STEP_INTERVAL"`
	ResetOnSceneLoad *bool    `env:"TIMESCALE_RESET_ON_SCENE_LOAD"`
	TicksPerSecond   *int     `env:"TIMESCALE_TPS"`
	MaxStepsPerFrame *int     `env:"TIMESCALE_MAX_STEPS_PER_FRAME"`
	DefaultDuration  *float64 `env:"TIMESCALE_DEFAULT_DURATION"`
}

// ApplyEnvOverrides 用 TIMESCALE_* 环境变量覆盖配置
// 未设置的环境变量不会改变已有值
func ApplyEnvOverrides(cfg *TimeScaleConfig) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.RealTimeScale != nil {
		cfg.RealTimeScale = *o.RealTimeScale
	}
	if o.RealStepInterval != nil {
		cfg.RealStepInterval = *o.RealStepInterval
	}
	if o.ResetOnSceneLoad != nil {
		cfg.ResetOnSceneLoad = *o.ResetOnSceneLoad
	}
	if o.TicksPerSecond != nil {
		cfg.TicksPerSecond = *o.TicksPerSecond
	}
	if o.MaxStepsPerFrame != nil {
		cfg.MaxStepsPerFrame = *o.MaxStepsPerFrame
	}
	if o.DefaultDuration != nil {
		cfg.DefaultDuration = *o.DefaultDuration
	}
	return nil
}

// Validate 校验配置
func (c *TimeScaleConfig) Validate() error {
	if err := c.Baseline().Validate(); err != nil {
		return err
	}
	if c.TicksPerSecond <= 0 {
		return fmt.Errorf("ticksPerSecond must be positive, got %d", c.TicksPerSecond)
	}
	if c.MaxStepsPerFrame <= 0 {
		return fmt.Errorf("maxStepsPerFrame must be positive, got %d", c.MaxStepsPerFrame)
	}
	if c.DefaultDuration < 0 || math.IsNaN(c.DefaultDuration) {
		return fmt.Errorf("defaultDuration cannot be negative, got %v", c.DefaultDuration)
	}

	seen := make(map[rune]bool, len(c.Presets))
	for i, p := range c.Presets {
		if utf8.RuneCountInString(p.Key) != 1 {
			return fmt.Errorf("presets[%d]: key must be a single character, got %q", i, p.Key)
		}
		r := p.KeyRune()
		if seen[r] {
			return fmt.Errorf("presets[%d]: duplicate key %q", i, p.Key)
		}
		seen[r] = true
		if p.Scale < 0 || p.Scale > timescale.MaxScale || math.IsNaN(p.Scale) {
			return fmt.Errorf("presets[%d]: scale must be between 0 and %v, got %v", i, timescale.MaxScale, p.Scale)
		}
		if p.Duration < 0 || math.IsNaN(p.Duration) {
			return fmt.Errorf("presets[%d]: duration cannot be negative, got %v", i, p.Duration)
		}
		if _, err := utils.ParseEasing(p.Easing); err != nil {
			return fmt.Errorf("presets[%d]: %w", i, err)
		}
	}

	if len(c.Scenes) == 0 {
		return fmt.Errorf("at least one scene is required")
	}
	return nil
}

// Baseline 返回引擎基准值
func (c *TimeScaleConfig) Baseline() timescale.Baseline {
	return timescale.Baseline{
		RealTimeScale:    c.RealTimeScale,
		RealStepInterval: c.RealStepInterval,
	}
}

// FindPreset 按按键查找预设
func (c *TimeScaleConfig) FindPreset(key rune) (SpeedPreset, bool) {
	for _, p := range c.Presets {
		if p.KeyRune() == key {
			return p, true
		}
	}
	return SpeedPreset{}, false
}
