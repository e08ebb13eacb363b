package game

import (
	"fmt"
	"log"

	"github.com/decker502/timescale/pkg/config"
	"github.com/decker502/timescale/pkg/timescale"
	"github.com/decker502/timescale/pkg/utils"
)

// 内置按键（预设按键来自配置）
const (
	KeySmoothReset      = '0'
	KeyReset            = 'r'
	KeyStop             = 's'
	KeyTogglePause      = ' '
	KeyToggleSceneReset = 't'
	KeyNextScene        = 'n'
	KeyToggleHUD        = 'h'
	KeyToggleMute       = 'm'
)

// maxEvents 状态面板保留的事件条数
const maxEvents = 6

// Session 组合根：持有时间缩放引擎、场景管理器、固定步长节拍器和用户设置
//
// 宿主（ebiten 或终端）每帧调用 Frame，并把按键转发给 HandleKey。
// 所有方法都必须在宿主的更新线程上调用。
type Session struct {
	cfg      *config.TimeScaleConfig
	engine   *timescale.Engine
	scenes   *SceneManager
	stepper  *FixedStepper
	settings *SettingsManager

	sceneNames []string // 配置中工厂能创建的场景，按配置顺序
	sceneIndex int
	pausedFrom float64 // 暂停前的缩放值，用于恢复

	frame     uint64
	lastSteps int
	events    []string
}

// NewSession 创建会话
//
// 参数：
//   - cfg: 已校验的启动配置
//   - settings: 用户设置，其中的场景重置开关覆盖配置
//   - factory: 场景工厂
//
// 配置中工厂无法创建的场景名会被记录并跳过。
//
// 返回：
//   - error: 基准配置无效时返回包装了 timescale.ErrInvalidArgument 的错误；
//     没有任何可用场景时也返回错误
func NewSession(cfg *config.TimeScaleConfig, settings *SettingsManager, factory SceneFactory) (*Session, error) {
	engine, err := timescale.NewEngine(cfg.Baseline())
	if err != nil {
		return nil, fmt.Errorf("create time scale engine: %w", err)
	}
	engine.SetContextResetEnabled(settings.GetSettings().ResetOnSceneLoad)

	sceneNames := knownScenes(cfg.Scenes, factory)
	if len(sceneNames) == 0 {
		return nil, fmt.Errorf("no known scenes in config: %v", cfg.Scenes)
	}

	s := &Session{
		cfg:        cfg,
		sceneNames: sceneNames,
		engine:     engine,
		scenes:     NewSceneManager(),
		stepper:    NewFixedStepper(cfg.MaxStepsPerFrame),
		settings:   settings,
	}
	s.scenes.SetSceneFactory(factory)
	s.scenes.OnSceneLoaded(s.onSceneLoaded)

	log.Printf("[Session] 基准: scale=%.3f step=%.4fs, 场景重置=%v",
		cfg.RealTimeScale, cfg.RealStepInterval, engine.ContextResetEnabled())
	return s, nil
}

// Start 加载初始场景，name 为空时使用配置中的第一个场景
func (s *Session) Start(name string) error {
	if name == "" {
		name = s.sceneNames[0]
	}
	for i, n := range s.sceneNames {
		if n == name {
			s.sceneIndex = i
		}
	}
	if !s.scenes.LoadScene(name) {
		return fmt.Errorf("unknown scene %q", name)
	}
	return nil
}

// Frame 推进一帧
//
// 顺序：推进过渡 → 按当前步长执行固定更新 → 场景逐帧更新。
// unscaledDelta 为真实经过的秒数。
func (s *Session) Frame(unscaledDelta float64) {
	if !(unscaledDelta > 0) {
		unscaledDelta = 0
	}
	s.engine.Tick(unscaledDelta)

	scaled := unscaledDelta * s.engine.Scale()
	s.lastSteps = s.stepper.Advance(scaled, s.engine.StepInterval(), s.scenes.FixedUpdate)
	s.scenes.Update(scaled)
	s.frame++
}

// HandleKey 处理一个按键字符，返回是否被识别
func (s *Session) HandleKey(key rune) bool {
	if preset, ok := s.cfg.FindPreset(key); ok {
		s.ApplyPreset(preset)
		return true
	}

	switch key {
	case KeySmoothReset:
		s.engine.ResetScaleOver(s.cfg.DefaultDuration, s.trackedOptions("reset", nil))
	case KeyReset:
		s.engine.ResetScale()
	case KeyStop:
		s.engine.Stop()
	case KeyTogglePause:
		s.TogglePause()
	case KeyToggleSceneReset:
		s.SetSceneReset(!s.engine.ContextResetEnabled())
	case KeyNextScene:
		s.NextScene()
	case KeyToggleHUD:
		s.settings.SetShowHUD(!s.settings.GetSettings().ShowHUD)
		s.saveSettings()
	case KeyToggleMute:
		s.settings.SetMuted(!s.settings.GetSettings().Muted)
		s.saveSettings()
	default:
		return false
	}
	return true
}

// ApplyPreset 应用速度预设，时长为 0 时立即生效
func (s *Session) ApplyPreset(p config.SpeedPreset) {
	if p.Duration <= 0 {
		s.engine.SetScale(p.Scale)
		s.pushEvent(fmt.Sprintf("%s: set %.2fx", p.Label, s.engine.Scale()))
		return
	}

	easing, err := utils.ParseEasing(p.Easing)
	if err != nil {
		// 配置已校验过，这里只会在手动构造预设时出现
		log.Printf("[Session] 警告: 预设 %q 的缓动无效，使用线性: %v", p.Label, err)
		easing = utils.EaseLinear
	}
	s.engine.SetScaleOver(p.Scale, p.Duration, s.trackedOptions(p.Label, easing))
}

// TogglePause 在暂停与暂停前的缩放值之间切换
func (s *Session) TogglePause() {
	if s.engine.Scale() > 0 {
		s.pausedFrom = s.engine.Scale()
		s.engine.SetScale(0)
		s.pushEvent("paused")
		return
	}

	resume := s.pausedFrom
	if resume <= 0 {
		resume = s.engine.Baseline().RealTimeScale
	}
	s.engine.SetScale(resume)
	s.pushEvent(fmt.Sprintf("resumed at %.2fx", resume))
}

// SetSceneReset 设置场景重置策略并持久化
func (s *Session) SetSceneReset(enabled bool) {
	s.engine.SetContextResetEnabled(enabled)
	s.settings.SetResetOnSceneLoad(enabled)
	s.saveSettings()
	s.pushEvent(fmt.Sprintf("scene reset %s", onOff(enabled)))
}

// NextScene 按配置顺序切换到下一个场景
func (s *Session) NextScene() {
	s.sceneIndex = (s.sceneIndex + 1) % len(s.sceneNames)
	name := s.sceneNames[s.sceneIndex]
	if !s.scenes.LoadScene(name) {
		log.Printf("[Session] 警告: 场景 %q 加载失败", name)
		s.pushEvent("load failed: " + name)
	}
}

// knownScenes 过滤掉工厂无法创建的场景名
func knownScenes(names []string, factory SceneFactory) []string {
	known := make([]string, 0, len(names))
	for _, name := range names {
		if factory(name) == nil {
			log.Printf("[Session] 警告: 未知场景 %q，已跳过", name)
			continue
		}
		known = append(known, name)
	}
	return known
}

// Engine 返回时间缩放引擎
func (s *Session) Engine() *timescale.Engine {
	return s.engine
}

// Scenes 返回场景管理器
func (s *Session) Scenes() *SceneManager {
	return s.scenes
}

// Settings 返回用户设置
func (s *Session) Settings() *Settings {
	return s.settings.GetSettings()
}

// Config 返回启动配置
func (s *Session) Config() *config.TimeScaleConfig {
	return s.cfg
}

// Events 返回最近的事件（旧的在前）
func (s *Session) Events() []string {
	out := make([]string, len(s.events))
	copy(out, s.events)
	return out
}

// LastSteps 返回上一帧执行的固定更新次数
func (s *Session) LastSteps() int {
	return s.lastSteps
}

// StatusLines 返回状态面板文本，两个宿主共用
func (s *Session) StatusLines() []string {
	e := s.engine
	sceneName := "-"
	if scene := s.scenes.GetCurrentScene(); scene != nil {
		sceneName = scene.Name()
	}

	lines := []string{
		fmt.Sprintf("scene: %s  frame: %d  steps: %d (total %d)", sceneName, s.frame, s.lastSteps, s.stepper.TotalSteps()),
		fmt.Sprintf("scale: %.3fx  step: %.4fs", e.Scale(), e.StepInterval()),
	}

	if state, ok := e.Transition(); ok {
		lines = append(lines, fmt.Sprintf("transition #%d: %.2f -> %.2f  %3.0f%%",
			state.ID, state.StartScale, state.TargetScale, state.Progress()*100))
	} else {
		lines = append(lines, fmt.Sprintf("transition: idle (last: %s)", e.LastOutcome()))
	}
	lines = append(lines, fmt.Sprintf("scene reset: %s", onOff(e.ContextResetEnabled())))

	lines = append(lines, s.events...)
	lines = append(lines, s.keyHelp())
	return lines
}

// onSceneLoaded 场景加载通知：交给引擎决定是否重置，并清空步长积压
func (s *Session) onSceneLoaded(scene Scene) {
	s.stepper.Reset()
	s.engine.NotifyContextLoaded()
	s.pushEvent("loaded " + scene.Name())
}

// trackedOptions 为过渡附加事件记录回调
func (s *Session) trackedOptions(label string, easing utils.EasingFunc) timescale.TransitionOptions {
	return timescale.TransitionOptions{
		OnComplete: func() { s.pushEvent(label + ": completed") },
		OnStop:     func() { s.pushEvent(label + ": stopped") },
		Easing:     easing,
	}
}

func (s *Session) pushEvent(msg string) {
	s.events = append(s.events, msg)
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
}

func (s *Session) saveSettings() {
	if err := s.settings.Save(); err != nil {
		log.Printf("[Session] 警告: 保存设置失败: %v", err)
	}
}

func (s *Session) keyHelp() string {
	help := ""
	for _, p := range s.cfg.Presets {
		help += fmt.Sprintf("[%s]%s ", p.Key, p.Label)
	}
	return help + "[0]smooth reset [r]reset [s]stop [space]pause [t]scene reset [n]next scene"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
