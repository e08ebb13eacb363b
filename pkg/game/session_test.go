package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/decker502/timescale/pkg/config"
	"github.com/decker502/timescale/pkg/timescale"
)

// newTestSession 创建使用 MockScene 的会话
func newTestSession(t *testing.T) (*Session, map[string]*MockScene) {
	t.Helper()
	created := make(map[string]*MockScene)
	factory := func(name string) Scene {
		if name != "lab" && name != "arena" {
			return nil
		}
		scene := &MockScene{name: name}
		created[name] = scene
		return scene
	}

	s, err := NewSession(config.DefaultTimeScaleConfig(), NewSettingsManager(nil, nil), factory)
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	if err := s.Start(""); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	return s, created
}

func hasEvent(s *Session, substr string) bool {
	for _, e := range s.Events() {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

// TestNewSessionInvalidBaseline 无效基准是启动错误
func TestNewSessionInvalidBaseline(t *testing.T) {
	cfg := config.DefaultTimeScaleConfig()
	cfg.RealTimeScale = 0
	_, err := NewSession(cfg, NewSettingsManager(nil, nil), nil)
	if !errors.Is(err, timescale.ErrInvalidArgument) {
		t.Errorf("error: got %v, want ErrInvalidArgument", err)
	}
}

// TestSessionStart 默认加载配置中的第一个场景
func TestSessionStart(t *testing.T) {
	s, created := newTestSession(t)
	if created["lab"] == nil {
		t.Fatal("lab scene was not created")
	}
	if s.Scenes().GetCurrentScene().Name() != "lab" {
		t.Errorf("current scene: got %q, want lab", s.Scenes().GetCurrentScene().Name())
	}
	if !hasEvent(s, "loaded lab") {
		t.Errorf("events: %v", s.Events())
	}

	if err := s.Start("void"); err == nil {
		t.Error("Start(void) should fail")
	}
}

// TestSessionFrameRunsFixedSteps 1x 下每真实秒约 50 个固定步
func TestSessionFrameRunsFixedSteps(t *testing.T) {
	s, created := newTestSession(t)
	lab := created["lab"]

	for i := 0; i < 64; i++ {
		s.Frame(1.0 / 64)
	}
	if lab.fixedSteps < 49 || lab.fixedSteps > 50 {
		t.Errorf("fixed steps: got %d, want ~50", lab.fixedSteps)
	}
	if lab.lastStep != 0.02 {
		t.Errorf("step: got %v, want 0.02", lab.lastStep)
	}
	if lab.deltaTime != 1.0/64 {
		t.Errorf("scaled delta: got %v, want %v", lab.deltaTime, 1.0/64)
	}
}

// TestSessionPresetTransition 预设按键启动定时过渡
func TestSessionPresetTransition(t *testing.T) {
	s, created := newTestSession(t)

	if !s.HandleKey('5') { // 2x，1 秒
		t.Fatal("preset key '5' not handled")
	}
	if !s.Engine().IsTransitioning() {
		t.Fatal("expected active transition")
	}

	s.Frame(0.5)
	s.Frame(0.5)

	if s.Engine().Scale() != 2 {
		t.Errorf("Scale: got %v, want 2", s.Engine().Scale())
	}
	if !hasEvent(s, "2x: completed") {
		t.Errorf("events: %v", s.Events())
	}

	// 2x 时场景收到的是缩放后的时间和加倍的步长
	s.Frame(0.25)
	lab := created["lab"]
	if lab.deltaTime != 0.5 {
		t.Errorf("scaled delta: got %v, want 0.5", lab.deltaTime)
	}
	if lab.lastStep != 0.04 {
		t.Errorf("step: got %v, want 0.04", lab.lastStep)
	}
}

// TestSessionImmediatePreset 时长为 0 的预设立即生效
func TestSessionImmediatePreset(t *testing.T) {
	s, _ := newTestSession(t)
	s.HandleKey('6') // 4x，2 秒
	s.Frame(0.5)

	s.HandleKey('4') // 1x，立即
	if s.Engine().Scale() != 1 {
		t.Errorf("Scale: got %v, want 1", s.Engine().Scale())
	}
	if !hasEvent(s, "4x: stopped") {
		t.Errorf("superseded transition should be reported stopped: %v", s.Events())
	}
}

// TestSessionSceneReset 切换场景时按策略重置
func TestSessionSceneReset(t *testing.T) {
	s, _ := newTestSession(t)

	s.HandleKey('3') // 0.5x，0.5 秒
	s.Frame(0.25)
	s.HandleKey(KeyNextScene)

	if s.Scenes().GetCurrentScene().Name() != "arena" {
		t.Errorf("current scene: got %q, want arena", s.Scenes().GetCurrentScene().Name())
	}
	if s.Engine().Scale() != 1 {
		t.Errorf("Scale after scene load: got %v, want 1", s.Engine().Scale())
	}
	if !hasEvent(s, "0.5x: stopped") {
		t.Errorf("events: %v", s.Events())
	}

	s.HandleKey(KeyToggleSceneReset)
	if s.Engine().ContextResetEnabled() {
		t.Fatal("scene reset should be disabled")
	}
	if s.Settings().ResetOnSceneLoad {
		t.Error("settings should follow the toggle")
	}

	s.HandleKey('2') // 0.25x
	s.Frame(0.5)
	s.HandleKey(KeyNextScene)
	if s.Scenes().GetCurrentScene().Name() != "lab" {
		t.Errorf("scene should wrap around to lab, got %q", s.Scenes().GetCurrentScene().Name())
	}
	if s.Engine().Scale() != 0.25 {
		t.Errorf("Scale with reset disabled: got %v, want 0.25", s.Engine().Scale())
	}
}

// TestSessionSettingsOverrideConfig 持久化设置覆盖配置中的场景重置
func TestSessionSettingsOverrideConfig(t *testing.T) {
	settings := NewSettingsManager(nil, &Settings{ResetOnSceneLoad: false})
	s, err := NewSession(config.DefaultTimeScaleConfig(), settings, func(name string) Scene {
		return &MockScene{name: name}
	})
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	if s.Engine().ContextResetEnabled() {
		t.Error("engine should take scene reset policy from settings")
	}
}

// TestSessionPause 暂停时固定更新停止，恢复到暂停前的速度
func TestSessionPause(t *testing.T) {
	s, created := newTestSession(t)
	lab := created["lab"]

	s.HandleKey('3')
	s.Frame(0.5) // 到达 0.5x

	s.HandleKey(KeyTogglePause)
	if s.Engine().Scale() != 0 {
		t.Fatalf("Scale while paused: got %v, want 0", s.Engine().Scale())
	}

	before := lab.fixedSteps
	for i := 0; i < 10; i++ {
		s.Frame(0.1)
	}
	if lab.fixedSteps != before {
		t.Errorf("fixed steps while paused: got %d, want %d", lab.fixedSteps, before)
	}
	if s.LastSteps() != 0 {
		t.Errorf("LastSteps while paused: got %d, want 0", s.LastSteps())
	}

	s.HandleKey(KeyTogglePause)
	if s.Engine().Scale() != 0.5 {
		t.Errorf("Scale after resume: got %v, want 0.5", s.Engine().Scale())
	}
}

// TestSessionResetKeys 立即重置、平滑重置与中断
func TestSessionResetKeys(t *testing.T) {
	s, _ := newTestSession(t)

	s.HandleKey('6')
	s.Frame(1)
	s.HandleKey(KeyReset)
	if s.Engine().Scale() != 1 || s.Engine().IsTransitioning() {
		t.Errorf("after reset: scale=%v transitioning=%v", s.Engine().Scale(), s.Engine().IsTransitioning())
	}

	s.HandleKey('5')
	s.Frame(1)
	s.HandleKey(KeySmoothReset)
	s.Frame(0.25)
	if !s.Engine().IsTransitioning() {
		t.Fatal("smooth reset should be running")
	}
	s.HandleKey(KeyStop)
	if s.Engine().IsTransitioning() {
		t.Error("stop key should cancel the transition")
	}
	if !hasEvent(s, "reset: stopped") {
		t.Errorf("events: %v", s.Events())
	}
}

// TestSessionToggles HUD 与静音开关
func TestSessionToggles(t *testing.T) {
	s, _ := newTestSession(t)
	s.HandleKey(KeyToggleHUD)
	s.HandleKey(KeyToggleMute)
	if s.Settings().ShowHUD {
		t.Error("ShowHUD should be toggled off")
	}
	if !s.Settings().Muted {
		t.Error("Muted should be toggled on")
	}
	if s.HandleKey('z') {
		t.Error("unknown key should not be handled")
	}
}

// TestSessionEventsBounded 事件列表有上限
func TestSessionEventsBounded(t *testing.T) {
	s, _ := newTestSession(t)
	for i := 0; i < 20; i++ {
		s.HandleKey(KeyTogglePause)
	}
	if n := len(s.Events()); n != maxEvents {
		t.Errorf("events: got %d, want %d", n, maxEvents)
	}
}

// TestSessionStatusLines 状态面板包含缩放与过渡信息
func TestSessionStatusLines(t *testing.T) {
	s, _ := newTestSession(t)
	s.HandleKey('5')
	s.Frame(0.5)

	text := strings.Join(s.StatusLines(), "\n")
	// 0.75s 缩放时间 / 0.03s 步长，超过每帧上限 8 步
	for _, want := range []string{"scene: lab", "steps: 8 (total 8)", "scale: 1.500x", "transition #", "scene reset: on", "[5]2x"} {
		if !strings.Contains(text, want) {
			t.Errorf("status should contain %q:\n%s", want, text)
		}
	}
}

// TestSessionSkipsUnknownScenes 配置中未知的场景被跳过
func TestSessionSkipsUnknownScenes(t *testing.T) {
	cfg := config.DefaultTimeScaleConfig()
	cfg.Scenes = []string{"lab", "missing", "arena"}
	s, err := NewSession(cfg, NewSettingsManager(nil, nil), func(name string) Scene {
		if name == "missing" {
			return nil
		}
		return &MockScene{name: name}
	})
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	if err := s.Start(""); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	s.NextScene()
	if got := s.Scenes().GetCurrentScene().Name(); got != "arena" {
		t.Errorf("NextScene: got %q, want arena", got)
	}
	s.NextScene()
	if got := s.Scenes().GetCurrentScene().Name(); got != "lab" {
		t.Errorf("NextScene should wrap to lab, got %q", got)
	}
}

// TestSessionNoKnownScenes 没有可用场景时创建失败
func TestSessionNoKnownScenes(t *testing.T) {
	cfg := config.DefaultTimeScaleConfig()
	cfg.Scenes = []string{"missing"}
	_, err := NewSession(cfg, NewSettingsManager(nil, nil), func(string) Scene { return nil })
	if err == nil {
		t.Fatal("expected error when no scene is known")
	}
}

// TestSessionNextSceneLoadFailure 切换失败时保留当前场景并记录事件
func TestSessionNextSceneLoadFailure(t *testing.T) {
	arenaCalls := 0
	s, err := NewSession(config.DefaultTimeScaleConfig(), NewSettingsManager(nil, nil), func(name string) Scene {
		if name == "arena" {
			arenaCalls++
			if arenaCalls > 1 {
				return nil
			}
		}
		return &MockScene{name: name}
	})
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	if err := s.Start("lab"); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	s.NextScene()
	if got := s.Scenes().GetCurrentScene().Name(); got != "lab" {
		t.Errorf("current scene: got %q, want lab kept", got)
	}
	if !hasEvent(s, "load failed: arena") {
		t.Errorf("events: %v", s.Events())
	}
}
