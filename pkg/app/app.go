// Package app 提供 ebiten 宿主的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/timescale/pkg/config"
	"github.com/decker502/timescale/pkg/embedded"
	"github.com/decker502/timescale/pkg/game"
	"github.com/decker502/timescale/pkg/scenes"
	"github.com/decker502/timescale/pkg/utils"
)

// defaultConfigPath 嵌入的默认配置路径
const defaultConfigPath = "data/timescale.yaml"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 时间缩放配置文件路径，为空时使用嵌入的默认配置
	ConfigPath string
	// Scene 初始场景名称，为空时使用配置中的第一个场景
	Scene string
}

// App 是 ebiten 宿主的核心包装器，实现 ebiten.Game 接口
type App struct {
	session *game.Session

	keys        []rune // 每帧复用的按键缓冲
	presetIndex int    // 点击切换预设时的当前位置

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 使用嵌入配置时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	tsConfig, err := LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("时间缩放配置加载失败: %w", err)
	}
	log.Printf("[Config] 基准缩放 %.2f, 基准步长 %.4fs, %d 个预设",
		tsConfig.RealTimeScale, tsConfig.RealStepInterval, len(tsConfig.Presets))

	// 存档不可用时降级为仅内存设置
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: storage dir: %v", err)
	} else if dir := utils.GetStoragePath(); dir != "" {
		log.Printf("[App] 设置存储目录: %s", dir)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: game.SettingsAppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}
	settings := game.NewSettingsManager(gdataManager, &game.Settings{
		ResetOnSceneLoad: tsConfig.ResetOnSceneLoad,
		ShowHUD:          true,
	})

	session, err := game.NewSession(tsConfig, settings, scenes.Factory())
	if err != nil {
		return nil, err
	}
	if err := session.Start(cfg.Scene); err != nil {
		return nil, fmt.Errorf("场景加载失败: %w", err)
	}

	ebiten.SetTPS(tsConfig.TicksPerSecond)
	log.Printf("[App] TPS=%d, scene=%s", tsConfig.TicksPerSecond, session.Scenes().GetCurrentScene().Name())

	return &App{
		session:     session,
		presetIndex: baselinePresetIndex(tsConfig),
	}, nil
}

// baselinePresetIndex 返回与基准缩放一致的预设位置，没有时返回 0
func baselinePresetIndex(cfg *config.TimeScaleConfig) int {
	for i, p := range cfg.Presets {
		if p.Scale == cfg.RealTimeScale {
			return i
		}
	}
	return 0
}

// LoadConfig 加载时间缩放配置
// path 为空时读取嵌入的默认配置
func LoadConfig(path string) (*config.TimeScaleConfig, error) {
	if path != "" {
		return config.LoadTimeScaleConfig(path)
	}
	data, err := embedded.ReadFile(defaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s: %w", defaultConfigPath, err)
	}
	return config.ParseTimeScaleConfig(data)
}

// Update 更新逻辑
// 每个 tick 调用一次；帧间隔使用未缩放的 1/TPS
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.keys = AppendKeyRunes(a.keys[:0])
	for _, r := range a.keys {
		a.session.HandleKey(r)
	}

	if pressed, x, _ := IsJustTouchedOrClicked(); pressed {
		a.handleTap(ZoneAt(x, config.GameWindowWidth))
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.session.Frame(deltaTime)
	return nil
}

// tapHelp 移动端的操作提示
const tapHelp = "tap: left = slower | middle = pause | right = faster"

// handleTap 触摸设备没有键盘：左侧减速、右侧加速、中间暂停
func (a *App) handleTap(zone TapZone) {
	presets := a.session.Config().Presets
	switch zone {
	case TapZoneMiddle:
		a.session.TogglePause()
		return
	case TapZoneLeft:
		if a.presetIndex > 0 {
			a.presetIndex--
		}
	case TapZoneRight:
		if a.presetIndex < len(presets)-1 {
			a.presetIndex++
		}
	}
	if len(presets) > 0 {
		a.session.ApplyPreset(presets[a.presetIndex])
	}
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		return
	}
	ebiten.SetFullscreen(true)
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.session.Scenes().Draw(screen)

	if !a.session.Settings().ShowHUD {
		return
	}
	lines := a.session.StatusLines()
	// 事件较多时面板向下延伸
	hudHeight := max(float32(config.HUDHeight), float32(8+len(lines)*16))
	vector.DrawFilledRect(screen, 0, 0, config.GameWindowWidth, hudHeight, color.RGBA{0, 0, 0, 200}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 8, 4+i*16)
	}
	if utils.IsMobile() {
		ebitenutil.DebugPrintAt(screen, tapHelp, 8, config.GameWindowHeight-20)
	}
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Session 返回会话（用于测试和宿主集成）
func (a *App) Session() *game.Session {
	return a.session
}

// IsTermination 判断 RunGame 返回的错误是否为正常退出
func IsTermination(err error) bool {
	return errors.Is(err, ebiten.Termination)
}
