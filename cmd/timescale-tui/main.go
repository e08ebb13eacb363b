// timescale-tui 在终端中运行时间缩放演示
//
// 与 ebiten 宿主共用 Session，按键含义相同；Esc 或 Ctrl+C 退出。
// 附带一段循环音调，播放速率跟随当前时间缩放。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/timescale/data"
	"github.com/decker502/timescale/internal/audio"
	"github.com/decker502/timescale/pkg/config"
	"github.com/decker502/timescale/pkg/game"
	"github.com/decker502/timescale/pkg/scenes"
	"github.com/decker502/timescale/pkg/utils"
)

var (
	configPath = flag.String("config", "", "时间缩放配置文件路径（默认使用内置配置）")
	sceneName  = flag.String("scene", "", "初始场景名称（"+strings.Join(scenes.SceneNames(), ", ")+"）")
	logPath    = flag.String("log", "", "日志文件路径（终端被占用，默认丢弃日志）")
	noAudio    = flag.Bool("no-audio", false, "禁用音频")
)

// maxFrameDelta 单帧最大真实间隔，避免终端挂起后一次性推进过多
const maxFrameDelta = 0.25

type tui struct {
	screen  tcell.Screen
	session *game.Session
	pitch   *audio.PitchFollower
}

func main() {
	flag.Parse()

	closeLog, err := setupLog(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	t, err := newTUI()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer t.cleanup()

	t.run()
}

func setupLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() { f.Close() }, nil
}

// loadConfig 与 ebiten 宿主相同：未指定路径时解析内置的 data/timescale.yaml
func loadConfig(path string) (*config.TimeScaleConfig, error) {
	if path == "" {
		return config.ParseTimeScaleConfig(data.TimeScaleYAML)
	}
	return config.LoadTimeScaleConfig(path)
}

func newTUI() (*tui, error) {
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return nil, err
	}

	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[TUI] Warning: storage dir: %v", err)
	} else if dir := utils.GetStoragePath(); dir != "" {
		log.Printf("[TUI] 设置存储目录: %s", dir)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: game.SettingsAppName})
	if err != nil {
		log.Printf("[TUI] Warning: gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}
	settings := game.NewSettingsManager(gdataManager, &game.Settings{
		ResetOnSceneLoad: cfg.ResetOnSceneLoad,
		ShowHUD:          true,
	})

	session, err := game.NewSession(cfg, settings, scenes.Factory())
	if err != nil {
		return nil, err
	}
	if err := session.Start(*sceneName); err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	t := &tui{screen: screen, session: session}

	if !*noAudio {
		pitch := audio.NewPitchFollower()
		// 没有音频设备时继续运行
		if err := pitch.Initialize(); err != nil {
			log.Printf("[TUI] Audio initialization failed: %v", err)
		} else {
			t.pitch = pitch
		}
	}
	return t, nil
}

// handleInput 返回 false 表示退出
func (t *tui) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			t.session.HandleKey(ev.Rune())
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *tui) run() {
	tps := t.session.Config().TicksPerSecond
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !t.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now
			if delta > maxFrameDelta {
				delta = maxFrameDelta
			}
			t.session.Frame(delta)

			if t.pitch != nil {
				t.pitch.Follow(t.session.Engine().Scale(), t.session.Settings().Muted)
			}
			t.draw()
		}
	}
}

func (t *tui) draw() {
	var lines []string
	if t.session.Settings().ShowHUD {
		lines = t.session.StatusLines()
	}
	scene, _ := t.session.Scenes().GetCurrentScene().(*scenes.BounceScene)
	render(t.screen, lines, scene)
}

func (t *tui) cleanup() {
	if t.pitch != nil {
		t.pitch.Cleanup()
	}
	t.screen.Fini()
}
