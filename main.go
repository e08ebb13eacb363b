package main

import (
	"flag"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/timescale/pkg/app"
	"github.com/decker502/timescale/pkg/config"
	"github.com/decker502/timescale/pkg/embedded"
	"github.com/decker502/timescale/pkg/scenes"
)

var (
	// 命令行参数
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	configPath = flag.String("config", "", "时间缩放配置文件路径（默认使用内置配置）")
	sceneName  = flag.String("scene", "", "初始场景名称（"+strings.Join(scenes.SceneNames(), ", ")+"）")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		Scene:      *sceneName,
	})
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Time Scale Control")

	if err := ebiten.RunGame(gameApp); err != nil && !app.IsTermination(err) {
		log.Fatal(err)
	}
}
