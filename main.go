package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/th3quietloop/tinycat-extension/pkg/app"
	"github.com/th3quietloop/tinycat-extension/pkg/config"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	behaviorCfg := flag.String("behavior-config", "", "行为调参 yaml 文件路径（可选）")
	settingsFile := flag.String("settings", "", "设置文件路径，变化时热加载（可选）")
	controlAddr := flag.String("control", "", "WebSocket 控制通道监听地址，如 127.0.0.1:7581（可选）")
	flag.Parse()

	a, err := app.NewApp(app.Config{
		Verbose:            *verbose,
		BehaviorConfigFile: *behaviorCfg,
		SettingsFile:       *settingsFile,
		ControlAddr:        *controlAddr,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer a.Shutdown()

	// Set window properties
	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("tinycat")
	ebiten.SetWindowFloating(true)

	// Start the game loop
	// This will call Update() and Draw() repeatedly until the window is closed
	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
