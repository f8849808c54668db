// Package app 提供应用的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来：打开本地存储、加载设置、
// 装配宠物场景，并接好两条设置输入通道（文件监视与 WebSocket 控制）。
package app

import (
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
	"github.com/th3quietloop/tinycat-extension/pkg/config"
	"github.com/th3quietloop/tinycat-extension/pkg/game"
	"github.com/th3quietloop/tinycat-extension/pkg/remote"
	"github.com/th3quietloop/tinycat-extension/pkg/scenes"
	"github.com/th3quietloop/tinycat-extension/pkg/watch"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// BehaviorConfigFile 行为调参 yaml 路径，为空使用默认配置
	BehaviorConfigFile string
	// SettingsFile 设置文件路径（启用热加载），为空则不监视
	SettingsFile string
	// ControlAddr WebSocket 控制通道监听地址，为空则不启动
	ControlAddr string
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
//
// 控制消息与文件监视回调运行在其他 goroutine 上；App 把它们
// 封装成闭包排入 commands 队列，在每帧 Update 开头的 tick 线程上
// 统一执行，核心因此保持单线程协作式模型。
type App struct {
	sceneManager    *game.SceneManager
	petScene        *scenes.PetScene
	settingsManager *game.SettingsManager
	watcher         *watch.SettingsWatcher
	control         *remote.ControlServer

	commands chan func()
	enabled  bool
	verbose  bool
}

// NewApp 创建并初始化应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 打开本地存储（失败进入降级模式：设置仅保存在内存）
	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "tinycat",
	})
	if err != nil {
		log.Printf("[App] 本地存储不可用，设置将不会持久化: %v", err)
		gdataManager = nil
	}

	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, err
	}
	settings := settingsManager.GetSettings()

	// 行为调参配置
	behaviorCfg := config.DefaultBehaviorConfig()
	if cfg.BehaviorConfigFile != "" {
		loaded, err := config.LoadBehaviorConfig(cfg.BehaviorConfigFile)
		if err != nil {
			log.Printf("[App] %v（使用默认行为配置）", err)
		}
		behaviorCfg = loaded
	}

	// 装配宠物场景
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	petScene := scenes.NewPetScene(behaviorCfg, settings, rng)

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(petScene)

	a := &App{
		sceneManager:    sceneManager,
		petScene:        petScene,
		settingsManager: settingsManager,
		commands:        make(chan func(), 16),
		verbose:         cfg.Verbose,
	}

	if settings.Enabled {
		a.enabled = true
		petScene.Mount()
	}

	// 设置文件热加载（可选）
	if cfg.SettingsFile != "" {
		watcher, err := watch.NewSettingsWatcher(cfg.SettingsFile, func(patch *game.SettingsPatch) {
			a.enqueue(func() { a.ApplySettings(patch) })
		})
		if err != nil {
			log.Printf("[App] 设置文件监视不可用: %v", err)
		} else {
			a.watcher = watcher
		}
	}

	// WebSocket 控制通道（可选）
	if cfg.ControlAddr != "" {
		a.control = remote.NewControlServer(&queuedHandler{app: a})
		if err := a.control.Start(cfg.ControlAddr); err != nil {
			log.Printf("[App] 控制通道启动失败: %v", err)
		}
	}

	return a, nil
}

// enqueue 把一个操作排入 tick 线程执行；队列满时丢弃（控制消息可重发）
func (a *App) enqueue(fn func()) {
	select {
	case a.commands <- fn:
	default:
		log.Printf("[App] 命令队列已满，丢弃一条控制命令")
	}
}

// drainCommands 在 tick 线程上执行排队的控制命令
func (a *App) drainCommands() {
	for {
		select {
		case fn := <-a.commands:
			fn()
		default:
			return
		}
	}
}

// Toggle 宠物总开关（幂等：重复的开/关是空操作）
func (a *App) Toggle(enabled bool) {
	if enabled == a.enabled {
		return
	}
	a.enabled = enabled
	if enabled {
		a.petScene.Mount()
	} else {
		a.petScene.Unmount()
	}

	patch := &game.SettingsPatch{Enabled: &enabled}
	patch.Apply(a.settingsManager.GetSettings())
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] 保存设置失败: %v", err)
	}
}

// SetTheme 切换主题
func (a *App) SetTheme(theme string) {
	a.ApplySettings(&game.SettingsPatch{Theme: &theme})
}

// ApplySettings 应用部分设置更新：先持久化，再分发给行为核心
func (a *App) ApplySettings(patch *game.SettingsPatch) {
	if patch == nil {
		return
	}
	if err := a.settingsManager.ApplyPatch(patch); err != nil {
		log.Printf("[App] 保存设置失败: %v", err)
	}
	a.petScene.ApplySettings(patch)

	// enabled 字段统一走 Toggle 的挂载/卸载语义
	if patch.Enabled != nil {
		a.Toggle(*patch.Enabled)
	}
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	a.drainCommands()

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Shutdown 停止所有协作方并保存设置
//
// 幂等：取消全部排程计时、注销监听；核心没有异步在途操作需要排空。
func (a *App) Shutdown() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Printf("[App] 关闭设置监视器失败: %v", err)
		}
		a.watcher = nil
	}
	if a.control != nil {
		if err := a.control.Close(); err != nil {
			log.Printf("[App] 关闭控制通道失败: %v", err)
		}
		a.control = nil
	}
	a.petScene.Unmount()
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] 保存设置失败: %v", err)
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// queuedHandler 把控制消息转投到 tick 线程
type queuedHandler struct {
	app *App
}

func (h *queuedHandler) Toggle(enabled bool) {
	h.app.enqueue(func() { h.app.Toggle(enabled) })
}

func (h *queuedHandler) SetTheme(theme string) {
	h.app.enqueue(func() { h.app.SetTheme(theme) })
}

func (h *queuedHandler) ApplySettings(patch *game.SettingsPatch) {
	h.app.enqueue(func() { h.app.ApplySettings(patch) })
}
