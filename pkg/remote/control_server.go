// Package remote 提供本地 WebSocket 控制通道
//
// 外部协作方（设置界面、脚本）通过该通道发送幂等控制消息：
// toggle / setTheme / applySettings。核心不拥有任何传输格式，
// 这里只是把 JSON 消息翻译成 ControlHandler 调用。
package remote

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/th3quietloop/tinycat-extension/pkg/game"
)

// ControlHandler 控制消息的处理方（由 App 实现）
//
// 所有方法都必须幂等：重复投递同一消息不得产生额外效果。
type ControlHandler interface {
	// Toggle 设置宠物总开关
	Toggle(enabled bool)
	// SetTheme 切换主题
	SetTheme(theme string)
	// ApplySettings 应用部分设置更新
	ApplySettings(patch *game.SettingsPatch)
}

// ControlMessage 控制消息线格式
//
// Type 取值："toggle"、"setTheme"、"applySettings"
type ControlMessage struct {
	Type     string              `json:"type"`
	Enabled  *bool               `json:"enabled,omitempty"`
	Theme    string              `json:"theme,omitempty"`
	Settings *game.SettingsPatch `json:"settings,omitempty"`
}

// ControlServer 本地控制服务器
//
// 在回环地址上监听 WebSocket 连接，每个连接分配一个会话ID用于日志。
// Start/Close 幂等。
type ControlServer struct {
	handler ControlHandler

	mu       sync.Mutex
	server   *http.Server
	started  bool
	upgrader websocket.Upgrader
}

// NewControlServer 创建控制服务器
func NewControlServer(handler ControlHandler) *ControlServer {
	return &ControlServer{
		handler: handler,
		upgrader: websocket.Upgrader{
			// 只监听回环地址，放开同源检查
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start 在指定地址启动监听（如 "127.0.0.1:7581"）
//
// 幂等：已启动时为空操作。
func (cs *ControlServer) Start(addr string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.started {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/control", cs.handleControl)

	cs.server = &http.Server{Addr: addr, Handler: mux}
	cs.started = true

	go func() {
		if err := cs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[ControlServer] 监听失败: %v", err)
		}
	}()

	log.Printf("[ControlServer] 控制通道已启动: ws://%s/control", addr)
	return nil
}

// Close 关闭控制服务器
//
// 幂等：未启动或已关闭时为空操作。
func (cs *ControlServer) Close() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.started {
		return nil
	}
	cs.started = false

	if err := cs.server.Close(); err != nil {
		return fmt.Errorf("关闭控制服务器失败: %w", err)
	}
	return nil
}

// handleControl 处理一个控制连接的完整生命周期
func (cs *ControlServer) handleControl(w http.ResponseWriter, r *http.Request) {
	conn, err := cs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ControlServer] WebSocket 升级失败: %v", err)
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	log.Printf("[ControlServer] 会话 %s 已连接 (%s)", session, r.RemoteAddr)

	for {
		var msg ControlMessage
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("[ControlServer] 会话 %s 已断开: %v", session, err)
			return
		}
		cs.Dispatch(session, &msg)
	}
}

// Dispatch 把一条控制消息分发给处理方
//
// 未知消息类型静默忽略（记录日志，不是错误）。
func (cs *ControlServer) Dispatch(session string, msg *ControlMessage) {
	switch msg.Type {
	case "toggle":
		if msg.Enabled != nil {
			cs.handler.Toggle(*msg.Enabled)
		}
	case "setTheme":
		cs.handler.SetTheme(msg.Theme)
	case "applySettings":
		cs.handler.ApplySettings(msg.Settings)
	default:
		log.Printf("[ControlServer] 会话 %s 发来未知消息类型: %q", session, msg.Type)
	}
}
