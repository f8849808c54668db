// Package watch 提供设置文件热加载
//
// 监视一个 yaml 设置文件，文件变化时解析为部分设置补丁并回调。
// 这是设置协作方的另一条输入通道，与 WebSocket 控制消息等价。
package watch

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/th3quietloop/tinycat-extension/pkg/game"
	"gopkg.in/yaml.v3"
)

// PatchFunc 设置补丁回调
// 注意：回调在监视 goroutine 上执行，调用方负责转回游戏 tick 线程
type PatchFunc func(patch *game.SettingsPatch)

// SettingsWatcher 设置文件监视器
type SettingsWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange PatchFunc
	done     chan struct{}
}

// NewSettingsWatcher 创建并启动设置文件监视器
//
// 监视文件所在目录（而非文件本身），编辑器的原子替换写入
// 会表现为 Create 事件。
//
// 参数：
//   - path: yaml 设置文件路径
//   - onChange: 文件变化时的补丁回调
func NewSettingsWatcher(path string, onChange PatchFunc) (*SettingsWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监视器失败: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("解析设置文件路径失败: %w", err)
	}

	if err := w.Add(filepath.Dir(absPath)); err != nil {
		w.Close()
		return nil, fmt.Errorf("监视设置目录失败: %w", err)
	}

	sw := &SettingsWatcher{
		watcher:  w,
		path:     absPath,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	go sw.loop()
	log.Printf("[SettingsWatcher] 正在监视设置文件: %s", absPath)
	return sw, nil
}

// Close 停止监视（幂等）
func (sw *SettingsWatcher) Close() error {
	select {
	case <-sw.done:
		return nil // 已关闭
	default:
	}
	close(sw.done)
	return sw.watcher.Close()
}

// loop 事件循环：过滤出目标文件的写入/创建事件
func (sw *SettingsWatcher) loop() {
	for {
		select {
		case <-sw.done:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Name != sw.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			sw.reload()
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[SettingsWatcher] 监视错误: %v", err)
		}
	}
}

// reload 读取并解析设置文件，成功时触发回调
func (sw *SettingsWatcher) reload() {
	data, err := os.ReadFile(sw.path)
	if err != nil {
		log.Printf("[SettingsWatcher] 读取设置文件失败: %v", err)
		return
	}

	patch, err := DecodeSettingsPatch(data)
	if err != nil {
		log.Printf("[SettingsWatcher] %v", err)
		return
	}

	log.Printf("[SettingsWatcher] 设置文件已变化，应用更新")
	sw.onChange(patch)
}

// DecodeSettingsPatch 把 yaml 数据解析为部分设置补丁
//
// 缺失字段保持 nil（"未出现"），解析失败返回错误而不是 panic。
func DecodeSettingsPatch(data []byte) (*game.SettingsPatch, error) {
	var patch game.SettingsPatch
	if err := yaml.Unmarshal(data, &patch); err != nil {
		return nil, fmt.Errorf("解析设置文件失败: %w", err)
	}
	return &patch, nil
}
