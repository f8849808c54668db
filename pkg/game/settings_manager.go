package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 主题名称常量
const (
	// ThemeClassic 经典主题（橘猫）
	ThemeClassic = "classic"
	// ThemeNight 夜间主题（灰猫）
	ThemeNight = "night"
)

// PetSettings 宠物全局设置
//
// 设置由外部协作方（设置界面、远程控制通道、设置文件）产生，
// 核心只消费快照。字段缺失时使用默认值，部分更新只触碰出现的字段。
type PetSettings struct {
	// Enabled 宠物总开关
	Enabled bool `yaml:"enabled"`
	// Theme 主题，"classic" 或 "night"
	Theme string `yaml:"theme"`
	// MovementSpeedFactor 移动速度倍率
	MovementSpeedFactor float64 `yaml:"movementSpeedFactor"`
	// IdleTimeoutSeconds 中等空闲阈值（秒）
	IdleTimeoutSeconds float64 `yaml:"idleTimeoutSeconds"`
	// DisabledStates 被禁用的行为状态名称列表（Idle 不可禁用）
	DisabledStates []string `yaml:"disabledStates"`
}

// DefaultPetSettings 返回默认设置
func DefaultPetSettings() *PetSettings {
	return &PetSettings{
		Enabled:             true,
		Theme:               ThemeClassic,
		MovementSpeedFactor: 1.0,
		IdleTimeoutSeconds:  8,
		DisabledStates:      nil,
	}
}

// SettingsPatch 部分设置更新
//
// 所有字段均为指针：nil 表示"未出现"，对应设置保持原值。
// 同时携带 yaml 与 json 标签：设置文件热加载走 yaml，
// 远程控制消息走 json。
type SettingsPatch struct {
	Enabled             *bool     `yaml:"enabled" json:"enabled,omitempty"`
	Theme               *string   `yaml:"theme" json:"theme,omitempty"`
	MovementSpeedFactor *float64  `yaml:"movementSpeedFactor" json:"movementSpeedFactor,omitempty"`
	IdleTimeoutSeconds  *float64  `yaml:"idleTimeoutSeconds" json:"idleTimeoutSeconds,omitempty"`
	DisabledStates      *[]string `yaml:"disabledStates" json:"disabledStates,omitempty"`
}

// Apply 把补丁应用到设置快照上
//
// 幂等：同一补丁应用多次结果相同。非法字段静默保持原值，绝不 panic。
func (p *SettingsPatch) Apply(s *PetSettings) {
	if p == nil || s == nil {
		return
	}
	if p.Enabled != nil {
		s.Enabled = *p.Enabled
	}
	if p.Theme != nil {
		switch *p.Theme {
		case ThemeClassic, ThemeNight:
			s.Theme = *p.Theme
		default:
			log.Printf("[Settings] 忽略未知主题: %q", *p.Theme)
		}
	}
	if p.MovementSpeedFactor != nil && *p.MovementSpeedFactor > 0 {
		s.MovementSpeedFactor = *p.MovementSpeedFactor
	}
	if p.IdleTimeoutSeconds != nil && *p.IdleTimeoutSeconds > 0 {
		s.IdleTimeoutSeconds = *p.IdleTimeoutSeconds
	}
	if p.DisabledStates != nil {
		s.DisabledStates = append([]string(nil), (*p.DisabledStates)...)
	}
}

// SettingsManager 设置管理器
// 负责宠物设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *PetSettings   // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultPetSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultPetSettings()
		return nil
	}

	// 检查设置文件是否存在
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		// 文件不存在，使用默认设置
		sm.settings = DefaultPetSettings()
		return nil
	}

	// 从 gdata 加载数据
	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		// 文件存在但加载失败，使用默认设置
		sm.settings = DefaultPetSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 反序列化为补丁再应用到默认值上：
	// 旧版本存档缺失的字段自动获得默认值
	loaded := DefaultPetSettings()
	var patch SettingsPatch
	if err := yaml.Unmarshal(data, &patch); err != nil {
		sm.settings = DefaultPetSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	patch.Apply(loaded)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (sm *SettingsManager) Save() error {
	// 降级模式：无法持久化，但不报错
	if sm.gdataManager == nil {
		return nil
	}

	// 序列化设置为 YAML
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// 保存到 gdata
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
//
// 返回：
//   - *PetSettings: 当前设置实例
func (sm *SettingsManager) GetSettings() *PetSettings {
	return sm.settings
}

// ApplyPatch 应用部分设置更新并持久化
//
// 注意：只更新内存与存储，不负责把变化转发给行为核心，
// 转发由 App 统一调度（见 pkg/app）。
func (sm *SettingsManager) ApplyPatch(patch *SettingsPatch) error {
	patch.Apply(sm.settings)
	return sm.Save()
}
