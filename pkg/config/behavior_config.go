package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// 行为核心调参配置
//
// 所有阈值集中在这里，可通过 yaml 文件整体或部分覆盖。
// 缺失字段保持默认值，解析失败不致命（回退默认配置）。

// 窗口逻辑尺寸常量
const (
	// GameWindowWidth 游戏逻辑屏幕宽度
	GameWindowWidth = 480
	// GameWindowHeight 游戏逻辑屏幕高度
	GameWindowHeight = 360
)

// ClassifierConfig 信号分类器阈值配置
type ClassifierConfig struct {
	// StationaryThreshold 速度低于该值（px/帧）视为静止
	StationaryThreshold float64 `yaml:"stationaryThreshold"`
	// DirectionChangeAngle 方向突变的最小角度差（度）
	DirectionChangeAngle float64 `yaml:"directionChangeAngle"`
	// DirectionChangeMinSpeed 方向突变检测要求的最低速度（px/帧）
	DirectionChangeMinSpeed float64 `yaml:"directionChangeMinSpeed"`
	// FastSpeed 快速移动阈值（px/帧）
	FastSpeed float64 `yaml:"fastSpeed"`
	// FastBurstWindow 快速移动爆发窗口（秒）
	FastBurstWindow float64 `yaml:"fastBurstWindow"`
	// FastBurstCount 窗口内达到该次数触发 RepeatedFast
	FastBurstCount int `yaml:"fastBurstCount"`
	// CircularSampleCount 圆周检测环形缓冲的角度增量样本数
	CircularSampleCount int `yaml:"circularSampleCount"`
	// CircularTotalAngle 样本绝对角度增量之和达到该值（度）触发 CircularMotion
	CircularTotalAngle float64 `yaml:"circularTotalAngle"`
	// MediumIdleSeconds 中等空闲阈值（秒），对应设置中的 idleTimeoutSeconds
	MediumIdleSeconds float64 `yaml:"mediumIdleSeconds"`
	// LongIdleSeconds 长空闲阈值（秒）
	LongIdleSeconds float64 `yaml:"longIdleSeconds"`
	// NearDistance 光标距宠物小于该值（px）视为靠近
	NearDistance float64 `yaml:"nearDistance"`
	// AwayDistance 光标距宠物大于该值（px）视为远离
	// Near 与 Away 之间是死区，不发任何接近信号
	AwayDistance float64 `yaml:"awayDistance"`
}

// ControllerConfig 行为控制器准入策略配置
type ControllerConfig struct {
	// NoticeRadius 快速移动信号的地理门限（px）
	// 光标距宠物超过该半径时，CursorFast/RepeatedFast 直接丢弃
	NoticeRadius float64 `yaml:"noticeRadius"`
	// Cooldowns 每种信号的冷却窗口（秒），键为信号名称
	// 表中没有条目的信号不受冷却限制
	Cooldowns map[string]float64 `yaml:"cooldowns"`
}

// MovementConfig 位置插值与空间指令配置
type MovementConfig struct {
	// Smoothing 每帧向目标靠拢的比例系数（指数平滑）
	Smoothing float64 `yaml:"smoothing"`
	// ChaseOffsetX/Y 追逐指令相对光标的偏移（宠物停在光标斜下方）
	ChaseOffsetX float64 `yaml:"chaseOffsetX"`
	ChaseOffsetY float64 `yaml:"chaseOffsetY"`
	// HomeX/Y 休息位置
	HomeX float64 `yaml:"homeX"`
	HomeY float64 `yaml:"homeY"`
}

// BehaviorConfig 行为核心的全部调参配置
type BehaviorConfig struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	Controller ControllerConfig `yaml:"controller"`
	Movement   MovementConfig   `yaml:"movement"`
}

// DefaultBehaviorConfig 返回默认配置
func DefaultBehaviorConfig() *BehaviorConfig {
	return &BehaviorConfig{
		Classifier: ClassifierConfig{
			StationaryThreshold:     0.5,
			DirectionChangeAngle:    120,
			DirectionChangeMinSpeed: 4,
			FastSpeed:               18,
			FastBurstWindow:         5.0,
			FastBurstCount:          5,
			CircularSampleCount:     30,
			CircularTotalAngle:      500,
			MediumIdleSeconds:       8,
			LongIdleSeconds:         30,
			NearDistance:            150,
			AwayDistance:            350,
		},
		Controller: ControllerConfig{
			NoticeRadius: 250,
			Cooldowns: map[string]float64{
				"CursorFast":      1.0,
				"RepeatedFast":    2.0,
				"DirectionChange": 1.5,
				"CircularMotion":  2.0,
				"NearTarget":      1.0,
				"CursorAway":      1.0,
				"Click":           0.5,
				"MediumIdle":      1.0,
				"LongIdle":        1.0,
			},
		},
		Movement: MovementConfig{
			Smoothing:    0.12,
			ChaseOffsetX: 14,
			ChaseOffsetY: 22,
			HomeX:        GameWindowWidth / 2,
			HomeY:        GameWindowHeight - 60,
		},
	}
}

// LoadBehaviorConfig 从 yaml 文件加载配置
//
// 文件内容覆盖在默认配置之上，缺失字段保持默认值。
//
// 参数：
//   - path: yaml 配置文件路径
//
// 返回：
//   - *BehaviorConfig: 合并后的配置
//   - error: 读取或解析失败返回错误（调用方可回退 DefaultBehaviorConfig）
func LoadBehaviorConfig(path string) (*BehaviorConfig, error) {
	cfg := DefaultBehaviorConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取行为配置失败: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultBehaviorConfig(), fmt.Errorf("解析行为配置失败: %w", err)
	}

	log.Printf("[Config] 行为配置加载成功: %s", path)
	return cfg, nil
}
