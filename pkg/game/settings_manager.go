package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Settings 用户偏好设置
// 与启动配置不同，这些设置会被持久化，下次启动时覆盖配置文件中的同名项
type Settings struct {
	ResetOnSceneLoad bool `yaml:"resetOnSceneLoad"` // 场景加载时重置时间缩放
	Muted            bool `yaml:"muted"`            // 静音（终端宿主的变调音效）
	ShowHUD          bool `yaml:"showHUD"`          // 显示状态面板
}

// DefaultSettings 返回默认设置
func DefaultSettings() *Settings {
	return &Settings{
		ResetOnSceneLoad: true,
		Muted:            false,
		ShowHUD:          true,
	}
}

// SettingsManager 设置管理器
// 负责用户设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	defaults     Settings
	settings     *Settings
}

// SettingsAppName gdata 存档目录名，各宿主共用同一份设置
const SettingsAppName = "timescale"

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "timescale"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//   - defaults: 没有存档时使用的默认设置，nil 表示 DefaultSettings()
//
// 加载失败不是致命错误，会记录警告并使用默认设置。
func NewSettingsManager(gdataManager *gdata.Manager, defaults *Settings) *SettingsManager {
	if defaults == nil {
		defaults = DefaultSettings()
	}
	sm := &SettingsManager{
		gdataManager: gdataManager,
		defaults:     *defaults,
	}
	sm.settings = sm.freshDefaults()

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或存档不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = sm.freshDefaults()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = sm.freshDefaults()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = sm.freshDefaults()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 在默认值之上反序列化，兼容缺少字段的旧存档
	loaded := sm.freshDefaults()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = sm.freshDefaults()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *Settings {
	return sm.settings
}

// SetResetOnSceneLoad 设置场景重置开关
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetResetOnSceneLoad(enabled bool) {
	sm.settings.ResetOnSceneLoad = enabled
}

// SetMuted 设置静音
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetMuted(muted bool) {
	sm.settings.Muted = muted
}

// SetShowHUD 设置状态面板显示
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetShowHUD(show bool) {
	sm.settings.ShowHUD = show
}

func (sm *SettingsManager) freshDefaults() *Settings {
	s := sm.defaults
	return &s
}
