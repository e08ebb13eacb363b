package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时 HOME 下创建 gdata manager
func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return gdataManager
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings == nil {
		t.Fatal("DefaultSettings() returned nil")
	}
	if !settings.ResetOnSceneLoad {
		t.Error("ResetOnSceneLoad: got false, want true")
	}
	if settings.Muted {
		t.Error("Muted: got true, want false")
	}
	if !settings.ShowHUD {
		t.Error("ShowHUD: got false, want true")
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm := NewSettingsManager(nil, &Settings{ResetOnSceneLoad: false, ShowHUD: true})

	settings := sm.GetSettings()
	if settings == nil {
		t.Fatal("GetSettings() returned nil in degraded mode")
	}
	if settings.ResetOnSceneLoad {
		t.Error("Degraded mode should use the provided defaults")
	}

	sm.SetMuted(true)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should not fail: %v", err)
	}
}

// TestSettingsDefaultsNotShared 修改设置不影响默认值
func TestSettingsDefaultsNotShared(t *testing.T) {
	sm := NewSettingsManager(nil, nil)
	sm.SetShowHUD(false)
	if err := sm.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !sm.GetSettings().ShowHUD {
		t.Error("Load() in degraded mode should restore defaults")
	}
}

// TestSettingsLoadSave 测试 Load() 和 Save() 功能
func TestSettingsLoadSave(t *testing.T) {
	gdataManager := openTestGdata(t, "test_timescale_settings")

	sm1 := NewSettingsManager(gdataManager, nil)
	sm1.SetResetOnSceneLoad(false)
	sm1.SetMuted(true)
	sm1.SetShowHUD(false)

	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// 新的管理器应加载已保存的值，而不是传入的默认值
	sm2 := NewSettingsManager(gdataManager, DefaultSettings())
	settings := sm2.GetSettings()

	if settings.ResetOnSceneLoad {
		t.Error("Loaded ResetOnSceneLoad: got true, want false")
	}
	if !settings.Muted {
		t.Error("Loaded Muted: got false, want true")
	}
	if settings.ShowHUD {
		t.Error("Loaded ShowHUD: got true, want false")
	}
}

// TestSettingsLoadCorrupted 存档损坏时回退到默认值
func TestSettingsLoadCorrupted(t *testing.T) {
	gdataManager := openTestGdata(t, "test_timescale_settings_corrupted")

	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte("muted: [oops")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	sm := NewSettingsManager(gdataManager, nil)
	if err := sm.Load(); err == nil {
		t.Error("Load() should fail on corrupted data")
	}
	if sm.GetSettings().Muted {
		t.Error("corrupted settings should fall back to defaults")
	}
}
