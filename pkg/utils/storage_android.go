//go:build android

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureStorageDir 确保 Android 设置目录存在并可写
// gdata 在 Android 上写入 /data/data/{package}/，但不会预先创建子目录，
// 因此需要在 gdata.Open 之前调用。
func EnsureStorageDir() error {
	dir := GetStoragePath()
	if dir == "" {
		return errors.New("cannot detect android package name")
	}
	savesDir := filepath.Join(dir, "saves")

	if err := os.MkdirAll(savesDir, 0755); err != nil {
		return fmt.Errorf("create settings directory %s: %w", savesDir, err)
	}

	probe := filepath.Join(savesDir, ".write_test")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return fmt.Errorf("settings directory %s is not writable: %w", savesDir, err)
	}
	return os.Remove(probe)
}

// GetStoragePath 返回应用私有目录，无法识别包名时返回空字符串
func GetStoragePath() string {
	pkg, err := packageName()
	if err != nil {
		return ""
	}
	return filepath.Join("/data/data", pkg)
}

// packageName 从 /proc/self/cmdline 读取包名（以 NUL 结尾）
func packageName() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	name, _, _ := strings.Cut(string(data), "\x00")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty /proc/self/cmdline")
	}
	return name, nil
}
