//go:build !android

package utils

// EnsureStorageDir 确保设置存储目录存在
// 非 Android 平台上 gdata 会自行创建目录，这里无需处理
func EnsureStorageDir() error {
	return nil
}

// GetStoragePath 非 Android 平台返回空字符串，由 gdata 决定存储位置
func GetStoragePath() string {
	return ""
}
