package embedded

import (
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/timescale.yaml": &fstest.MapFile{Data: []byte("realTimeScale: 1.0\n")},
	}
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	Init(nil)
	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false after Init(nil)")
	}

	Init(testFS())
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}

	Init(nil)
}

// TestReadFileNotInitialized 测试未初始化时调用 ReadFile
func TestReadFileNotInitialized(t *testing.T) {
	Init(nil)

	_, err := ReadFile("data/timescale.yaml")
	if err == nil {
		t.Fatal("Expected error when calling ReadFile() before Init()")
	}
	if err.Error() != "embedded package not initialized, call Init() first" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

// TestReadFile 测试读取与路径标准化
func TestReadFile(t *testing.T) {
	Init(testFS())
	defer Init(nil)

	for _, path := range []string{"data/timescale.yaml", "./data/timescale.yaml"} {
		data, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%q) error: %v", path, err)
		}
		if string(data) != "realTimeScale: 1.0\n" {
			t.Errorf("ReadFile(%q): got %q", path, data)
		}
	}

	if _, err := ReadFile("assets/logo.png"); err == nil {
		t.Error("Expected error for unknown prefix")
	}
	if _, err := ReadFile("data/missing.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
