package config

// 布局配置常量
// 定义窗口尺寸和演示场景的世界边界（像素，世界坐标与屏幕坐标一致）
const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 800

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 600

	// HUDHeight 顶部状态面板高度，场景不在此区域内绘制
	HUDHeight = 150.0

	// WorldGravity 演示场景的重力加速度（像素/秒²）
	WorldGravity = 600.0
)

// GetWorldBounds 返回演示场景的世界边界
// 返回值：minX, minY, maxX, maxY
func GetWorldBounds() (float64, float64, float64, float64) {
	return 0, HUDHeight, GameWindowWidth, GameWindowHeight
}
