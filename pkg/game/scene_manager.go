package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 按名称创建场景，返回 nil 表示未知名称
type SceneFactory func(name string) Scene

// SceneLoadedListener 场景加载监听器
type SceneLoadedListener func(scene Scene)

// SceneManager manages which scene is active.
// It ensures only one scene is updated and drawn at any given time,
// and notifies listeners every time a new scene becomes active.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory // 场景工厂函数，用于按名称创建新场景
	listeners    []SceneLoadedListener
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo or LoadScene to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// OnSceneLoaded 注册场景加载监听器
// 监听器按注册顺序在每次场景切换后同步调用
func (sm *SceneManager) OnSceneLoaded(listener SceneLoadedListener) {
	sm.listeners = append(sm.listeners, listener)
}

// SwitchTo changes the active scene and notifies the scene-loaded listeners.
// A nil scene is ignored.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if scene == nil {
		return
	}
	sm.currentScene = scene
	for _, listener := range sm.listeners {
		listener(scene)
	}
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadScene 按名称加载场景
// 返回是否切换成功
func (sm *SceneManager) LoadScene(name string) bool {
	log.Printf("[SceneManager] 加载场景: %s", name)

	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] 错误: SceneFactory 未设置")
		return false
	}

	newScene := sm.sceneFactory(name)
	if newScene == nil {
		log.Printf("[SceneManager] 错误: 无法创建场景: %s", name)
		return false
	}

	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] 成功切换到场景: %s", name)
	return true
}

// FixedUpdate advances the active scene by one fixed step.
func (sm *SceneManager) FixedUpdate(step float64) {
	if sm.currentScene != nil {
		sm.currentScene.FixedUpdate(step)
	}
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
