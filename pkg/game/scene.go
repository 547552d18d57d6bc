package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

// Scene 游戏场景（开始界面、竞技场）
// 每个场景有自己的更新与绘制逻辑
type Scene interface {
	// Update 按经过的时间（秒）更新场景逻辑
	Update(deltaTime float64)

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// SceneManager 管理当前激活的场景
// 任意时刻只有一个场景的 Update 与 Draw 会被调用
type SceneManager struct {
	currentScene Scene
	log          *logrus.Entry
}

// NewSceneManager 创建场景管理器，初始没有激活的场景
func NewSceneManager() *SceneManager {
	return &SceneManager{
		log: logrus.WithField("component", "SceneManager"),
	}
}

// SwitchTo 切换到指定场景，下一次 Update/Draw 起生效
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
	sm.log.WithField("scene", sceneName(scene)).Debug("Scene switched")
}

// GetCurrentScene 返回当前场景，没有时为 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Update 更新当前场景，没有场景时什么也不做
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景，没有场景时什么也不做
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

func sceneName(scene Scene) string {
	if named, ok := scene.(interface{ Name() string }); ok {
		return named.Name()
	}
	if scene == nil {
		return "<nil>"
	}
	return "unnamed"
}
