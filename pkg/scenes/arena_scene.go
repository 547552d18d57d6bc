package scenes

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/decker502/creatures/pkg/config"
	"github.com/decker502/creatures/pkg/ecs"
	"github.com/decker502/creatures/pkg/game"
	"github.com/decker502/creatures/pkg/systems"
)

var _ game.Scene = (*ArenaScene)(nil)

var arenaBackground = color.RGBA{R: 40, G: 44, B: 52, A: 255}

// ArenaScene 竞技场：驱动并绘制所有生物
//
// 每个 tick 的顺序：ControlSystem（Move）-> AnimationSystem -> PhysicsSystem，
// 随后移除已标记删除的实体。
type ArenaScene struct {
	entityManager *ecs.EntityManager
	renderer      *game.ScreenRenderer

	controlSystem   *systems.ControlSystem
	animationSystem *systems.AnimationSystem
	physicsSystem   *systems.PhysicsSystem
	renderSystem    *systems.RenderSystem
	hudSystem       *systems.HUDSystem
}

// NewArenaScene 创建竞技场，生物实体由调用方预先注册到 em
func NewArenaScene(em *ecs.EntityManager) *ArenaScene {
	return &ArenaScene{
		entityManager:   em,
		renderer:        game.NewScreenRenderer(),
		controlSystem:   systems.NewControlSystem(em),
		animationSystem: systems.NewAnimationSystem(em),
		physicsSystem:   systems.NewPhysicsSystem(em),
		renderSystem:    systems.NewRenderSystem(em),
		hudSystem:       systems.NewHUDSystem(em),
	}
}

// Name 场景名称
func (s *ArenaScene) Name() string { return "arena" }

// EntityManager 返回实体管理器
func (s *ArenaScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// HUD 返回 HUD 系统（用于切换显示与设置页脚）
func (s *ArenaScene) HUD() *systems.HUDSystem {
	return s.hudSystem
}

// Update 推进一个逻辑 tick
func (s *ArenaScene) Update(deltaTime float64) {
	s.Step(deltaTime)
}

// Step 推进一个逻辑 tick，不依赖 ebiten 的输入状态之外的任何东西
func (s *ArenaScene) Step(deltaTime float64) {
	s.controlSystem.Update()
	s.animationSystem.Update(deltaTime)
	s.physicsSystem.Update(deltaTime)
	s.entityManager.RemoveMarkedEntities()
}

// Draw 绘制所有生物与 HUD
func (s *ArenaScene) Draw(screen *ebiten.Image) {
	screen.Fill(arenaBackground)

	s.renderer.SetTarget(screen)
	s.renderSystem.Draw(s.renderer)
	s.hudSystem.Draw(screen)

	if s.hudSystem.ShowDebug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.0f  FPS %.0f", ebiten.ActualTPS(), ebiten.ActualFPS()),
			config.GameWindowWidth-140, 10)
	}
}
