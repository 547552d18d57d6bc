package systems

import (
	"github.com/decker502/creatures/pkg/components"
	"github.com/decker502/creatures/pkg/ecs"
	"github.com/decker502/creatures/pkg/types"
)

// RenderSystem 让每个生物向渲染器发出一次绘制请求
type RenderSystem struct {
	entityManager *ecs.EntityManager
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager) *RenderSystem {
	return &RenderSystem{entityManager: em}
}

// Draw 按实体ID顺序绘制所有生物
func (s *RenderSystem) Draw(r types.Renderer) {
	for _, id := range ecs.GetEntitiesWith1[*components.CreatureComponent](s.entityManager) {
		cc, _ := ecs.GetComponent[*components.CreatureComponent](s.entityManager, id)
		cc.Controller.Draw(r)
	}
}

// Statuses 返回所有生物的概要（按实体ID顺序）
func Statuses(em *ecs.EntityManager) []components.CreatureStatus {
	ids := ecs.GetEntitiesWith1[*components.CreatureComponent](em)
	statuses := make([]components.CreatureStatus, 0, len(ids))
	for _, id := range ids {
		cc, _ := ecs.GetComponent[*components.CreatureComponent](em, id)
		statuses = append(statuses, cc.Controller.Status())
	}
	return statuses
}
