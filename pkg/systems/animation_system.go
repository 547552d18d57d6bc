package systems

import (
	"github.com/decker502/creatures/pkg/components"
	"github.com/decker502/creatures/pkg/ecs"
)

// AnimationSystem 推进所有生物当前状态的动画
type AnimationSystem struct {
	entityManager *ecs.EntityManager
}

// NewAnimationSystem 创建一个新的动画系统
func NewAnimationSystem(em *ecs.EntityManager) *AnimationSystem {
	return &AnimationSystem{
		entityManager: em,
	}
}

// Update 更新所有生物的动画帧
// 单次动画完成时由生物自己决定是否回到待机
func (s *AnimationSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.CreatureComponent](s.entityManager) {
		cc, _ := ecs.GetComponent[*components.CreatureComponent](s.entityManager, id)
		cc.Controller.UpdateAnimation(deltaTime)
	}
}
