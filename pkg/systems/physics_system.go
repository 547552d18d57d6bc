package systems

import (
	"github.com/decker502/creatures/pkg/components"
	"github.com/decker502/creatures/pkg/ecs"
)

// PhysicsSystem 把速度积分到位置上
// 重力、着地与各生物的冻结规则都在生物内部处理，这里只负责按顺序调度
type PhysicsSystem struct {
	em *ecs.EntityManager
}

// NewPhysicsSystem 创建物理系统
//
// 参数:
//   - em: 实体管理器
//
// 返回:
//   - *PhysicsSystem: 物理系统实例
func NewPhysicsSystem(em *ecs.EntityManager) *PhysicsSystem {
	return &PhysicsSystem{em: em}
}

// Update 对所有生物执行一次 ApplyVelocity
func (ps *PhysicsSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.CreatureComponent](ps.em) {
		cc, _ := ecs.GetComponent[*components.CreatureComponent](ps.em, id)
		cc.Controller.ApplyVelocity(deltaTime)
	}
}
