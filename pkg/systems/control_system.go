package systems

import (
	"reflect"

	"github.com/decker502/creatures/pkg/components"
	"github.com/decker502/creatures/pkg/ecs"
	"github.com/decker502/creatures/pkg/types"
)

// idleInput 没有绑定输入源的生物每帧收到的空输入
type idleInput struct{}

func (idleInput) IsHeld(types.Control) bool     { return false }
func (idleInput) WasPressed(types.Control) bool { return false }

// ControlSystem 每帧把输入交给生物的 Move
// 没有 ControlComponent 或被禁用的生物收到空输入，状态仍会按"未按键"逐帧更新
type ControlSystem struct {
	entityManager *ecs.EntityManager
}

// NewControlSystem 创建输入系统
func NewControlSystem(em *ecs.EntityManager) *ControlSystem {
	return &ControlSystem{entityManager: em}
}

// Update 处理所有生物的输入
func (s *ControlSystem) Update() {
	for _, id := range s.entityManager.GetEntitiesWith(reflect.TypeOf(&components.CreatureComponent{})) {
		cc, _ := ecs.GetComponent[*components.CreatureComponent](s.entityManager, id)

		var in types.Input = idleInput{}
		if ctrl, ok := ecs.GetComponent[*components.ControlComponent](s.entityManager, id); ok && ctrl.Enabled && ctrl.Input != nil {
			in = ctrl.Input
		}
		cc.Controller.Move(in)
	}
}
