package components

import "github.com/decker502/creatures/pkg/types"

// CreatureController 由 creature.Creature 实现
// 组件只依赖这个接口，避免 components 与 creature 包循环引用
type CreatureController interface {
	Move(in types.Input)
	UpdateAnimation(deltaTime float64)
	ApplyVelocity(deltaTime float64)
	Draw(r types.Renderer)
	TakeDamage(amount int)
	Status() CreatureStatus
	Close()
}

// CreatureStatus 生物的只读概要，供 HUD 与调试绘制使用
type CreatureStatus struct {
	Key       string
	Name      string
	State     types.State
	Health    int
	MaxHealth int
	Frame     int
	Dead      bool
	Grounded  bool
	// Bounds 缩放后的屏幕矩形
	Bounds types.Rect
	// GroundLevel 受重力影响的生物的地面高度，0 表示没有
	GroundLevel float64
}

// CreatureComponent 把生物控制器挂到实体上
type CreatureComponent struct {
	Controller CreatureController
}

// Close 实体删除时释放生物持有的资源
func (c *CreatureComponent) Close() {
	if c.Controller != nil {
		c.Controller.Close()
	}
}
