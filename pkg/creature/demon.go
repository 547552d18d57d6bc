package creature

import "github.com/decker502/creatures/pkg/types"

// demonBehavior 恶魔
//   - 攻击、受伤期间冻结水平速度，但仍响应调试伤害键
//   - 受伤或死亡时速度清零，位置不变
type demonBehavior struct{}

func (demonBehavior) Move(c *Creature, in types.Input) {
	if c.dead {
		return
	}

	state := c.State()
	if state.IsAttack() || state == types.StateHurt {
		c.body.Velocity.X = 0
		c.pollDebugDamage(in)
		return
	}

	c.steer(in)
	c.tryAttacks(in)
	c.pollDebugDamage(in)
}

func (demonBehavior) Integrate(c *Creature, deltaTime float64) {
	if c.dead || c.State() == types.StateHurt {
		c.body.Velocity = types.Vector2{}
	}
	c.body.Integrate(deltaTime)
}
