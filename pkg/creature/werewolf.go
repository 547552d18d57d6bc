package creature

import "github.com/decker502/creatures/pkg/types"

// werewolfBehavior 狼人
//   - 攻击、受伤或死亡时完全不处理输入
//   - 每帧积分重力，落到地面高度时着地并结束跳跃
//   - 受伤期间不屏蔽水平积分
type werewolfBehavior struct{}

func (werewolfBehavior) Move(c *Creature, in types.Input) {
	if !c.hasFinishedAttack || c.dead || c.State() == types.StateHurt {
		return
	}

	c.steer(in)
	c.tryJump(in)
	c.tryAttacks(in)
	c.pollDebugDamage(in)
}

func (werewolfBehavior) Integrate(c *Creature, deltaTime float64) {
	p := c.profile
	c.body.Velocity.Y += p.Gravity * deltaTime
	c.body.Integrate(deltaTime)

	if c.body.Rect.Y >= p.GroundLevel {
		c.body.Rect.Y = p.GroundLevel
		c.body.Velocity.Y = 0
		c.body.Grounded = true
		c.fire(eventLand)
	}
}
