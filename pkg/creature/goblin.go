package creature

import "github.com/decker502/creatures/pkg/types"

// goblinBehavior 哥布林
//   - 攻击进行中或死亡时完全不处理输入
//   - 没有受伤状态，非致命伤害只扣血
//   - 攻击进行中或死亡时不更新位置
type goblinBehavior struct{}

func (goblinBehavior) Move(c *Creature, in types.Input) {
	if !c.hasFinishedAttack || c.dead {
		return
	}

	c.steer(in)
	c.tryAttacks(in)
	c.pollDebugDamage(in)
}

func (goblinBehavior) Integrate(c *Creature, deltaTime float64) {
	if !c.hasFinishedAttack || c.dead {
		return
	}
	c.body.Rect.X += c.body.Velocity.X * deltaTime
}
