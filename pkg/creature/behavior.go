package creature

import "github.com/decker502/creatures/pkg/types"

// Behavior 生物特有的输入守卫与物理积分策略
type Behavior interface {
	// Move 处理一帧的输入
	Move(c *Creature, in types.Input)
	// Integrate 处理一帧的速度积分
	Integrate(c *Creature, deltaTime float64)
}

func behaviorFor(kind types.CreatureKind) Behavior {
	switch kind {
	case types.CreatureDemon:
		return demonBehavior{}
	case types.CreatureWerewolf:
		return werewolfBehavior{}
	default:
		return goblinBehavior{}
	}
}

// steer 根据方向键设置水平速度与朝向，并在地面上切换 待机/移动 状态
// 每帧重新判断（电平触发）
func (c *Creature) steer(in types.Input) {
	c.body.Velocity.X = 0

	switch {
	case in.IsHeld(types.ControlLeft):
		c.walkToward(types.FacingLeft)
	case in.IsHeld(types.ControlRight):
		c.walkToward(types.FacingRight)
	default:
		if c.body.Grounded {
			c.fire(eventStop)
		}
		c.stopWalkSound()
	}
}

func (c *Creature) walkToward(f types.Facing) {
	c.body.Velocity.X = float64(f) * c.profile.MoveSpeed
	c.body.Facing = f

	if !c.walkSoundPlaying && c.profile.WalkSound != "" {
		c.audio.Play(c.profile.WalkSound)
		if c.profile.WalkPitch > 0 {
			c.audio.SetPitch(c.profile.WalkSound, c.profile.WalkPitch)
		}
		c.walkSoundPlaying = true
	}

	if c.body.Grounded {
		c.fire(eventMove)
	}
}

func (c *Creature) stopWalkSound() {
	if c.walkSoundPlaying {
		c.audio.Stop(c.profile.WalkSound)
		c.walkSoundPlaying = false
	}
}

// tryAttacks 按配置顺序检查攻击键，本帧最多发起一次攻击
func (c *Creature) tryAttacks(in types.Input) {
	for _, a := range c.profile.Attacks {
		if !c.hasFinishedAttack {
			return
		}
		if !in.WasPressed(a.Control) {
			continue
		}
		if c.fire(attackEvent(a.State)) {
			c.body.Velocity.X = 0
			if a.Sound != "" {
				c.audio.Play(a.Sound)
			}
		}
	}
}

// tryJump 在地面上按下跳跃键时给出向上的初速度
func (c *Creature) tryJump(in types.Input) {
	if !c.profile.CanJump() || !c.body.Grounded || !in.WasPressed(types.ControlJump) {
		return
	}
	if c.fire(eventJump) {
		c.body.Velocity.Y = c.profile.JumpImpulse
		c.body.Grounded = false
	}
}

// pollDebugDamage 调试用的自伤键，存活时始终有效
// DebugDamage <= 0 表示一击扣光当前生命值
func (c *Creature) pollDebugDamage(in types.Input) {
	if c.dead || !in.WasPressed(types.ControlDebugDamage) {
		return
	}
	amount := c.profile.DebugDamage
	if amount <= 0 {
		amount = c.health.Current
	}
	c.TakeDamage(amount)
}
