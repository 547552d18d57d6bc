package creature

import (
	"fmt"

	"github.com/decker502/creatures/pkg/types"
)

// AnimationSnapshot 单个动画的运行时状态
type AnimationSnapshot struct {
	CurrentFrame int     `yaml:"currentFrame"`
	TimeLeft     float64 `yaml:"timeLeft"`
	Finished     bool    `yaml:"finished,omitempty"`
}

// Snapshot 生物的完整运行时状态
// 从快照恢复后继续运行，轨迹与未中断的运行完全一致
type Snapshot struct {
	Creature          string                            `yaml:"creature"`
	State             types.State                       `yaml:"state"`
	Health            int                               `yaml:"health"`
	Dead              bool                              `yaml:"dead"`
	HasFinishedAttack bool                              `yaml:"hasFinishedAttack"`
	WalkSoundPlaying  bool                              `yaml:"walkSoundPlaying"`
	Grounded          bool                              `yaml:"grounded"`
	Facing            types.Facing                      `yaml:"facing"`
	Position          types.Vector2                     `yaml:"position"`
	Velocity          types.Vector2                     `yaml:"velocity"`
	Animations        map[types.State]AnimationSnapshot `yaml:"animations"`
}

// Snapshot 记录当前运行时状态
func (c *Creature) Snapshot() Snapshot {
	s := Snapshot{
		Creature:          c.profile.Key,
		State:             c.State(),
		Health:            c.health.Current,
		Dead:              c.dead,
		HasFinishedAttack: c.hasFinishedAttack,
		WalkSoundPlaying:  c.walkSoundPlaying,
		Grounded:          c.body.Grounded,
		Facing:            c.body.Facing,
		Position:          types.Vector2{X: c.body.Rect.X, Y: c.body.Rect.Y},
		Velocity:          c.body.Velocity,
		Animations:        make(map[types.State]AnimationSnapshot, len(c.animations)),
	}
	for state, anim := range c.animations {
		s.Animations[state] = AnimationSnapshot{
			CurrentFrame: anim.CurrentFrame,
			TimeLeft:     anim.TimeLeft,
			Finished:     anim.Finished,
		}
	}
	return s
}

// Restore 从快照恢复运行时状态
// 快照必须属于同一种生物，且状态存在于该生物的状态表中
func (c *Creature) Restore(s Snapshot) error {
	if s.Creature != c.profile.Key {
		return fmt.Errorf("snapshot belongs to %q, not %q", s.Creature, c.profile.Key)
	}
	if !c.profile.HasState(s.State) {
		return fmt.Errorf("snapshot state %q not available for %s", s.State, c.profile.Key)
	}
	if s.Dead != (s.State == types.StateDead) {
		return fmt.Errorf("snapshot dead flag %v contradicts state %q", s.Dead, s.State)
	}

	c.machine.SetState(string(s.State))
	c.health.Set(s.Health)
	c.dead = s.Dead
	c.hasFinishedAttack = s.HasFinishedAttack
	c.walkSoundPlaying = s.WalkSoundPlaying
	c.body.Grounded = s.Grounded
	if s.Facing == types.FacingLeft || s.Facing == types.FacingRight {
		c.body.Facing = s.Facing
	}
	c.body.Rect.X = s.Position.X
	c.body.Rect.Y = s.Position.Y
	c.body.Velocity = s.Velocity

	for state, as := range s.Animations {
		anim := c.animations[state]
		if anim == nil {
			continue
		}
		anim.CurrentFrame = as.CurrentFrame
		anim.TimeLeft = as.TimeLeft
		anim.Finished = as.Finished
		anim.ClampFrame()
	}
	return nil
}
