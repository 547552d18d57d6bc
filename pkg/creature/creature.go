package creature

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"

	"github.com/decker502/creatures/pkg/components"
	"github.com/decker502/creatures/pkg/types"
)

// SoundReleaser 可选接口：音效接收方实现后，Close 会释放该生物注册的音效
type SoundReleaser interface {
	Release(soundID string)
}

var _ components.CreatureController = (*Creature)(nil)

// Creature 带动画的状态机实体
//
// 同一时刻只有一个动画处于激活状态，由当前状态决定。
// 所有方法都只能在游戏循环所在的 goroutine 中调用。
type Creature struct {
	profile  *Profile
	behavior Behavior
	machine  *fsm.FSM

	body   components.BodyComponent
	health components.HealthComponent

	dead              bool
	hasFinishedAttack bool
	walkSoundPlaying  bool

	animations map[types.State]*components.AnimationComponent
	frames     map[types.State]FrameSet
	images     ImageReleaser

	audio types.AudioSink
	log   *logrus.Entry
}

// New 在出生点创建一个处于待机状态的生物
//
// 参数：
//   - profile: 生物参数表
//   - spawn: 出生点（矩形左上角）
//   - frames: 各状态的帧集合，可以缺失（缺失的状态不绘制）
//   - audio: 音效接收方，nil 表示静音
func New(profile *Profile, spawn types.Vector2, frames map[types.State]FrameSet, audio types.AudioSink) *Creature {
	if audio == nil {
		audio = types.NopAudio{}
	}
	if frames == nil {
		frames = make(map[types.State]FrameSet)
	}

	c := &Creature{
		profile:           profile,
		behavior:          behaviorFor(profile.Kind),
		hasFinishedAttack: true,
		animations:        make(map[types.State]*components.AnimationComponent, len(profile.Animations)),
		frames:            frames,
		audio:             audio,
		log: logrus.WithFields(logrus.Fields{
			"component": "Creature",
			"creature":  profile.Key,
		}),
	}

	c.body = components.BodyComponent{
		Rect:     types.Rect{X: spawn.X, Y: spawn.Y, W: profile.Size.X, H: profile.Size.Y},
		Facing:   profile.NativeFacing,
		Grounded: profile.Gravity == 0 || spawn.Y >= profile.GroundLevel,
	}
	c.health = components.NewHealth(profile.MaxHealth)

	for state, spec := range profile.Animations {
		c.animations[state] = newAnimation(spec, frames[state])
	}

	c.machine = fsm.NewFSM(
		string(types.StateIdle),
		buildTransitions(profile),
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				c.enterState(types.State(e.Dst))
			},
		},
	)

	c.log.WithField("frames", c.frameCounts()).Debug("Creature created")
	return c
}

// newAnimation 根据参数与实际帧集合构建动画
// 逐帧贴图的动画帧数由实际加载到的帧决定
func newAnimation(spec AnimationSpec, frames FrameSet) *components.AnimationComponent {
	last := spec.Last
	if spec.PerFrame {
		n := 0
		if frames != nil {
			n = frames.Len()
		}
		last = spec.First + n - 1
		if last < spec.First {
			last = spec.First
		}
	}

	anim := components.NewAnimation(spec.First, last, spec.Speed, spec.Kind)
	anim.OnComplete = spec.OnComplete
	if spec.FinishFrame >= 0 {
		anim.FinishFrame = spec.FinishFrame
	}
	return anim
}

// enterState 状态机进入新状态时调用：重置该状态的动画并更新攻击标记
func (c *Creature) enterState(dst types.State) {
	if anim := c.animations[dst]; anim != nil {
		anim.Reset()
	}
	c.hasFinishedAttack = !dst.IsAttack()
}

// fire 触发状态机事件，返回是否发生了状态转换
// 当前状态不允许该事件时静默忽略
func (c *Creature) fire(event string) bool {
	if !c.machine.Can(event) {
		return false
	}

	from := c.machine.Current()
	if err := c.machine.Event(context.Background(), event); err != nil {
		var noTransition fsm.NoTransitionError
		var invalid fsm.InvalidEventError
		if !errors.As(err, &noTransition) && !errors.As(err, &invalid) {
			c.log.WithError(err).WithField("event", event).Warn("State machine rejected event")
		}
		return false
	}

	c.log.WithFields(logrus.Fields{
		"event": event,
		"from":  from,
		"to":    c.machine.Current(),
	}).Debug("State changed")
	return true
}

// Move 读取输入并更新速度、朝向与状态
func (c *Creature) Move(in types.Input) {
	c.behavior.Move(c, in)
}

// UpdateAnimation 推进当前状态的动画
// 单次动画完成且策略为回到待机时触发 finish 事件
func (c *Creature) UpdateAnimation(deltaTime float64) {
	anim := c.animations[c.State()]
	if anim == nil {
		return
	}
	if anim.Step(deltaTime) && anim.OnComplete == components.CompleteIdle {
		c.fire(eventFinish)
	}
}

// ApplyVelocity 把速度积分到位置上（各生物的守卫规则不同）
func (c *Creature) ApplyVelocity(deltaTime float64) {
	c.behavior.Integrate(c, deltaTime)
}

// Draw 向渲染器发出一次绘制请求
// 当前帧超出实际帧数时使用最后一个可用帧；没有任何帧时不绘制
func (c *Creature) Draw(r types.Renderer) {
	frames := c.frames[c.State()]
	anim := c.animations[c.State()]
	if frames == nil || anim == nil || frames.Len() == 0 {
		return
	}

	index := anim.CurrentFrame
	if index >= frames.Len() {
		index = frames.Len() - 1
	}
	img, src, ok := frames.Frame(index)
	if !ok {
		return
	}

	r.DrawFrame(img, src, c.DrawRect(), c.body.Facing != c.profile.NativeFacing)
}

// TakeDamage 受到伤害
//
// 已死亡时不做任何处理。生命值归零时进入死亡状态并播放死亡音效；
// 否则有受伤状态的生物进入受伤状态（已在受伤中则重新播放受伤动画）。
func (c *Creature) TakeDamage(amount int) {
	if c.dead {
		return
	}

	c.body.Velocity.X = 0
	for _, id := range c.profile.StopOnHurt {
		c.audio.Stop(id)
		if id == c.profile.WalkSound {
			c.walkSoundPlaying = false
		}
	}

	if c.health.Damage(amount) {
		c.dead = true
		c.fire(eventDie)
		c.playAll(c.profile.DeathSounds)
		c.log.Info("Creature died")
		return
	}

	if !c.profile.HasHurt() {
		return
	}
	if c.State() == types.StateHurt {
		c.animations[types.StateHurt].Reset()
	} else {
		c.fire(eventHurt)
	}
	c.playAll(c.profile.HurtSounds)
}

func (c *Creature) playAll(ids []string) {
	for _, id := range ids {
		c.audio.Play(id)
	}
}

// SetImageReleaser 设置帧图像的释放方，nil 表示由 Close 直接释放图像
func (c *Creature) SetImageReleaser(r ImageReleaser) {
	c.images = r
}

// Close 释放该生物持有的帧图像与音效
func (c *Creature) Close() {
	ReleaseFrames(c.frames, c.images)
	c.frames = make(map[types.State]FrameSet)

	if c.walkSoundPlaying {
		c.audio.Stop(c.profile.WalkSound)
		c.walkSoundPlaying = false
	}
	if r, ok := c.audio.(SoundReleaser); ok {
		for _, id := range c.profile.SoundIDs() {
			r.Release(id)
		}
	}
	c.log.Debug("Creature released")
}

// --- 查询 ---

// Profile 返回生物参数表
func (c *Creature) Profile() *Profile { return c.profile }

// State 返回当前状态
func (c *Creature) State() types.State { return types.State(c.machine.Current()) }

// Health 返回当前生命值
func (c *Creature) Health() int { return c.health.Current }

// IsDead 是否已死亡
func (c *Creature) IsDead() bool { return c.dead }

// HasFinishedAttack 是否可以发起新的攻击
func (c *Creature) HasFinishedAttack() bool { return c.hasFinishedAttack }

// Body 返回位置、速度与朝向的副本
func (c *Creature) Body() components.BodyComponent { return c.body }

// Animation 返回指定状态的动画（可能为 nil）
func (c *Creature) Animation(s types.State) *components.AnimationComponent { return c.animations[s] }

// CurrentAnimation 返回当前激活的动画
func (c *Creature) CurrentAnimation() *components.AnimationComponent {
	return c.animations[c.State()]
}

// DrawRect 返回按缩放放大后的屏幕矩形
func (c *Creature) DrawRect() types.Rect {
	r := c.body.Rect
	return types.Rect{X: r.X, Y: r.Y, W: r.W * c.profile.Scale, H: r.H * c.profile.Scale}
}

// Status 返回 HUD 与调试绘制使用的概要
func (c *Creature) Status() components.CreatureStatus {
	s := components.CreatureStatus{
		Key:       c.profile.Key,
		Name:      c.profile.Name,
		State:     c.State(),
		Health:    c.health.Current,
		MaxHealth: c.health.Max,
		Dead:      c.dead,
		Grounded:  c.body.Grounded,
		Bounds:    c.DrawRect(),
	}
	if anim := c.CurrentAnimation(); anim != nil {
		s.Frame = anim.CurrentFrame
	}
	if c.profile.Gravity > 0 {
		s.GroundLevel = c.profile.GroundLevel
	}
	return s
}

func (c *Creature) frameCounts() map[types.State]int {
	counts := make(map[types.State]int, len(c.frames))
	for s, f := range c.frames {
		counts[s] = f.Len()
	}
	return counts
}
