// Package creature 实现生物的动画状态机
//
// 三种生物（恶魔、哥布林、狼人）共用同一个 Creature 实现：
// 状态转换表由 Profile 生成并交给 looplab/fsm 管理，
// 各生物不同的守卫逻辑由 Behavior 策略注入。
//
// 每个逻辑帧由外部游戏循环依次调用：
//
//	Move(input) -> UpdateAnimation(dt) -> ApplyVelocity(dt) -> Draw(renderer)
package creature

import (
	"fmt"
	"sort"

	"github.com/decker502/creatures/pkg/components"
	"github.com/decker502/creatures/pkg/config"
	"github.com/decker502/creatures/pkg/types"
)

// AnimationSpec 单个状态的动画参数
type AnimationSpec struct {
	First       int
	Last        int
	FinishFrame int // 小于 0 表示使用 Last
	Speed       float64
	Kind        components.AnimationKind
	OnComplete  components.CompletionPolicy
	// PerFrame 为 true 时 Last 由实际加载的帧数决定
	PerFrame bool
}

// AttackSpec 攻击：控制项 -> 攻击状态 + 起手音效
type AttackSpec struct {
	State   types.State
	Control types.Control
	Sound   string
}

// Profile 生物的静态参数表，由配置生成，创建后只读
type Profile struct {
	Key          string
	Name         string
	Kind         types.CreatureKind
	Size         types.Vector2
	Scale        float64
	NativeFacing types.Facing
	Spawn        types.Vector2

	MaxHealth   int
	MoveSpeed   float64
	DebugDamage int
	Locomotion  types.State

	Gravity     float64
	JumpImpulse float64
	GroundLevel float64

	Attacks    []AttackSpec
	Animations map[types.State]AnimationSpec
	// Controls 控制项 -> 按键名称
	Controls map[types.Control]string

	// 以下音效 ID 均已带上生物前缀（如 "demon.walk"）
	Sounds      map[string]string // 音效ID -> 文件路径
	WalkSound   string
	WalkPitch   float64
	HurtSounds  []string
	DeathSounds []string
	StopOnHurt  []string
}

// NewProfile 根据配置定义生成 Profile
//
// 参数：
//   - key: 生物在配置中的键名，同时作为音效 ID 的前缀
//   - def: 已通过校验的生物定义
func NewProfile(key string, def config.CreatureDefinition) (*Profile, error) {
	kind, err := types.ParseCreatureKind(def.Behavior)
	if err != nil {
		return nil, fmt.Errorf("creature %s: %w", key, err)
	}

	name := def.Name
	if name == "" {
		name = key
	}

	p := &Profile{
		Key:          key,
		Name:         name,
		Kind:         kind,
		Size:         types.Vector2{X: def.Size.W, Y: def.Size.H},
		Scale:        def.Scale,
		NativeFacing: types.ParseFacing(def.Facing),
		Spawn:        types.Vector2{X: def.Spawn.X, Y: def.Spawn.Y},
		MaxHealth:    def.MaxHealth,
		MoveSpeed:    def.MoveSpeed,
		DebugDamage:  def.DebugDamage,
		Locomotion:   types.State(def.Locomotion),
		Gravity:      def.Physics.Gravity,
		JumpImpulse:  def.Physics.JumpImpulse,
		GroundLevel:  def.Physics.GroundLevel,
		Animations:   make(map[types.State]AnimationSpec, len(def.Animations)),
		Controls:     make(map[types.Control]string, len(def.Controls)),
		Sounds:       make(map[string]string, len(def.Sounds.Files)),
		WalkPitch:    def.Sounds.WalkPitch,
	}

	for stateName, a := range def.Animations {
		state := types.State(stateName)
		if !state.IsKnown() {
			return nil, fmt.Errorf("creature %s: %w: %q", key, config.ErrUnknownState, stateName)
		}
		p.Animations[state] = newAnimationSpec(a)
	}

	for controlName, keyName := range def.Controls {
		control, err := types.ParseControl(controlName)
		if err != nil {
			return nil, fmt.Errorf("creature %s: %w", key, err)
		}
		p.Controls[control] = keyName
	}

	for _, a := range def.Attacks {
		control, err := types.ParseControl(a.Control)
		if err != nil {
			return nil, fmt.Errorf("creature %s: %w", key, err)
		}
		p.Attacks = append(p.Attacks, AttackSpec{
			State:   types.State(a.State),
			Control: control,
			Sound:   p.soundID(a.Sound),
		})
	}

	for id, path := range def.Sounds.Files {
		p.Sounds[p.soundID(id)] = path
	}
	p.WalkSound = p.soundID(def.Sounds.Walk)
	p.HurtSounds = p.soundIDs(def.Sounds.Hurt)
	p.DeathSounds = p.soundIDs(def.Sounds.Death)
	p.StopOnHurt = p.soundIDs(def.Sounds.StopOnHurt)

	return p, nil
}

func newAnimationSpec(a config.AnimationDef) AnimationSpec {
	spec := AnimationSpec{
		First:       a.First,
		Last:        a.Last,
		FinishFrame: -1,
		Speed:       a.Speed,
		Kind:        components.AnimationRepeating,
		OnComplete:  components.CompleteHold,
		PerFrame:    a.PerFrameImages(),
	}
	if a.Kind == config.AnimationKindOneShot {
		spec.Kind = components.AnimationOneShot
	}
	if a.OnComplete == config.OnCompleteIdle {
		spec.OnComplete = components.CompleteIdle
	}
	if a.FinishFrame != nil {
		spec.FinishFrame = *a.FinishFrame
	}
	return spec
}

func (p *Profile) soundID(local string) string {
	if local == "" {
		return ""
	}
	return p.Key + "." + local
}

func (p *Profile) soundIDs(locals []string) []string {
	ids := make([]string, 0, len(locals))
	for _, l := range locals {
		ids = append(ids, p.soundID(l))
	}
	return ids
}

// HasState 该生物是否拥有指定状态的动画
func (p *Profile) HasState(s types.State) bool {
	_, ok := p.Animations[s]
	return ok
}

// HasHurt 是否拥有受伤状态（哥布林没有）
func (p *Profile) HasHurt() bool {
	return p.HasState(types.StateHurt)
}

// CanJump 是否可以跳跃
func (p *Profile) CanJump() bool {
	return p.JumpImpulse != 0 && p.Gravity > 0 && p.HasState(types.StateJump)
}

// States 返回按名称排序的全部状态
func (p *Profile) States() []types.State {
	states := make([]types.State, 0, len(p.Animations))
	for s := range p.Animations {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}

// SoundIDs 返回排序后的全部音效 ID
func (p *Profile) SoundIDs() []string {
	ids := make([]string, 0, len(p.Sounds))
	for id := range p.Sounds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
