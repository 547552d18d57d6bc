package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/decker502/creatures/pkg/embedded"
	"github.com/decker502/creatures/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultCreatureConfigPath 默认的生物配置文件路径（嵌入资源）
const DefaultCreatureConfigPath = "data/creatures.yaml"

var (
	// ErrUnknownCreature 配置中不存在指定的生物
	ErrUnknownCreature = errors.New("unknown creature")
	// ErrInvalidAnimation 动画定义不合法
	ErrInvalidAnimation = errors.New("invalid animation")
	// ErrUnknownState 动画表或攻击引用了未定义的状态
	ErrUnknownState = errors.New("unknown state")
	// ErrDuplicateKey 同一个按键绑定到了多个控制项（所有生物共用一个键盘）
	ErrDuplicateKey = errors.New("duplicate key binding")
)

// 动画类型与完成策略在 YAML 中的取值
const (
	AnimationKindRepeating = "repeating"
	AnimationKindOneShot   = "oneshot"

	OnCompleteHold = "hold"
	OnCompleteIdle = "idle"
)

// CreatureConfig 生物配置文件结构
//
// 配置文件位置: data/creatures.yaml
type CreatureConfig struct {
	Version string `yaml:"version"`
	// BasePath 所有贴图与音效路径的根目录
	BasePath  string                        `yaml:"basePath"`
	Music     MusicDef                      `yaml:"music"`
	Creatures map[string]CreatureDefinition `yaml:"creatures"`
}

// MusicDef 竞技场的背景音乐（循环播放，M 键暂停/恢复）
type MusicDef struct {
	File string `yaml:"file"` // 音乐文件，空表示没有背景音乐
	// Volume 曲目音量系数 (0, 1]，与用户设置的音乐音量相乘；0 按 1 处理
	Volume float64 `yaml:"volume"`
}

// CreatureDefinition 单个生物的完整定义
type CreatureDefinition struct {
	Name     string   `yaml:"name"`     // 显示名称
	Behavior string   `yaml:"behavior"` // 行为策略：demon / goblin / werewolf
	Size     SizeDef  `yaml:"size"`     // 逻辑尺寸
	Scale    float64  `yaml:"scale"`    // 绘制缩放
	Facing   string   `yaml:"facing"`   // 贴图原始朝向：left / right
	Spawn    PointDef `yaml:"spawn"`    // 出生点
	// MaxHealth 最大生命值
	MaxHealth int `yaml:"maxHealth"`
	// MoveSpeed 水平移动速度（像素/秒）
	MoveSpeed float64 `yaml:"moveSpeed"`
	// DebugDamage 调试键造成的伤害，0 表示直接扣光当前生命值
	DebugDamage int `yaml:"debugDamage"`
	// Locomotion 按住方向键时进入的状态（walk 或 run）
	Locomotion string     `yaml:"locomotion"`
	Physics    PhysicsDef `yaml:"physics"`
	// Controls 控制项名称 -> 按键名称（ebiten.Key 的文本形式）
	Controls   map[string]string       `yaml:"controls"`
	Attacks    []AttackDef             `yaml:"attacks"`
	Sounds     SoundDef                `yaml:"sounds"`
	Animations map[string]AnimationDef `yaml:"animations"`
}

// SizeDef 宽高
type SizeDef struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// PointDef 坐标
type PointDef struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PhysicsDef 重力与跳跃参数，Gravity 为 0 表示不受重力影响
type PhysicsDef struct {
	Gravity     float64 `yaml:"gravity"`
	JumpImpulse float64 `yaml:"jumpImpulse"`
	GroundLevel float64 `yaml:"groundLevel"`
}

// AttackDef 攻击定义：哪个控制项触发哪个攻击状态，以及起手音效
type AttackDef struct {
	State   string `yaml:"state"`
	Control string `yaml:"control"`
	Sound   string `yaml:"sound"`
}

// SoundDef 音效定义
type SoundDef struct {
	// Files 音效ID -> 相对 BasePath 的文件路径
	Files      map[string]string `yaml:"files"`
	Walk       string            `yaml:"walk"`
	WalkPitch  float64           `yaml:"walkPitch"`
	Hurt       []string          `yaml:"hurt"`
	Death      []string          `yaml:"death"`
	StopOnHurt []string          `yaml:"stopOnHurt"`
}

// AnimationDef 单个状态的动画定义
//
// 贴图来源三选一：
//   - Sheet: 一张精灵表，按 (Last+1) 等宽切帧
//   - Dir: 一个目录，每帧一张 PNG，按文件名中的数字排序；Last 由帧数推导
//   - Frames: 显式列出每帧文件（同样按数字排序）
type AnimationDef struct {
	First       int      `yaml:"first"`
	Last        int      `yaml:"last"`
	FinishFrame *int     `yaml:"finishFrame,omitempty"`
	Speed       float64  `yaml:"speed"`
	Kind        string   `yaml:"kind"`
	OnComplete  string   `yaml:"onComplete"`
	Sheet       string   `yaml:"sheet,omitempty"`
	Dir         string   `yaml:"dir,omitempty"`
	Frames      []string `yaml:"frames,omitempty"`
}

// PerFrameImages 是否为逐帧独立贴图（帧数由资源决定）
func (a AnimationDef) PerFrameImages() bool {
	return a.Dir != "" || len(a.Frames) > 0
}

// LoadCreatureConfig 加载生物配置
//
// 参数:
//   - path: 配置文件路径（如 "data/creatures.yaml"），优先从嵌入资源读取
//
// 返回:
//   - *CreatureConfig: 加载并校验后的配置
//   - error: 读取、解析或校验失败时返回错误
func LoadCreatureConfig(path string) (*CreatureConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read creature config: %w", err)
	}

	cfg, err := ParseCreatureConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// MustLoadCreatureConfig 加载生物配置，失败时 panic
func MustLoadCreatureConfig(path string) *CreatureConfig {
	cfg, err := LoadCreatureConfig(path)
	if err != nil {
		panic("Failed to load creature config: " + err.Error())
	}
	return cfg
}

// ParseCreatureConfig 从 YAML 数据解析生物配置
func ParseCreatureConfig(data []byte) (*CreatureConfig, error) {
	var cfg CreatureConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse creature config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid creature config: %w", err)
	}
	return &cfg, nil
}

// Validate 验证配置有效性
//
// 检查内容：
//   - 至少定义一个生物
//   - 背景音乐音量在 [0, 1] 内
//   - 每个生物有正的生命值、尺寸与缩放
//   - 必须包含 idle 与 dead 动画
//   - 每个动画的帧区间、速度、类型与完成策略合法
//   - 攻击引用的动画存在且为单次动画
//   - 任意按键只绑定一个控制项（不区分大小写，跨生物检查）
func (c *CreatureConfig) Validate() error {
	if len(c.Creatures) == 0 {
		return fmt.Errorf("at least one creature is required")
	}

	if c.Music.Volume < 0 || c.Music.Volume > 1 {
		return fmt.Errorf("music volume must be within [0, 1], got %.2f", c.Music.Volume)
	}

	for _, key := range c.Keys() {
		def := c.Creatures[key]
		if err := def.validate(); err != nil {
			return fmt.Errorf("creature %s: %w", key, err)
		}
	}
	return c.validateKeyBindings()
}

func (c *CreatureConfig) validateKeyBindings() error {
	owners := make(map[string]string)
	for _, key := range c.Keys() {
		controls := c.Creatures[key].Controls
		names := make([]string, 0, len(controls))
		for control := range controls {
			names = append(names, control)
		}
		sort.Strings(names)

		for _, control := range names {
			bound := strings.ToLower(strings.TrimSpace(controls[control]))
			if bound == "" {
				continue
			}
			owner := key + "." + control
			if prev, ok := owners[bound]; ok {
				return fmt.Errorf("%w: key %s bound to both %s and %s", ErrDuplicateKey, controls[control], prev, owner)
			}
			owners[bound] = owner
		}
	}
	return nil
}

func (d *CreatureDefinition) validate() error {
	if d.MaxHealth <= 0 {
		return fmt.Errorf("maxHealth must be positive, got %d", d.MaxHealth)
	}
	if d.Size.W <= 0 || d.Size.H <= 0 {
		return fmt.Errorf("size must be positive, got %.1fx%.1f", d.Size.W, d.Size.H)
	}
	if d.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %.2f", d.Scale)
	}
	if d.Facing != "" && d.Facing != "left" && d.Facing != "right" {
		return fmt.Errorf("facing must be left or right, got %q", d.Facing)
	}

	for _, required := range []string{"idle", "dead", d.Locomotion} {
		if _, ok := d.Animations[required]; !ok {
			return fmt.Errorf("missing %q animation", required)
		}
	}

	if _, err := types.ParseCreatureKind(d.Behavior); err != nil {
		return err
	}
	if !types.State(d.Locomotion).IsKnown() {
		return fmt.Errorf("%w: locomotion %q", ErrUnknownState, d.Locomotion)
	}

	for name, anim := range d.Animations {
		if !types.State(name).IsKnown() {
			return fmt.Errorf("%w: %q", ErrUnknownState, name)
		}
		if err := anim.validate(); err != nil {
			return fmt.Errorf("animation %s: %w", name, err)
		}
	}

	for control := range d.Controls {
		if _, err := types.ParseControl(control); err != nil {
			return err
		}
	}

	for i, atk := range d.Attacks {
		if !types.State(atk.State).IsAttack() {
			return fmt.Errorf("%w: attack %d uses non-attack state %q", ErrUnknownState, i, atk.State)
		}
		anim, ok := d.Animations[atk.State]
		if !ok {
			return fmt.Errorf("attack %d: no animation for state %q", i, atk.State)
		}
		if anim.Kind != AnimationKindOneShot {
			return fmt.Errorf("attack %d: animation %q must be %s", i, atk.State, AnimationKindOneShot)
		}
		if _, ok := d.Controls[atk.Control]; !ok {
			return fmt.Errorf("attack %d: control %q has no key binding", i, atk.Control)
		}
		if atk.Sound != "" {
			if _, ok := d.Sounds.Files[atk.Sound]; !ok {
				return fmt.Errorf("attack %d: sound %q has no file", i, atk.Sound)
			}
		}
	}

	if d.Physics.Gravity < 0 {
		return fmt.Errorf("gravity must not be negative, got %.1f", d.Physics.Gravity)
	}
	if d.Physics.JumpImpulse != 0 {
		if d.Physics.Gravity == 0 {
			return fmt.Errorf("jumpImpulse requires gravity")
		}
		if _, ok := d.Animations["jump"]; !ok {
			return fmt.Errorf("jumpImpulse requires a \"jump\" animation")
		}
	}

	for _, id := range d.Sounds.referenced() {
		if _, ok := d.Sounds.Files[id]; !ok {
			return fmt.Errorf("sound %q has no file", id)
		}
	}
	return nil
}

func (a AnimationDef) validate() error {
	if a.First < 0 {
		return fmt.Errorf("%w: first must be >= 0, got %d", ErrInvalidAnimation, a.First)
	}
	if !a.PerFrameImages() && a.Last < a.First {
		return fmt.Errorf("%w: last(%d) < first(%d)", ErrInvalidAnimation, a.Last, a.First)
	}
	if a.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %f", ErrInvalidAnimation, a.Speed)
	}

	switch a.Kind {
	case AnimationKindRepeating:
		if a.OnComplete == OnCompleteIdle {
			return fmt.Errorf("%w: repeating animation cannot complete", ErrInvalidAnimation)
		}
	case AnimationKindOneShot:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidAnimation, a.Kind)
	}

	switch a.OnComplete {
	case "", OnCompleteHold, OnCompleteIdle:
	default:
		return fmt.Errorf("%w: unknown onComplete %q", ErrInvalidAnimation, a.OnComplete)
	}

	if a.FinishFrame != nil && (*a.FinishFrame < a.First || (!a.PerFrameImages() && *a.FinishFrame > a.Last)) {
		return fmt.Errorf("%w: finishFrame %d outside [%d, %d]", ErrInvalidAnimation, *a.FinishFrame, a.First, a.Last)
	}

	sources := 0
	if a.Sheet != "" {
		sources++
	}
	if a.Dir != "" {
		sources++
	}
	if len(a.Frames) > 0 {
		sources++
	}
	if sources > 1 {
		return fmt.Errorf("%w: sheet, dir and frames are mutually exclusive", ErrInvalidAnimation)
	}
	return nil
}

func (s SoundDef) referenced() []string {
	ids := make([]string, 0, len(s.Hurt)+len(s.Death)+len(s.StopOnHurt)+1)
	if s.Walk != "" {
		ids = append(ids, s.Walk)
	}
	ids = append(ids, s.Hurt...)
	ids = append(ids, s.Death...)
	ids = append(ids, s.StopOnHurt...)
	return ids
}

// Keys 返回按字母排序的生物键名
func (c *CreatureConfig) Keys() []string {
	keys := make([]string, 0, len(c.Creatures))
	for key := range c.Creatures {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GetCreature 按键名获取生物定义
func (c *CreatureConfig) GetCreature(key string) (*CreatureDefinition, error) {
	def, ok := c.Creatures[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCreature, key)
	}
	return &def, nil
}

// ResolvePath 把配置中的相对路径拼接到 BasePath 下
func (c *CreatureConfig) ResolvePath(relative string) string {
	if relative == "" || c.BasePath == "" {
		return relative
	}
	return c.BasePath + "/" + relative
}

// MusicPath 返回背景音乐路径（已拼接 BasePath），没有配置时为空
func (c *CreatureConfig) MusicPath() string {
	return c.ResolvePath(c.Music.File)
}

// AssetPaths 返回生物引用的全部资源路径（已拼接 BasePath，去重并排序）
// 包括精灵表、逐帧目录、逐帧文件与音效文件
func (c *CreatureConfig) AssetPaths(key string) ([]string, error) {
	def, err := c.GetCreature(key)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	add := func(p string) {
		if p != "" {
			seen[c.ResolvePath(p)] = true
		}
	}
	for _, anim := range def.Animations {
		add(anim.Sheet)
		add(anim.Dir)
		for _, f := range anim.Frames {
			add(f)
		}
	}
	for _, f := range def.Sounds.Files {
		add(f)
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}
