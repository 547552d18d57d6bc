package entities

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/decker502/creatures/pkg/components"
	"github.com/decker502/creatures/pkg/config"
	"github.com/decker502/creatures/pkg/creature"
	"github.com/decker502/creatures/pkg/ecs"
	"github.com/decker502/creatures/pkg/types"
)

// FrameLoader 生物贴图的加载方（由 game.ResourceManager 实现）
type FrameLoader interface {
	// ListFrameFiles 列出目录中的逐帧 PNG 文件
	ListFrameFiles(dir string) ([]string, error)
	// LoadFrames 按给定顺序加载逐帧贴图，无法加载的帧记录日志后跳过
	LoadFrames(paths []string) creature.FrameSequence
	// LoadSheet 加载一张精灵表
	LoadSheet(path string) (types.Image, error)
}

// SoundLoader 音效注册方（由 game.AudioManager 实现）
type SoundLoader interface {
	LoadSound(id, path string) error
}

// LoopingSoundLoader 可选接口：音效注册方实现后，生物的行走音效被设为循环播放
type LoopingSoundLoader interface {
	SetLooping(id string, loop bool)
}

// CreatureOptions 创建生物实体的参数
type CreatureOptions struct {
	Frames FrameLoader // nil 表示不加载贴图（无头模式）
	Sounds SoundLoader // nil 表示不加载音效
	Audio  types.AudioSink
	Input  types.Input // nil 表示该生物不接收输入
	// InputFactory 按生物的按键绑定创建各自的输入源，优先于 Input
	InputFactory func(controls map[types.Control]string) (types.Input, error)
	// RequireAssets 为 true 时任何状态缺少贴图都视为创建失败
	RequireAssets bool
}

var factoryLog = logrus.WithField("component", "CreatureFactory")

// NewCreature 根据配置创建生物（不注册到 ECS）
//
// 参数:
//   - cfg: 生物配置
//   - key: 生物键名（如 "demon"）
//   - opts: 资源加载方与输入源
//
// 返回:
//   - *creature.Creature: 位于配置出生点、处于待机状态的生物
//   - error: 配置不存在，或 RequireAssets 时贴图缺失
func NewCreature(cfg *config.CreatureConfig, key string, opts CreatureOptions) (*creature.Creature, error) {
	if cfg == nil {
		return nil, fmt.Errorf("creature config cannot be nil")
	}

	def, err := cfg.GetCreature(key)
	if err != nil {
		return nil, err
	}

	profile, err := creature.NewProfile(key, *def)
	if err != nil {
		return nil, err
	}

	frames := make(map[types.State]creature.FrameSet)
	var releaser creature.ImageReleaser
	if opts.Frames != nil {
		releaser, _ = opts.Frames.(creature.ImageReleaser)
		frames, err = loadCreatureFrames(cfg, key, def, opts.Frames, opts.RequireAssets)
		if err != nil {
			return nil, err
		}
	}

	if opts.Sounds != nil {
		loaded := make(map[string]bool, len(profile.Sounds))
		for _, id := range profile.SoundIDs() {
			path := cfg.ResolvePath(profile.Sounds[id])
			if err := opts.Sounds.LoadSound(id, path); err != nil {
				factoryLog.WithError(err).WithField("sound", path).Warn("Failed to load sound, skipping")
				continue
			}
			loaded[id] = true
		}
		if l, ok := opts.Sounds.(LoopingSoundLoader); ok && loaded[profile.WalkSound] {
			l.SetLooping(profile.WalkSound, true)
		}
	}

	c := creature.New(profile, profile.Spawn, frames, opts.Audio)
	c.SetImageReleaser(releaser)
	return c, nil
}

// NewCreatureEntity 创建生物并注册为 ECS 实体
// 实体带有 CreatureComponent，以及（提供了输入源时）ControlComponent
func NewCreatureEntity(em *ecs.EntityManager, cfg *config.CreatureConfig, key string, opts CreatureOptions) (ecs.EntityID, *creature.Creature, error) {
	if em == nil {
		return 0, nil, fmt.Errorf("entity manager cannot be nil")
	}

	c, err := NewCreature(cfg, key, opts)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create creature %s: %w", key, err)
	}

	input := opts.Input
	if opts.InputFactory != nil {
		input, err = opts.InputFactory(c.Profile().Controls)
		if err != nil {
			c.Close()
			return 0, nil, fmt.Errorf("failed to bind input for %s: %w", key, err)
		}
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.CreatureComponent{Controller: c})
	if input != nil {
		em.AddComponent(id, &components.ControlComponent{Input: input, Enabled: true})
	}

	factoryLog.WithFields(logrus.Fields{
		"creature": key,
		"entity":   id,
	}).Info("Creature spawned")
	return id, c, nil
}

// NewAllCreatureEntities 按键名顺序创建配置中的全部生物
func NewAllCreatureEntities(em *ecs.EntityManager, cfg *config.CreatureConfig, opts CreatureOptions) ([]ecs.EntityID, error) {
	ids := make([]ecs.EntityID, 0, len(cfg.Creatures))
	for _, key := range cfg.Keys() {
		id, _, err := NewCreatureEntity(em, cfg, key, opts)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// loadCreatureFrames 加载生物每个状态的帧集合
// 共享同一张精灵表的状态只加载一次；严格模式失败时已加载的帧会被释放
func loadCreatureFrames(cfg *config.CreatureConfig, key string, def *config.CreatureDefinition, loader FrameLoader, strict bool) (map[types.State]creature.FrameSet, error) {
	frames := make(map[types.State]creature.FrameSet, len(def.Animations))
	sheets := make(map[string]types.Image)
	log := factoryLog.WithField("creature", key)

	for name, anim := range def.Animations {
		state := types.State(name)

		switch {
		case anim.Sheet != "":
			path := cfg.ResolvePath(anim.Sheet)
			img, ok := sheets[path]
			if !ok {
				var err error
				img, err = loader.LoadSheet(path)
				if err != nil {
					log.WithError(err).WithField("sheet", path).Warn("Failed to load sprite sheet")
					img = nil
				}
				sheets[path] = img
			}
			if img != nil {
				frames[state] = creature.SpriteSheet{Image: img, Frames: anim.Last + 1}
			}

		case anim.Dir != "" || len(anim.Frames) > 0:
			paths, err := framePaths(cfg, anim, loader)
			if err != nil {
				log.WithError(err).WithField("state", state).Warn("Failed to list animation frames")
			}
			creature.SortFramePaths(paths)
			seq := loader.LoadFrames(paths)
			if len(seq) < len(paths) {
				log.WithFields(logrus.Fields{
					"state":  state,
					"loaded": len(seq),
					"listed": len(paths),
				}).Warn("Some animation frames are missing")
			}
			if len(seq) > 0 {
				frames[state] = seq
			}
		}

		if _, ok := frames[state]; !ok {
			if strict {
				releaser, _ := loader.(creature.ImageReleaser)
				creature.ReleaseFrames(frames, releaser)
				return nil, fmt.Errorf("creature %s: no frames for state %s", key, state)
			}
			log.WithField("state", state).Warn("State has no frames and will not be drawn")
		}
	}

	return frames, nil
}

func framePaths(cfg *config.CreatureConfig, anim config.AnimationDef, loader FrameLoader) ([]string, error) {
	if len(anim.Frames) > 0 {
		paths := make([]string, 0, len(anim.Frames))
		for _, f := range anim.Frames {
			paths = append(paths, cfg.ResolvePath(f))
		}
		return paths, nil
	}
	return loader.ListFrameFiles(cfg.ResolvePath(anim.Dir))
}
