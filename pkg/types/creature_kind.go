// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import "fmt"

// CreatureKind 定义生物的种类
type CreatureKind int

const (
	// CreatureUnknown 未知生物
	CreatureUnknown CreatureKind = iota
	// CreatureDemon 恶魔：逐帧独立贴图，拥有受伤状态
	CreatureDemon
	// CreatureGoblin 哥布林：精灵表切帧，三种攻击，没有受伤状态
	CreatureGoblin
	// CreatureWerewolf 狼人：精灵表切帧，可跳跃，受重力影响
	CreatureWerewolf
)

// String 返回生物种类的字符串表示（与配置文件中的 behavior 字段一致）
func (k CreatureKind) String() string {
	switch k {
	case CreatureDemon:
		return "demon"
	case CreatureGoblin:
		return "goblin"
	case CreatureWerewolf:
		return "werewolf"
	default:
		return "unknown"
	}
}

// ParseCreatureKind 将配置中的名称转换为 CreatureKind
func ParseCreatureKind(name string) (CreatureKind, error) {
	switch name {
	case "demon":
		return CreatureDemon, nil
	case "goblin":
		return CreatureGoblin, nil
	case "werewolf":
		return CreatureWerewolf, nil
	}
	return CreatureUnknown, fmt.Errorf("unknown creature kind: %q", name)
}
