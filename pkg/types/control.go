package types

import "fmt"

// Control 生物可响应的控制输入
// 具体按键由外部输入源决定，核心逻辑只关心"是否按住"与"本帧是否按下"
type Control int

const (
	ControlLeft Control = iota
	ControlRight
	ControlAttack1
	ControlAttack2
	ControlAttack3
	ControlJump
	ControlDebugDamage
)

var controlNames = map[Control]string{
	ControlLeft:        "left",
	ControlRight:       "right",
	ControlAttack1:     "attack1",
	ControlAttack2:     "attack2",
	ControlAttack3:     "attack3",
	ControlJump:        "jump",
	ControlDebugDamage: "debugDamage",
}

// String 返回控制项在配置文件中的名称
func (c Control) String() string {
	if name, ok := controlNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Control(%d)", int(c))
}

// ParseControl 根据配置名称解析控制项
func ParseControl(name string) (Control, error) {
	for c, n := range controlNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown control: %q", name)
}

// AllControls 按声明顺序返回全部控制项
func AllControls() []Control {
	return []Control{
		ControlLeft, ControlRight,
		ControlAttack1, ControlAttack2, ControlAttack3,
		ControlJump, ControlDebugDamage,
	}
}
