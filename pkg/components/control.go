package components

import "github.com/decker502/creatures/pkg/types"

// ControlComponent 绑定实体的输入源
// ControlSystem 每帧把该输入交给生物的 Move
type ControlComponent struct {
	Input   types.Input
	Enabled bool // 为 false 时该实体不读取任何输入
}
