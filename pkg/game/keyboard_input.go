package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/creatures/pkg/types"
)

// KeyboardInput 键盘输入
// 将生物的逻辑控制映射到 ebiten 按键，实现 types.Input
type KeyboardInput struct {
	keys map[types.Control]ebiten.Key
}

// NewKeyboardInput 根据按键绑定创建键盘输入
//
// 参数：
//   - bindings: 控制 -> ebiten 按键名（如 "H"、"Numpad1"，不区分大小写）
func NewKeyboardInput(bindings map[types.Control]string) (*KeyboardInput, error) {
	keys := make(map[types.Control]ebiten.Key, len(bindings))
	for control, name := range bindings {
		key, err := ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", control, err)
		}
		keys[control] = key
	}
	return &KeyboardInput{keys: keys}, nil
}

// ParseKey 解析 ebiten 按键名
func ParseKey(name string) (ebiten.Key, error) {
	var key ebiten.Key
	if err := key.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown key %q: %w", name, err)
	}
	return key, nil
}

// Key 返回控制绑定的按键
func (k *KeyboardInput) Key(c types.Control) (ebiten.Key, bool) {
	key, ok := k.keys[c]
	return key, ok
}

// IsHeld 按键是否按住（电平触发）
func (k *KeyboardInput) IsHeld(c types.Control) bool {
	key, ok := k.keys[c]
	return ok && ebiten.IsKeyPressed(key)
}

// WasPressed 按键是否在本帧刚按下（边沿触发）
func (k *KeyboardInput) WasPressed(c types.Control) bool {
	key, ok := k.keys[c]
	return ok && inpututil.IsKeyJustPressed(key)
}
