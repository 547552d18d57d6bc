package components

import "github.com/decker502/creatures/pkg/types"

// BodyComponent 存储实体的位置、尺寸、速度与朝向
type BodyComponent struct {
	Rect     types.Rect    // 逻辑矩形（未缩放）
	Velocity types.Vector2 // 速度（像素/秒）
	Facing   types.Facing  // 当前朝向
	Grounded bool          // 是否站在地面（无重力的生物恒为 true）
}

// Integrate 按 position += velocity * deltaTime 更新位置
func (b *BodyComponent) Integrate(deltaTime float64) {
	b.Rect.X += b.Velocity.X * deltaTime
	b.Rect.Y += b.Velocity.Y * deltaTime
}
