package components

// HealthComponent 存储实体的生命值信息
// 生命值始终处于 [0, Max] 区间
type HealthComponent struct {
	Current int // 当前生命值
	Max     int // 最大生命值
}

// NewHealth 创建满血的生命值组件
func NewHealth(max int) HealthComponent {
	return HealthComponent{Current: max, Max: max}
}

// Damage 扣除生命值，结果在 0 处截断
//
// 参数：
//   - amount: 伤害值，负数按 0 处理
//
// 返回：
//   - bool: 本次伤害后生命值是否归零
func (h *HealthComponent) Damage(amount int) bool {
	if amount < 0 {
		amount = 0
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	return h.Current == 0
}

// Set 直接设置生命值（用于快照恢复），结果被限制在 [0, Max]
func (h *HealthComponent) Set(value int) {
	if value < 0 {
		value = 0
	}
	if value > h.Max {
		value = h.Max
	}
	h.Current = value
}
