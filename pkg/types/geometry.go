package types

// Vector2 二维向量（位置或速度）
type Vector2 struct {
	X, Y float64
}

// Rect 轴对齐矩形，X/Y 为左上角
type Rect struct {
	X, Y, W, H float64
}

// Facing 水平朝向，数值可直接作为速度的符号使用
type Facing int

const (
	FacingLeft  Facing = -1
	FacingRight Facing = 1
)

// String 返回朝向名称
func (f Facing) String() string {
	if f == FacingLeft {
		return "left"
	}
	return "right"
}

// ParseFacing 解析配置中的朝向，空字符串视为向右
func ParseFacing(name string) Facing {
	if name == "left" {
		return FacingLeft
	}
	return FacingRight
}
