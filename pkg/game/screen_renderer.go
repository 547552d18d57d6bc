package game

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/creatures/pkg/types"
)

// ScreenRenderer 将帧绘制请求转为 ebiten 绘制调用，实现 types.Renderer
// 每帧绘制前通过 SetTarget 设置目标屏幕
type ScreenRenderer struct {
	target *ebiten.Image
}

// NewScreenRenderer 创建屏幕渲染器
func NewScreenRenderer() *ScreenRenderer {
	return &ScreenRenderer{}
}

// SetTarget 设置绘制目标
func (r *ScreenRenderer) SetTarget(screen *ebiten.Image) {
	r.target = screen
}

// DrawFrame 将 img 的 src 子区域缩放绘制到 dst，flip 时水平翻转
// 非 ebiten 图像或空区域直接忽略
func (r *ScreenRenderer) DrawFrame(img types.Image, src image.Rectangle, dst types.Rect, flip bool) {
	eimg, ok := img.(*ebiten.Image)
	if !ok || r.target == nil || src.Empty() {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM = frameGeoM(src, dst, flip)
	op.Filter = ebiten.FilterNearest
	r.target.DrawImage(eimg.SubImage(src).(*ebiten.Image), op)
}

// frameGeoM 计算从源子区域到目标矩形的变换
func frameGeoM(src image.Rectangle, dst types.Rect, flip bool) ebiten.GeoM {
	var geoM ebiten.GeoM
	sx := dst.W / float64(src.Dx())
	sy := dst.H / float64(src.Dy())
	if flip {
		geoM.Scale(-1, 1)
		geoM.Translate(float64(src.Dx()), 0)
	}
	geoM.Scale(sx, sy)
	geoM.Translate(dst.X, dst.Y)
	return geoM
}
