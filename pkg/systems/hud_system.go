package systems

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/decker502/creatures/pkg/components"
	"github.com/decker502/creatures/pkg/ecs"
)

const (
	hudMarginX    = 10
	hudMarginY    = 10
	hudLineHeight = 16
)

var (
	hudTextColor   = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	hudShadowColor = color.RGBA{A: 200}
	debugBoxColor  = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	debugDeadColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	groundColor    = color.RGBA{R: 60, G: 200, B: 60, A: 255}
)

// HUDSystem 绘制状态文字与调试叠加层
//   - HUD：每个生物的名称、状态、生命值与当前帧，以及全局按键说明
//   - 调试层（F1）：生物的绘制矩形与地面线
type HUDSystem struct {
	entityManager *ecs.EntityManager
	face          *text.GoXFace
	ShowHUD       bool
	ShowDebug     bool
	// Footer 显示在状态行下方的额外文字（如音量）
	Footer []string
}

// NewHUDSystem 创建 HUD 系统，使用 basicfont 作为字体
func NewHUDSystem(em *ecs.EntityManager) *HUDSystem {
	return &HUDSystem{
		entityManager: em,
		face:          text.NewGoXFace(basicfont.Face7x13),
		ShowHUD:       true,
	}
}

// Lines 返回 HUD 要显示的文字行
func (s *HUDSystem) Lines() []string {
	statuses := Statuses(s.entityManager)
	lines := make([]string, 0, len(statuses)+len(s.Footer))
	for _, st := range statuses {
		lines = append(lines, StatusLine(st))
	}
	return append(lines, s.Footer...)
}

// StatusLine 把单个生物的概要格式化为一行文字
func StatusLine(st components.CreatureStatus) string {
	return fmt.Sprintf("%-9s %-13s HP %3d/%-3d frame %2d  (%.0f, %.0f)",
		st.Name, st.State, st.Health, st.MaxHealth, st.Frame, st.Bounds.X, st.Bounds.Y)
}

// Draw 绘制 HUD 与调试层
func (s *HUDSystem) Draw(screen *ebiten.Image) {
	if s.ShowDebug {
		s.drawDebug(screen)
	}
	if !s.ShowHUD {
		return
	}

	for i, line := range s.Lines() {
		y := float64(hudMarginY + i*hudLineHeight)

		shadow := &text.DrawOptions{}
		shadow.GeoM.Translate(hudMarginX+1, y+1)
		shadow.ColorScale.ScaleWithColor(hudShadowColor)
		text.Draw(screen, line, s.face, shadow)

		op := &text.DrawOptions{}
		op.GeoM.Translate(hudMarginX, y)
		op.ColorScale.ScaleWithColor(hudTextColor)
		text.Draw(screen, line, s.face, op)
	}
}

func (s *HUDSystem) drawDebug(screen *ebiten.Image) {
	width := float32(screen.Bounds().Dx())

	for _, st := range Statuses(s.entityManager) {
		clr := debugBoxColor
		if st.Dead {
			clr = debugDeadColor
		}
		b := st.Bounds
		vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1, clr, false)

		if st.GroundLevel > 0 {
			vector.StrokeLine(screen, 0, float32(st.GroundLevel), width, float32(st.GroundLevel), 1, groundColor, false)
		}
	}
}
