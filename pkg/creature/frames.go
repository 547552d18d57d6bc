package creature

import (
	"image"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/decker502/creatures/pkg/types"
)

// FrameSet 某个状态可绘制的帧集合
// Frame 的索引与动画的 CurrentFrame 一致；越界时返回 ok=false
type FrameSet interface {
	Len() int
	Frame(i int) (img types.Image, src image.Rectangle, ok bool)
}

// FrameSequence 逐帧独立贴图（恶魔）
// 缺失的帧在加载时已被跳过，因此 Len 可能小于配置的帧数
type FrameSequence []types.Image

// Len 返回实际加载的帧数
func (s FrameSequence) Len() int { return len(s) }

// Frame 返回第 i 帧的整张图像
func (s FrameSequence) Frame(i int) (types.Image, image.Rectangle, bool) {
	if i < 0 || i >= len(s) || s[i] == nil {
		return nil, image.Rectangle{}, false
	}
	return s[i], s[i].Bounds(), true
}

// SpriteSheet 单张精灵表按等宽切帧（哥布林、狼人）
// 帧宽 = 图像宽度 / Frames，Frames 通常为动画的 lastFrame+1
type SpriteSheet struct {
	Image  types.Image
	Frames int
}

// Len 返回精灵表包含的帧数，图像缺失时为 0
func (s SpriteSheet) Len() int {
	if s.Image == nil || s.Frames <= 0 {
		return 0
	}
	return s.Frames
}

// Frame 返回第 i 帧在精灵表中的子矩形
func (s SpriteSheet) Frame(i int) (types.Image, image.Rectangle, bool) {
	if i < 0 || i >= s.Len() {
		return nil, image.Rectangle{}, false
	}
	b := s.Image.Bounds()
	frameWidth := b.Dx() / s.Frames
	x := b.Min.X + frameWidth*i
	return s.Image, image.Rect(x, b.Min.Y, x+frameWidth, b.Max.Y), true
}

var frameNumber = regexp.MustCompile(`\d+`)

// SortFramePaths 按文件名中的第一个整数对帧路径排序
// 没有数字的文件排在最后；数字相同时按文件名排序
func SortFramePaths(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		ni, oki := frameIndex(paths[i])
		nj, okj := frameIndex(paths[j])
		if oki != okj {
			return oki
		}
		if ni != nj {
			return ni < nj
		}
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})
}

func frameIndex(path string) (int, bool) {
	m := frameNumber.FindString(filepath.Base(path))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ImageReleaser 可选接口：贴图的持有方（如 game.ResourceManager）实现后，
// 帧图像交由它释放，以便同时清理缓存
type ImageReleaser interface {
	ReleaseImage(img types.Image)
}

// ReleaseFrames 释放帧图像，共享同一张精灵表的多个状态只释放一次
// releaser 为 nil 时直接调用图像的 Deallocate（如 *ebiten.Image）
func ReleaseFrames(sets map[types.State]FrameSet, releaser ImageReleaser) {
	released := make(map[types.Image]bool)
	release := func(img types.Image) {
		if img == nil || released[img] {
			return
		}
		released[img] = true
		if releaser != nil {
			releaser.ReleaseImage(img)
			return
		}
		if d, ok := img.(interface{ Deallocate() }); ok {
			d.Deallocate()
		}
	}

	for _, set := range sets {
		switch s := set.(type) {
		case FrameSequence:
			for _, img := range s {
				release(img)
			}
		case SpriteSheet:
			release(s.Image)
		}
	}
}
