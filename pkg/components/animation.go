package components

// AnimationKind 动画播放类型
type AnimationKind int

const (
	// AnimationRepeating 循环动画：越过最后一帧后回到第一帧
	AnimationRepeating AnimationKind = iota
	// AnimationOneShot 单次动画：播放到结束帧后停住并发出一次完成信号
	AnimationOneShot
)

// CompletionPolicy 单次动画完成后的状态处理策略
type CompletionPolicy int

const (
	// CompleteHold 停在最后一帧，不切换状态（死亡、跳跃）
	CompleteHold CompletionPolicy = iota
	// CompleteIdle 完成后回到待机状态（攻击、受伤）
	CompleteIdle
)

// AnimationComponent 基于帧区间的动画记录
// 它只保存帧区间与计时信息，不持有任何图像
//
// 不变量：FirstFrame <= CurrentFrame <= LastFrame
type AnimationComponent struct {
	FirstFrame   int              // 第一帧（含）
	LastFrame    int              // 最后一帧（含）
	CurrentFrame int              // 当前帧
	FinishFrame  int              // 单次动画越过此帧即视为完成，默认等于 LastFrame
	Speed        float64          // 每帧持续时间（秒）
	TimeLeft     float64          // 距离下一次换帧的剩余时间（秒）
	Kind         AnimationKind    // 循环 / 单次
	OnComplete   CompletionPolicy // 单次动画完成后的处理策略
	Finished     bool             // 单次动画是否已完成（完成后不再推进）
}

// NewAnimation 创建一个处于第一帧的动画
func NewAnimation(first, last int, speed float64, kind AnimationKind) *AnimationComponent {
	a := &AnimationComponent{
		FirstFrame:  first,
		LastFrame:   last,
		FinishFrame: last,
		Speed:       speed,
		Kind:        kind,
	}
	a.Reset()
	return a
}

// Reset 回到第一帧并重新开始计时
func (a *AnimationComponent) Reset() {
	a.CurrentFrame = a.FirstFrame
	a.TimeLeft = a.Speed
	a.Finished = false
}

// Step 推进动画时钟
//
// 每次调用最多前进一帧：即使 deltaTime 跨越了多个帧周期也不追帧。
//
// 参数：
//   - deltaTime: 距离上一帧的时间（秒），应 >= 0
//
// 返回：
//   - bool: 单次动画本次调用恰好完成时返回 true（每次激活只返回一次）
func (a *AnimationComponent) Step(deltaTime float64) bool {
	if a.Finished {
		return false
	}

	a.TimeLeft -= deltaTime
	if a.TimeLeft > 0 {
		return false
	}
	a.TimeLeft = a.Speed
	a.CurrentFrame++

	if a.Kind == AnimationRepeating {
		if a.CurrentFrame > a.LastFrame {
			a.CurrentFrame = a.FirstFrame
		}
		return false
	}

	end := a.finishFrame()
	if a.CurrentFrame > end {
		a.CurrentFrame = end
		a.Finished = true
		return true
	}
	return false
}

// Duration 返回单次动画从第一帧播放到完成所需的时间（秒）
func (a *AnimationComponent) Duration() float64 {
	return float64(a.finishFrame()-a.FirstFrame+1) * a.Speed
}

// ClampFrame 把当前帧限制在 [FirstFrame, LastFrame] 区间内
func (a *AnimationComponent) ClampFrame() {
	if a.CurrentFrame < a.FirstFrame {
		a.CurrentFrame = a.FirstFrame
	}
	if a.CurrentFrame > a.LastFrame {
		a.CurrentFrame = a.LastFrame
	}
}

func (a *AnimationComponent) finishFrame() int {
	if a.FinishFrame < a.FirstFrame || a.FinishFrame > a.LastFrame {
		return a.LastFrame
	}
	return a.FinishFrame
}
