package creature

import (
	"github.com/looplab/fsm"

	"github.com/decker502/creatures/pkg/types"
)

// 状态机事件名
const (
	eventMove   = "move"   // 待机 -> 行走/奔跑
	eventStop   = "stop"   // 行走/奔跑 -> 待机
	eventJump   = "jump"   // 地面 -> 跳跃
	eventLand   = "land"   // 跳跃 -> 待机
	eventFinish = "finish" // 攻击/受伤动画播放完毕 -> 待机
	eventHurt   = "hurt"   // 任意存活状态 -> 受伤
	eventDie    = "die"    // 任意存活状态 -> 死亡
)

// attackEvent 返回触发指定攻击状态的事件名
func attackEvent(s types.State) string {
	return "attack:" + string(s)
}

// buildTransitions 根据 Profile 生成状态转换表
//
// 所有生物共用同一套事件，只是源/目标状态集合由各自的动画表决定：
//   - 没有 hurt 动画的生物不会生成 hurt 事件（哥布林）
//   - 没有跳跃能力的生物不会生成 jump/land 事件
//   - 死亡状态不在任何事件的源集合中，因此是终止状态
func buildTransitions(p *Profile) fsm.Events {
	idle := string(types.StateIdle)
	loco := string(p.Locomotion)
	dead := string(types.StateDead)

	alive := make([]string, 0, len(p.Animations))
	for _, s := range p.States() {
		if s != types.StateDead {
			alive = append(alive, string(s))
		}
	}

	grounded := []string{idle, loco}
	attackSrc := grounded
	if p.CanJump() {
		attackSrc = append([]string{string(types.StateJump)}, grounded...)
	}

	events := fsm.Events{
		{Name: eventMove, Src: []string{idle}, Dst: loco},
		{Name: eventStop, Src: []string{loco}, Dst: idle},
		{Name: eventDie, Src: alive, Dst: dead},
	}

	finishSrc := make([]string, 0, len(p.Attacks)+1)
	for _, a := range p.Attacks {
		events = append(events, fsm.EventDesc{Name: attackEvent(a.State), Src: attackSrc, Dst: string(a.State)})
		finishSrc = append(finishSrc, string(a.State))
	}

	if p.HasHurt() {
		events = append(events, fsm.EventDesc{Name: eventHurt, Src: alive, Dst: string(types.StateHurt)})
		finishSrc = append(finishSrc, string(types.StateHurt))
	}

	if len(finishSrc) > 0 {
		events = append(events, fsm.EventDesc{Name: eventFinish, Src: finishSrc, Dst: idle})
	}

	if p.CanJump() {
		events = append(events,
			fsm.EventDesc{Name: eventJump, Src: grounded, Dst: string(types.StateJump)},
			fsm.EventDesc{Name: eventLand, Src: []string{string(types.StateJump)}, Dst: idle},
		)
	}

	return events
}
