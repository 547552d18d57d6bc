package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/decker502/creatures/pkg/types"
)

// damageAction 脚本中表示注入伤害的动作名
const damageAction = "damage"

// scriptEntry 在 [from, to] 区间内按住某个控制；from 这一帧同时视为"刚按下"
type scriptEntry struct {
	action string
	from   int
	to     int
}

// script 预先编排的输入序列
// 格式：逗号分隔的 "动作:帧" 或 "动作:起始帧-结束帧"，动作为控制名或 damage
// 例如 "right:0-20,attack1:25,damage:40"
type script struct {
	entries []scriptEntry
}

func parseScript(s string) (*script, error) {
	sc := &script{}
	s = strings.TrimSpace(s)
	if s == "" {
		return sc, nil
	}

	for _, part := range strings.Split(s, ",") {
		action, ticks, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("script entry %q: want action:tick", part)
		}
		if action != damageAction {
			if _, err := types.ParseControl(action); err != nil {
				return nil, fmt.Errorf("script entry %q: %w", part, err)
			}
		}

		from, to, err := parseTickRange(ticks)
		if err != nil {
			return nil, fmt.Errorf("script entry %q: %w", part, err)
		}
		sc.entries = append(sc.entries, scriptEntry{action: action, from: from, to: to})
	}
	return sc, nil
}

func parseTickRange(s string) (int, int, error) {
	first, last, isRange := strings.Cut(s, "-")
	from, err := strconv.Atoi(first)
	if err != nil {
		return 0, 0, fmt.Errorf("bad tick %q", first)
	}
	to := from
	if isRange {
		if to, err = strconv.Atoi(last); err != nil {
			return 0, 0, fmt.Errorf("bad tick %q", last)
		}
	}
	if from < 0 || to < from {
		return 0, 0, fmt.Errorf("bad tick range %q", s)
	}
	return from, to, nil
}

// damageAt 该帧注入伤害的次数
func (sc *script) damageAt(tick int) int {
	n := 0
	for _, e := range sc.entries {
		if e.action == damageAction && e.from <= tick && tick <= e.to {
			n++
		}
	}
	return n
}

// scriptedInput 在指定帧上回放脚本，实现 types.Input
type scriptedInput struct {
	script *script
	tick   int
}

func (in *scriptedInput) IsHeld(c types.Control) bool {
	for _, e := range in.script.entries {
		if e.action == c.String() && e.from <= in.tick && in.tick <= e.to {
			return true
		}
	}
	return false
}

func (in *scriptedInput) WasPressed(c types.Control) bool {
	for _, e := range in.script.entries {
		if e.action == c.String() && e.from == in.tick {
			return true
		}
	}
	return false
}
