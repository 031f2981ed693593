package bingo

import "fmt"

// Mode is the numbering mode of a room: 75-ball (5x5, free center) or
// 90-ball (9x3, classic layout).
type Mode int

const (
	Mode75 Mode = 75
	Mode90 Mode = 90
)

func ParseMode(n int) (Mode, error) {
	switch Mode(n) {
	case Mode75, Mode90:
		return Mode(n), nil
	}
	return 0, fmt.Errorf("unknown numbering mode %d", n)
}

// MaxNumber is the size of the draw pool for the mode.
func (m Mode) MaxNumber() int {
	return int(m)
}

// Victory is the pattern required to win.
type Victory string

const (
	VictoryLine    Victory = "line"
	VictoryCorners Victory = "corners"
	VictoryFull    Victory = "full"
)

func ParseVictory(s string) (Victory, error) {
	switch Victory(s) {
	case VictoryLine, VictoryCorners, VictoryFull:
		return Victory(s), nil
	}
	return "", fmt.Errorf("unknown victory mode %q", s)
}
