package app

import (
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// TapZone 屏幕水平三等分的点击区域
type TapZone int

const (
	TapZoneLeft TapZone = iota
	TapZoneMiddle
	TapZoneRight
)

// AppendKeyRunes 追加本帧输入的字符（统一转为小写）
// 空格也会作为字符返回
func AppendKeyRunes(buf []rune) []rune {
	start := len(buf)
	buf = ebiten.AppendInputChars(buf)
	for i := start; i < len(buf); i++ {
		buf[i] = unicode.ToLower(buf[i])
	}
	return buf
}

// IsJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置
func IsJustTouchedOrClicked() (bool, int, int) {
	// 检查触摸
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	// 检查鼠标
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// ZoneAt 返回 x 坐标所在的点击区域
// 超出 [0, width) 的坐标归入最近的区域
func ZoneAt(x, width int) TapZone {
	if width <= 0 || x < width/3 {
		return TapZoneLeft
	}
	if x < width*2/3 {
		return TapZoneMiddle
	}
	return TapZoneRight
}
