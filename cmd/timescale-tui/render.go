package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/timescale/pkg/scenes"
)

// bodyRune 终端中表示物体的字符
const bodyRune = '●'

var (
	hudStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// fieldRect 终端中模拟区域的位置（含边框）
type fieldRect struct {
	x, y, w, h int
}

// layoutField 在 HUD 下方划出模拟区域
// 终端过小时返回 ok=false
func layoutField(width, height, hudLines int) (fieldRect, bool) {
	r := fieldRect{x: 0, y: hudLines, w: width, h: height - hudLines}
	if r.w < 4 || r.h < 4 {
		return r, false
	}
	return r, true
}

// cellFor 将世界坐标映射到边框内的终端单元格
func cellFor(x, y float64, bounds [4]float64, field fieldRect) (col, row int, ok bool) {
	minX, minY, maxX, maxY := bounds[0], bounds[1], bounds[2], bounds[3]
	if maxX <= minX || maxY <= minY {
		return 0, 0, false
	}
	innerW := field.w - 2
	innerH := field.h - 2

	fx := (x - minX) / (maxX - minX)
	fy := (y - minY) / (maxY - minY)
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return 0, 0, false
	}

	col = field.x + 1 + int(fx*float64(innerW-1)+0.5)
	row = field.y + 1 + int(fy*float64(innerH-1)+0.5)
	return col, row, true
}

// bodyColor 将物体的 RGBA 颜色转换为终端颜色
func bodyColor(b scenes.Body) tcell.Color {
	return tcell.NewRGBColor(int32(b.Color.R), int32(b.Color.G), int32(b.Color.B))
}

// drawText 在一行内绘制文本，超出宽度的部分截断
func drawText(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= x+maxWidth {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}

// drawBorder 绘制模拟区域边框
func drawBorder(screen tcell.Screen, r fieldRect) {
	right := r.x + r.w - 1
	bottom := r.y + r.h - 1
	for col := r.x + 1; col < right; col++ {
		screen.SetContent(col, r.y, tcell.RuneHLine, nil, borderStyle)
		screen.SetContent(col, bottom, tcell.RuneHLine, nil, borderStyle)
	}
	for row := r.y + 1; row < bottom; row++ {
		screen.SetContent(r.x, row, tcell.RuneVLine, nil, borderStyle)
		screen.SetContent(right, row, tcell.RuneVLine, nil, borderStyle)
	}
	screen.SetContent(r.x, r.y, tcell.RuneULCorner, nil, borderStyle)
	screen.SetContent(right, r.y, tcell.RuneURCorner, nil, borderStyle)
	screen.SetContent(r.x, bottom, tcell.RuneLLCorner, nil, borderStyle)
	screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, borderStyle)
}

// sceneLabel 边框底部的场景信息：模拟时间与逐帧累积时间
func sceneLabel(scene *scenes.BounceScene) string {
	return fmt.Sprintf(" %s  sim %.2fs  frame %.2fs ", scene.Name(), scene.SimTime(), scene.FrameTime())
}

// render 绘制 HUD 与场景
func render(screen tcell.Screen, lines []string, scene *scenes.BounceScene) {
	screen.Clear()
	width, height := screen.Size()

	for i, line := range lines {
		if i >= height {
			break
		}
		drawText(screen, 0, i, width, line, hudStyle)
	}

	field, ok := layoutField(width, height, len(lines))
	if ok && scene != nil {
		drawBorder(screen, field)
		drawText(screen, field.x+2, field.y+field.h-1, field.w-4, sceneLabel(scene), hudStyle)
		minX, minY, maxX, maxY := scene.Bounds()
		bounds := [4]float64{minX, minY, maxX, maxY}
		for _, b := range scene.Bodies() {
			col, row, visible := cellFor(b.X, b.Y, bounds, field)
			if !visible {
				continue
			}
			screen.SetContent(col, row, bodyRune, nil, tcell.StyleDefault.Foreground(bodyColor(b)))
		}
	}

	screen.Show()
}
