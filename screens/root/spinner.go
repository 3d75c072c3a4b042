package root

import (
	"math"
	"time"
)

// drawLoadingIcon draws a small spinner in the bottom right corner while
// channel lists are syncing
func (rs *RootScreen) drawLoadingIcon(screenWidth, screenHeight int32) {
	const (
		iconSize = int32(24)
		margin   = int32(20)
		segments = 8
	)
	centerX := screenWidth - margin - iconSize/2
	centerY := screenHeight - margin - iconSize/2
	angle := float64(time.Now().UnixMilli()/50) * 0.1
	radius := float64(iconSize / 2)

	for i := 0; i < segments; i++ {
		a := angle + float64(i)*2*math.Pi/segments
		x1 := centerX + int32(radius*0.6*math.Cos(a))
		y1 := centerY + int32(radius*0.6*math.Sin(a))
		x2 := centerX + int32(radius*math.Cos(a))
		y2 := centerY + int32(radius*math.Sin(a))

		rs.renderer.SetDrawColor(255, 255, 255, uint8(255*(i+1)/segments))
		for t := int32(0); t < 3; t++ {
			rs.renderer.DrawLine(x1+t, y1, x2+t, y2)
			rs.renderer.DrawLine(x1, y1+t, x2, y2+t)
		}
	}
}
