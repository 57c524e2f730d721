// Package overlay renders the hand skeleton onto video frames.
package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingerspell/internal/detector"
)

// Drawing style
var (
	boneColor  = color.RGBA{R: 0, G: 220, B: 120, A: 0}
	jointColor = color.RGBA{R: 255, G: 64, B: 64, A: 0}
	textColor  = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

const (
	boneThickness = 2
	jointRadius   = 4
)

// Mirror flips the frame horizontally in place so the stream reads like a
// mirror. Landmarks drawn afterwards must be mirrored too; see Draw.
func Mirror(frame *gocv.Mat) {
	gocv.Flip(*frame, frame, 1)
}

// Draw renders the finger-joint skeleton for the hand onto the frame.
// Landmark coordinates are normalized to the frame dimensions; mirrored
// reflects the x axis to match a frame that was flipped with Mirror.
func Draw(frame *gocv.Mat, hand *detector.Hand, mirrored bool) {
	if frame == nil || hand == nil {
		return
	}

	width := frame.Cols()
	height := frame.Rows()

	at := func(i int) image.Point {
		x := hand.Points[i].X
		if mirrored {
			x = 1 - x
		}
		return image.Pt(int(x*float64(width)), int(hand.Points[i].Y*float64(height)))
	}

	for _, c := range detector.Connections {
		gocv.Line(frame, at(c[0]), at(c[1]), boneColor, boneThickness)
	}

	for i := 0; i < detector.NumLandmarks; i++ {
		gocv.Circle(frame, at(i), jointRadius, jointColor, -1)
	}
}

// Label writes the recognized letter in the top-left corner of the frame.
func Label(frame *gocv.Mat, text string) {
	if frame == nil || text == "" {
		return
	}
	gocv.PutText(frame, text, image.Pt(16, 48), gocv.FontHersheySimplex, 1.5, textColor, 3)
}
