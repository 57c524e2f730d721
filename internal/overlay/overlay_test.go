package overlay

import (
	"image"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingerspell/internal/detector"
)

func TestDraw(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	t.Run("draws onto the frame", func(t *testing.T) {
		frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		defer frame.Close()

		hand := detector.LetterBLandmarks()
		Draw(&frame, &hand, false)

		gray := gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

		if gocv.CountNonZero(gray) == 0 {
			t.Error("expected skeleton pixels on a black frame")
		}
	})

	t.Run("mirrored drawing reflects the x axis", func(t *testing.T) {
		plain := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		defer plain.Close()
		mirrored := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		defer mirrored.Close()

		// A hand far on the left must land on opposite halves of the frame
		hand := detector.LetterBLandmarks()
		for i := range hand.Points {
			hand.Points[i].X *= 0.4
		}
		Draw(&plain, &hand, false)
		Draw(&mirrored, &hand, true)

		leftHalf := image.Rect(0, 0, 320, 480)

		plainGray := gocv.NewMat()
		defer plainGray.Close()
		gocv.CvtColor(plain, &plainGray, gocv.ColorBGRToGray)
		plainLeft := plainGray.Region(leftHalf)
		defer plainLeft.Close()

		mirroredGray := gocv.NewMat()
		defer mirroredGray.Close()
		gocv.CvtColor(mirrored, &mirroredGray, gocv.ColorBGRToGray)
		mirroredLeft := mirroredGray.Region(leftHalf)
		defer mirroredLeft.Close()

		if gocv.CountNonZero(plainLeft) == 0 {
			t.Error("unmirrored left-side hand should draw on the left half")
		}
		if gocv.CountNonZero(mirroredLeft) != 0 {
			t.Error("mirrored left-side hand should draw only on the right half")
		}
	})

	t.Run("nil hand is a no-op", func(t *testing.T) {
		frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		defer frame.Close()

		Draw(&frame, nil, false)

		gray := gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

		if gocv.CountNonZero(gray) != 0 {
			t.Error("nothing should be drawn without a hand")
		}
	})
}

func TestMirror(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC1)
	defer frame.Close()

	// Mark the top-left pixel and flip it to the top-right
	frame.SetUCharAt(0, 0, 255)
	Mirror(&frame)

	if frame.GetUCharAt(0, 1) != 255 {
		t.Error("expected marked pixel to move to the right edge")
	}
	if frame.GetUCharAt(0, 0) != 0 {
		t.Error("expected left edge to be cleared by the flip")
	}
}

func TestLabel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	Label(&frame, "A")

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	if gocv.CountNonZero(gray) == 0 {
		t.Error("expected label pixels on a black frame")
	}
}
