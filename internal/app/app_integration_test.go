package app

import (
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/neonlink/internal/capture"
	"github.com/ayusman/neonlink/internal/detector"
	"github.com/ayusman/neonlink/internal/gesture"
)

// nopDetector never finds a hand.
type nopDetector struct{}

func (nopDetector) Detect(*gocv.Mat) ([]detector.HandLandmarks, error) { return nil, nil }
func (nopDetector) Close() error                                       { return nil }

func TestApp_FistSlamsPiece(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	mat := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer mat.Close()
	cam := capture.NewMockCamera([]*gocv.Mat{&mat}, true)

	det := detector.NewMockDetector()
	det.SetHands(detector.ClosedFistLandmarks())

	a := newTestApp(t, Config{Camera: cam, Detector: det, FPS: 100})
	if err := a.Tracker().Start(); err != nil {
		t.Fatalf("tracker Start() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for a.Gesture() != gesture.ClosedFist && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if a.Gesture() != gesture.ClosedFist {
		t.Fatalf("gesture = %s, want CLOSED_FIST", a.Gesture())
	}

	// One slam per closure: holding the fist drops exactly one piece.
	for i := 0; i < 10; i++ {
		a.step(frame, nil)
	}
	st := a.LatestState()
	if got := bottomRowFilled(st); got != 2 {
		t.Errorf("bottom row cells = %d, want 2", got)
	}
	if st.Gesture != gesture.ClosedFist {
		t.Errorf("state gesture = %s", st.Gesture)
	}
	if a.JPEG() == nil {
		t.Error("tracker should publish frames")
	}

	a.Stop()
	if cam.IsOpen() {
		t.Error("Stop should release the camera")
	}
	if !det.Closed() {
		t.Error("Stop should close the detector")
	}
}
