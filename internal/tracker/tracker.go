// Package tracker runs camera capture and hand classification in the
// background and publishes the most recent result for the game loop.
package tracker

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/neonlink/internal/capture"
	"github.com/ayusman/neonlink/internal/detector"
	"github.com/ayusman/neonlink/internal/gesture"
)

// Backoff after a failed read or detection, so a broken device does not spin.
const (
	ReadBackoff   = 100 * time.Millisecond
	DetectBackoff = 10 * time.Millisecond
)

// ErrCameraUnavailable is returned by Start when the camera cannot be opened.
var ErrCameraUnavailable = errors.New("camera unavailable")

// landmarkColor is cyan; dots are drawn with radius 4.
var landmarkColor = color.RGBA{R: 0, G: 255, B: 255, A: 0}

const landmarkRadius = 4

// Repeated per-frame failures are logged once every logEvery occurrences.
const logEvery = 100

// Snapshot is one published tracker result. It is never modified after
// publication; readers must not modify Frame or Hands either.
type Snapshot struct {
	// Frame is the mirrored camera image with landmarks drawn, JPEG encoded.
	// Nil until the first frame has been processed.
	Frame     []byte
	Width     int
	Height    int
	Gesture   gesture.Gesture
	Hands     []detector.HandLandmarks
	Timestamp time.Time
	Seq       uint64
}

// Stats counts loop outcomes since the tracker was created.
type Stats struct {
	Frames       uint64
	ReadErrors   uint64
	DetectErrors uint64
}

// Config holds tracker settings.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector

	// FPS is the loop rate (default 30).
	FPS int

	// Mirror flips frames horizontally before detection.
	Mirror bool

	// JPEGQuality is passed to the encoder (default 80).
	JPEGQuality int
}

// DefaultConfig returns a mirrored 30 FPS configuration without devices.
func DefaultConfig() Config {
	return Config{
		FPS:         capture.DefaultFPS,
		Mirror:      true,
		JPEGQuality: 80,
	}
}

// Tracker owns the capture goroutine.
type Tracker struct {
	config Config
	latest atomic.Pointer[Snapshot]

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	frames       atomic.Uint64
	readErrors   atomic.Uint64
	detectErrors atomic.Uint64
}

// New creates a tracker. Nothing is opened until Start.
func New(config Config) *Tracker {
	def := DefaultConfig()
	if config.FPS <= 0 {
		config.FPS = def.FPS
	}
	if config.JPEGQuality <= 0 || config.JPEGQuality > 100 {
		config.JPEGQuality = def.JPEGQuality
	}

	t := &Tracker{config: config}
	t.latest.Store(&Snapshot{Gesture: gesture.None})
	return t
}

// Start opens the camera and launches the loop. If the camera cannot be
// opened it is closed again and an error wrapping ErrCameraUnavailable is
// returned; Latest then keeps reporting no frame and no gesture.
func (t *Tracker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return nil
	}
	if t.config.Camera == nil {
		return fmt.Errorf("%w: no camera configured", ErrCameraUnavailable)
	}

	if err := t.config.Camera.Open(); err != nil {
		if cerr := t.config.Camera.Close(); cerr != nil {
			log.Printf("Error closing camera: %v", cerr)
		}
		log.Printf("Camera could not be opened: %v", err)
		return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	t.config.Camera.SetFPS(t.config.FPS)

	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})
	t.running = true

	go t.run(t.stopCh, t.doneCh)

	log.Println("Gesture tracker started")
	return nil
}

// Stop signals the loop, waits for it to exit and then releases the camera.
// Calling Stop on a stopped tracker does nothing.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}

	close(t.stopCh)
	<-t.doneCh
	t.running = false

	if err := t.config.Camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	log.Println("Gesture tracker stopped")
}

// Running reports whether the loop is active.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Latest returns the most recent snapshot. It never blocks on the loop.
func (t *Tracker) Latest() Snapshot {
	return *t.latest.Load()
}

// Gesture returns the label of the most recent snapshot.
func (t *Tracker) Gesture() gesture.Gesture {
	return t.latest.Load().Gesture
}

// JPEG returns the most recent encoded frame, or nil.
func (t *Tracker) JPEG() []byte {
	return t.latest.Load().Frame
}

// Stats returns loop counters.
func (t *Tracker) Stats() Stats {
	return Stats{
		Frames:       t.frames.Load(),
		ReadErrors:   t.readErrors.Load(),
		DetectErrors: t.detectErrors.Load(),
	}
}

func (t *Tracker) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(time.Second / time.Duration(t.config.FPS))
	defer ticker.Stop()

	var seq uint64
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}

		frame, err := t.config.Camera.ReadFrame()
		if err != nil {
			if n := t.readErrors.Add(1); n%logEvery == 1 {
				log.Printf("Error reading frame: %v", err)
			}
			if !wait(stopCh, ReadBackoff) {
				return
			}
			continue
		}

		snap, err := t.process(frame)
		frame.Close()
		if err != nil {
			if n := t.detectErrors.Add(1); n%logEvery == 1 {
				log.Printf("Error detecting hands: %v", err)
			}
			if !wait(stopCh, DetectBackoff) {
				return
			}
			continue
		}

		seq++
		snap.Seq = seq
		t.latest.Store(snap)
		t.frames.Add(1)
	}
}

// process mirrors, classifies, annotates and encodes one frame.
func (t *Tracker) process(frame *gocv.Mat) (*Snapshot, error) {
	img := gocv.NewMat()
	defer img.Close()

	if t.config.Mirror {
		gocv.Flip(*frame, &img, 1)
	} else {
		frame.CopyTo(&img)
	}

	var hands []detector.HandLandmarks
	if t.config.Detector != nil {
		var err error
		hands, err = t.config.Detector.Detect(&img)
		if err != nil {
			return nil, err
		}
	}

	width, height := img.Cols(), img.Rows()
	for i := range hands {
		for p := 0; p < detector.NumLandmarks; p++ {
			gocv.Circle(&img, hands[i].Pixel(p, width, height), landmarkRadius, landmarkColor, -1)
		}
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{int(gocv.IMWriteJpegQuality), t.config.JPEGQuality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// Copy out of the native buffer before it is freed.
	data := append([]byte(nil), buf.GetBytes()...)

	return &Snapshot{
		Frame:     data,
		Width:     width,
		Height:    height,
		Gesture:   gesture.ClassifyHands(hands),
		Hands:     hands,
		Timestamp: time.Now(),
	}, nil
}

// wait sleeps for d unless stopCh closes first. It reports whether the loop
// should keep running.
func wait(stopCh <-chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-stopCh:
		return false
	case <-timer.C:
		return true
	}
}
