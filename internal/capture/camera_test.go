package capture

import (
	"errors"
	"testing"
)

func TestNewCameraWithConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantCfg Config
	}{
		{
			name:    "zero config uses defaults",
			cfg:     Config{},
			wantCfg: DefaultConfig(),
		},
		{
			name:    "second device keeps default format",
			cfg:     Config{DeviceID: 1},
			wantCfg: Config{DeviceID: 1, Width: DefaultWidth, Height: DefaultHeight, FPS: DefaultFPS},
		},
		{
			name:    "explicit format",
			cfg:     Config{DeviceID: 2, Width: 320, Height: 240, FPS: 12},
			wantCfg: Config{DeviceID: 2, Width: 320, Height: 240, FPS: 12},
		},
		{
			name:    "negative values fall back",
			cfg:     Config{Width: -1, Height: -1, FPS: -30},
			wantCfg: DefaultConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCameraWithConfig(tt.cfg).(*cameraImpl)

			if cam.config != tt.wantCfg {
				t.Errorf("config = %+v, want %+v", cam.config, tt.wantCfg)
			}
			if cam.IsOpen() {
				t.Error("camera should not be open before Open()")
			}
		})
	}
}

func TestNewCamera_DeviceID(t *testing.T) {
	cam := NewCamera(4).(*cameraImpl)
	if cam.config.DeviceID != 4 {
		t.Errorf("DeviceID = %d, want 4", cam.config.DeviceID)
	}
	if cam.FPS() != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", cam.FPS(), DefaultFPS)
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	steps := []struct {
		set  int
		want int
	}{
		{15, 15},
		{60, 60},
		{0, 60},  // ignored
		{-5, 60}, // ignored
		{1, 1},
	}

	for _, s := range steps {
		cam.SetFPS(s.set)
		if got := cam.FPS(); got != s.want {
			t.Errorf("after SetFPS(%d): FPS() = %d, want %d", s.set, got, s.want)
		}
	}
}

func TestCamera_NotOpened(t *testing.T) {
	cam := NewCamera(0)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera = %v, want nil", err)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0)
	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}
	// A second Open is a no-op.
	if err := cam.Open(); err != nil {
		t.Errorf("second Open() = %v", err)
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadFrame() returned empty mat")
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}
