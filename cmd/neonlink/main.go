package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/neonlink/internal/app"
	"github.com/ayusman/neonlink/internal/capture"
	"github.com/ayusman/neonlink/internal/server"
	"github.com/ayusman/neonlink/internal/store"
	"github.com/ayusman/neonlink/internal/tray"
	"github.com/ayusman/neonlink/internal/tui"
)

// options are the parsed command line flags.
type options struct {
	camera   int
	fps      int
	addr     string
	dataDir  string
	fall     time.Duration
	player   string
	tray     bool
	headless bool
	webDir   string
	sound    bool
	hookDir  string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("neonlink", flag.ContinueOnError)
	fs.IntVar(&o.camera, "camera", 0, "camera device index, -1 for keyboard-only play")
	fs.IntVar(&o.fps, "fps", capture.DefaultFPS, "gesture tracker frame rate")
	fs.StringVar(&o.addr, "addr", ":8080", "web board listen address, empty to disable")
	fs.StringVar(&o.dataDir, "data", defaultDataDir(), "directory for the database, hooks and log")
	fs.DurationVar(&o.fall, "fall", 500*time.Millisecond, "base gravity interval")
	fs.StringVar(&o.player, "player", "", "player name for recorded games (random when empty)")
	fs.BoolVar(&o.tray, "tray", false, "show a system tray menu")
	fs.BoolVar(&o.headless, "headless", false, "run without the terminal UI")
	fs.StringVar(&o.webDir, "web", "", "static web board directory (searched when empty)")
	fs.BoolVar(&o.sound, "sound", true, "play sound cues")
	fs.StringVar(&o.hookDir, "hooks", "", "hook directory (default <data>/hooks)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.fps <= 0 {
		return o, fmt.Errorf("-fps must be positive, got %d", o.fps)
	}
	if o.fall <= 0 {
		return o, fmt.Errorf("-fall must be positive, got %v", o.fall)
	}
	if o.headless && o.addr == "" && !o.tray {
		return o, errors.New("-headless needs -addr or -tray to be playable")
	}
	if o.hookDir == "" {
		o.hookDir = filepath.Join(o.dataDir, "hooks")
	}
	return o, nil
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".neonlink"
	}
	return filepath.Join(homeDir, ".neonlink")
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("Invalid arguments: %v", err)
	}

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

// run starts the game and blocks until it ends. Every resource it opens is
// released before it returns.
func run(opts options) error {
	if err := os.MkdirAll(opts.dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// The terminal UI owns the terminal, so logs go to a file.
	if !opts.headless {
		logFile, err := os.OpenFile(filepath.Join(opts.dataDir, "neonlink.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		prev := log.Writer()
		log.SetOutput(logFile)
		defer func() {
			log.SetOutput(prev)
			logFile.Close()
		}()
	}

	st, err := store.New(filepath.Join(opts.dataDir, "neonlink.db"))
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	cfg := app.Config{
		Store:        st,
		FPS:          opts.fps,
		FallInterval: opts.fall,
		Player:       opts.player,
		HookDir:      opts.hookDir,
		Sound:        opts.sound,
	}
	if opts.camera >= 0 {
		camCfg := capture.DefaultConfig()
		camCfg.DeviceID = opts.camera
		camCfg.FPS = opts.fps
		cfg.Camera = capture.NewCameraWithConfig(camCfg)
	}

	a := app.New(cfg)
	defer a.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	boardURL := ""
	if opts.addr != "" {
		webDir := opts.webDir
		if webDir == "" {
			webDir = findWebDir(opts.dataDir)
		}
		if webDir != "" {
			log.Printf("Serving static files from: %s", webDir)
		}

		srv := server.New(server.Config{
			StaticDir: webDir,
			Store:     st,
			Frames:    a,
			State:     a,
			Actions:   a.Actions(),
		})
		defer srv.Close()

		boardURL = localURL(opts.addr)
		log.Printf("Web board on %s", boardURL)
		go func() {
			if err := srv.ListenAndServe(opts.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Server failed: %v", err)
				cancel()
			}
		}()
	}

	var fe app.Frontend
	if !opts.headless {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("initialize screen: %w", err)
		}
		ui := tui.New(screen)
		defer ui.Close()
		fe = ui
	}

	if !opts.tray {
		return a.Run(ctx, fe)
	}

	// The tray must own the main thread, so the game loop moves aside.
	t := tray.New()
	t.OnPause(func(bool) { a.TogglePause() })
	t.OnOpenBoard(func() {
		if boardURL == "" {
			log.Println("Web board is disabled")
			return
		}
		if err := openBrowser(boardURL); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})
	t.OnQuit(cancel)

	loopErr := make(chan error, 1)
	go func() {
		defer t.Quit()
		go syncTray(ctx, t, a)
		loopErr <- a.Run(ctx, fe)
		cancel()
	}()
	t.Run()
	cancel()
	return <-loopErr
}

// syncTray mirrors the published game state into the tray menu.
func syncTray(ctx context.Context, t *tray.Tray, a *app.App) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := a.LatestState()
			t.SetPaused(st.Paused)
			t.SetGesture(st.Gesture)
			t.SetHighScore(st.HighScore)
		}
	}
}

// localURL turns a listen address such as ":8080" into a browsable URL.
func localURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <data>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}
