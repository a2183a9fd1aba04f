package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ayusman/flaphand/internal/app"
	"github.com/ayusman/flaphand/internal/capture"
	"github.com/ayusman/flaphand/internal/config"
	"github.com/ayusman/flaphand/internal/detector"
	"github.com/ayusman/flaphand/internal/gesture"
	"github.com/ayusman/flaphand/internal/prefs"
	"github.com/ayusman/flaphand/internal/render"
	"github.com/ayusman/flaphand/internal/server"
	"github.com/ayusman/flaphand/internal/sound"
	"github.com/ayusman/flaphand/internal/spectate"
	"github.com/ayusman/flaphand/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		cameraID   = flag.Int("camera", 0, "camera device index")
		httpAddr   = flag.String("http", "", "serve run history and live state on this address, e.g. :8080")
		sshAddr    = flag.String("ssh", "", "let terminals watch over SSH on this address, e.g. :2222")
		dbPath     = flag.String("db", "", "run history database (default ~/.flaphand/flaphand.db)")
		seed       = flag.Uint64("seed", 0, "pipe height seed (0 picks one)")
		keyboard   = flag.Bool("keyboard", false, "fly with Space/Up instead of the camera")
		preview    = flag.Bool("preview", true, "show the camera behind the game")
		mute       = flag.Bool("mute", false, "disable sound effects")
	)
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	fmt.Println("Flappy Hand")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pm := prefs.Open(prefs.AppName)
	p := pm.Get()

	// Flags override saved preferences, which override the config file.
	if set["camera"] {
		p.CameraDevice = *cameraID
	}
	if set["camera"] || p.CameraDevice != 0 {
		cfg.Camera.Device = p.CameraDevice
	}
	if set["keyboard"] {
		p.KeyboardOnly = *keyboard
	}
	if set["preview"] {
		p.ShowPreview = *preview
	}
	if set["mute"] {
		p.Muted = *mute
	}
	if err := pm.Update(func(cur *prefs.Preferences) { *cur = p }); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
	if *httpAddr != "" {
		cfg.Server.Addr = *httpAddr
	}
	if *sshAddr != "" {
		cfg.SSH.Addr = *sshAddr
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if set["seed"] {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	log.Printf("Pipe seed %d", cfg.Seed)

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to open run history: %v", err)
	}

	var (
		source gesture.Source
		hands  *gesture.HandSource
		input  = store.InputGesture
	)
	if p.KeyboardOnly {
		source = gesture.NewKeySource(app.FlyKeyHeld)
		input = store.InputKeyboard
		log.Println("Keyboard input: hold Space or Up to fly")
	} else {
		hands, err = openHands(cfg, p)
		if err != nil {
			st.Close()
			log.Fatalf("Failed to start hand tracking: %v (run with -keyboard to play without a camera)", err)
		}
		source = hands
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("Failed to load renderer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameCfg := cfg.GameConfig()
	gameCfg.FlyHint = gesture.Pair(cfg.Gesture.Pair).Hint()
	if p.KeyboardOnly {
		gameCfg.FlyHint = "Hold Space or Up to fly"
	}

	hub := server.NewHub()
	appCfg := app.Config{
		Game:      gameCfg,
		Source:    source,
		Controls:  app.KeyboardControls{},
		Store:     st,
		Publisher: hub,
		Prefs:     pm,
		Renderer:  renderer,
		Sounds:    sound.New(p.Muted),
		Input:     input,
		Seed:      cfg.Seed,
		Context:   ctx,
	}
	if hands != nil {
		appCfg.Preview = hands
	}

	game, err := app.New(appCfg)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}
	defer func() {
		if err := game.Close(); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	if cfg.Server.Addr != "" {
		srvCfg := server.Config{Store: st, Hub: hub}
		if hands != nil {
			srvCfg.Frames = hands
		}
		srv := server.New(srvCfg)
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	if cfg.SSH.Addr != "" {
		watch, err := spectate.New(spectate.Config{
			Addr:        cfg.SSH.Addr,
			HostKeyPath: cfg.SSH.HostKeyPath,
			Source:      hub,
			Game:        appCfg.Game,
		})
		if err != nil {
			log.Fatalf("Failed to create SSH spectator: %v", err)
		}
		go func() {
			if err := watch.ListenAndServe(ctx); err != nil {
				log.Printf("SSH spectator failed: %v", err)
			}
		}()
	}

	ebiten.SetWindowTitle("Flappy Hand")
	ebiten.SetWindowSize(int(cfg.Game.ScreenWidth), int(cfg.Game.ScreenHeight))
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetFullscreen(p.Fullscreen)
	ebiten.SetTPS(cfg.Game.TargetFPS)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Printf("Game stopped: %v", err)
	}
}

func openHands(cfg config.Config, p prefs.Preferences) (*gesture.HandSource, error) {
	cls, err := gesture.NewClassifier(gesture.Pair(cfg.Gesture.Pair), cfg.Gesture.DeadZone)
	if err != nil {
		return nil, err
	}

	det, err := detector.NewMediaPipe(detector.Config{
		MaxHands:              cfg.Detector.MaxHands,
		MinConfidence:         cfg.Detector.MinConfidence,
		MinTrackingConfidence: cfg.Detector.MinTrackingConfidence,
		IdleTimeout:           cfg.Detector.IdleTimeout,
		Script:                cfg.Detector.Script,
		Python:                cfg.Detector.Python,
	})
	if err != nil {
		return nil, err
	}

	cam := capture.NewCamera(capture.Options{
		Device: cfg.Camera.Device,
		Width:  cfg.Camera.Width,
		Height: cfg.Camera.Height,
		FPS:    cfg.Camera.FPS,
	})
	if err := cam.Open(); err != nil {
		det.Close()
		return nil, err
	}
	log.Printf("Camera %d open at %d fps", cfg.Camera.Device, cam.FPS())

	var gate *capture.MotionGate
	if cfg.Detector.MotionThreshold > 0 {
		gate = capture.NewMotionGate(cfg.Detector.MotionThreshold)
	}

	hands := gesture.NewHandSource(cam, det, cls, gate)
	hands.SetMirror(p.MirrorPreview)
	return hands, nil
}
