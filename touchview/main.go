package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/goxpt/pkg/bridge"
	"github.com/itohio/goxpt/pkg/config"
	"github.com/itohio/goxpt/pkg/pad"
	"github.com/itohio/goxpt/pkg/remote"
	"github.com/itohio/goxpt/pkg/sample"
	"github.com/itohio/goxpt/pkg/xpt2046"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use a simulated panel driven by the mouse")
		listenFlag = flag.String("listen", "", "Serve touch events over WebSocket on this address (e.g., :8080)")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *listenFlag != "" {
		cfg.Remote.Listen = *listenFlag
	}

	application := app.NewWithID("com.itohio.goxpt")

	window := application.NewWindow("XPT2046 Touch View")
	window.Resize(fyne.NewSize(480, 720))
	window.CenterOnScreen()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		window:     window,
		useMock:    *mockFlag,
	}

	ctx, cancel := context.WithCancel(context.Background())
	application.Lifecycle().SetOnStopped(func() {
		state.disconnect()
		cancel()
	})

	if cfg.Remote.Listen != "" {
		state.remote = remote.NewServer()
		go func() {
			if err := state.remote.ListenAndServe(ctx, cfg.Remote.Listen, cfg.Remote.Path); err != nil {
				log.Printf("Remote touch server stopped: %v", err)
			}
		}()
	}

	state.pad = pad.New(xpt2046.Position{X: cfg.Screen.Height, Y: cfg.Screen.Width})
	state.pad.SetStatus("disconnected")

	toolbar := createToolbar(state)

	window.SetContent(container.NewBorder(
		toolbar,
		nil,
		nil,
		nil,
		state.pad,
	))
	window.ShowAndRun()
}

// touchChain tracks the sampling pipeline for graceful shutdown.
type touchChain struct {
	cancel context.CancelFunc
	done   chan struct{} // Closed when every consumer has drained
}

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	configPath string
	window     fyne.Window
	pad        *pad.PadWidget
	remote     *remote.Server
	useMock    bool

	serial *bridge.Serial
	mock   *xpt2046.Mock
	device *xpt2046.Device
	chain  *touchChain

	connectBtn   *widget.Button
	calibrateBtn *widget.Button
	rotateBtn    *widget.Button

	mu sync.Mutex
}

// createToolbar creates the toolbar with Connect, Calibrate, Rotate, Clear and Settings buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	state.connectBtn = widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})

	state.calibrateBtn = widget.NewButtonWithIcon("Calibrate", theme.ViewFullScreenIcon(), func() {
		handleCalibrate(state)
	})
	state.calibrateBtn.Disable()

	state.rotateBtn = widget.NewButtonWithIcon("Rotate", theme.ViewRefreshIcon(), func() {
		handleRotate(state)
	})
	state.rotateBtn.Disable()

	clearBtn := widget.NewButtonWithIcon("", theme.ContentClearIcon(), func() {
		state.pad.Clear()
	})

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(state.connectBtn, settingsBtn),
		container.NewHBox(state.calibrateBtn, state.rotateBtn, clearBtn),
		nil,
	)
}

func (s *appState) connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device != nil
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.connected() {
		state.disconnect()
		state.calibrateBtn.Disable()
		state.rotateBtn.Disable()
		state.pad.SetStatus("disconnected")
		return
	}

	if err := state.connect(); err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.calibrateBtn.Enable()
	state.rotateBtn.Enable()
}

// connect opens the bus, builds the device and starts sampling.
func (s *appState) connect() error {
	var bus xpt2046.Bus
	if s.useMock {
		s.mock = xpt2046.NewMock(s.cfg.Mock.NoiseLevel)
		s.pad.OnPress = func(p xpt2046.Position) {
			s.mock.Press(mockRaw(p, s.currentRotation(), &s.cfg.Screen, &s.cfg.Mock))
		}
		s.pad.OnRelease = s.mock.Release
		bus = s.mock
		log.Printf("Using simulated panel")
	} else {
		s.serial = bridge.New(s.cfg.Serial.Port, s.cfg.Serial.BaudRate, s.cfg.Serial.Timeout)
		if err := s.serial.Connect(); err != nil {
			s.serial = nil
			return fmt.Errorf("failed to connect to %s: %w", s.cfg.Serial.Port, err)
		}
		bus = s.serial
		log.Printf("Connected to touch bridge on %s", s.cfg.Serial.Port)
	}

	dev := xpt2046.New(bus, s.cfg.Device())
	dev.SetRotation(s.cfg.Mapping.Rotation)

	s.mu.Lock()
	s.device = dev
	s.mu.Unlock()

	s.pad.SetBounds(dev.Bounds())
	s.startChain()
	return nil
}

// disconnect stops sampling and releases the bus.
func (s *appState) disconnect() {
	s.stopChain()

	s.mu.Lock()
	s.device = nil
	s.mu.Unlock()

	if s.serial != nil {
		if err := s.serial.Close(); err != nil {
			log.Printf("Failed to close touch bridge: %v", err)
		}
		s.serial = nil
		log.Printf("Disconnected from touch bridge")
	}
	if s.mock != nil {
		s.pad.OnPress = nil
		s.pad.OnRelease = nil
		s.mock = nil
	}
}

func (s *appState) currentRotation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.device == nil {
		return s.cfg.Mapping.Rotation
	}
	return s.device.Rotation()
}

// startChain starts Poll -> edge detector -> pad and remote consumers.
func (s *appState) startChain() {
	s.mu.Lock()
	dev := s.device
	s.mu.Unlock()
	if dev == nil || s.chain != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	touches := sample.Poll(ctx, dev, s.cfg.Sampling.Interval, sample.DefaultBufferSize)
	events := sample.NewEdgeDetector(sample.DefaultBufferSize)(touches)

	consumers := 1
	if s.remote != nil {
		consumers++
	}
	outs := sample.Tee(events, consumers, sample.DefaultBufferSize)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for e := range outs[0] {
			fyne.Do(func() {
				s.pad.Add(e)
			})
		}
	}()

	if s.remote != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.remote.Run(outs[1])
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	s.chain = &touchChain{cancel: cancel, done: done}
	s.pad.SetStatus(fmt.Sprintf("rotation %d", dev.Rotation()))
}

// stopChain cancels the poller and waits for the consumers to drain. After it
// returns the device is no longer used by any goroutine.
func (s *appState) stopChain() {
	if s.chain == nil {
		return
	}
	s.chain.cancel()
	<-s.chain.done
	s.chain = nil
}

// handleRotate advances the output rotation and stores it.
func handleRotate(state *appState) {
	state.mu.Lock()
	dev := state.device
	state.mu.Unlock()
	if dev == nil {
		return
	}

	state.stopChain()
	dev.SetRotation(dev.Rotation() + 1)
	state.cfg.Mapping.Rotation = dev.Rotation()
	state.pad.SetBounds(dev.Bounds())
	state.startChain()

	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
	}
}
