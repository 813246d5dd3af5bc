package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/itohio/goxpt/pkg/xpt2046"
)

const calibrationTimeout = 2 * time.Minute

// handleCalibrate runs the four corner calibration and stores the result.
// Sampling is paused while the calibration owns the device.
func handleCalibrate(state *appState) {
	state.mu.Lock()
	dev := state.device
	state.mu.Unlock()
	if dev == nil {
		return
	}

	state.stopChain()
	state.calibrateBtn.Disable()
	state.rotateBtn.Disable()
	state.connectBtn.Disable()

	// Corners are physical, so show them in the unrotated frame.
	rotation := dev.Rotation()
	dev.SetRotation(0)
	state.pad.Clear()
	state.pad.SetBounds(dev.Bounds())
	state.pad.SetStatus("calibrating")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), calibrationTimeout)
		defer cancel()

		err := dev.CalibrateContext(ctx, xpt2046.CalibrateOptions{
			Interval:    10 * time.Millisecond,
			WaitRelease: true,
			OnCorner: func(c xpt2046.Corner) {
				fyne.Do(func() {
					state.pad.SetTarget(c)
				})
			},
			OnCaptured: func(c xpt2046.Corner, p xpt2046.Position) {
				log.Printf("Captured %s at %d,%d", c, p.X, p.Y)
			},
		})

		fyne.Do(func() {
			finishCalibration(state, dev, rotation, err)
		})
	}()
}

func finishCalibration(state *appState, dev *xpt2046.Device, rotation int, err error) {
	dev.SetRotation(rotation)
	state.pad.ClearTarget()
	state.pad.SetBounds(dev.Bounds())
	state.startChain()

	state.calibrateBtn.Enable()
	state.rotateBtn.Enable()
	state.connectBtn.Enable()

	if err != nil {
		dialog.ShowError(fmt.Errorf("calibration failed: %w", err), state.window)
		return
	}

	m := dev.Mapping()
	state.cfg.Mapping.SetMapping(m)
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
		return
	}

	log.Printf("Calibrated: x %.4f%+d, y %.4f%+d", m.XScale, m.XOffset, m.YScale, m.YOffset)
	dialog.ShowInformation("Calibration",
		fmt.Sprintf("X scale %.4f offset %d\nY scale %.4f offset %d", m.XScale, m.XOffset, m.YScale, m.YOffset),
		state.window)
}
