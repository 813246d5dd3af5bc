package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/goxpt/pkg/bridge"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
// Changes take effect on the next connect.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createScreenTab(state),
		createMappingTab(state),
		createRemoteTab(state),
		createMockTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(480, 400))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(480, 400))
	d.Show()
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := bridge.Ports()
	if err != nil {
		ports = nil
	}

	currentPort := state.cfg.Serial.Port
	found := false
	for _, p := range ports {
		if p == currentPort {
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		ports = append(ports, currentPort)
	}

	portSelect := widget.NewSelect(ports, nil)
	if currentPort != "" {
		portSelect.SetSelected(currentPort)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	timeoutEntry := widget.NewEntry()
	timeoutEntry.SetText(state.cfg.Serial.Timeout.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
			{Text: "Timeout", Widget: timeoutEntry},
		},
		OnSubmit: func() {
			if portSelect.Selected != "" {
				state.cfg.Serial.Port = portSelect.Selected
			}
			if v, err := strconv.Atoi(baudEntry.Text); err == nil && v > 0 {
				state.cfg.Serial.BaudRate = v
			}
			if v, err := time.ParseDuration(timeoutEntry.Text); err == nil && v > 0 {
				state.cfg.Serial.Timeout = v
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Serial", form)
}

// createScreenTab creates the Screen and Sampling configuration tab.
func createScreenTab(state *appState) *container.TabItem {
	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.Itoa(state.cfg.Screen.Width))

	heightEntry := widget.NewEntry()
	heightEntry.SetText(strconv.Itoa(state.cfg.Screen.Height))

	sampleSizeEntry := widget.NewEntry()
	sampleSizeEntry.SetText(strconv.Itoa(state.cfg.Sampling.SampleSize))

	intervalEntry := widget.NewEntry()
	intervalEntry.SetText(state.cfg.Sampling.Interval.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Width (px)", Widget: widthEntry},
			{Text: "Height (px)", Widget: heightEntry},
			{Text: "Samples per pass", Widget: sampleSizeEntry},
			{Text: "Poll interval", Widget: intervalEntry},
		},
		OnSubmit: func() {
			if v, err := strconv.Atoi(widthEntry.Text); err == nil && v > 0 {
				state.cfg.Screen.Width = v
			}
			if v, err := strconv.Atoi(heightEntry.Text); err == nil && v > 0 {
				state.cfg.Screen.Height = v
			}
			if v, err := strconv.Atoi(sampleSizeEntry.Text); err == nil && v >= 2 {
				state.cfg.Sampling.SampleSize = v
			}
			if v, err := time.ParseDuration(intervalEntry.Text); err == nil && v > 0 {
				state.cfg.Sampling.Interval = v
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Screen", form)
}

// createMappingTab creates the Mapping configuration tab.
func createMappingTab(state *appState) *container.TabItem {
	xScaleEntry := widget.NewEntry()
	xScaleEntry.SetText(fmt.Sprintf("%.6f", state.cfg.Mapping.XScale))

	yScaleEntry := widget.NewEntry()
	yScaleEntry.SetText(fmt.Sprintf("%.6f", state.cfg.Mapping.YScale))

	xOffsetEntry := widget.NewEntry()
	xOffsetEntry.SetText(strconv.Itoa(state.cfg.Mapping.XOffset))

	yOffsetEntry := widget.NewEntry()
	yOffsetEntry.SetText(strconv.Itoa(state.cfg.Mapping.YOffset))

	rotationSelect := widget.NewSelect([]string{"0", "1", "2", "3"}, nil)
	rotationSelect.SetSelected(strconv.Itoa(state.cfg.Mapping.Rotation))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "X Scale", Widget: xScaleEntry},
			{Text: "X Offset", Widget: xOffsetEntry},
			{Text: "Y Scale", Widget: yScaleEntry},
			{Text: "Y Offset", Widget: yOffsetEntry},
			{Text: "Rotation", Widget: rotationSelect},
		},
		OnSubmit: func() {
			m := state.cfg.Mapping
			if v, err := strconv.ParseFloat(xScaleEntry.Text, 32); err == nil {
				m.XScale = float32(v)
			}
			if v, err := strconv.ParseFloat(yScaleEntry.Text, 32); err == nil {
				m.YScale = float32(v)
			}
			if v, err := strconv.Atoi(xOffsetEntry.Text); err == nil {
				m.XOffset = v
			}
			if v, err := strconv.Atoi(yOffsetEntry.Text); err == nil {
				m.YOffset = v
			}
			if v, err := strconv.Atoi(rotationSelect.Selected); err == nil {
				m.Rotation = v
			}

			if !m.Mapping().Valid() {
				dialog.ShowError(fmt.Errorf("scales must be finite and non-zero"), state.window)
				return
			}
			state.cfg.Mapping = m
			saveConfig(state)
		},
	}

	return container.NewTabItem("Mapping", form)
}

// createRemoteTab creates the WebSocket configuration tab.
func createRemoteTab(state *appState) *container.TabItem {
	listenEntry := widget.NewEntry()
	listenEntry.SetPlaceHolder("disabled")
	listenEntry.SetText(state.cfg.Remote.Listen)

	pathEntry := widget.NewEntry()
	pathEntry.SetText(state.cfg.Remote.Path)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Listen", Widget: listenEntry},
			{Text: "Path", Widget: pathEntry},
			{Text: "", Widget: widget.NewLabel("Takes effect after restart")},
		},
		OnSubmit: func() {
			state.cfg.Remote.Listen = listenEntry.Text
			if pathEntry.Text != "" {
				state.cfg.Remote.Path = pathEntry.Text
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Remote", form)
}

// createMockTab creates the simulated panel configuration tab.
func createMockTab(state *appState) *container.TabItem {
	noiseEntry := widget.NewEntry()
	noiseEntry.SetText(strconv.Itoa(state.cfg.Mock.NoiseLevel))

	rawMinEntry := widget.NewEntry()
	rawMinEntry.SetText(strconv.Itoa(state.cfg.Mock.RawMin))

	rawMaxEntry := widget.NewEntry()
	rawMaxEntry.SetText(strconv.Itoa(state.cfg.Mock.RawMax))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Noise (ADC units)", Widget: noiseEntry},
			{Text: "Raw Min", Widget: rawMinEntry},
			{Text: "Raw Max", Widget: rawMaxEntry},
		},
		OnSubmit: func() {
			if v, err := strconv.Atoi(noiseEntry.Text); err == nil && v >= 0 {
				state.cfg.Mock.NoiseLevel = v
			}
			lo, errLo := strconv.Atoi(rawMinEntry.Text)
			hi, errHi := strconv.Atoi(rawMaxEntry.Text)
			if errLo == nil && errHi == nil && lo > 0 && hi < 4095 && lo < hi {
				state.cfg.Mock.RawMin = lo
				state.cfg.Mock.RawMax = hi
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Mock", form)
}

func saveConfig(state *appState) {
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
	}
}
