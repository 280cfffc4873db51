// Package ui is the operator panel: the floor reading, car calls, RESUME and the console log.
package ui

import (
	"bytes"
	"context"
	"image/color"
	"io"
	"strconv"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/autolift"
	"github.com/calvinmclean/autolift/controller"
)

const (
	appID        = "io.github.calvinmclean.autolift"
	lineBuffer   = 256
	maxLogLength = 8192
)

var errorColor = color.RGBA{R: 139, G: 0, B: 0, A: 255}

// LiftUI is an io.Writer for the console output and drives the panel from it
type LiftUI struct {
	// OnStart is called with the submitted config and the reader the panel writes commands to
	OnStart func(cfg controller.Config, commands io.Reader)

	mtx     sync.Mutex
	partial bytes.Buffer
	lines   chan string
}

func NewLiftUI() *LiftUI {
	return &LiftUI{lines: make(chan string, lineBuffer)}
}

// Write splits the console output into lines. Lines are dropped if the panel falls behind
func (ui *LiftUI) Write(p []byte) (int, error) {
	ui.mtx.Lock()
	defer ui.mtx.Unlock()

	ui.partial.Write(p)
	for {
		line, err := ui.partial.ReadString('\n')
		if err != nil {
			// keep the incomplete line for the next Write
			ui.partial.Reset()
			ui.partial.WriteString(line)
			break
		}

		select {
		case ui.lines <- strings.TrimRight(line, "\r\n"):
		default:
		}
	}

	return len(p), nil
}

// Run shows the config window and then the panel. It returns when the app quits
func (ui *LiftUI) Run(ctx context.Context, cfg *controller.Config) {
	application := app.NewWithID(appID)

	configWindow := NewConfigWindow(application)
	configWindow.OnSubmit = func() {
		r, w := io.Pipe()
		ui.showPanel(ctx, application, w)
		if ui.OnStart != nil {
			go ui.OnStart(*cfg, r)
		}
	}
	configWindow.Show(cfg)

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	application.Run()
}

func (ui *LiftUI) showPanel(ctx context.Context, application fyne.App, w io.Writer) {
	window := application.NewWindow("Auto Lift")

	tripTimer := newTimer()
	tripTimer.Go(ctx)
	c := &controllerWrapper{writer: w, tripTimer: tripTimer}

	reading := canvas.NewText("FLOOR=?", nil)
	reading.TextSize = 32
	reading.TextStyle = fyne.TextStyle{Bold: true}

	summary := widget.NewLabel("")

	var callButtons []fyne.CanvasObject
	for f := autolift.MaxFloor; f >= autolift.MinFloor; f-- {
		callButtons = append(callButtons, widget.NewButton("CALL "+strconv.Itoa(f), func() {
			c.Call(f)
		}))
	}

	logContent := widget.NewLabel("")
	logScroll := container.NewVScroll(logContent)
	logScroll.SetMinSize(fyne.NewSize(300, 120))
	logAccordion := widget.NewAccordion(widget.NewAccordionItem("Console", logScroll))

	content := container.NewVBox(
		container.NewHBox(
			container.NewPadded(reading),
			layout.NewSpacer(),
			container.NewPadded(tripTimer.text),
		),
		summary,
		container.NewGridWithColumns(len(callButtons), callButtons...),
		container.NewGridWithColumns(2,
			widget.NewButton("STATUS", c.Status),
			widget.NewButton("RESUME", c.Resume),
		),
		logAccordion,
	)

	go ui.consume(ctx, func(line string, state panelState) {
		fyne.Do(func() {
			text := logContent.Text + line + "\n"
			if len(text) > maxLogLength {
				text = text[len(text)-maxLogLength:]
			}
			logContent.SetText(text)
			logScroll.ScrollToBottom()

			if state.reading != "" {
				reading.Text = state.reading
				reading.Color = nil
				if state.reading == "ERROR" {
					reading.Color = errorColor
				}
				reading.Refresh()
			}
			summary.SetText(state.summary())
		})
	})

	window.SetContent(content)
	window.Resize(fyne.NewSize(360, 320))
	window.Show()

	// ask for the full state once so the summary is filled in. The pipe blocks until the
	// controller starts reading
	go c.Status()
}

func (ui *LiftUI) consume(ctx context.Context, update func(string, panelState)) {
	var state panelState
	for {
		select {
		case <-ctx.Done():
			return
		case line := <-ui.lines:
			state.apply(line)
			update(line, state)
		}
	}
}
