package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

const timerRefresh = 100 * time.Millisecond

// timer shows the time since the last call
type timer struct {
	startTime time.Time
	mtx       *sync.Mutex
	text      *canvas.Text
}

func newTimer() *timer {
	return &timer{
		mtx:  &sync.Mutex{},
		text: canvas.NewText("--:--.-", nil),
	}
}

func (t *timer) Set(start time.Time) {
	t.mtx.Lock()
	t.startTime = start
	t.mtx.Unlock()
}

func (t *timer) Go(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(timerRefresh)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			t.mtx.Lock()
			start := t.startTime
			t.mtx.Unlock()
			if start.IsZero() {
				continue
			}

			elapsed := time.Since(start)
			text := fmt.Sprintf("%02d:%02d.%d", int(elapsed.Minutes()), int(elapsed.Seconds())%60, int(elapsed.Milliseconds())%1000/100)
			fyne.Do(func() {
				t.text.Text = text
				t.text.Refresh()
			})
		}
	}()
}
