package gui

import (
	"context"
	"time"

	"fyne.io/fyne/v2"
)

type UpdateCallback func()

type AsyncManager struct {
	app    *App
	window fyne.Window
}

func NewAsyncManager(app *App, window fyne.Window) *AsyncManager {
	return &AsyncManager{
		app:    app,
		window: window,
	}
}

func (a *AsyncManager) RunAsync(fn func() UpdateCallback) {
	go func() {
		updateFn := fn()
		if updateFn != nil {
			a.RunOnUIThread(updateFn)
		}
	}()
}

func (a *AsyncManager) RunOnUIThread(fn UpdateCallback) {
	fn()
}

// Every calls fn on each tick until it returns false or ctx ends.
func (a *AsyncManager) Every(ctx context.Context, interval time.Duration, fn func() bool) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-a.app.Context().Done():
				return
			case <-ticker.C:
				keep := true
				a.RunOnUIThread(func() { keep = fn() })
				if !keep {
					return
				}
			}
		}
	}()
}
