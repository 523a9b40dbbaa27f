package ui

import (
	"context"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/Pratham82/real-time-notes/internal/controller"
	"github.com/Pratham82/real-time-notes/internal/export"
	"github.com/Pratham82/real-time-notes/internal/state"
)

// Run opens a canvas window against the store at addr and blocks until the
// window closes. It owns the session's controller lifecycle: started before
// the window shows, closed when the window goes away.
func Run(addr string, session *state.Session, syncer controller.SyncAPI, flushInterval time.Duration) {
	a := app.New()
	w := a.NewWindow("Real-Time Notes - " + addr)
	w.Resize(fyne.NewSize(1024, 768))

	status := widget.NewLabel("Connected to " + addr)

	var surface *CanvasWidget
	ctrl := controller.New(session, syncer, controller.Options{
		FlushInterval: flushInterval,
		OnChange: func() {
			fyne.Do(func() {
				if surface != nil {
					surface.Refresh()
				}
			})
		},
		OnWarning: func(msg string) {
			fyne.Do(func() {
				status.SetText(msg)
			})
		},
	})
	surface = NewCanvasWidget(ctrl, session)

	toolbar := NewToolbar(session,
		func() { ctrl.Clear() },
		func() { exportBoard(w, session) },
	)

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, surface))
	w.SetOnClosed(ctrl.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	err := ctrl.Start(ctx)
	cancel()
	if err != nil {
		log.Printf("[ui] session start failed: %v", err)
		status.SetText("Could not reach the store: " + err.Error())
	}

	w.ShowAndRun()
}

func exportBoard(w fyne.Window, session *state.Session) {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if err := export.WritePDF(writer, session.Board.Snapshot()); err != nil {
			log.Printf("[ui] export failed: %v", err)
			dialog.ShowError(err, w)
			return
		}
		log.Printf("[ui] exported board to %s", writer.URI())
	}, w)
}
