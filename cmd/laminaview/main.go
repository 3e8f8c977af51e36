package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/fsnotify/fsnotify"

	"lamina/pkg/scene"
	"lamina/pkg/surface"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <scene.js>\n", os.Args[0])
		os.Exit(1)
	}
	scenePath := os.Args[1]

	a := app.New()
	w := a.NewWindow("lamina viewer")
	w.Resize(fyne.NewSize(1024, 768))

	// Blank initial render target
	canvasImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 800, 600)))
	canvasImg.FillMode = canvas.ImageFillOriginal

	status := widget.NewLabel("Loading " + scenePath + "...")

	reload := func() {
		doc, err := scene.LoadFile(scenePath, surface.NewBitmapFactory())
		if err != nil {
			status.SetText("Error: " + err.Error())
			return
		}
		frame, err := doc.Snapshot()
		if err != nil {
			status.SetText("Render error: " + err.Error())
			return
		}
		width, height := doc.Size()
		canvasImg.Image = frame
		canvasImg.Refresh()
		status.SetText(fmt.Sprintf("%s (%dx%d)", scenePath, width, height))
		w.SetTitle(fmt.Sprintf("lamina viewer: %s", filepath.Base(scenePath)))
	}
	reload()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save, which
	// drops a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(scenePath)); err != nil {
		fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", scenePath, err)
		os.Exit(1)
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != filepath.Base(scenePath) {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				status.SetText("Watch error: " + err.Error())
			}
		}
	}()

	// Layout: image fills the center, status at the bottom
	content := container.NewBorder(nil, status, nil, nil, canvasImg)
	w.SetContent(content)

	w.ShowAndRun()
}
