package visualtest

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"lamina/pkg/scene"
	"lamina/pkg/surface"
)

// RenderScene builds the document a scene script describes and
// rasterizes one frame at the script's viewport size.
func RenderScene(script string) (*image.RGBA, error) {
	doc, err := scene.Load(script, surface.NewBitmapFactory())
	if err != nil {
		return nil, err
	}
	return doc.Snapshot()
}

// RenderSceneToFile renders a scene script to a PNG file.
func RenderSceneToFile(script, outputPath string) error {
	img, err := RenderScene(script)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := savePNG(img, outputPath); err != nil {
		return fmt.Errorf("save error: %w", err)
	}
	return nil
}

// RenderSceneFile renders a scene script file to a PNG file.
func RenderSceneFile(scenePath, outputPath string) error {
	script, err := os.ReadFile(scenePath)
	if err != nil {
		return fmt.Errorf("failed to read scene file: %w", err)
	}
	return RenderSceneToFile(string(script), outputPath)
}
