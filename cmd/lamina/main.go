package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"lamina/pkg/scene"
	"lamina/pkg/surface"
)

func main() {
	output := flag.String("o", "output.png", "output PNG file path")
	dump := flag.Bool("dump", false, "print the layer tree after rendering")
	hit := flag.String("hit", "", "hit test a point, e.g. -hit 120,80")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lamina [flags] <scene.js>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	scenePath := flag.Arg(0)

	doc, err := scene.LoadFile(scenePath, surface.NewBitmapFactory())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	frame, err := doc.Snapshot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}

	if *dump {
		fmt.Print(doc.Dump())
	}

	if *hit != "" {
		var x, y float64
		if _, err := fmt.Sscanf(*hit, "%f,%f", &x, &y); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -hit point %q: %v\n", *hit, err)
			os.Exit(1)
		}
		if box := doc.BoxAt(x, y); box != nil {
			fmt.Printf("Hit at (%g,%g): %s %v\n", x, y, box.Name(), box.GlobalBounds())
		} else {
			fmt.Printf("Hit at (%g,%g): nothing\n", x, y)
		}
	}

	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := png.Encode(f, frame); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding PNG: %v\n", err)
		os.Exit(1)
	}

	w, h := doc.Size()
	fmt.Printf("Rendered %s to %s (%dx%d)\n", scenePath, *output, w, h)
}
