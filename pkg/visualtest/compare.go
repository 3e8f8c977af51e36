// Package visualtest compares rendered frames pixel by pixel. Reftests
// build on it: two scene scripts that construct the same visual result
// through different trees must rasterize to the same image.
package visualtest

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// CompareResult reports the outcome of an image comparison.
type CompareResult struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int // largest color channel difference found
}

// CompareOptions configures the image comparison.
type CompareOptions struct {
	// Tolerance is the maximum allowed difference per color channel
	// (0-255). 2-5 absorbs rounding differences between blend paths,
	// 0 demands an exact match.
	Tolerance int

	// FuzzyRadius, if > 0, lets a pixel match any pixel within this
	// radius. Useful where content may land a pixel or two off.
	FuzzyRadius int

	// MaxDifferentPercent, if > 0, accepts the comparison when no more
	// than this percentage of pixels differ.
	MaxDifferentPercent float64

	// SaveDiffImage writes an image highlighting differing pixels in
	// red to DiffImagePath when the comparison fails.
	SaveDiffImage bool
	DiffImagePath string
}

// DefaultOptions returns sensible defaults for frame comparison.
func DefaultOptions() CompareOptions {
	return CompareOptions{
		Tolerance: 2,
	}
}

// CompareRendered compares two in-memory frames pixel by pixel.
func CompareRendered(actual, expected image.Image, opts CompareOptions) (*CompareResult, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return &CompareResult{Match: false},
			fmt.Errorf("image dimensions differ: actual=%v, expected=%v", bounds, expected.Bounds())
	}

	result := &CompareResult{
		Match:       true,
		TotalPixels: bounds.Dx() * bounds.Dy(),
	}

	var diffImg *image.RGBA
	if opts.SaveDiffImage {
		diffImg = image.NewRGBA(bounds)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ar, ag, ab, aa := rgba8(actual.At(x, y))
			er, eg, eb, ea := rgba8(expected.At(x, y))

			diff := maxInt(
				absInt(ar-er),
				absInt(ag-eg),
				absInt(ab-eb),
				absInt(aa-ea),
			)
			if diff > result.MaxDifference {
				result.MaxDifference = diff
			}

			if diff <= opts.Tolerance {
				if diffImg != nil {
					gray := uint8(ar)
					diffImg.Set(x, y, color.RGBA{gray, gray, gray, 255})
				}
				continue
			}

			if opts.FuzzyRadius > 0 && fuzzyMatch(actual, expected, x, y, opts.FuzzyRadius, opts.Tolerance, bounds) {
				if diffImg != nil {
					gray := uint8(ar)
					diffImg.Set(x, y, color.RGBA{gray, gray, gray, 255})
				}
				continue
			}

			result.Match = false
			result.DifferentPixels++
			if diffImg != nil {
				diffImg.Set(x, y, color.RGBA{255, 0, 0, 255})
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 {
		pct := float64(result.DifferentPixels) / float64(result.TotalPixels) * 100
		if pct <= opts.MaxDifferentPercent {
			result.Match = true
		}
	}

	if opts.SaveDiffImage && !result.Match && opts.DiffImagePath != "" {
		if err := savePNG(diffImg, opts.DiffImagePath); err != nil {
			return result, fmt.Errorf("failed to save diff image: %w", err)
		}
	}

	return result, nil
}

// CompareImages compares two PNG files pixel by pixel.
func CompareImages(actualPath, expectedPath string, opts CompareOptions) (*CompareResult, error) {
	actual, err := loadPNG(actualPath)
	if err != nil {
		return nil, fmt.Errorf("actual image: %w", err)
	}
	expected, err := loadPNG(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("expected image: %w", err)
	}
	return CompareRendered(actual, expected, opts)
}

// fuzzyMatch reports whether the actual pixel at (x, y) matches any
// expected pixel within radius.
func fuzzyMatch(actual, expected image.Image, x, y, radius, tolerance int, bounds image.Rectangle) bool {
	ar, ag, ab, aa := rgba8(actual.At(x, y))

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			nx, ny := x+dx, y+dy
			if nx < bounds.Min.X || nx >= bounds.Max.X || ny < bounds.Min.Y || ny >= bounds.Max.Y {
				continue
			}

			er, eg, eb, ea := rgba8(expected.At(nx, ny))
			diff := maxInt(
				absInt(ar-er),
				absInt(ag-eg),
				absInt(ab-eb),
				absInt(aa-ea),
			)
			if diff <= tolerance {
				return true
			}
		}
	}
	return false
}

// rgba8 returns the color's channels scaled down to 8 bits.
func rgba8(c color.Color) (r, g, b, a int) {
	cr, cg, cb, ca := c.RGBA()
	return int(cr >> 8), int(cg >> 8), int(cb >> 8), int(ca >> 8)
}

func loadPNG(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func savePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func maxInt(vals ...int) int {
	if len(vals) == 0 {
		return 0
	}
	max := vals[0]
	for _, v := range vals[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
