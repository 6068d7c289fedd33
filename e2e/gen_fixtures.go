//go:build ignore

// gen_fixtures writes a directory of sample photos for smoke-testing a
// batch render:
//
//	go run ./e2e/gen_fixtures.go /tmp/photos
//	stylize render --dir /tmp/photos --out /tmp/stylized
//	stylize verify /tmp/stylized
//
// One fixture is deliberately truncated so the run reports a failure
// without aborting.
package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	must(os.MkdirAll(filepath.Join(dir, "wire"), 0o755))

	landscape := encodeJPEG(skyline(640, 360))
	must(os.WriteFile(filepath.Join(dir, "landscape.jpg"), landscape, 0o644))
	must(os.WriteFile(filepath.Join(dir, "portrait.png"), encodePNG(skyline(270, 480)), 0o644))
	must(os.WriteFile(filepath.Join(dir, "wire", "square.png"), encodePNG(framed(300, 300)), 0o644))
	must(os.WriteFile(filepath.Join(dir, "wire", "cutout.png"), encodePNG(cutout(240, 160)), 0o644))

	// A photo cut off mid-transfer.
	must(os.WriteFile(filepath.Join(dir, "broken.jpg"), landscape[:len(landscape)/3], 0o644))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

// skyline is a dusk gradient with a dark band along the bottom, so
// stacked copies are easy to tell apart.
func skyline(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{
				R: uint8(200 - y*120/h),
				G: uint8(90 + x*60/w),
				B: uint8(120 + y*100/h),
				A: 255,
			}
			if y > h*4/5 {
				c = color.NRGBA{R: 20, G: 24, B: 32, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func framed(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 40, G: 110, B: 180, A: 255}
			if x < 6 || x >= w-6 || y < 6 || y >= h-6 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// cutout fades to transparent on the right so the background shows
// through the layers.
func cutout(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 60, B: 30, A: uint8(255 - x*255/w)})
		}
	}
	return img
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	must(png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	must(jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}))
	return buf.Bytes()
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
