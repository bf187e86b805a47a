// Command framedump runs a ROM headless for a number of frames and writes
// each frame to disk as a still image.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/user-none/emsms/emu"
	"github.com/user-none/emsms/export"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM file (required)")
	frames := flag.Int("frames", 60, "number of frames to run")
	outDir := flag.String("out", "frames", "output directory")
	formatFlag := flag.String("format", "ppm", "image format: ppm or bmp")
	regionFlag := flag.String("region", "auto", "region: auto, ntsc, or pal")
	every := flag.Int("every", 1, "write every Nth frame")
	scale := flag.Int("scale", 1, "integer scale factor for written images")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("ROM path is required. Usage: framedump -rom <path> [-frames N] [-out dir]")
	}
	if *every < 1 {
		*every = 1
	}

	format, err := export.ParseFormat(*formatFlag)
	if err != nil {
		log.Fatal(err)
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("Failed to load ROM: %v", err)
	}
	romData = emu.StripCopierHeader(romData)

	region, err := emu.ParseRegion(*regionFlag, romData)
	if err != nil {
		log.Fatal(err)
	}

	e, err := emu.NewEmulator(romData, region)
	if err != nil {
		log.Fatalf("Failed to initialize emulator: %v", err)
	}
	defer e.Close()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	start := time.Now()
	for i := 0; i < *frames; i++ {
		e.RunFrame()
		log.Printf("frame %d/%d: %d cycles", i+1, *frames, e.LastFrameCycles())

		if i%*every != 0 {
			continue
		}

		img := export.FromRGBA(e.GetFramebuffer(), e.GetFramebufferStride(), emu.ScreenWidth, e.GetActiveHeight())
		path := filepath.Join(*outDir, fmt.Sprintf("frame_%04d%s", i, format.Ext()))
		if err := writeFrame(path, export.Scale(img, *scale), format); err != nil {
			log.Fatal(err)
		}
	}
	log.Printf("Done in %v", time.Since(start))
}

func writeFrame(path string, img *image.RGBA, format export.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Write(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
