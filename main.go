package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	emubridge "github.com/user-none/emsms/bridge/ebiten"
	"github.com/user-none/emsms/cli"
	"github.com/user-none/emsms/emu"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM file (required)")
	regionFlag := flag.String("region", "auto", "region: auto, ntsc, or pal")
	scale := flag.Int("scale", 2, "initial window scale")
	integer := flag.Bool("integer", false, "snap the picture to whole-number scales")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("ROM path is required. Usage: emsms -rom <path>")
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

	if h, err := emu.ParseHeader(romData); err != nil {
		log.Printf("No cartridge header: %v", err)
	} else {
		log.Printf("Product %05d version %d", h.ProductCode, h.Version)
		if err := emu.ValidateChecksum(romData); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	e, err := emubridge.NewEmulator(romData, region)
	if err != nil {
		log.Fatalf("Failed to initialize emulator: %v", err)
	}
	e.IntegerScale = *integer

	if *scale < 1 {
		*scale = 1
	}
	ebiten.SetWindowSize(emu.ScreenWidth**scale, emu.ScreenHeight**scale)
	ebiten.SetWindowTitle(emu.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(emu.ScreenWidth, emu.ScreenHeight, -1, -1)
	ebiten.SetTPS(60)

	runner := cli.NewRunner(e)
	defer runner.Close()
	defer e.Close()

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}
}
