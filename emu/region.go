package emu

import (
	"fmt"
	"strings"

	emucore "github.com/user-none/eblitui/api"
)

// Region is an alias for emucore.Region so the core and frontends share it.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// RegionTiming holds timing constants for a specific region.
type RegionTiming struct {
	Z80ClockHz int // Z80 clock frequency
	Scanlines  int // Total scanlines per frame
	FPS        int // Frames per second
}

// NTSC timing: Z80 3.579545 MHz, 262 scanlines, 60 Hz
var NTSCTiming = RegionTiming{
	Z80ClockHz: 3579545,
	Scanlines:  262,
	FPS:        60,
}

// PAL timing: Z80 3.546893 MHz, 313 scanlines, 50 Hz
var PALTiming = RegionTiming{
	Z80ClockHz: 3546893,
	Scanlines:  313,
	FPS:        50,
}

// CyclesPerFrame is the CPU budget of one frame: the clock divided by the
// frame rate, rounded to the nearest cycle (59659 NTSC, 70938 PAL).
func (t RegionTiming) CyclesPerFrame() int {
	return (t.Z80ClockHz + t.FPS/2) / t.FPS
}

// GetTimingForRegion returns the appropriate timing constants
func GetTimingForRegion(r Region) RegionTiming {
	if r == RegionPAL {
		return PALTiming
	}
	return NTSCTiming
}

// DetectRegion returns the display timing region for a ROM. The cartridge
// header records a market (Japan, export) but not a refresh rate, so every
// image starts as NTSC and PAL is chosen by the user.
func DetectRegion(rom []byte) Region {
	return DefaultRegion()
}

// DefaultRegion returns the default region (NTSC).
func DefaultRegion() Region {
	return RegionNTSC
}

// ParseRegion resolves a region name given on the command line. "auto"
// defers to DetectRegion for the ROM.
func ParseRegion(name string, rom []byte) (Region, error) {
	switch strings.ToLower(name) {
	case "auto", "":
		return DetectRegion(rom), nil
	case "ntsc":
		return RegionNTSC, nil
	case "pal":
		return RegionPAL, nil
	}
	return RegionNTSC, fmt.Errorf("invalid region %q (use auto, ntsc, or pal)", name)
}
