package adapter

import (
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emsms/emu"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the Master System emulator.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            "emsms",
		ConsoleName:     "Sega Master System",
		Extensions:      []string{".sms"},
		ScreenWidth:     emu.ScreenWidth,
		MaxScreenHeight: emu.MaxScreenHeight,
		AspectRatio:     float64(emu.ScreenWidth) / float64(emu.ScreenHeight),
		SampleRate:      emu.SampleRate,
		Buttons: []emucore.Button{
			{Name: "1", ID: emu.Button1, DefaultKey: "J", DefaultPad: "A"},
			{Name: "2", ID: emu.Button2, DefaultKey: "K", DefaultPad: "B"},
			{Name: "Pause", ID: emu.ButtonPause, DefaultKey: "Enter", DefaultPad: "Start"},
		},
		Players:       2,
		RDBName:       "Sega - Master System - Mark III",
		ThumbnailRepo: "Sega_-_Master_System_-_Mark_III",
		DataDirName:   "emsms",
		ConsoleID:     11,
		CoreName:      emu.Name,
		CoreVersion:   emu.Version,
	}
}

// CreateEmulator creates a new emulator instance with the given ROM and
// region. A copier header in front of the image is dropped first.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	e, err := emu.NewEmulator(emu.StripCopierHeader(rom), region)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DetectRegion returns the region for a ROM. The bool return is false
// since the header carries no refresh rate and no database is consulted.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emu.DetectRegion(rom), false
}
