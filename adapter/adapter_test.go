package adapter

import (
	"testing"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emsms/emu"
)

func TestFactory_SystemInfo(t *testing.T) {
	info := (&Factory{}).SystemInfo()

	if info.ScreenWidth != 256 || info.MaxScreenHeight != 192 {
		t.Errorf("screen: expected 256x192, got %dx%d", info.ScreenWidth, info.MaxScreenHeight)
	}
	if info.Players != 2 {
		t.Errorf("players: expected 2, got %d", info.Players)
	}
	if info.CoreName != emu.Name || info.CoreVersion != emu.Version {
		t.Errorf("core: got %s %s", info.CoreName, info.CoreVersion)
	}

	seen := map[int]string{}
	for _, b := range info.Buttons {
		if b.ID <= emucore.ButtonRight {
			t.Errorf("button %q overlaps the d-pad bits (ID %d)", b.Name, b.ID)
		}
		if other, ok := seen[b.ID]; ok {
			t.Errorf("buttons %q and %q share ID %d", other, b.Name, b.ID)
		}
		seen[b.ID] = b.Name
	}
}

func TestFactory_CreateEmulator(t *testing.T) {
	f := &Factory{}

	if _, err := f.CreateEmulator(nil, emucore.RegionNTSC); err == nil {
		t.Error("expected error for an empty ROM")
	}

	rom := make([]byte, 512+0x8000)
	rom[512] = 0xF3
	e, err := f.CreateEmulator(rom, emucore.RegionPAL)
	if err != nil {
		t.Fatalf("CreateEmulator: %v", err)
	}
	defer e.Close()

	if e.GetRegion() != emucore.RegionPAL {
		t.Errorf("region: expected PAL, got %v", e.GetRegion())
	}
	sms, ok := e.(*emu.Emulator)
	if !ok {
		t.Fatalf("unexpected emulator type %T", e)
	}
	if got := sms.Bus().ReadByte(0); got != 0xF3 {
		t.Errorf("copier header not stripped: first byte 0x%02X", got)
	}
}

func TestFactory_DetectRegion(t *testing.T) {
	region, found := (&Factory{}).DetectRegion(make([]byte, 0x8000))

	if region != emucore.RegionNTSC {
		t.Errorf("expected NTSC, got %v", region)
	}
	if found {
		t.Error("detection is not database-backed")
	}
}
