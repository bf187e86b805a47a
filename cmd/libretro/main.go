package main

import (
	libretro "github.com/user-none/eblitui/libretro"
	"github.com/user-none/emsms/adapter"
	"github.com/user-none/emsms/emu"
)

func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{
		{RetroID: libretro.JoypadB, BitID: emu.Button1},
		{RetroID: libretro.JoypadA, BitID: emu.Button2},
		{RetroID: libretro.JoypadStart, BitID: emu.ButtonPause},
	})
}

func main() {}
