package emu

import "testing"

func TestIO_UnmappedPortsReadOpenBus(t *testing.T) {
	bus := makeTestBus(makePagedROM(2))

	for _, port := range []uint8{0x00, 0x3E, 0x3F, 0x40, 0x41, 0x7D} {
		if got := bus.ReadPort(port); got != 0xFF {
			t.Errorf("port 0x%02X: expected 0xFF, got 0x%02X", port, got)
		}
	}
}

func TestIO_JoypadPorts(t *testing.T) {
	bus := makeTestBus(makePagedROM(2))

	if got := bus.ReadPort(0xDC); got != 0xFF {
		t.Errorf("released port A: expected 0xFF, got 0x%02X", got)
	}

	bus.SetJoypads(^padButton1, ^uint8(0x01))
	if got := bus.ReadPort(0xDC); got != 0xEF {
		t.Errorf("port A: expected 0xEF, got 0x%02X", got)
	}
	if got := bus.ReadPort(0xDD); got != 0xFE {
		t.Errorf("port B: expected 0xFE, got 0x%02X", got)
	}

	// Mirrors: any port with the top two bits set decodes by bit 0.
	if got := bus.ReadPort(0xC0); got != 0xEF {
		t.Errorf("port A mirror 0xC0: expected 0xEF, got 0x%02X", got)
	}
	if got := bus.ReadPort(0xFF); got != 0xFE {
		t.Errorf("port B mirror 0xFF: expected 0xFE, got 0x%02X", got)
	}
}

func TestIO_PortBUpperNibble(t *testing.T) {
	bus := makeTestBus(makePagedROM(2))
	bus.SetJoypads(0xFF, 0x00)

	if got := bus.ReadPort(0xDD); got != 0xF0 {
		t.Errorf("port B upper nibble should read high: got 0x%02X", got)
	}
}

func TestIO_VDPPorts(t *testing.T) {
	bus := makeTestBus(makePagedROM(2))
	vdp := bus.vdp

	// Set VRAM write address 0x0010 and write through port 0xBE.
	bus.WritePort(0xBF, 0x10)
	bus.WritePort(0xBF, 0x40)
	bus.WritePort(0xBE, 0xA5)

	if vdp.VRAM()[0x0010] != 0xA5 {
		t.Errorf("VRAM[0x10]: expected 0xA5, got 0x%02X", vdp.VRAM()[0x0010])
	}

	// Register write through a mirror of the control port.
	bus.WritePort(0x81, 0x60)
	bus.WritePort(0x81, 0x81)
	if vdp.Register(1) != 0x60 {
		t.Errorf("R1: expected 0x60, got 0x%02X", vdp.Register(1))
	}

	vdp.status = statusVBlank
	if got := bus.ReadPort(0xBF); got != statusVBlank {
		t.Errorf("status port: expected 0x80, got 0x%02X", got)
	}
}

func TestIO_CounterPorts(t *testing.T) {
	bus := makeTestBus(makePagedROM(2))
	vdp := bus.vdp

	vdp.StepCpuCycles(CyclesPerLine*100 + 10)

	if got := bus.ReadPort(0x7E); got != 100 {
		t.Errorf("V counter: expected 100, got %d", got)
	}
	if got := bus.ReadPort(0x7F); got != hCounterTable[10] {
		t.Errorf("H counter: expected 0x%02X, got 0x%02X", hCounterTable[10], got)
	}
}

func TestIO_PSGWritesIgnored(t *testing.T) {
	bus := makeTestBus(makePagedROM(2))

	bus.WritePort(0x7F, 0x9F)
	bus.WritePort(0x3F, 0xFF)

	if bus.vdp.Latched() {
		t.Error("writes outside the VDP range must not touch the control latch")
	}
}

func TestIO_PackJoypads(t *testing.T) {
	tests := []struct {
		name         string
		p1, p2       uint8
		port1, port2 uint8
	}{
		{"released", 0, 0, 0xFF, 0xFF},
		{"p1 up+button2", padUp | padButton2, 0, 0xDE, 0xFF},
		{"p2 up", 0, padUp, 0xBF, 0xFF},
		{"p2 down", 0, padDown, 0x7F, 0xFF},
		{"p2 left", 0, padLeft, 0xFF, 0xFE},
		{"p2 button1", 0, padButton1, 0xFF, 0xFB},
		{"p2 everything", 0, 0x3F, 0x3F, 0xF0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port1, port2 := packJoypads(tt.p1, tt.p2)
			if port1 != tt.port1 || port2 != tt.port2 {
				t.Errorf("expected 0x%02X/0x%02X, got 0x%02X/0x%02X", tt.port1, tt.port2, port1, port2)
			}
		})
	}
}
