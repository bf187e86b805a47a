package emu

const (
	Name    = "emsms"
	Version = "0.1.0"
)
