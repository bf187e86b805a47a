package emu

// SampleRate is the output rate advertised to frontends.
const SampleRate = 48000

// silenceFrame returns one frame of interleaved stereo silence for timing.
// Hosts that pace themselves on queued audio need a steady sample count
// even though the PSG is not emulated.
func silenceFrame(timing RegionTiming) []int16 {
	return make([]int16, 2*SampleRate/timing.FPS)
}
