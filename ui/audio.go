package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/user-none/emsms/emu"
)

const (
	audioChannels = 2

	// audioBufferTime is how much audio the ring buffer holds before the
	// oldest samples are dropped.
	audioBufferTime = 170 * time.Millisecond

	// playerBufferTime is the amount oto keeps queued inside the player.
	playerBufferTime = 100 * time.Millisecond
)

// audioBytesPerSecond is the byte rate of the interleaved stereo stream.
const audioBytesPerSecond = emu.SampleRate * audioChannels * bytesPerSample

// AudioPlayer feeds emulator audio frames to oto. The emulator produces
// one frame of samples per video frame, so the amount of queued audio
// doubles as the clock the emulation loop paces itself against.
type AudioPlayer struct {
	player     *oto.Player
	ringBuffer *AudioRingBuffer
}

// oto allows only one context per process.
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

func ensureOtoContext() (*oto.Context, error) {
	otoInitOnce.Do(func() {
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   emu.SampleRate,
			ChannelCount: audioChannels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		})
		if otoInitErr != nil {
			return
		}
		<-ready
	})
	return otoCtx, otoInitErr
}

// durationBytes converts a playback duration to a byte count aligned to
// whole stereo frames.
func durationBytes(d time.Duration) int {
	n := int(int64(audioBytesPerSecond) * int64(d) / int64(time.Second))
	return n - n%(audioChannels*bytesPerSample)
}

// bytesDuration converts a byte count back to playback time.
func bytesDuration(n int) time.Duration {
	return time.Duration(int64(n) * int64(time.Second) / audioBytesPerSecond)
}

// NewAudioPlayer opens the shared oto context and starts playback at the
// given volume.
func NewAudioPlayer(volume float64) (*AudioPlayer, error) {
	ctx, err := ensureOtoContext()
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}

	rb := NewAudioRingBuffer(durationBytes(audioBufferTime))
	player := ctx.NewPlayer(rb)
	player.SetBufferSize(durationBytes(playerBufferTime))
	player.SetVolume(volume)
	player.Play()

	return &AudioPlayer{player: player, ringBuffer: rb}, nil
}

// QueueSamples queues interleaved stereo samples for playback.
func (a *AudioPlayer) QueueSamples(samples []int16) {
	a.ringBuffer.WriteSamples(samples)
}

// Buffered returns how much queued audio has not been played yet, both
// in the ring buffer and inside the oto player.
func (a *AudioPlayer) Buffered() time.Duration {
	return bytesDuration(a.ringBuffer.Buffered() + a.player.BufferedSize())
}

// SetVolume sets the playback volume (0.0 = silent, 1.0 = full).
func (a *AudioPlayer) SetVolume(vol float64) {
	a.player.SetVolume(vol)
}

// Close stops playback and releases the player.
func (a *AudioPlayer) Close() {
	if a.ringBuffer != nil {
		a.ringBuffer.Close()
	}
	if a.player != nil {
		a.player.Close()
	}
}
