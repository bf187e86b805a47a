package ui

import (
	"encoding/binary"
	"io"
	"sync"
)

// bytesPerSample is the encoded size of one int16 sample.
const bytesPerSample = 2

// AudioRingBuffer is a thread-safe ring buffer implementing io.Reader.
// The emulation goroutine writes int16 samples via WriteSamples, which
// are stored as little-endian bytes for oto to pull through Read. Read
// blocks when empty. A write that does not fit drops the oldest bytes
// so the producer never stalls.
type AudioRingBuffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []byte
	head   int // next byte to read
	count  int
	closed bool
}

// NewAudioRingBuffer creates a ring buffer holding up to capacity bytes.
// The capacity is rounded down to a whole number of samples.
func NewAudioRingBuffer(capacity int) *AudioRingBuffer {
	capacity -= capacity % bytesPerSample
	if capacity < bytesPerSample {
		capacity = bytesPerSample
	}
	rb := &AudioRingBuffer{buf: make([]byte, capacity)}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// WriteSamples encodes samples into the buffer. If the buffer would
// overflow, the oldest samples are discarded first.
func (rb *AudioRingBuffer) WriteSamples(samples []int16) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.closed || len(samples) == 0 {
		return
	}

	size := len(rb.buf)
	if max := size / bytesPerSample; len(samples) > max {
		samples = samples[len(samples)-max:]
	}

	n := len(samples) * bytesPerSample
	if over := rb.count + n - size; over > 0 {
		rb.head = (rb.head + over) % size
		rb.count -= over
	}

	// Sample boundaries always land on even offsets so a sample never
	// straddles the wrap point.
	pos := (rb.head + rb.count) % size
	for _, s := range samples {
		binary.LittleEndian.PutUint16(rb.buf[pos:], uint16(s))
		pos += bytesPerSample
		if pos == size {
			pos = 0
		}
	}
	rb.count += n

	rb.cond.Signal()
}

// Read implements io.Reader. It blocks until data is available and
// returns io.EOF once the buffer is closed and drained.
func (rb *AudioRingBuffer) Read(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for rb.count == 0 {
		if rb.closed {
			return 0, io.EOF
		}
		rb.cond.Wait()
	}

	n := len(p)
	if n > rb.count {
		n = rb.count
	}

	first := copy(p[:n], rb.buf[rb.head:])
	if first < n {
		copy(p[first:n], rb.buf)
	}
	rb.head = (rb.head + n) % len(rb.buf)
	rb.count -= n

	return n, nil
}

// Buffered returns the number of bytes waiting to be read.
func (rb *AudioRingBuffer) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Close signals shutdown and wakes any reader blocked in Read.
func (rb *AudioRingBuffer) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.cond.Broadcast()
}
