package buffer

import (
	"encoding/binary"
	"math"
)

// Buffer is a FIFO of bytes. Producers append at the tail and the consumer
// removes a prefix from the head, so a partially written response survives
// across event-loop iterations.
type Buffer struct {
	data []byte
	head int
}

// Len returns the number of unconsumed bytes
func (b *Buffer) Len() int {
	return len(b.data) - b.head
}

// Data returns the unconsumed bytes. The slice is only valid until the next
// append or consume.
func (b *Buffer) Data() []byte {
	return b.data[b.head:]
}

// Append adds data at the tail
func (b *Buffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

// AppendByte adds a single byte at the tail
func (b *Buffer) AppendByte(v byte) {
	b.data = append(b.data, v)
}

// AppendU32 appends a little-endian uint32
func (b *Buffer) AppendU32(v uint32) {
	b.data = binary.LittleEndian.AppendUint32(b.data, v)
}

// AppendI64 appends a little-endian int64
func (b *Buffer) AppendI64(v int64) {
	b.data = binary.LittleEndian.AppendUint64(b.data, uint64(v))
}

// AppendF64 appends a float64 as its IEEE 754 bits, little-endian
func (b *Buffer) AppendF64(v float64) {
	b.data = binary.LittleEndian.AppendUint64(b.data, math.Float64bits(v))
}

// Consume removes n bytes from the head
func (b *Buffer) Consume(n int) {
	b.head += n
	if b.head == len(b.data) {
		b.data = b.data[:0]
		b.head = 0
	} else if b.head >= 4096 && b.head*2 >= len(b.data) {
		// slide the tail down so consumed bytes can be reclaimed
		n := copy(b.data, b.data[b.head:])
		b.data = b.data[:n]
		b.head = 0
	}
}
