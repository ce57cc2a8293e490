package protocol

import (
	"fmt"
	"strings"
)

// Packet is the unit exchanged over the channel. All fields are fixed at
// construction; the checksum is never recomputed on a live packet, so a later
// payload mutation is detectable by IsDamaged.
type Packet struct {
	Sequence int
	Payload  string
	Ack      bool
	Checksum int
}

func NewPacket(sequence int, payload string, ack bool) *Packet {
	return &Packet{
		Sequence: sequence,
		Payload:  payload,
		Ack:      ack,
		Checksum: computeChecksum(sequence, payload),
	}
}

func NewAck(sequence int) *Packet {
	return NewPacket(sequence, "", true)
}

// computeChecksum is a toy integrity token, not a security property: it
// detects the channel's single-byte increments and nothing stronger.
func computeChecksum(sequence int, payload string) int {
	total := sequence
	for i := 0; i < len(payload); i++ {
		total += int(payload[i])
	}
	return total % 256
}

// IsDamaged recomputes the checksum from the current fields and compares it
// against the one stored at construction.
func (p *Packet) IsDamaged() bool {
	return p.Checksum != computeChecksum(p.Sequence, p.Payload)
}

func (p *Packet) String() string {
	return fmt.Sprintf("Packet(seq=%d, data=%q, ack=%v)", p.Sequence, p.Payload, p.Ack)
}

// MakePayload synthesizes the test payload for packet i: "DATA{i}-" padded
// with X up to size. No padding when the prefix already meets the size.
func MakePayload(i int, size int) string {
	prefix := fmt.Sprintf("DATA%d-", i)
	if len(prefix) >= size {
		return prefix
	}
	return prefix + strings.Repeat("X", size-len(prefix))
}
