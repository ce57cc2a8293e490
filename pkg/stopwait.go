package protocol

import (
	"go.uber.org/zap"
)

// StopWaitSender keeps at most one packet unacknowledged at a time. Data
// packets carry alternating sequence numbers 0 and 1.
type StopWaitSender struct {
	channel    *Channel
	clock      Clock
	log        *zap.Logger
	packets    []*Packet
	total      int
	base       int
	timeout    Tick
	timerStart Tick
}

func NewStopWaitSender(channel *Channel, clock Clock, total, payloadSize int, timeout Tick, log *zap.Logger) *StopWaitSender {
	if log == nil {
		log = zap.NewNop()
	}
	packets := make([]*Packet, total)
	for i := 0; i < total; i++ {
		packets[i] = NewPacket(i%2, MakePayload(i, payloadSize), false)
	}
	return &StopWaitSender{
		channel:    channel,
		clock:      clock,
		log:        log,
		packets:    packets,
		total:      total,
		timeout:    timeout,
		timerStart: noTimer,
	}
}

func (s *StopWaitSender) BeginTransmission() {
	if s.base < s.total && s.timerStart == noTimer {
		s.transmit(s.base)
	}
}

func (s *StopWaitSender) transmit(i int) {
	s.log.Debug("sending packet", zap.Int("index", i), zap.Int("seq", s.packets[i].Sequence))
	s.channel.Transmit(s.packets[i], ToReceiver)
	s.timerStart = s.clock.Now()
}

// ProcessAck advances past the outstanding packet only on a clean ack carrying
// its exact sequence number. A damaged ack is noise, not a NAK; any other
// sequence is logged and ignored so recovery stays timeout-driven.
func (s *StopWaitSender) ProcessAck(ack *Packet) {
	if ack.IsDamaged() {
		s.log.Debug("corrupted ack ignored", zap.Int("seq", ack.Sequence))
		return
	}
	// Delayed duplicates can still arrive after the final packet was
	// acknowledged; there is nothing outstanding to match them against.
	if s.base >= s.total {
		s.log.Debug("ack after completion ignored", zap.Int("seq", ack.Sequence))
		return
	}
	expected := s.packets[s.base].Sequence
	if ack.Ack && ack.Sequence == expected {
		s.log.Debug("ack accepted", zap.Int("index", s.base))
		s.base++
		s.timerStart = noTimer
		s.BeginTransmission()
	} else {
		s.log.Debug("unexpected ack",
			zap.Int("seq", ack.Sequence),
			zap.Int("expected", expected))
	}
}

func (s *StopWaitSender) CheckTimeout() {
	if s.timerStart != noTimer && s.clock.Now()-s.timerStart > s.timeout {
		s.log.Debug("timeout, resending", zap.Int("index", s.base))
		s.transmit(s.base)
	}
}

func (s *StopWaitSender) Base() int {
	return s.base
}

// StopWaitReceiver accepts strictly alternating sequence numbers. It echoes an
// ack for every clean packet it sees, duplicates included, and answers a
// damaged packet with an ack for the complement of its expectation: this
// protocol has no NAK, so the stale ack is the resend signal.
type StopWaitReceiver struct {
	channel  *Channel
	log      *zap.Logger
	expected int
	received []string
}

func NewStopWaitReceiver(channel *Channel, log *zap.Logger) *StopWaitReceiver {
	if log == nil {
		log = zap.NewNop()
	}
	return &StopWaitReceiver{channel: channel, log: log}
}

func (r *StopWaitReceiver) Receive(pkt *Packet) {
	if pkt.IsDamaged() {
		r.log.Debug("damaged packet", zap.Int("seq", pkt.Sequence))
		r.channel.Transmit(NewAck(1-r.expected), ToSender)
		return
	}

	if pkt.Sequence == r.expected {
		r.log.Debug("packet accepted", zap.Int("seq", pkt.Sequence))
		r.received = append(r.received, pkt.Payload)
		r.expected = 1 - r.expected
	} else {
		r.log.Debug("duplicate packet", zap.Int("seq", pkt.Sequence))
	}

	r.channel.Transmit(NewAck(pkt.Sequence), ToSender)
}

func (r *StopWaitReceiver) Delivered() []string {
	return r.received
}
