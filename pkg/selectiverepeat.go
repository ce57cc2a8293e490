package protocol

import (
	"go.uber.org/zap"
)

// SelectiveRepeatSender keeps up to windowSize packets in flight with a timer
// and an acknowledged flag per sequence number. Timeouts resend single
// packets, never the window.
type SelectiveRepeatSender struct {
	channel      *Channel
	clock        Clock
	log          *zap.Logger
	packets      []*Packet
	total        int
	windowSize   int
	base         int
	acknowledged []bool
	timers       []Tick
	timeout      Tick
}

func NewSelectiveRepeatSender(channel *Channel, clock Clock, total, windowSize, payloadSize int, timeout Tick, log *zap.Logger) *SelectiveRepeatSender {
	if log == nil {
		log = zap.NewNop()
	}
	packets := make([]*Packet, total)
	timers := make([]Tick, total)
	for i := 0; i < total; i++ {
		packets[i] = NewPacket(i, MakePayload(i, payloadSize), false)
		timers[i] = noTimer
	}
	return &SelectiveRepeatSender{
		channel:      channel,
		clock:        clock,
		log:          log,
		packets:      packets,
		total:        total,
		windowSize:   windowSize,
		acknowledged: make([]bool, total),
		timers:       timers,
		timeout:      timeout,
	}
}

// BeginTransmission sends every window packet that is neither acknowledged nor
// already timed, starting its individual timer.
func (s *SelectiveRepeatSender) BeginTransmission() {
	limit := min(s.base+s.windowSize, s.total)
	for seq := s.base; seq < limit; seq++ {
		if !s.acknowledged[seq] && s.timers[seq] == noTimer {
			s.log.Debug("sending packet", zap.Int("seq", seq))
			s.channel.Transmit(s.packets[seq], ToReceiver)
			s.timers[seq] = s.clock.Now()
		}
	}
}

// ProcessAck marks exactly one sequence number acknowledged, then slides base
// past the contiguous acknowledged run so the window can refill.
func (s *SelectiveRepeatSender) ProcessAck(ack *Packet) {
	if ack.IsDamaged() {
		s.log.Debug("corrupted ack ignored", zap.Int("seq", ack.Sequence))
		return
	}
	seq := ack.Sequence
	if seq < 0 || seq >= s.total || s.acknowledged[seq] {
		return
	}

	s.log.Debug("ack accepted", zap.Int("seq", seq))
	s.acknowledged[seq] = true
	s.timers[seq] = noTimer

	oldBase := s.base
	for s.base < s.total && s.acknowledged[s.base] {
		s.base++
	}
	if oldBase != s.base {
		s.log.Debug("window advanced", zap.Int("base", s.base))
	}
	s.BeginTransmission()
}

// CheckTimeout resends each expired unacknowledged window packet on its own,
// restarting only that packet's timer.
func (s *SelectiveRepeatSender) CheckTimeout() {
	now := s.clock.Now()
	limit := min(s.base+s.windowSize, s.total)
	for seq := s.base; seq < limit; seq++ {
		if !s.acknowledged[seq] && s.timers[seq] != noTimer && now-s.timers[seq] > s.timeout {
			s.log.Debug("packet timeout, resending", zap.Int("seq", seq))
			s.channel.Transmit(s.packets[seq], ToReceiver)
			s.timers[seq] = now
		}
	}
}

func (s *SelectiveRepeatSender) Base() int {
	return s.base
}

// SelectiveRepeatReceiver buffers out-of-order arrivals inside its window and
// acknowledges each packet individually. A packet from the previous window is
// a duplicate whose ack was likely lost, so it is re-acked without
// re-buffering. Damaged packets are dropped with no acknowledgment.
type SelectiveRepeatReceiver struct {
	channel    *Channel
	log        *zap.Logger
	windowSize int
	base       int
	buffer     map[int]string
	received   []string
}

func NewSelectiveRepeatReceiver(channel *Channel, windowSize int, log *zap.Logger) *SelectiveRepeatReceiver {
	if log == nil {
		log = zap.NewNop()
	}
	return &SelectiveRepeatReceiver{
		channel:    channel,
		log:        log,
		windowSize: windowSize,
		buffer:     make(map[int]string),
	}
}

func (r *SelectiveRepeatReceiver) Receive(pkt *Packet) {
	if pkt.IsDamaged() {
		r.log.Debug("damaged packet dropped", zap.Int("seq", pkt.Sequence))
		return
	}

	seq := pkt.Sequence
	switch {
	case seq >= r.base && seq < r.base+r.windowSize:
		r.log.Debug("buffering packet", zap.Int("seq", seq))
		r.buffer[seq] = pkt.Payload
		r.channel.Transmit(NewAck(seq), ToSender)
	case seq >= r.base-r.windowSize && seq < r.base:
		r.log.Debug("re-acking delivered packet", zap.Int("seq", seq))
		r.channel.Transmit(NewAck(seq), ToSender)
	default:
		r.log.Debug("packet outside window", zap.Int("seq", seq), zap.Int("base", r.base))
	}

	for {
		payload, ok := r.buffer[r.base]
		if !ok {
			break
		}
		r.received = append(r.received, payload)
		delete(r.buffer, r.base)
		r.base++
	}
}

func (r *SelectiveRepeatReceiver) Delivered() []string {
	return r.received
}
