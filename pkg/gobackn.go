package protocol

import (
	"go.uber.org/zap"
)

// GoBackNSender keeps up to windowSize packets in flight with one timer for
// the whole window and cumulative acknowledgment.
type GoBackNSender struct {
	channel    *Channel
	clock      Clock
	log        *zap.Logger
	packets    []*Packet
	total      int
	windowSize int
	base       int
	next       int
	timeout    Tick
	timerStart Tick
}

func NewGoBackNSender(channel *Channel, clock Clock, total, windowSize, payloadSize int, timeout Tick, log *zap.Logger) *GoBackNSender {
	if log == nil {
		log = zap.NewNop()
	}
	packets := make([]*Packet, total)
	for i := 0; i < total; i++ {
		packets[i] = NewPacket(i, MakePayload(i, payloadSize), false)
	}
	return &GoBackNSender{
		channel:    channel,
		clock:      clock,
		log:        log,
		packets:    packets,
		total:      total,
		windowSize: windowSize,
		timeout:    timeout,
		timerStart: noTimer,
	}
}

// BeginTransmission sends every unsent packet the window allows and arms the
// timer if it is not already running.
func (s *GoBackNSender) BeginTransmission() {
	limit := min(s.base+s.windowSize, s.total)
	for s.next < limit {
		s.log.Debug("sending packet", zap.Int("seq", s.next))
		s.channel.Transmit(s.packets[s.next], ToReceiver)
		s.next++
	}
	if s.timerStart == noTimer && s.base < s.next {
		s.timerStart = s.clock.Now()
	}
}

// ProcessAck treats a clean in-range ack as cumulative: everything up to and
// including its sequence number is confirmed at once.
func (s *GoBackNSender) ProcessAck(ack *Packet) {
	if ack.IsDamaged() {
		s.log.Debug("corrupted ack ignored", zap.Int("seq", ack.Sequence))
		return
	}
	if ack.Sequence < s.base || ack.Sequence >= s.total {
		return
	}

	s.log.Debug("cumulative ack",
		zap.Int("seq", ack.Sequence),
		zap.Int("oldBase", s.base))
	s.base = ack.Sequence + 1

	if s.base == s.next {
		s.timerStart = noTimer
	} else {
		s.timerStart = s.clock.Now()
	}
	s.BeginTransmission()
}

// CheckTimeout rolls next back to base and resends the entire outstanding
// window. There is no selective retransmission in this protocol.
func (s *GoBackNSender) CheckTimeout() {
	if s.timerStart != noTimer && s.clock.Now()-s.timerStart > s.timeout {
		s.log.Debug("window timeout", zap.Int("base", s.base))
		s.next = s.base
		s.BeginTransmission()
	}
}

func (s *GoBackNSender) Base() int {
	return s.base
}

// GoBackNReceiver enforces strict in-order acceptance. Out-of-order packets
// are dropped, never buffered, and every clean or damaged arrival is answered
// with a re-ack of the last sequence actually accepted (expected-1), which is
// the cumulative signal driving the sender's go-back-N recovery.
type GoBackNReceiver struct {
	channel  *Channel
	log      *zap.Logger
	expected int
	received []string
}

func NewGoBackNReceiver(channel *Channel, log *zap.Logger) *GoBackNReceiver {
	if log == nil {
		log = zap.NewNop()
	}
	return &GoBackNReceiver{channel: channel, log: log}
}

func (r *GoBackNReceiver) Receive(pkt *Packet) {
	if pkt.IsDamaged() {
		r.log.Debug("damaged packet", zap.Int("seq", pkt.Sequence))
		r.channel.Transmit(NewAck(r.expected-1), ToSender)
		return
	}

	if pkt.Sequence == r.expected {
		r.log.Debug("packet accepted", zap.Int("seq", pkt.Sequence))
		r.received = append(r.received, pkt.Payload)
		r.expected++
	} else {
		r.log.Debug("out-of-order packet dropped",
			zap.Int("seq", pkt.Sequence),
			zap.Int("expected", r.expected))
	}

	r.channel.Transmit(NewAck(r.expected-1), ToSender)
}

func (r *GoBackNReceiver) Delivered() []string {
	return r.received
}
