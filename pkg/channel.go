package protocol

import (
	"go.uber.org/zap"
)

// Destination tags which party an in-flight packet is addressed to.
type Destination int

const (
	ToReceiver Destination = iota
	ToSender
)

func (d Destination) String() string {
	if d == ToReceiver {
		return "receiver"
	}
	return "sender"
}

// FaultProfile holds the channel's fault rates for a whole run.
type FaultProfile struct {
	LossProbability       float64
	CorruptionProbability float64
	DelayProbability      float64
	MaxDelayTicks         int
}

// inFlightEntry is owned exclusively by the channel: created by Transmit,
// consumed and discarded by DeliverReady.
type inFlightEntry struct {
	packet  *Packet
	dueTime Tick
	dest    Destination
}

// Channel is the unreliable link. On every Transmit it independently samples
// loss, corruption and delay, then holds the packet until the clock reaches
// its due time and the addressed party polls for it.
type Channel struct {
	profile  FaultProfile
	clock    Clock
	rng      Rand
	log      *zap.Logger
	inFlight []inFlightEntry
}

func NewChannel(profile FaultProfile, clock Clock, rng Rand, log *zap.Logger) *Channel {
	if log == nil {
		log = zap.NewNop()
	}
	return &Channel{
		profile: profile,
		clock:   clock,
		rng:     rng,
		log:     log,
	}
}

// Transmit samples the three fault events in order (loss, corruption, delay)
// and schedules the surviving packet. A lost packet leaves no trace.
func (ch *Channel) Transmit(pkt *Packet, dest Destination) {
	if ch.rng.Float64() < ch.profile.LossProbability {
		ch.log.Debug("packet lost",
			zap.Stringer("to", dest),
			zap.Int("seq", pkt.Sequence),
			zap.Bool("ack", pkt.Ack))
		return
	}

	if ch.rng.Float64() < ch.profile.CorruptionProbability {
		damaged := ch.corrupt(pkt)
		if damaged != pkt {
			ch.log.Debug("packet corrupted",
				zap.Stringer("to", dest),
				zap.Int("seq", pkt.Sequence),
				zap.String("payload", damaged.Payload))
			pkt = damaged
		}
	}

	holdTime := Tick(0)
	if ch.rng.Float64() < ch.profile.DelayProbability {
		holdTime = Tick(ch.rng.Intn(ch.profile.MaxDelayTicks) + 1)
		ch.log.Debug("packet delayed",
			zap.Stringer("to", dest),
			zap.Int("seq", pkt.Sequence),
			zap.Int64("ticks", int64(holdTime)))
	}

	ch.inFlight = append(ch.inFlight, inFlightEntry{
		packet:  pkt,
		dueTime: ch.clock.Now() + holdTime,
		dest:    dest,
	})
}

// corrupt returns a replacement packet with one payload byte incremented and
// the original checksum carried forward, so the replacement fails IsDamaged.
// An empty payload has nothing to corrupt and passes through untouched.
func (ch *Channel) corrupt(pkt *Packet) *Packet {
	if len(pkt.Payload) == 0 {
		return pkt
	}
	buf := []byte(pkt.Payload)
	buf[ch.rng.Intn(len(buf))]++
	return &Packet{
		Sequence: pkt.Sequence,
		Payload:  string(buf),
		Ack:      pkt.Ack,
		Checksum: pkt.Checksum,
	}
}

// DeliverReady removes and returns, in insertion order, every packet addressed
// to dest whose due time has been reached. Everything else stays in flight.
func (ch *Channel) DeliverReady(now Tick, dest Destination) []*Packet {
	var delivered []*Packet
	remaining := ch.inFlight[:0]
	for _, entry := range ch.inFlight {
		if entry.dest == dest && entry.dueTime <= now {
			delivered = append(delivered, entry.packet)
		} else {
			remaining = append(remaining, entry)
		}
	}
	ch.inFlight = remaining
	return delivered
}

// InFlightCount reports how many packets the channel is still holding.
func (ch *Channel) InFlightCount() int {
	return len(ch.inFlight)
}
