package protocol

// Sender is the capability set the driver needs from any protocol's sending
// side. The driver never branches on the concrete variant.
type Sender interface {
	// BeginTransmission sends whatever the protocol's window currently allows.
	BeginTransmission()
	// ProcessAck consumes one acknowledgment delivered by the channel.
	ProcessAck(ack *Packet)
	// CheckTimeout retransmits according to the protocol's timer discipline.
	CheckTimeout()
	// Base is the lowest unacknowledged packet index; the run is complete
	// when it reaches the total packet count.
	Base() int
}

// Receiver is the receiving side's capability set.
type Receiver interface {
	// Receive consumes one data packet delivered by the channel, emitting
	// acknowledgments back through it.
	Receive(pkt *Packet)
	// Delivered is the in-order payload sequence accepted so far.
	Delivered() []string
}
