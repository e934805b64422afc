// Package metrics collects modem counters and serves them in the Prometheus
// text exposition format.
package metrics

import "sync/atomic"

// Collector aggregates decoder-side counters. All methods are safe for
// concurrent use.
type Collector struct {
	syncAcquired   atomic.Uint64
	lsfFrames      atomic.Uint64
	streamFrames   atomic.Uint64
	packetFrames   atomic.Uint64
	bertFrames     atomic.Uint64
	crcErrors      atomic.Uint64
	viterbiDrops   atomic.Uint64
	lichFailures   atomic.Uint64
	signaturesOK   atomic.Uint64
	signaturesFail atomic.Uint64
	smsReceived    atomic.Uint64
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) IncSyncAcquired() { c.syncAcquired.Add(1) }
func (c *Collector) IncLSFFrames()    { c.lsfFrames.Add(1) }
func (c *Collector) IncStreamFrames() { c.streamFrames.Add(1) }
func (c *Collector) IncPacketFrames() { c.packetFrames.Add(1) }
func (c *Collector) IncBERTFrames()   { c.bertFrames.Add(1) }
func (c *Collector) IncCRCErrors()    { c.crcErrors.Add(1) }
func (c *Collector) IncViterbiDrops() { c.viterbiDrops.Add(1) }
func (c *Collector) IncLICHFailures() { c.lichFailures.Add(1) }
func (c *Collector) IncSMSReceived()  { c.smsReceived.Add(1) }

func (c *Collector) IncSignatures(valid bool) {
	if valid {
		c.signaturesOK.Add(1)
	} else {
		c.signaturesFail.Add(1)
	}
}

func (c *Collector) SyncAcquired() uint64   { return c.syncAcquired.Load() }
func (c *Collector) LSFFrames() uint64      { return c.lsfFrames.Load() }
func (c *Collector) StreamFrames() uint64   { return c.streamFrames.Load() }
func (c *Collector) PacketFrames() uint64   { return c.packetFrames.Load() }
func (c *Collector) BERTFrames() uint64     { return c.bertFrames.Load() }
func (c *Collector) CRCErrors() uint64      { return c.crcErrors.Load() }
func (c *Collector) ViterbiDrops() uint64   { return c.viterbiDrops.Load() }
func (c *Collector) LICHFailures() uint64   { return c.lichFailures.Load() }
func (c *Collector) SignaturesOK() uint64   { return c.signaturesOK.Load() }
func (c *Collector) SignaturesFail() uint64 { return c.signaturesFail.Load() }
func (c *Collector) SMSReceived() uint64    { return c.smsReceived.Load() }
