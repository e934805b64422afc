package modem

// Stats receives decoder-side counter events. pkg/metrics.Collector
// satisfies it; the default sink discards everything.
type Stats interface {
	IncSyncAcquired()
	IncLSFFrames()
	IncStreamFrames()
	IncPacketFrames()
	IncBERTFrames()
	IncCRCErrors()
	IncViterbiDrops()
	IncLICHFailures()
	IncSignatures(valid bool)
	IncSMSReceived()
}

type nopStats struct{}

func (nopStats) IncSyncAcquired()   {}
func (nopStats) IncLSFFrames()      {}
func (nopStats) IncStreamFrames()   {}
func (nopStats) IncPacketFrames()   {}
func (nopStats) IncBERTFrames()     {}
func (nopStats) IncCRCErrors()      {}
func (nopStats) IncViterbiDrops()   {}
func (nopStats) IncLICHFailures()   {}
func (nopStats) IncSignatures(bool) {}
func (nopStats) IncSMSReceived()    {}

// WithStats attaches a counter sink to the decoder.
func WithStats(s Stats) DecoderOption {
	return func(d *Decoder) { d.stats = s }
}
