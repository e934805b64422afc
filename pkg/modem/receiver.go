package modem

import (
	"github.com/dbehnke/m17-nexus/pkg/bits"
	"github.com/dbehnke/m17-nexus/pkg/frame"
)

// Receiver is the symbol-level acquisition state machine. In HUNT it slides
// an 8-symbol window over the input and correlates it against the known
// syncword patterns; on lock it collects the 184 payload symbols of one
// frame and hands them to the caller.
type Receiver struct {
	threshold float32

	window [8]float32
	synced bool
	kind   frame.Kind

	payload [frame.SymbolsPerPayload]float32
	pushed  int
}

// NewReceiver builds a receiver with the given syncword correlation
// threshold.
func NewReceiver(threshold float32) *Receiver {
	if threshold <= 0 {
		threshold = DefaultSyncwordThreshold
	}
	return &Receiver{threshold: threshold}
}

// Synced reports whether the receiver is locked to a frame.
func (r *Receiver) Synced() bool { return r.synced }

// Reset drops lock and clears the correlation window.
func (r *Receiver) Reset() {
	r.synced = false
	r.pushed = 0
	r.window = [8]float32{}
}

// syncPatterns pairs each hunted syncword with its frame kind.
var syncPatterns = []struct {
	kind    frame.Kind
	pattern [8]int8
}{
	{frame.KindStream, frame.StreamSyncSymbols},
	{frame.KindLSF, frame.LSFSyncSymbols},
	{frame.KindPacket, frame.PacketSyncSymbols},
	{frame.KindBERT, frame.BERTSyncSymbols},
}

// Feed pushes one received soft symbol. When a full frame payload has been
// captured it returns true together with the frame kind and the payload
// symbols; the returned slice is only valid until the next call.
func (r *Receiver) Feed(sample float32) (bool, frame.Kind, []float32) {
	if !r.synced {
		copy(r.window[:7], r.window[1:])
		r.window[7] = sample

		for _, sp := range syncPatterns {
			if bits.EuclNorm(r.window[:], sp.pattern[:]) < r.threshold {
				r.synced = true
				r.kind = sp.kind
				r.pushed = 0
				break
			}
		}
		return false, 0, nil
	}

	r.payload[r.pushed] = sample
	r.pushed++
	if r.pushed < frame.SymbolsPerPayload {
		return false, 0, nil
	}

	// Frame complete: return to HUNT with a clean window.
	kind := r.kind
	r.Reset()
	return true, kind, r.payload[:]
}
