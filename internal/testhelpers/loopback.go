// Package testhelpers provides shared fixtures for exercising the modem
// pipelines end to end.
package testhelpers

import (
	"github.com/dbehnke/m17-nexus/pkg/modem"
)

// EventSink records everything a decoder publishes during a test run.
type EventSink struct {
	Fields     []modem.Fields
	Signatures []bool
	BERTErrors []int
}

// Options returns the decoder options wiring the sink's handlers.
func (s *EventSink) Options() []modem.DecoderOption {
	return []modem.DecoderOption{
		modem.WithFieldsHandler(func(f modem.Fields) {
			s.Fields = append(s.Fields, f)
		}),
		modem.WithSignatureHandler(func(valid bool) {
			s.Signatures = append(s.Signatures, valid)
		}),
		modem.WithBERTHandler(func(errs int, _ uint64) {
			s.BERTErrors = append(s.BERTErrors, errs)
		}),
	}
}

// LastFields returns the most recent fields record, or a zero value.
func (s *EventSink) LastFields() modem.Fields {
	if len(s.Fields) == 0 {
		return modem.Fields{}
	}
	return s.Fields[len(s.Fields)-1]
}

// StreamBlocks builds n deterministic 16-byte payload blocks.
func StreamBlocks(n int) [][]byte {
	blocks := make([][]byte, n)
	for i := range blocks {
		b := make([]byte, 16)
		for j := range b {
			b[j] = byte(i*31 + j*7)
		}
		blocks[i] = b
	}
	return blocks
}

// Transmit runs a full stream transmission through the coder and returns
// the concatenated symbol stream.
func Transmit(coder *modem.Coder, blocks [][]byte) ([]float32, error) {
	var out []float32
	for _, b := range blocks {
		syms, err := coder.Encode(b)
		if err != nil {
			return nil, err
		}
		out = append(out, syms...)
	}
	syms, err := coder.Finish()
	if err != nil {
		return nil, err
	}
	return append(out, syms...), nil
}
