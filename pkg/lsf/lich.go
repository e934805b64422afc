package lsf

// LICHChunks is the number of 40-bit LICH slices carrying one full LSF; six
// stream frames form a superframe.
const LICHChunks = 6

// ExtractLICH returns the 48-bit LICH chunk for a given counter value: bytes
// cnt*5 .. cnt*5+4 of the wire image, followed by a trailer byte whose top 3
// bits carry the counter.
func (l *LSF) ExtractLICH(cnt uint8) [6]byte {
	var out [6]byte
	b := l.Bytes()
	copy(out[:5], b[int(cnt)*5:int(cnt)*5+5])
	out[5] = cnt << 5
	return out
}
