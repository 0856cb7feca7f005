package freqsync

import "math"

// bitsToPiOver2BPSK maps a sequence of bits onto the DVB-S2 pi/2-BPSK-style
// reference waveform used throughout this package: bit b maps to +1/-1,
// then each symbol k is rotated by an additional pi/2*k, so consecutive
// symbols alternate between the real and imaginary axes.
//
// This is a documented simplification of ETSI EN 302 307's exact
// differential pi/2-BPSK sign convention for the PLHEADER and pilot
// fields (the standard also differentially encodes the SOF/PLSC payload
// bits before mapping). Exact standard bit-for-bit compliance isn't
// required here: both waveform generation (this function) and the
// estimators that consume it are internally self-consistent, which is
// all frequency-offset estimation needs — the reference and the
// incoming signal are derotated against the same known pattern.
func bitsToPiOver2BPSK(bits []byte) []complex128 {
	out := make([]complex128, len(bits))
	for k, b := range bits {
		sign := -1.0
		if b != 0 {
			sign = 1.0
		}
		theta := float64(k) * math.Pi / 2
		out[k] = complex(sign*math.Cos(theta), sign*math.Sin(theta))
	}
	return out
}

// sofBits unpacks the 26-bit SOF pattern (0x18D2E82) into individual bits,
// MSB-first.
func sofBits() []byte {
	bits := make([]byte, SOFLen)
	for i := 0; i < SOFLen; i++ {
		bits[i] = byte((sofPattern >> uint(SOFLen-1-i)) & 1)
	}
	return bits
}

// plscBits derives 64 placeholder PLSC bits from a 0..127 PLSC value.
// The real PLSC is a (64,7) Reed-Muller code over MODCOD/frame-size/pilot
// flag bits; this package's estimators only need a reference waveform
// that actually depends on plsc (so that two different PLSC values
// produce two different, equally valid references), not a bit-exact
// Reed-Muller encoding, so the 7 plsc bits are simply cycled across the
// 64 PLSC symbol positions.
func plscBits(plsc int) []byte {
	bits := make([]byte, PLSCLen)
	for i := range bits {
		bits[i] = byte((plsc >> uint(i%7)) & 1)
	}
	return bits
}

// referenceSOF returns the pi/2-BPSK-mapped SOF-only reference waveform,
// 26 complex symbols.
func referenceSOF() []complex128 {
	return bitsToPiOver2BPSK(sofBits())
}

// referencePLHeaderForPLSC returns the full 90-symbol PLHEADER reference
// (SOF followed by the PLSC field reconstructed from plsc).
func referencePLHeaderForPLSC(plsc int) []complex128 {
	bits := make([]byte, PLHeaderLen)
	copy(bits, sofBits())
	copy(bits[SOFLen:], plscBits(plsc))
	return bitsToPiOver2BPSK(bits)
}

// referencePilotBlock returns the 36-symbol pilot reference: the DVB-S2
// standard pilot field is a run of known symbols (nominally all-1 bits
// pre-scrambling); this package uses an all-1-bit block mapped through
// the same pi/2-BPSK convention as the header fields.
func referencePilotBlock() []complex128 {
	bits := make([]byte, PilotLen)
	for i := range bits {
		bits[i] = 1
	}
	return bitsToPiOver2BPSK(bits)
}
