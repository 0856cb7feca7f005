package freqsync

import (
	"fmt"
	"math"
	"math/cmplx"
)

// EstimateCoarse feeds one PLFRAME's worth of received header samples into
// the coarse frequency-offset estimator (spec.md section 4.5). It should
// be called once per received PLFRAME; it accumulates evidence and
// returns true exactly on the Period-th call, at which point
// coarseFoffset is updated, the internal frame counter wraps, and — if
// the magnitude of the refreshed estimate falls below the fine-estimator
// ceiling — the coarse_corrected latch is set (it never un-latches).
//
// fullPLHeader selects the known reference: SOF-only (frameStart must
// hold SOFLen=26 samples) if false, or the full 90-symbol PLHEADER
// reconstructed from plsc if true. This is the Mengali-Morelli
// data-aided procedure: conjugate-multiply against the known reference
// to strip modulation, form L lag-1 autocorrelations over the derotated
// sequence (L = len(reference)-1), weight them by the unbiased L&R
// triangular window, and take the angle of the weighted sum.
func (s *Synchronizer) EstimateCoarse(frameStart []complex128, fullPLHeader bool, plsc int) bool {
	var ref []complex128
	var window []float64
	if fullPLHeader {
		ref = referencePLHeaderForPLSC(plsc)
		window = s.triWindowHeader
	} else {
		ref = s.refSOF
		window = s.triWindowSOF
	}
	assert(len(frameStart) == len(ref), fmt.Sprintf("freqsync: EstimateCoarse: expected %d samples, got %d", len(ref), len(frameStart)))

	z := make([]complex128, len(ref))
	for i, v := range frameStart {
		z[i] = v * cmplx.Conj(ref[i])
	}

	s.coarseAccum += weightedAutocorrSum(z, window)
	s.iFrame++

	if s.iFrame < s.cfg.Period {
		return false
	}

	theta := phase(s.coarseAccum)
	s.coarseFoffset = theta / (2 * math.Pi)
	s.coarseAccum = 0
	s.iFrame = 0

	if !s.IsCoarseCorrected() && math.Abs(s.coarseFoffset) < coarseLockThreshold {
		s.have |= populatedCoarse
	}
	return true
}

// weightedAutocorrSum computes sum_{k=1}^{L} window[k-1] * z[k] * conj(z[k-1]),
// the window-weighted sum of the L lag-1 autocorrelation terms of z
// (L = len(window) = len(z)-1).
func weightedAutocorrSum(z []complex128, window []float64) complex128 {
	var acc complex128
	for idx, w := range window {
		k := idx + 1
		acc += complex(w, 0) * z[k] * cmplx.Conj(z[k-1])
	}
	return acc
}

// EstimateSOFPhase returns the residual carrier phase (radians) of a
// received SOF field against the known reference. Unlike
// EstimatePLHeaderPhase/EstimatePilotPhase, this does not store into the
// per-segment phase buffer (spec.md section 4.5 only names the PLHEADER
// and pilot variants as doing so); it exists for downstream
// symbol-timing/phase-tracking loops that need a standalone phase
// reference.
func (s *Synchronizer) EstimateSOFPhase(symbols []complex128) (float64, error) {
	if len(symbols) != SOFLen {
		return 0, fmt.Errorf("freqsync: EstimateSOFPhase: expected %d samples, got %d", SOFLen, len(symbols))
	}
	return wrapPhase(phase(derotateSum(symbols, s.refSOF))), nil
}

// EstimatePLHeaderPhase derotates a received 90-symbol PLHEADER against
// the reference reconstructed from plsc, sums the residual, and takes the
// angle. The result is stored into anglePilot[0] (spec.md section 4.5)
// and marks the start of a fresh frame: any pilot-block phases from a
// previous frame are invalidated, since a new PLHEADER always begins a
// new frame's worth of pilot observations.
func (s *Synchronizer) EstimatePLHeaderPhase(symbols []complex128, plsc int) (float64, error) {
	if len(symbols) != PLHeaderLen {
		return 0, fmt.Errorf("freqsync: EstimatePLHeaderPhase: expected %d samples, got %d", PLHeaderLen, len(symbols))
	}
	ref := referencePLHeaderForPLSC(plsc)
	theta := wrapPhase(phase(derotateSum(symbols, ref)))

	s.anglePilot[0] = theta
	for i := 1; i < len(s.anglePilotSet); i++ {
		s.anglePilotSet[i] = false
	}
	s.anglePilotSet[0] = true

	return theta, nil
}

// derotateSum conjugate-multiplies symbols against ref and sums the
// result.
func derotateSum(symbols, ref []complex128) complex128 {
	var acc complex128
	for i, v := range symbols {
		acc += v * cmplx.Conj(ref[i])
	}
	return acc
}

// DerotatePLHeader removes the PLHEADER phase estimate most recently
// stored by EstimatePLHeaderPhase from a 90-symbol PLHEADER field,
// returning a new slice. If openLoop is true, it additionally removes the
// latched coarse frequency offset across the 90 symbols, compensating for
// an uncorrected residual offset the caller hasn't derotated upstream.
//
// Panics if EstimatePLHeaderPhase hasn't been called for the current
// frame: derotating by a stale or absent phase estimate would silently
// produce garbage instead of failing loudly.
func (s *Synchronizer) DerotatePLHeader(symbols []complex128, openLoop bool) []complex128 {
	assert(s.anglePilotSet[0], "DerotatePLHeader called before EstimatePLHeaderPhase this frame")
	assert(len(symbols) == PLHeaderLen, fmt.Sprintf("freqsync: DerotatePLHeader: expected %d samples, got %d", PLHeaderLen, len(symbols)))

	theta0 := s.anglePilot[0]
	rot0 := complex(math.Cos(-theta0), math.Sin(-theta0))

	out := make([]complex128, PLHeaderLen)
	w := 2 * math.Pi * s.coarseFoffset
	for i, v := range symbols {
		out[i] = v * rot0
		if openLoop {
			theta := -w * float64(i)
			out[i] *= complex(math.Cos(theta), math.Sin(theta))
		}
	}
	return out
}
