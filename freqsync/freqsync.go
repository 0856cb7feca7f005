// Package freqsync implements DVB-S2 physical-layer frequency-offset
// estimation: coarse Mengali-Morelli-style estimation over the PLHEADER
// (SOF-only or full header), refreshed once per Period frames, and a fine
// estimator over the per-segment phase buffer populated from PLHEADER and
// pilot-block observations, with a one-way latch tracking once the coarse
// estimate is good enough for the fine estimator to trust.
//
// Grounded on the derotate-against-a-known-reference pattern in
// other_examples/6de3dfb2_playok-audio-modem__pc-internal-modem-sync.go.go,
// and on the one-way hysteresis latch in the teacher's src/pll_dcd.go
// (pll_dcd_signal_transition2 / DCDConfig), generalized from bit-level DCD
// locking to frequency-offset-estimate locking.
package freqsync

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Symbol rates and frame geometry are fixed by the DVB-S2 physical layer
// (spec.md section 4): 26-symbol SOF, 64-symbol PLSC, 90-symbol PLHEADER,
// 36-symbol pilot blocks every 1440 symbols of payload.
const (
	SOFLen      = 26
	PLSCLen     = 64
	PLHeaderLen = SOFLen + PLSCLen
	PilotLen    = 36
	PilotPeriod = 1440

	// maxPilotBlocks is the largest pilot-block index the per-segment
	// phase buffer holds (angle_pilot[0..21], spec.md section 3): a
	// normal FECFRAME's 1440-symbol payload slices into at most 21 pilot
	// blocks per frame.
	maxPilotBlocks = 21

	// coarseLockThreshold is the fine-estimator ceiling spec.md section 3
	// defines coarse_corrected against: |coarse_foffset| must fall below
	// this before the fine, pilot-based estimator's narrower capture
	// range is valid.
	coarseLockThreshold = 3.268e-4
)

// sofPattern is the DVB-S2 SOF field, 0x18D2E82 as a 26-bit pattern,
// MSB-first.
const sofPattern uint32 = 0x18D2E82

// Config controls Synchronizer construction.
type Config struct {
	// Period is the coarse-estimation window length in frames: the
	// coarse estimate is refreshed exactly once every Period frames
	// (spec.md section 3, invariant (c)).
	Period int
}

// DefaultConfig matches spec.md's own worked scenarios (S4/S5), which use
// a 10-frame coarse accumulation window.
func DefaultConfig() Config {
	return Config{Period: 10}
}

// populated is a bitmask of which estimates a Synchronizer currently
// holds, modeled on pll_dcd_signal_transition2's one-way latch: once a
// stage's bit is set it is never cleared by a later failed estimate,
// matching the teacher's "once locked, stay locked absent an explicit
// reset" behavior.
type populated uint8

const (
	populatedCoarse populated = 1 << iota
	populatedFine
)

// Synchronizer holds the running state of frequency-offset acquisition
// across successive PLFRAMEs (spec.md section 3): a coarse
// Mengali-Morelli estimate refreshed once every Period frames, and a fine
// Luise & Reggiannini estimate derived from the per-segment phase buffer
// once coarse has locked.
type Synchronizer struct {
	cfg Config

	have populated

	iFrame      int
	coarseAccum complex128
	coarseFoffset float64

	fineFoffset float64

	// anglePilot[0] holds the most recent PLHEADER phase; anglePilot[1:]
	// hold up to maxPilotBlocks pilot-block phases, all for the frame
	// currently being assembled. anglePilotSet tracks which indices have
	// actually been written this frame, since EstimateFinePilotMode must
	// refuse to run over stale or missing entries.
	anglePilot    [maxPilotBlocks + 1]float64
	anglePilotSet [maxPilotBlocks + 1]bool

	refSOF           []complex128
	triWindowSOF     []float64 // L=SOFLen-1 weights
	triWindowHeader  []float64 // L=PLHeaderLen-1 weights
	refPilot         []complex128
}

// New constructs a Synchronizer. Construction fails only if cfg is
// internally inconsistent.
func New(cfg Config) (*Synchronizer, error) {
	if cfg.Period <= 0 {
		return nil, &ConstructionError{Msg: fmt.Sprintf("Period must be positive, got %d", cfg.Period)}
	}

	s := &Synchronizer{
		cfg:             cfg,
		refSOF:          referenceSOF(),
		refPilot:        referencePilotBlock(),
		triWindowSOF:    triangularWindow(SOFLen - 1),
		triWindowHeader: triangularWindow(PLHeaderLen - 1),
	}
	return s, nil
}

// IsCoarseCorrected reports whether the coarse stage has latched an
// estimate. Once true, it remains true for the lifetime of the
// Synchronizer (see populated's doc comment).
func (s *Synchronizer) IsCoarseCorrected() bool {
	return s.have&populatedCoarse != 0
}

// HasFineFoffsetEstimate reports whether a fine pilot-based estimate has
// been produced at least once.
func (s *Synchronizer) HasFineFoffsetEstimate() bool {
	return s.have&populatedFine != 0
}

// CoarseFoffset returns the most recent coarse frequency-offset estimate,
// normalized to cycles/symbol. Does not require IsCoarseCorrected: the
// estimate is meaningful (if not yet below the lock threshold) as soon as
// the first Period-frame window has completed.
func (s *Synchronizer) CoarseFoffset() float64 {
	return s.coarseFoffset
}

// FineFoffset returns the most recent fine (pilot-based) frequency-offset
// estimate, normalized to cycles/symbol. Panics if no fine estimate has
// ever been produced.
func (s *Synchronizer) FineFoffset() float64 {
	if !s.HasFineFoffsetEstimate() {
		panic(&PreconditionError{Msg: "FineFoffset called before any fine estimate produced"})
	}
	return s.fineFoffset
}

// ConstructionError reports invalid Synchronizer construction arguments.
type ConstructionError struct {
	Msg string
}

func (e *ConstructionError) Error() string { return "freqsync: " + e.Msg }

// PreconditionError reports a call made before the Synchronizer has the
// state that call requires. Per spec.md section 7, these are fatal
// programmer errors (caller-graph bugs), not input-dependent failures, so
// they panic rather than return an error.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return "freqsync: " + e.Msg }

// assert panics with a *PreconditionError if cond is false.
func assert(cond bool, msg string) {
	if !cond {
		panic(&PreconditionError{Msg: msg})
	}
}

// triangularWindow returns the unbiased Luise & Reggiannini weights
// w_k = (3 / (L*(L^2-1))) * (L^2 - (2k-L)^2) for k = 1..L (spec.md
// section 4.5), indexed 0-based: result[i] is w_(i+1).
func triangularWindow(l int) []float64 {
	w := make([]float64, l)
	lf := float64(l)
	denom := lf * (lf*lf - 1)
	for i := range w {
		k := float64(i + 1)
		w[i] = 3 * (lf*lf - (2*k-lf)*(2*k-lf)) / denom
	}
	return w
}

// phase returns the principal-value argument of a complex number, in
// radians, via math/cmplx, matching spec.md's requirement that phase
// angles be wrapped to (-pi, pi].
func phase(z complex128) float64 {
	return cmplx.Phase(z)
}

// wrapPhase normalizes an angle to (-pi, pi].
func wrapPhase(theta float64) float64 {
	for theta > math.Pi {
		theta -= 2 * math.Pi
	}
	for theta <= -math.Pi {
		theta += 2 * math.Pi
	}
	return theta
}
