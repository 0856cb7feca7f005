// Command freqsynctool drives the freqsync package against a synthetic
// DVB-S2 physical-layer signal: a known PLHEADER/pilot waveform rotated by
// a chosen frequency offset, reporting how quickly and accurately the
// coarse and fine estimators converge.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/pflag"

	"github.com/kb3mpl/dvbs2rx/freqsync"
	"github.com/kb3mpl/dvbs2rx/internal/diag"
)

func main() {
	var (
		foffset     = pflag.Float64P("foffset", "f", 0.001, "normalized frequency offset to simulate, cycles/symbol")
		period      = pflag.IntP("period", "p", 4, "frames averaged before the coarse estimate refreshes")
		plsc        = pflag.IntP("plsc", "s", 0, "PLSC value (0-127) to use for the full PLHEADER reference")
		pilotBlocks = pflag.IntP("pilot-blocks", "b", 3, "pilot blocks per frame to simulate")
		frames      = pflag.IntP("frames", "n", 8, "number of PLFRAMEs to simulate")
		logLevel    = pflag.StringP("log-level", "l", "info", "debug, info, warn, or error")
		help        = pflag.BoolP("help", "h", false, "display this help text")
	)
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := diag.NewLogger(diag.ParseLevel(*logLevel))

	s, err := freqsync.New(freqsync.Config{Period: *period})
	if err != nil {
		logger.Fatal("constructing synchronizer", "err", err)
	}

	idx := 0
	for frame := 0; frame < *frames; frame++ {
		plheader := syntheticPLHeader(*foffset, *plsc, idx)

		if s.EstimateCoarse(plheader, true, *plsc) {
			logger.Info("coarse estimate refreshed", "frame", frame, "estimate", s.CoarseFoffset(), "truth", *foffset, "locked", s.IsCoarseCorrected())
		} else {
			logger.Debug("coarse accumulating", "frame", frame)
		}

		if _, err := s.EstimatePLHeaderPhase(plheader, *plsc); err != nil {
			logger.Fatal("plheader phase estimate", "frame", frame, "err", err)
		}
		pilotIdx := idx + freqsync.PLHeaderLen

		if s.IsCoarseCorrected() {
			for b := 0; b < *pilotBlocks; b++ {
				pilotIdx += freqsync.PilotPeriod
				pilot := syntheticPilot(*foffset, pilotIdx)
				if _, err := s.EstimatePilotPhase(pilot, b); err != nil {
					logger.Fatal("pilot phase estimate", "frame", frame, "block", b, "err", err)
				}
				pilotIdx += freqsync.PilotLen
			}

			fine := s.EstimateFinePilotMode(*pilotBlocks)
			logger.Info("fine estimate", "frame", frame, "estimate", fine, "truth", *foffset)
		} else {
			logger.Debug("skipping fine estimate, coarse not yet corrected", "frame", frame)
		}

		idx = pilotIdx
	}

	fmt.Printf("final coarse estimate: %.6f (truth %.6f)\n", s.CoarseFoffset(), *foffset)
	if s.HasFineFoffsetEstimate() {
		fmt.Printf("final fine estimate:   %.6f (truth %.6f)\n", s.FineFoffset(), *foffset)
	} else {
		fmt.Println("final fine estimate:   none (coarse never corrected)")
	}
}

// syntheticPLHeader and syntheticPilot stand in for an upstream
// matched-filter demapper: they are not part of the freqsync package's
// public surface, only a test-signal generator this command-line tool
// needs to have something to feed the real estimator.
func syntheticPLHeader(foffsetNorm float64, plsc, startIdx int) []complex128 {
	return rotate(referencePLHeader(plsc), foffsetNorm, startIdx)
}

func syntheticPilot(foffsetNorm float64, startIdx int) []complex128 {
	bits := make([]byte, freqsync.PilotLen)
	for i := range bits {
		bits[i] = 1
	}
	return rotate(bitsToSymbols(bits), foffsetNorm, startIdx)
}

func referencePLHeader(plsc int) []complex128 {
	bits := make([]byte, freqsync.PLHeaderLen)
	// SOF field 0x18D2E82, MSB-first, as in the freqsync package's reference.
	for i := 0; i < freqsync.SOFLen; i++ {
		bits[i] = byte((0x18D2E82 >> uint(freqsync.SOFLen-1-i)) & 1)
	}
	for i := 0; i < freqsync.PLSCLen; i++ {
		bits[freqsync.SOFLen+i] = byte((plsc >> uint(i%7)) & 1)
	}
	return bitsToSymbols(bits)
}

func bitsToSymbols(bits []byte) []complex128 {
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

func rotate(ref []complex128, foffsetNorm float64, startIdx int) []complex128 {
	out := make([]complex128, len(ref))
	w := 2 * math.Pi * foffsetNorm
	for i, v := range ref {
		theta := w * float64(startIdx+i)
		out[i] = v * complex(math.Cos(theta), math.Sin(theta))
	}
	return out
}
