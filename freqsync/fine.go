package freqsync

import (
	"fmt"
	"math"
)

// EstimatePilotPhase derotates a received 36-symbol pilot block against the
// known pilot reference, sums the residual, and takes the angle. The
// result is stored into anglePilot[blockIndex+1] (spec.md section 4.5),
// ready for EstimateFinePilotMode to consume once all the blocks it needs
// for this frame have been populated.
//
// blockIndex is the pilot block's position within the current frame
// (0-based); it must be in [0, maxPilotBlocks).
func (s *Synchronizer) EstimatePilotPhase(frameStart []complex128, blockIndex int) (float64, error) {
	if len(frameStart) != PilotLen {
		return 0, fmt.Errorf("freqsync: EstimatePilotPhase: expected %d samples, got %d", PilotLen, len(frameStart))
	}
	if blockIndex < 0 || blockIndex >= maxPilotBlocks {
		return 0, fmt.Errorf("freqsync: EstimatePilotPhase: blockIndex %d out of range [0,%d)", blockIndex, maxPilotBlocks)
	}

	theta := wrapPhase(phase(derotateSum(frameStart, s.refPilot)))

	s.anglePilot[blockIndex+1] = theta
	s.anglePilotSet[blockIndex+1] = true

	return theta, nil
}

// segmentSpan is the number of payload+pilot symbols separating segment i
// (PLHEADER or a pilot block) from segment i+1: 1440 payload symbols plus
// a 90-symbol PLHEADER between the PLHEADER and the first pilot block, or
// plus a 36-symbol pilot block between consecutive pilot blocks.
func segmentSpan(i int) float64 {
	if i == 0 {
		return PilotPeriod + PLHeaderLen
	}
	return PilotPeriod + PilotLen
}

// EstimateFinePilotMode forms the Luise & Reggiannini fine frequency-offset
// estimate from the per-segment phase buffer populated this frame by
// EstimatePLHeaderPhase and EstimatePilotPhase (spec.md section 4.5): for
// each pair of consecutive segments, it takes the unwrapped phase
// difference, divides by 2*pi times the segment's symbol span to get a
// per-segment frequency estimate, then combines the nPilotBlks estimates
// in a weighted average (weight = inverse of the segment span, so shorter
// spans count for more than longer ones). Updates
// fineFoffset and marks HasFineFoffsetEstimate true.
//
// Panics (per spec.md section 7) if IsCoarseCorrected is false, if
// nPilotBlks < 1, or if anglePilot[0..nPilotBlks] haven't all been
// populated for the current frame: these are programmer errors, not
// input-dependent failures.
func (s *Synchronizer) EstimateFinePilotMode(nPilotBlks int) float64 {
	assert(s.IsCoarseCorrected(), "EstimateFinePilotMode called before coarse_corrected")
	assert(nPilotBlks >= 1, "EstimateFinePilotMode: nPilotBlks must be >= 1")
	assert(nPilotBlks <= maxPilotBlocks, fmt.Sprintf("EstimateFinePilotMode: nPilotBlks %d exceeds maxPilotBlocks %d", nPilotBlks, maxPilotBlocks))
	for i := 0; i <= nPilotBlks; i++ {
		assert(s.anglePilotSet[i], fmt.Sprintf("EstimateFinePilotMode: anglePilot[%d] not populated for the current frame", i))
	}

	var weightedSum, weightSum float64
	for i := 0; i < nPilotBlks; i++ {
		span := segmentSpan(i)
		diff := wrapPhase(s.anglePilot[i+1] - s.anglePilot[i])
		freq := diff / (2 * math.Pi * span)
		weight := 1 / span
		weightedSum += weight * freq
		weightSum += weight
	}

	s.fineFoffset = weightedSum / weightSum
	s.have |= populatedFine
	return s.fineFoffset
}
