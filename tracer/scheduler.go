package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling
// algorithms.
type BlockScheduler interface {
	// Split a frame into blocks of variable height and assign them to the
	// pool of tracers.
	//
	// This function returns the block height assignment for each tracer
	// in the input list. The assignments always sum to frameH.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler statically assigns rows in proportion to each tracer's
// speed estimate.
type naiveScheduler struct {
	blockAssignment []uint32
}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
	}
	scheduleBySpeedEstimate(sch.blockAssignment, tracers, frameH)
	return sch.blockAssignment
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same and uses the per-block render
// times from the previous frame as feedback.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance.
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split a frame into blocks of variable height and assign them to the pool of
// tracers.
//
// When previous frame statistics are available the scheduler estimates the
// workload share for tracer w and frame i+1 as:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to fall back to the speed estimates.
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
		scheduleBySpeedEstimate(sch.blockAssignment, tracers, frameH)
		return sch.blockAssignment
	}

	// Use last frame statistics.
	var total float64
	for _, tr := range tracers {
		stats := tr.Stats()
		total += float64(stats.BlockH) / float64(stats.RenderTime)
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32
	for idx, tr := range tracers {
		stats := tr.Stats()
		rows := uint32(math.Max(1.0, math.Floor(float64(stats.BlockH)/float64(stats.RenderTime)*scaler)))
		// The 1-row floor can overcommit when there are more tracers than
		// rows; clamp so the assignments never exceed the frame height.
		if scheduledRows+rows > frameH {
			rows = frameH - scheduledRows
		}
		sch.blockAssignment[idx] = rows
		scheduledRows += rows
	}

	// In case rows don't add up to the frame height append the missing ones
	// to the first tracer.
	sch.blockAssignment[0] += frameH - scheduledRows

	return sch.blockAssignment
}

// Distribute frameH rows over the tracers in proportion to their speed
// estimates, assigning at least one row to each tracer while rows remain.
// Surplus tracers receive empty blocks.
func scheduleBySpeedEstimate(blockAssignment []uint32, tracers []Tracer, frameH uint32) {
	var total float64
	for _, tr := range tracers {
		total += float64(tr.SpeedEstimate())
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32
	for idx, tr := range tracers {
		rows := uint32(math.Max(1.0, math.Floor(float64(tr.SpeedEstimate())*scaler)))
		// The 1-row floor can overcommit when there are more tracers than
		// rows; clamp so the assignments never exceed the frame height.
		if scheduledRows+rows > frameH {
			rows = frameH - scheduledRows
		}
		blockAssignment[idx] = rows
		scheduledRows += rows
	}

	blockAssignment[0] += frameH - scheduledRows
}
