package engine

import "time"

// frameHistory is the number of frame times kept.
const frameHistory = 120

// Stats counts frames and recoveries since the engine started.
type Stats struct {
	Frames    uint64
	Dropped   uint64
	Recovered uint64
	Resizes   uint64
	// DrawCalls is the number of draws issued by the last rendered frame.
	DrawCalls int
	// FrameTimes holds the most recent frame durations, oldest first.
	FrameTimes []time.Duration
}

// AverageFrameTime is the mean of FrameTimes, or zero.
func (s Stats) AverageFrameTime() time.Duration {
	if len(s.FrameTimes) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range s.FrameTimes {
		total += d
	}
	return total / time.Duration(len(s.FrameTimes))
}

// frameTimes is a fixed-size ring of durations.
type frameTimes struct {
	buf  [frameHistory]time.Duration
	next int
	full bool
}

func (r *frameTimes) add(d time.Duration) {
	r.buf[r.next] = d
	r.next = (r.next + 1) % frameHistory
	if r.next == 0 {
		r.full = true
	}
}

func (r *frameTimes) slice() []time.Duration {
	if !r.full {
		return append([]time.Duration(nil), r.buf[:r.next]...)
	}
	out := make([]time.Duration, 0, frameHistory)
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}
