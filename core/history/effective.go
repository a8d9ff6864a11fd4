package history

import "slices"

// EffectiveContext returns the slice of the log to transmit on the next turn:
// the most recent checkpoint (if any) followed by every turn after it, in
// original order. A log with no checkpoint is returned whole. The full log is
// unaffected; callers keep it for audit and resume.
func (l Log) EffectiveContext() Log {
	_, at, ok := l.LastCheckpoint()
	if !ok {
		return Log{Turns: slices.Clone(l.Turns), NextSeq: l.NextSeq}
	}
	return Log{Turns: slices.Clone(l.Turns[at:]), NextSeq: l.NextSeq}
}
