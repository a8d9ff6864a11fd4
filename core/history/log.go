package history

import "slices"

// Log is an ordered, append-only sequence of Turns. NextSeq is the sequence
// watermark for the next append; it only ever increases, so sequence numbers
// removed by a sanitizer rewrite are never handed out again.
//
// The zero value is an empty log ready for use.
type Log struct {
	Turns   []Turn `json:"turns"`
	NextSeq uint64 `json:"next_seq"`
}

// Append assigns the next sequence number to t, appends it, and returns the
// sequenced turn.
func (l *Log) Append(t Turn) Turn {
	if l.NextSeq == 0 {
		l.NextSeq = 1
	}
	t.Seq = l.NextSeq
	l.NextSeq++
	l.Turns = append(l.Turns, t)
	return t
}

// Len returns the number of turns in the log.
func (l Log) Len() int {
	return len(l.Turns)
}

// Rewrite returns a new Log holding the given turns under the same sequence
// watermark. Used by components that produce a corrected copy of the log;
// the turns keep their original sequence numbers.
func (l Log) Rewrite(turns []Turn) Log {
	return Log{Turns: turns, NextSeq: l.NextSeq}
}

// Clone returns a deep copy of the log. Turn invocation slices and checkpoint
// ranges are copied so mutations of one log never leak into the other.
func (l Log) Clone() Log {
	copied := make([]Turn, len(l.Turns))
	for i, t := range l.Turns {
		copied[i] = t
		copied[i].Invocations = slices.Clone(t.Invocations)
		if t.Covers != nil {
			covers := *t.Covers
			copied[i].Covers = &covers
		}
	}
	return Log{Turns: copied, NextSeq: l.NextSeq}
}

// LastCheckpoint returns the most recent checkpoint turn and its index,
// scanning backward from the tail.
func (l Log) LastCheckpoint() (Turn, int, bool) {
	for i := len(l.Turns) - 1; i >= 0; i-- {
		if l.Turns[i].IsCheckpoint() {
			return l.Turns[i], i, true
		}
	}
	return Turn{}, 0, false
}

// UserTurns counts the user turns in the log.
func (l Log) UserTurns() int {
	n := 0
	for _, t := range l.Turns {
		if t.Role == RoleUser {
			n++
		}
	}
	return n
}
