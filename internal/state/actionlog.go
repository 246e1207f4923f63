package state

import "slices"

// DefaultHistoryLimit bounds the number of undo snapshots kept by NewLog.
const DefaultHistoryLimit = 200

// Log is the ordered record of drawing actions for one session, together with
// the undo and redo stacks of whole-log snapshots.
//
// Snapshots are taken once per stroke or clear, never per segment, so a single
// drag gesture is one undo unit. Actions are immutable values, which makes a
// shallow slice copy a deep copy of the log.
type Log struct {
	actions []Action
	undo    [][]Action
	redo    [][]Action
	limit   int // maximum undo depth, 0 for unbounded
}

// NewLog returns an empty log keeping at most limit undo snapshots.
// A limit of 0 keeps every snapshot.
func NewLog(limit int) *Log {
	if limit < 0 {
		limit = 0
	}
	return &Log{limit: limit}
}

// Append adds an action to the end of the log.
func (l *Log) Append(a Action) {
	if a == nil {
		return
	}
	l.actions = append(l.actions, a)
}

// BeginStroke records the pre-stroke state for undo and invalidates redo.
// Call it once per pointer-down, before the stroke's first action.
func (l *Log) BeginStroke() {
	l.pushUndo(l.snapshot())
	l.redo = nil
}

// SnapshotAndClear records the current state for undo, invalidates redo and
// replaces the log with a single Clear marker.
func (l *Log) SnapshotAndClear() {
	l.pushUndo(l.snapshot())
	l.redo = nil
	l.actions = []Action{Clear{}}
}

// Undo restores the state before the last stroke or clear. It returns true
// when the log changed and the surface must be redrawn.
func (l *Log) Undo() bool {
	if len(l.actions) == 0 {
		return false
	}
	l.redo = append(l.redo, l.snapshot())
	if n := len(l.undo); n > 0 {
		l.actions = l.undo[n-1]
		l.undo[n-1] = nil
		l.undo = l.undo[:n-1]
	} else {
		l.actions = nil
	}
	return true
}

// Redo re-applies the most recently undone change. It returns true when the
// log changed and the surface must be redrawn.
func (l *Log) Redo() bool {
	n := len(l.redo)
	if n == 0 {
		return false
	}
	l.pushUndo(l.snapshot())
	l.actions = l.redo[n-1]
	l.redo[n-1] = nil
	l.redo = l.redo[:n-1]
	return true
}

func (l *Log) CanUndo() bool { return len(l.actions) > 0 }
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// Len returns the number of actions in the log.
func (l *Log) Len() int { return len(l.actions) }

// UndoDepth returns the number of snapshots on the undo stack.
func (l *Log) UndoDepth() int { return len(l.undo) }

// Actions returns a copy of the current actions in order.
func (l *Log) Actions() []Action {
	return l.snapshot()
}

// Reset drops every action and all history.
func (l *Log) Reset() {
	l.actions = nil
	l.undo = nil
	l.redo = nil
}

func (l *Log) snapshot() []Action {
	return slices.Clone(l.actions)
}

func (l *Log) pushUndo(s []Action) {
	l.undo = append(l.undo, s)
	if l.limit > 0 && len(l.undo) > l.limit {
		drop := len(l.undo) - l.limit
		clear(l.undo[:drop])
		l.undo = l.undo[drop:]
	}
}
