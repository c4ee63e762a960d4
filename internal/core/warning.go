package core

const (
	// warnStep is the fixed increment per warning.
	warnStep = 10
	// warnMax caps the warning level; increments saturate here.
	warnMax = 100
)

// warningTracker holds per-username warning levels. Levels never decay
// and survive disconnects for the lifetime of the room actor.
type warningTracker struct {
	levels map[string]int
}

func newWarningTracker() *warningTracker {
	return &warningTracker{levels: make(map[string]int)}
}

// warn raises target's level by one step, saturating at warnMax, and
// returns the new level.
func (w *warningTracker) warn(target string) int {
	level := w.levels[target] + warnStep
	if level > warnMax {
		level = warnMax
	}
	w.levels[target] = level
	return level
}

func (w *warningTracker) level(username string) int {
	return w.levels[username]
}

// warnUser applies a warning and notifies the target if they are
// online. Nothing here prevents self-warns or rapid repeats.
func (r *Room) warnUser(issuer, target string) {
	level := r.warnings.warn(target)
	if e, ok := r.presence.get(target); ok {
		e.session.trySend(&Event{
			Kind:         EventWarningReceived,
			From:         issuer,
			WarningLevel: level,
		})
	}
}
