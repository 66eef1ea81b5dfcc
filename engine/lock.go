/*
lock.go - The monthly edit cutoff

PURPOSE:
  Determines whether scheduling/projection edits are permitted, given the
  current wall-clock time and the supplied actor role. There is no stored
  lock entity: the window is a pure function evaluated fresh on every
  check, because it depends on "now".

THE RULE:
  Locked <=> now is strictly after the 25th of now's OWN calendar month at
  23:59:59, AND the actor does not hold the privileged role.

CUTOFF IS RELATIVE TO TODAY, NOT THE VIEWED PERIOD:
  Editing January's projection in March is controlled by March's 25th
  cutoff, not January's. Once the current month's 25th has passed, viewing
  any past period is locked regardless of how old that period is. This is
  preserved source behavior; changing it to a per-period cutoff needs
  product confirmation first.

STATES:
  Open, Locked. Nothing in between, nothing cached.

SEE ALSO:
  - schedule/shift.go, forecast/: callers that gate mutations on Locked
*/
package engine

import "time"

// CutoffDay is the last editable day of each month for non-privileged roles.
const CutoffDay = 25

// LockState is the evaluated edit window state.
type LockState string

const (
	LockOpen   LockState = "open"
	LockClosed LockState = "locked"
)

// Clock supplies wall-clock time. Services take a Clock so tests can pin it.
type Clock func() time.Time

// Locked reports whether edits are disallowed for the role at the given
// instant. The privileged role is never locked.
func Locked(now time.Time, role Role) bool {
	if role.Privileged() {
		return false
	}
	return now.Day() > CutoffDay
}

// StateAt returns the evaluated window state for the role at the instant.
func StateAt(now time.Time, role Role) LockState {
	if Locked(now, role) {
		return LockClosed
	}
	return LockOpen
}

// CanEdit is the capability check used at call sites instead of scattering
// role comparisons: a role may edit when the window is open or when it is
// privileged.
func CanEdit(role Role, state LockState) bool {
	return state == LockOpen || role.Privileged()
}
