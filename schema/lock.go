package schema

import (
	"sync/atomic"

	"github.com/ashenguard/easysql/internal/debug"
	"github.com/ashenguard/easysql/sqlerr"
)

// safetyLock starts Locked. Unlocking is one-way.
type safetyLock struct {
	unlocked atomic.Bool
}

// Locked reports whether unconditioned Delete, Update and Set statements are
// rejected for the table.
func (t *Table) Locked() bool {
	return !t.lock.unlocked.Load()
}

// Unlock disarms the safety lock. confirm must be true; there is no way to
// lock the table again.
func (t *Table) Unlock(confirm bool) error {
	if !confirm {
		return &sqlerr.Error{Kind: sqlerr.ErrSafety, Op: "unlock", Table: t.name,
			Message: "disarming the safety lock requires confirmation"}
	}
	if t.lock.unlocked.CompareAndSwap(false, true) {
		debug.Warn("safety lock disarmed", "table", t.name)
	}
	return nil
}

// CheckMutation rejects an unconditioned mutation while the table is locked.
func (t *Table) CheckMutation(op string, conditioned bool) error {
	if conditioned || !t.Locked() {
		return nil
	}
	return &sqlerr.Error{Kind: sqlerr.ErrSafety, Op: op, Table: t.name,
		Message: "unconditioned statement on a locked table; add a condition or unlock the table"}
}
