package registry

import (
	"go.uber.org/atomic"

	"github.com/shuuuting95/kaleido-core/ad"
)

// LogicTable is the upgrade indirection for shared engine logic: every
// tenant resolves its implementation through a version-tagged table that
// can be swapped atomically. Lookups during a swap see either the old or
// the new table in full, never a mix.
type LogicTable[L any] struct {
	table atomic.Pointer[logicTable[L]]
}

type logicTable[L any] struct {
	version string
	logic   L
	pinned  map[ad.Account]L
}

// NewLogicTable creates a table serving the given logic under a version tag.
func NewLogicTable[L any](version string, logic L) *LogicTable[L] {
	t := &LogicTable[L]{}
	t.table.Store(&logicTable[L]{version: version, logic: logic, pinned: map[ad.Account]L{}})
	return t
}

// Resolve returns the logic implementation handling the account.
func (t *LogicTable[L]) Resolve(account ad.Account) L {
	tbl := t.table.Load()
	if logic, ok := tbl.pinned[account]; ok {
		return logic
	}
	return tbl.logic
}

// Version returns the tag of the table currently being served.
func (t *LogicTable[L]) Version() string {
	return t.table.Load().version
}

// Upgrade swaps in a new default implementation for all accounts. Pins are
// dropped: an upgrade supersedes per-account exceptions.
func (t *LogicTable[L]) Upgrade(version string, logic L) {
	t.table.Store(&logicTable[L]{version: version, logic: logic, pinned: map[ad.Account]L{}})
}

// Pin routes a single account to a specific implementation, leaving every
// other account on the default. The swap is atomic.
func (t *LogicTable[L]) Pin(account ad.Account, logic L) {
	old := t.table.Load()
	pinned := make(map[ad.Account]L, len(old.pinned)+1)
	for k, v := range old.pinned {
		pinned[k] = v
	}
	pinned[account] = logic
	t.table.Store(&logicTable[L]{version: old.version, logic: old.logic, pinned: pinned})
}
