package scheduler

import "errors"

// ErrCycle is returned by Build when the registered systems' reads/writes
// sets induce a cyclic conflict graph — a configuration error: fatal at
// startup, never a runtime condition.
var ErrCycle = errors.New("scheduler: cyclic system dependency")

// ErrDuplicateSystem is returned by Register when a system with the same
// Name() has already been registered.
var ErrDuplicateSystem = errors.New("scheduler: duplicate system name")
