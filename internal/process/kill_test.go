package process

import "testing"

func TestKillProcessGroup_NoSuchProcess(t *testing.T) {
	t.Parallel()

	// A PID far above any kernel limit; must return without panicking.
	KillProcessGroup(999999999)
}

func TestKillProcessGroup_NonPositivePID(t *testing.T) {
	t.Parallel()

	// Zero would signal our own process group; it must be a no-op.
	KillProcessGroup(0)
	KillProcessGroup(-1)
}
