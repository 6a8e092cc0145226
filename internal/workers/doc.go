/*
Package workers provides utilities for determining worker pool sizes in
containerized environments.

When running in a container, the number of available CPUs may be limited by
cgroup constraints. Go 1.19+ sets GOMAXPROCS from the container CPU limit,
but runtime.NumCPU() still reports the host machine's count. The helpers
here size pools from GOMAXPROCS so directory scans and media probes respect
container limits:

	// I/O-bound work (filesystem walks, stat calls)
	n := workers.ForIO(16)

	// CPU-bound work (image decoding)
	n := workers.ForCPU(8)

	// Mixed work (read file, decode header)
	n := workers.ForMixed(12)

For fine-grained control use Count directly, e.g. Count(3.0, 24) for three
workers per CPU capped at 24.

All functions respect the SCAN_WORKERS environment variable, letting
operators override the automatic calculation:

	env:
	- name: SCAN_WORKERS
	  value: "4"

Always pass a limit when downstream resources are finite; a pool that stats
files through a saturated NFS mount gains nothing from more workers.

All functions are safe for concurrent use.
*/
package workers
