// Package balancer implements the load-balancing algorithm that drives the
// cluster toward an even partition distribution by unilaterally stealing
// leases, without oscillating when hosts are numerous or partitions do not
// divide evenly.
//
// Steal is a pure function: no I/O, no shared state, safe to call from any
// goroutine and trivial to property-test.
package balancer

import "github.com/arloliu/partman/types"

// Steal implements spec.md §4.4.
//
// Given the leases currently believed owned by other hosts and the number
// of leases owned by self, it returns at most one lease worth stealing.
//
//  1. Count leases per owner across leasesOwnedByOthers.
//  2. Find the owner with the highest count (biggest owner, biggest count).
//     Ties are broken by whichever owner appears first in iteration order;
//     the choice is immaterial by construction.
//  3. If biggestCount - selfOwnedCount >= 2, return the first lease in
//     leasesOwnedByOthers whose owner equals the biggest owner. Otherwise
//     return ok == false.
//
// The >= 2 threshold guarantees a steal never lets self overshoot the
// victim: post-steal gap is biggestCount-1-(selfOwnedCount+1), which is
// >= 0 exactly when the pre-steal gap was >= 2. Stealing at most one lease
// per call, even when several owners qualify, trades slower convergence
// for stability across uncoordinated hosts.
func Steal(leasesOwnedByOthers []types.Lease, selfOwnedCount int) (types.Lease, bool) {
	if len(leasesOwnedByOthers) == 0 {
		return types.Lease{}, false
	}

	counts := make(map[string]int, len(leasesOwnedByOthers))
	order := make([]string, 0, len(leasesOwnedByOthers))
	for _, lease := range leasesOwnedByOthers {
		if _, seen := counts[lease.Owner]; !seen {
			order = append(order, lease.Owner)
		}
		counts[lease.Owner]++
	}

	biggestOwner := order[0]
	biggestCount := counts[order[0]]
	for _, owner := range order[1:] {
		if counts[owner] > biggestCount {
			biggestOwner = owner
			biggestCount = counts[owner]
		}
	}

	if biggestCount-selfOwnedCount < 2 {
		return types.Lease{}, false
	}

	for _, lease := range leasesOwnedByOthers {
		if lease.Owner == biggestOwner {
			return lease, true
		}
	}

	// Unreachable: biggestOwner was derived from leasesOwnedByOthers.
	return types.Lease{}, false
}
