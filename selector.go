package phototinder

import (
	"math/rand"
	"sort"
)

// Pair-selection tuning.
const (
	// convergedSigma: a cluster whose members average below this
	// uncertainty needs no further internal comparisons.
	convergedSigma = 100.0

	// globalPoolMin / globalPoolShare size the high-uncertainty pool
	// the global primary is drawn from: max(10, n/10).
	globalPoolMin   = 10
	globalPoolShare = 10

	// globalSampleSize caps the opponent sample in the global phase.
	globalSampleSize = 20
)

// requiredMatches is the minimum per-member match count after which a
// cluster of n valid members counts as converged: 1 for pairs, 2 for
// triples, 3 from four members up.
func requiredMatches(n int) int {
	switch {
	case n <= 2:
		return 1
	case n == 3:
		return 2
	default:
		return 3
	}
}

// selectPair picks the next comparison. Intra-cluster pairing runs
// first while the phase allows it; the global strategy is used in the
// Global phase and as fallback when no cluster yields a pair. Returns
// ok=false when fewer than two rated photos remain.
func selectPair(rs *RankingState, rng *rand.Rand) (left, right string, ok bool) {
	if len(rs.Ratings) < 2 {
		return "", "", false
	}

	if rs.Phase == PhaseIntraCluster && len(rs.Clusters) > 0 {
		if l, r, found := selectIntraClusterPair(rs.Clusters, rs.Ratings); found {
			return l, r, true
		}
	}

	return selectGlobalPair(rs.Ratings, rng)
}

// validMembers filters a cluster's member list to ids still present in
// ratings, preserving insertion order. Membership itself is never
// mutated here; stale ids are only skipped.
func validMembers(c *Cluster, ratings map[string]*PhotoRating) []string {
	valid := make([]string, 0, len(c.PhotoIDs))
	for _, id := range c.PhotoIDs {
		if _, ok := ratings[id]; ok {
			valid = append(valid, id)
		}
	}
	return valid
}

// clusterConverged reports whether a cluster needs no further internal
// comparisons for now: average sigma below convergedSigma, or every
// member has played the required match count.
func clusterConverged(valid []string, ratings map[string]*PhotoRating) bool {
	var sigmaSum float64
	minMatches := -1
	for _, id := range valid {
		r := ratings[id]
		sigmaSum += r.Sigma
		if minMatches < 0 || r.MatchesPlayed < minMatches {
			minMatches = r.MatchesPlayed
		}
	}
	avgSigma := sigmaSum / float64(len(valid))
	return avgSigma < convergedSigma || minMatches >= requiredMatches(len(valid))
}

// selectIntraClusterPair walks clusters in creation order (ascending
// id; ids are zero-padded counters) and returns the first pair from an
// incomplete, unconverged cluster: the member with the largest sigma
// against the remaining member with the closest mu. Ties keep the first
// candidate in member order.
func selectIntraClusterPair(clusters map[string]*Cluster, ratings map[string]*PhotoRating) (string, string, bool) {
	ids := make([]string, 0, len(clusters))
	for id := range clusters {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, cid := range ids {
		c := clusters[cid]
		if c.InternalRankingComplete {
			continue
		}

		valid := validMembers(c, ratings)
		if len(valid) < 2 {
			continue
		}
		if clusterConverged(valid, ratings) {
			continue
		}

		primary := valid[0]
		for _, id := range valid[1:] {
			if ratings[id].Sigma > ratings[primary].Sigma {
				primary = id
			}
		}

		primaryMu := ratings[primary].Mu
		opponent := ""
		bestDiff := 0.0
		for _, id := range valid {
			if id == primary {
				continue
			}
			diff := absDiff(ratings[id].Mu, primaryMu)
			if opponent == "" || diff < bestDiff {
				opponent, bestDiff = id, diff
			}
		}
		if opponent != "" {
			return primary, opponent, true
		}
	}

	return "", "", false
}

// selectGlobalPair draws the primary uniformly from the pool of the
// max(10, n/10) highest-uncertainty photos, then picks the closest-mu
// opponent from a uniform sample (≤20) of everything else.
func selectGlobalPair(ratings map[string]*PhotoRating, rng *rand.Rand) (string, string, bool) {
	if len(ratings) < 2 {
		return "", "", false
	}

	all := make([]string, 0, len(ratings))
	for id := range ratings {
		all = append(all, id)
	}
	sort.Strings(all)

	bySigma := make([]string, len(all))
	copy(bySigma, all)
	sort.SliceStable(bySigma, func(i, j int) bool {
		return ratings[bySigma[i]].Sigma > ratings[bySigma[j]].Sigma
	})

	poolSize := len(bySigma) / globalPoolShare
	if poolSize < globalPoolMin {
		poolSize = globalPoolMin
	}
	if poolSize > len(bySigma) {
		poolSize = len(bySigma)
	}
	primary := bySigma[rng.Intn(poolSize)]
	primaryMu := ratings[primary].Mu

	candidates := make([]string, 0, len(all)-1)
	for _, id := range all {
		if id != primary {
			candidates = append(candidates, id)
		}
	}

	sample := candidates
	if len(candidates) > globalSampleSize {
		sample = make([]string, 0, globalSampleSize)
		for _, i := range rng.Perm(len(candidates))[:globalSampleSize] {
			sample = append(sample, candidates[i])
		}
	}

	opponent := ""
	bestDiff := 0.0
	for _, id := range sample {
		diff := absDiff(ratings[id].Mu, primaryMu)
		if opponent == "" || diff < bestDiff {
			opponent, bestDiff = id, diff
		}
	}
	if opponent == "" {
		return "", "", false
	}
	return primary, opponent, true
}

// finalizeCluster marks a cluster's internal ranking complete and
// elects its representative: the valid member with the highest
// conservative score, first member winning ties.
func finalizeCluster(c *Cluster, ratings map[string]*PhotoRating) {
	c.InternalRankingComplete = true

	best := ""
	bestScore := 0.0
	for _, id := range c.PhotoIDs {
		r, ok := ratings[id]
		if !ok {
			continue
		}
		score := ConservativeScore(r.Mu, r.Sigma)
		if best == "" || score > bestScore {
			best, bestScore = id, score
		}
	}
	if best != "" {
		c.RepresentativeID = best
	}
}

// finalizeConvergedClusters finalizes every incomplete cluster that is
// converged or has fewer than two valid members, then reports whether
// all clusters are now complete. Called after each comparison; the
// phase transition fires exactly when the last cluster completes.
func finalizeConvergedClusters(clusters map[string]*Cluster, ratings map[string]*PhotoRating) (allComplete bool) {
	allComplete = true
	for _, c := range clusters {
		if c.InternalRankingComplete {
			continue
		}
		valid := validMembers(c, ratings)
		if len(valid) < 2 || clusterConverged(valid, ratings) {
			finalizeCluster(c, ratings)
			continue
		}
		allComplete = false
	}
	return allComplete
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
