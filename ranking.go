package phototinder

import (
	"fmt"
	"math"
	"sort"
)

// RankingState is the ranking half of the persisted state. It is
// created wholesale by InitRanking (a full episode reset) and mutated
// only by Compare and UndoComparison.
type RankingState struct {
	Initialized       bool                      `json:"initialized"`
	Ratings           map[string]*PhotoRating   `json:"ratings"`
	Clusters          map[string]*Cluster       `json:"clusters"`
	PhotoToCluster    map[string]string         `json:"photo_to_cluster"`
	ComparisonHistory Journal[ComparisonRecord] `json:"comparison_history"`
	TotalComparisons  int                       `json:"total_comparisons"`
	Phase             Phase                     `json:"phase"`
	PhotoCount        int                       `json:"photo_count"`
	ClusterCount      int                       `json:"cluster_count"`
}

func (rs *RankingState) normalize() {
	if rs.Ratings == nil {
		rs.Ratings = make(map[string]*PhotoRating)
	}
	if rs.Clusters == nil {
		rs.Clusters = make(map[string]*Cluster)
	}
	if rs.PhotoToCluster == nil {
		rs.PhotoToCluster = make(map[string]string)
	}
}

// ComparisonRecord captures one comparison with both photos' pre-update
// values, so the update can be inverted exactly.
type ComparisonRecord struct {
	LeftID           string  `json:"left_id"`
	RightID          string  `json:"right_id"`
	Result           Outcome `json:"result"`
	LeftMuBefore     float64 `json:"left_mu_before"`
	LeftSigmaBefore  float64 `json:"left_sigma_before"`
	RightMuBefore    float64 `json:"right_mu_before"`
	RightSigmaBefore float64 `json:"right_sigma_before"`
	Timestamp        float64 `json:"timestamp"`
}

// RankingStats is the read-only progress summary for the ranking UI.
type RankingStats struct {
	Initialized        bool    `json:"initialized"`
	TotalPhotos        int     `json:"total_photos"`
	TotalComparisons   int     `json:"total_comparisons"`
	ClusterCount       int     `json:"cluster_count"`
	Phase              string  `json:"phase"`
	HighUncertainty    int     `json:"high_uncertainty"`   // sigma >= 200
	MediumUncertainty  int     `json:"medium_uncertainty"` // 100 <= sigma < 200
	LowUncertainty     int     `json:"low_uncertainty"`    // sigma < 100
	AvgMatchesPerPhoto float64 `json:"avg_matches_per_photo"`
}

// PairPhoto is one side of a comparison pair as shown to the user.
type PairPhoto struct {
	ID       string  `json:"id"`
	Mu       float64 `json:"mu"`
	Sigma    float64 `json:"sigma"`
	Matches  int     `json:"matches"`
	FilePath string  `json:"file_path"`
}

// Pair is the next comparison to present.
type Pair struct {
	Left  PairPhoto `json:"left"`
	Right PairPhoto `json:"right"`
}

// LeaderboardPhoto is one row of the conservative-score leaderboard.
type LeaderboardPhoto struct {
	ID       string  `json:"id"`
	Mu       float64 `json:"mu"`
	Sigma    float64 `json:"sigma"`
	Matches  int     `json:"matches"`
	Score    float64 `json:"score"`
	FilePath string  `json:"file_path"`
}

// InitRanking starts a new ranking episode over the accepted folder:
// every prior estimate, cluster, and comparison is discarded. Photos
// are fingerprinted (cache-first), clustered, and given default
// ratings; the phase starts intra-cluster unless there is nothing to
// cluster.
func (s *Session) InitRanking() (RankingStats, error) {
	photos := scanPhotoDir(s.config.AcceptedFolder)
	if len(photos) == 0 {
		return RankingStats{}, fmt.Errorf("%w: no photos in accepted folder %s", ErrNotFound, s.config.AcceptedFolder)
	}

	photoIDs := make([]string, 0, len(photos))
	for id := range photos {
		photoIDs = append(photoIDs, id)
	}
	sort.Strings(photoIDs)

	if s.hashes == nil {
		s.hashes = make(map[string]string)
	}
	for _, id := range photoIDs {
		if _, ok := s.hashes[id]; ok {
			continue
		}
		if fp := s.fingerprintFile(photos[id]); fp != "" {
			s.hashes[id] = fp
		}
	}
	if err := s.Store.SaveHashes(s.hashes); err != nil {
		return RankingStats{}, err
	}

	clusters, photoToCluster := ClusterPhotos(s.hashes)

	rs := &s.state.Ranking
	rs.Initialized = true
	rs.Ratings = initializeRatings(photoIDs)
	rs.Clusters = clusters
	rs.PhotoToCluster = photoToCluster
	rs.ComparisonHistory = Journal[ComparisonRecord]{}
	rs.TotalComparisons = 0
	rs.Phase = PhaseIntraCluster
	if len(clusters) == 0 {
		rs.Phase = PhaseGlobal
	}
	rs.PhotoCount = len(photos)
	rs.ClusterCount = len(clusters)

	if err := s.Store.SaveState(s.state); err != nil {
		return rs.stats(), err
	}
	return rs.stats(), nil
}

// NextPair selects the next comparison. A nil pair with a nil error
// means ranking is done for now (no cluster yields a pair and fewer
// than two rated photos remain globally).
func (s *Session) NextPair() (*Pair, error) {
	rs := &s.state.Ranking
	if !rs.Initialized {
		return nil, ErrUninitialized
	}

	left, right, ok := selectPair(rs, s.Rand)
	if !ok {
		return nil, nil
	}

	photos := scanPhotoDir(s.config.AcceptedFolder)
	return &Pair{
		Left:  s.pairPhoto(left, photos),
		Right: s.pairPhoto(right, photos),
	}, nil
}

func (s *Session) pairPhoto(id string, photos map[string]string) PairPhoto {
	r := s.state.Ranking.Ratings[id]
	if r == nil {
		r = defaultRating()
	}
	return PairPhoto{
		ID:       id,
		Mu:       round1(r.Mu),
		Sigma:    round1(r.Sigma),
		Matches:  r.MatchesPlayed,
		FilePath: photos[id],
	}
}

// Compare applies the user's verdict to a pair. Both photos' new
// ratings are computed from one shared before-snapshot and committed
// together. A Skip records the comparison for undo symmetry but
// mutates nothing and counts nothing. After the update, converged
// clusters are finalized and the phase flips to Global once every
// cluster's internal ranking is complete, never back.
func (s *Session) Compare(leftID, rightID string, outcome Outcome) error {
	rs := &s.state.Ranking
	if !rs.Initialized {
		return ErrUninitialized
	}
	if !outcome.valid() {
		return errInvalid("outcome", fmt.Sprintf("%d", outcome))
	}

	left, ok := rs.Ratings[leftID]
	if !ok {
		return errMissing("left photo", leftID)
	}
	right, ok := rs.Ratings[rightID]
	if !ok {
		return errMissing("right photo", rightID)
	}

	record := ComparisonRecord{
		LeftID:           leftID,
		RightID:          rightID,
		Result:           outcome,
		LeftMuBefore:     left.Mu,
		LeftSigmaBefore:  left.Sigma,
		RightMuBefore:    right.Mu,
		RightSigmaBefore: right.Sigma,
		Timestamp:        float64(s.Now().UnixNano()) / 1e9,
	}

	if outcome != OutcomeSkip {
		tie := outcome == OutcomeTie
		winner, loser := left, right
		if outcome == OutcomeRight {
			winner, loser = right, left
		}

		newWinnerMu, newWinnerSigma, newLoserMu, newLoserSigma :=
			glickoUpdate(winner.Mu, winner.Sigma, loser.Mu, loser.Sigma, tie)

		winner.Mu, winner.Sigma = newWinnerMu, newWinnerSigma
		loser.Mu, loser.Sigma = newLoserMu, newLoserSigma
		left.MatchesPlayed++
		right.MatchesPlayed++
		rs.TotalComparisons++
	}

	rs.ComparisonHistory.Push(record)

	if rs.Phase == PhaseIntraCluster {
		if finalizeConvergedClusters(rs.Clusters, rs.Ratings) {
			rs.Phase = PhaseGlobal
		}
	}

	return s.Store.SaveState(s.state)
}

// UndoResult reports an undo attempt. Undone=false with a nil error
// means there was nothing to undo.
type UndoResult struct {
	Undone  bool   `json:"undone"`
	Message string `json:"message"`
	PhotoID string `json:"photo_id,omitempty"`
}

// UndoComparison pops the latest comparison and restores both photos'
// before-values exactly. Non-skip undos also take back the match counts
// and the comparison total.
func (s *Session) UndoComparison() (UndoResult, error) {
	rs := &s.state.Ranking

	record, ok := rs.ComparisonHistory.Pop()
	if !ok {
		return UndoResult{Message: "nothing to undo"}, nil
	}

	if left, ok := rs.Ratings[record.LeftID]; ok {
		left.Mu = record.LeftMuBefore
		left.Sigma = record.LeftSigmaBefore
		if record.Result != OutcomeSkip && left.MatchesPlayed > 0 {
			left.MatchesPlayed--
		}
	}
	if right, ok := rs.Ratings[record.RightID]; ok {
		right.Mu = record.RightMuBefore
		right.Sigma = record.RightSigmaBefore
		if record.Result != OutcomeSkip && right.MatchesPlayed > 0 {
			right.MatchesPlayed--
		}
	}
	if record.Result != OutcomeSkip && rs.TotalComparisons > 0 {
		rs.TotalComparisons--
	}

	if err := s.Store.SaveState(s.state); err != nil {
		return UndoResult{}, err
	}
	return UndoResult{
		Undone:  true,
		Message: "undone comparison: " + record.Result.String(),
	}, nil
}

// Leaderboard ranks all rated photos by conservative score descending
// (ties keep ascending id order) and truncates to limit.
func (s *Session) Leaderboard(limit int) []LeaderboardPhoto {
	rs := &s.state.Ranking
	if !rs.Initialized {
		return nil
	}

	photos := scanPhotoDir(s.config.AcceptedFolder)

	scored := make([]LeaderboardPhoto, 0, len(rs.Ratings))
	for id, r := range rs.Ratings {
		scored = append(scored, LeaderboardPhoto{
			ID:       id,
			Mu:       round1(r.Mu),
			Sigma:    round1(r.Sigma),
			Matches:  r.MatchesPlayed,
			Score:    round1(ConservativeScore(r.Mu, r.Sigma)),
			FilePath: photos[id],
		})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})
	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// RankingStats summarizes ranking progress.
func (s *Session) RankingStats() RankingStats {
	rs := &s.state.Ranking
	if !rs.Initialized {
		return RankingStats{Phase: "not_initialized"}
	}
	return rs.stats()
}

func (rs *RankingState) stats() RankingStats {
	var high, medium, low, matches int
	for _, r := range rs.Ratings {
		switch {
		case r.Sigma >= 200:
			high++
		case r.Sigma >= 100:
			medium++
		default:
			low++
		}
		matches += r.MatchesPlayed
	}

	avg := 0.0
	if len(rs.Ratings) > 0 {
		avg = round2(float64(matches) / float64(len(rs.Ratings)))
	}

	return RankingStats{
		Initialized:        rs.Initialized,
		TotalPhotos:        len(rs.Ratings),
		TotalComparisons:   rs.TotalComparisons,
		ClusterCount:       rs.ClusterCount,
		Phase:              rs.Phase.String(),
		HighUncertainty:    high,
		MediumUncertainty:  medium,
		LowUncertainty:     low,
		AvgMatchesPerPhoto: avg,
	}
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
