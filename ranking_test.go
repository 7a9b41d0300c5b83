package phototinder

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNG encodes img into dir/name and returns its path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// rankedSession returns a session with a hand-seeded ranking state;
// InitRanking's scan/hash pipeline is covered separately.
func rankedSession(t *testing.T, ratings map[string]*PhotoRating, clusters map[string]*Cluster) (*Session, *memStore) {
	t.Helper()
	s, store := newTestSession(t, Config{})
	rs := &s.state.Ranking
	rs.Initialized = true
	rs.Ratings = ratings
	rs.Clusters = clusters
	for cid, c := range clusters {
		for _, pid := range c.PhotoIDs {
			rs.PhotoToCluster[pid] = cid
		}
	}
	return s, store
}

func TestCompareUndoIsExactInverse(t *testing.T) {
	t.Parallel()

	s, _ := rankedSession(t, map[string]*PhotoRating{
		"a": {Mu: 1500, Sigma: 350},
		"b": {Mu: 1500, Sigma: 350},
	}, nil)

	require.NoError(t, s.Compare("a", "b", OutcomeLeft))

	rs := &s.state.Ranking
	assert.Greater(t, rs.Ratings["a"].Mu, 1500.0)
	assert.Less(t, rs.Ratings["b"].Mu, 1500.0)
	assert.Less(t, rs.Ratings["a"].Sigma, 350.0)
	assert.Less(t, rs.Ratings["b"].Sigma, 350.0)
	assert.Equal(t, 1, rs.Ratings["a"].MatchesPlayed)
	assert.Equal(t, 1, rs.Ratings["b"].MatchesPlayed)
	assert.Equal(t, 1, rs.TotalComparisons)

	result, err := s.UndoComparison()
	require.NoError(t, err)
	require.True(t, result.Undone)

	for _, id := range []string{"a", "b"} {
		r := rs.Ratings[id]
		assert.Equal(t, 1500.0, r.Mu, id)
		assert.Equal(t, 350.0, r.Sigma, id)
		assert.Zero(t, r.MatchesPlayed, id)
	}
	assert.Zero(t, rs.TotalComparisons)
}

func TestCompareSkipLeavesRatingsAlone(t *testing.T) {
	t.Parallel()

	s, _ := rankedSession(t, map[string]*PhotoRating{
		"a": {Mu: 1510, Sigma: 300, MatchesPlayed: 2},
		"b": {Mu: 1490, Sigma: 280, MatchesPlayed: 3},
	}, nil)
	rs := &s.state.Ranking

	require.NoError(t, s.Compare("a", "b", OutcomeSkip))

	assert.Equal(t, 1510.0, rs.Ratings["a"].Mu)
	assert.Equal(t, 2, rs.Ratings["a"].MatchesPlayed)
	assert.Zero(t, rs.TotalComparisons)
	assert.Equal(t, 1, rs.ComparisonHistory.Len(), "skip is still journaled")

	// Undoing the skip must not touch match counts either.
	result, err := s.UndoComparison()
	require.NoError(t, err)
	require.True(t, result.Undone)
	assert.Equal(t, 2, rs.Ratings["a"].MatchesPlayed)
	assert.Equal(t, 3, rs.Ratings["b"].MatchesPlayed)
}

func TestCompareRightWinner(t *testing.T) {
	t.Parallel()

	s, _ := rankedSession(t, map[string]*PhotoRating{
		"a": {Mu: 1500, Sigma: 350},
		"b": {Mu: 1500, Sigma: 350},
	}, nil)

	require.NoError(t, s.Compare("a", "b", OutcomeRight))

	rs := &s.state.Ranking
	assert.Less(t, rs.Ratings["a"].Mu, 1500.0)
	assert.Greater(t, rs.Ratings["b"].Mu, 1500.0)
}

func TestCompareErrors(t *testing.T) {
	t.Parallel()

	s, _ := rankedSession(t, map[string]*PhotoRating{
		"a": {Mu: 1500, Sigma: 350},
		"b": {Mu: 1500, Sigma: 350},
	}, nil)

	assert.ErrorIs(t, s.Compare("a", "nope", OutcomeLeft), ErrNotFound)
	assert.ErrorIs(t, s.Compare("nope", "b", OutcomeLeft), ErrNotFound)
	assert.ErrorIs(t, s.Compare("a", "b", Outcome(99)), ErrInvalidInput)

	uninit, _ := newTestSession(t, Config{})
	assert.ErrorIs(t, uninit.Compare("a", "b", OutcomeLeft), ErrUninitialized)
	_, err := uninit.NextPair()
	assert.ErrorIs(t, err, ErrUninitialized)
}

func TestComparePhaseTransition(t *testing.T) {
	t.Parallel()

	// One two-photo cluster: a single comparison satisfies
	// required_matches(2)=1, the finalize sweep completes the cluster,
	// and the phase flips to Global.
	s, _ := rankedSession(t, map[string]*PhotoRating{
		"a": {Mu: 1500, Sigma: 350},
		"b": {Mu: 1500, Sigma: 350},
	}, map[string]*Cluster{
		"cluster_0000": {ID: "cluster_0000", PhotoIDs: []string{"a", "b"}},
	})
	rs := &s.state.Ranking

	require.Equal(t, PhaseIntraCluster, rs.Phase)
	require.NoError(t, s.Compare("a", "b", OutcomeLeft))

	assert.Equal(t, PhaseGlobal, rs.Phase)
	assert.True(t, rs.Clusters["cluster_0000"].InternalRankingComplete)
	assert.NotEmpty(t, rs.Clusters["cluster_0000"].RepresentativeID)

	// Undo restores ratings but never reverts the phase.
	_, err := s.UndoComparison()
	require.NoError(t, err)
	assert.Equal(t, PhaseGlobal, rs.Phase)
}

func TestUndoComparisonEmpty(t *testing.T) {
	t.Parallel()

	s, _ := rankedSession(t, map[string]*PhotoRating{}, nil)
	result, err := s.UndoComparison()
	require.NoError(t, err)
	assert.False(t, result.Undone)
	assert.Equal(t, "nothing to undo", result.Message)
}

func TestLeaderboardOrder(t *testing.T) {
	t.Parallel()

	s, _ := rankedSession(t, map[string]*PhotoRating{
		"first":  {Mu: 1600, Sigma: 50},  // score 1500
		"second": {Mu: 1500, Sigma: 100}, // score 1300
		"third":  {Mu: 1700, Sigma: 300}, // score 1100
	}, nil)

	board := s.Leaderboard(10)
	require.Len(t, board, 3)
	assert.Equal(t, "first", board[0].ID)
	assert.Equal(t, "second", board[1].ID)
	assert.Equal(t, "third", board[2].ID)
	assert.Equal(t, 1500.0, board[0].Score)

	truncated := s.Leaderboard(2)
	require.Len(t, truncated, 2)
	assert.Equal(t, "first", truncated[0].ID)
}

func TestRankingStatsBuckets(t *testing.T) {
	t.Parallel()

	s, _ := rankedSession(t, map[string]*PhotoRating{
		"a": {Sigma: 350, MatchesPlayed: 1},
		"b": {Sigma: 150, MatchesPlayed: 2},
		"c": {Sigma: 60, MatchesPlayed: 4},
	}, nil)

	stats := s.RankingStats()
	assert.Equal(t, 1, stats.HighUncertainty)
	assert.Equal(t, 1, stats.MediumUncertainty)
	assert.Equal(t, 1, stats.LowUncertainty)
	assert.InDelta(t, 2.33, stats.AvgMatchesPerPhoto, 1e-9)

	uninit, _ := newTestSession(t, Config{})
	assert.Equal(t, "not_initialized", uninit.RankingStats().Phase)
}

func TestInitRankingFullFlow(t *testing.T) {
	t.Parallel()

	accepted := t.TempDir()
	writePNG(t, accepted, "flat.png", flatImage())
	writePNG(t, accepted, "ramp.png", rampImage())
	writeFile(t, accepted, "broken.jpg") // undecodable: rated but unhashed

	s, store := newTestSession(t, Config{
		SourceFolders:  []string{t.TempDir()},
		AcceptedFolder: accepted,
		RejectedFolder: t.TempDir(),
	})

	stats, err := s.InitRanking()
	require.NoError(t, err)

	rs := &s.state.Ranking
	assert.True(t, rs.Initialized)
	assert.Equal(t, 3, stats.TotalPhotos)
	assert.Len(t, rs.Ratings, 3)

	// flat and ramp are 256 bits apart: two singleton clusters, both
	// already complete; the broken photo has no fingerprint.
	assert.Equal(t, 2, stats.ClusterCount)
	assert.Len(t, s.hashes, 2)
	assert.NotContains(t, s.hashes, PhotoID(filepath.Join(accepted, "broken.jpg")))
	assert.Contains(t, rs.Ratings, PhotoID(filepath.Join(accepted, "broken.jpg")))
	assert.Equal(t, "intra_cluster", stats.Phase)

	// The hash cache document was persisted.
	assert.Len(t, store.hashes, 2)

	// A second init is a full reset.
	require.NoError(t, s.Compare(PhotoID(filepath.Join(accepted, "flat.png")), PhotoID(filepath.Join(accepted, "ramp.png")), OutcomeLeft))
	stats, err = s.InitRanking()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalComparisons)
	assert.Zero(t, rs.ComparisonHistory.Len())
	for _, r := range rs.Ratings {
		assert.Equal(t, DefaultMu, r.Mu)
	}
}

func TestInitRankingEmptyFolder(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, Config{AcceptedFolder: t.TempDir()})
	_, err := s.InitRanking()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNextPairFlow(t *testing.T) {
	t.Parallel()

	accepted := t.TempDir()
	flatPath := writePNG(t, accepted, "flat.png", flatImage())
	rampPath := writePNG(t, accepted, "ramp.png", rampImage())

	s, _ := newTestSession(t, Config{AcceptedFolder: accepted})
	_, err := s.InitRanking()
	require.NoError(t, err)

	pair, err := s.NextPair()
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.ElementsMatch(t,
		[]string{PhotoID(flatPath), PhotoID(rampPath)},
		[]string{pair.Left.ID, pair.Right.ID})
	assert.NotEmpty(t, pair.Left.FilePath)
	assert.Equal(t, 1500.0, pair.Left.Mu)
}

func TestComparisonLedgerCapAtSessionLevel(t *testing.T) {
	t.Parallel()

	s, _ := rankedSession(t, map[string]*PhotoRating{
		"a": {Mu: 1500, Sigma: 350},
		"b": {Mu: 1500, Sigma: 350},
	}, nil)
	rs := &s.state.Ranking

	for i := 0; i < journalCap+5; i++ {
		require.NoError(t, s.Compare("a", "b", OutcomeSkip))
	}
	assert.Equal(t, journalCap, rs.ComparisonHistory.Len())
}
