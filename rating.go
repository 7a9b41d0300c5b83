package phototinder

import "math"

// Glicko constants.
const (
	glickoQ      = math.Ln10 / 400
	DefaultMu    = 1500.0
	DefaultSigma = 350.0
	SigmaFloor   = 50.0
)

// PhotoRating is one photo's skill estimate: mu is the rating, sigma
// its uncertainty (never below SigmaFloor once updated).
type PhotoRating struct {
	Mu            float64 `json:"mu"`
	Sigma         float64 `json:"sigma"`
	MatchesPlayed int     `json:"matches_played"`
}

func defaultRating() *PhotoRating {
	return &PhotoRating{Mu: DefaultMu, Sigma: DefaultSigma}
}

// initializeRatings maps every id to the default rating. Re-running a
// ranking episode replaces all prior estimates wholesale.
func initializeRatings(ids []string) map[string]*PhotoRating {
	ratings := make(map[string]*PhotoRating, len(ids))
	for _, id := range ids {
		ratings[id] = defaultRating()
	}
	return ratings
}

// glickoG discounts an opponent's pull by their own uncertainty.
func glickoG(sigma float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*glickoQ*glickoQ*sigma*sigma/(math.Pi*math.Pi))
}

// expectedScore is the win probability of a (mu_a) player against a
// (mu_b, sigma_b) opponent. Equal mus give exactly 0.5.
func expectedScore(muA, muB, sigmaB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, -glickoG(sigmaB)*(muA-muB)/400.0))
}

// glickoUpdate computes both sides' post-match (mu, sigma) from one
// shared pre-match snapshot, so commit order cannot matter. A decisive
// result scores (1, 0); a tie scores (0.5, 0.5). Sigma shrinks every
// match and is floored at SigmaFloor.
func glickoUpdate(winnerMu, winnerSigma, loserMu, loserSigma float64, tie bool) (newWinnerMu, newWinnerSigma, newLoserMu, newLoserSigma float64) {
	sWinner, sLoser := 1.0, 0.0
	if tie {
		sWinner, sLoser = 0.5, 0.5
	}

	eWinner := expectedScore(winnerMu, loserMu, loserSigma)
	eLoser := expectedScore(loserMu, winnerMu, winnerSigma)

	// The epsilon keeps d² finite when an expected score saturates.
	dSquared := func(sigmaOpp, e float64) float64 {
		g := glickoG(sigmaOpp)
		return 1.0 / (glickoQ*glickoQ*g*g*e*(1.0-e) + 1e-10)
	}

	d2Winner := dSquared(loserSigma, eWinner)
	d2Loser := dSquared(winnerSigma, eLoser)

	newWinnerSigma = math.Sqrt(1.0 / (1.0/(winnerSigma*winnerSigma) + 1.0/d2Winner))
	newLoserSigma = math.Sqrt(1.0 / (1.0/(loserSigma*loserSigma) + 1.0/d2Loser))

	newWinnerMu = winnerMu + glickoQ*newWinnerSigma*newWinnerSigma*glickoG(loserSigma)*(sWinner-eWinner)
	newLoserMu = loserMu + glickoQ*newLoserSigma*newLoserSigma*glickoG(winnerSigma)*(sLoser-eLoser)

	newWinnerSigma = math.Max(newWinnerSigma, SigmaFloor)
	newLoserSigma = math.Max(newLoserSigma, SigmaFloor)

	return newWinnerMu, newWinnerSigma, newLoserMu, newLoserSigma
}

// ConservativeScore is the lower-confidence-bound ranking metric
// mu - 2*sigma used for the leaderboard and cluster representatives.
func ConservativeScore(mu, sigma float64) float64 {
	return mu - 2.0*sigma
}
