package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/laasyan18/Tunr/internal/models"
)

// Pairwise taste score weights, in reason precedence order.
const (
	weightCommonMovie    = 10
	weightCommonGenre    = 3
	weightCommonDirector = 5
	weightCommonActor    = 2

	friendRecLimit     = 20
	popularUserLimit   = 10
	sharedActorsReason = 3
)

type reviewReader interface {
	ByUser(ctx context.Context, userID, limit int) ([]models.Review, error)
}

type candidateReader interface {
	CandidateUsers(ctx context.Context, userID int) ([]models.User, error)
	PopularUsers(ctx context.Context, userID, limit int) ([]models.UserSummary, error)
}

// FriendRecommender suggests users to follow from pairwise taste similarity.
type FriendRecommender struct {
	reviews reviewReader
	users   candidateReader
}

// NewFriendRecommender creates a new FriendRecommender.
func NewFriendRecommender(reviews reviewReader, users candidateReader) *FriendRecommender {
	return &FriendRecommender{reviews: reviews, users: users}
}

// Recommend returns candidate users ranked by taste similarity. A user with
// no rating history gets a follower-count popularity ranking instead.
func (r *FriendRecommender) Recommend(ctx context.Context, userID int) (*models.FriendRecommendationResponse, error) {
	myReviews, err := r.reviews.ByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	if len(myReviews) == 0 {
		return r.popularFallback(ctx, userID)
	}

	mine := ExtractSignals(myReviews)
	candidates, err := r.users.CandidateUsers(ctx, userID)
	if err != nil {
		return nil, err
	}

	var recs []models.FriendRecommendation
	for _, candidate := range candidates {
		theirReviews, err := r.reviews.ByUser(ctx, candidate.ID, 0)
		if err != nil {
			return nil, err
		}
		theirs := ExtractSignals(theirReviews)

		score, reasons := scoreTastePair(mine, theirs)
		if score == 0 {
			continue
		}

		reason := "Similar taste"
		if len(reasons) > 0 {
			reason = strings.Join(reasons, " • ")
		}
		recs = append(recs, models.FriendRecommendation{
			Username: candidate.Username,
			Bio:      candidate.Bio,
			Reason:   reason,
			Score:    score,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > friendRecLimit {
		recs = recs[:friendRecLimit]
	}
	if recs == nil {
		recs = []models.FriendRecommendation{}
	}
	return &models.FriendRecommendationResponse{Recommendations: recs}, nil
}

func (r *FriendRecommender) popularFallback(ctx context.Context, userID int) (*models.FriendRecommendationResponse, error) {
	popular, err := r.users.PopularUsers(ctx, userID, popularUserLimit)
	if err != nil {
		return nil, err
	}

	recs := make([]models.FriendRecommendation, 0, len(popular))
	for _, u := range popular {
		recs = append(recs, models.FriendRecommendation{
			Username: u.Username,
			Bio:      u.Bio,
			Reason:   fmt.Sprintf("%d followers", u.FollowersCount),
			Score:    u.FollowersCount,
		})
	}
	return &models.FriendRecommendationResponse{Recommendations: recs}, nil
}

// scoreTastePair computes the similarity score between two users and the
// top-2 reasons in precedence order: common movies, genres, directors,
// actors.
func scoreTastePair(mine, theirs Signals) (int, []string) {
	score := 0
	var reasons []string

	common := 0
	for id := range theirs.RatedIDs {
		if mine.RatedIDs[id] {
			common++
		}
	}
	if common > 0 {
		score += common * weightCommonMovie
		reasons = append(reasons, fmt.Sprintf("%d movies in common", common))
	}

	myGenreCounts := tokenCounts(mine.GenreTokens)
	if shared := sharedTokens(mine.GenreTokens, theirs.GenreTokens); len(shared) > 0 {
		score += len(shared) * weightCommonGenre
		reasons = append(reasons, "Both love "+mostFrequent(shared, myGenreCounts))
	}

	myDirectorCounts := tokenCounts(mine.DirectorTokens)
	if shared := sharedTokens(mine.DirectorTokens, theirs.DirectorTokens); len(shared) > 0 {
		score += len(shared) * weightCommonDirector
		reasons = append(reasons, "Both like "+mostFrequent(shared, myDirectorCounts))
	}

	if shared := sharedTokens(mine.ActorTokens, theirs.ActorTokens); len(shared) > 0 {
		score += len(shared) * weightCommonActor
		if len(shared) >= sharedActorsReason {
			reasons = append(reasons, fmt.Sprintf("%d favorite actors in common", len(shared)))
		}
	}

	if len(reasons) > 2 {
		reasons = reasons[:2]
	}
	return score, reasons
}

// sharedTokens returns the distinct tokens present in both multisets,
// preserving first-encounter order from a.
func sharedTokens(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, t := range b {
		inB[t] = true
	}
	seen := make(map[string]bool)
	var shared []string
	for _, t := range a {
		if inB[t] && !seen[t] {
			seen[t] = true
			shared = append(shared, t)
		}
	}
	return shared
}

// mostFrequent picks the shared token with the highest frequency in the
// acting user's history, ties broken by encounter order.
func mostFrequent(shared []string, counts map[string]int) string {
	best := shared[0]
	for _, t := range shared[1:] {
		if counts[t] > counts[best] {
			best = t
		}
	}
	return best
}
