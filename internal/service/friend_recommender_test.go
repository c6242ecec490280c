package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laasyan18/Tunr/internal/models"
)

type fakeReviewReader struct {
	byUser map[int][]models.Review
}

func (f *fakeReviewReader) ByUser(_ context.Context, userID, _ int) ([]models.Review, error) {
	return f.byUser[userID], nil
}

type fakeCandidateReader struct {
	candidates []models.User
	popular    []models.UserSummary
}

func (f *fakeCandidateReader) CandidateUsers(_ context.Context, _ int) ([]models.User, error) {
	return f.candidates, nil
}

func (f *fakeCandidateReader) PopularUsers(_ context.Context, _, _ int) ([]models.UserSummary, error) {
	return f.popular, nil
}

func TestScoreTastePairWeights(t *testing.T) {
	mine := ExtractSignals([]models.Review{
		review("tt1", 5, "Action", "Director X", "Actor A"),
	})
	theirs := ExtractSignals([]models.Review{
		review("tt1", 4, "Action", "Director X", "Actor A"),
	})

	score, reasons := scoreTastePair(mine, theirs)

	// 1 movie * 10 + 1 genre * 3 + 1 director * 5 + 1 actor * 2
	assert.Equal(t, 20, score)
	require.Len(t, reasons, 2)
	assert.Equal(t, "1 movies in common", reasons[0])
	assert.Equal(t, "Both love Action", reasons[1])
}

func TestScoreTastePairNoOverlap(t *testing.T) {
	mine := ExtractSignals([]models.Review{
		review("tt1", 5, "Action", "Director X", "Actor A"),
	})
	theirs := ExtractSignals([]models.Review{
		review("tt2", 5, "Romance", "Director Y", "Actor B"),
	})

	score, reasons := scoreTastePair(mine, theirs)
	assert.Zero(t, score)
	assert.Empty(t, reasons)
}

func TestScoreTastePairMonotonic(t *testing.T) {
	mine := ExtractSignals([]models.Review{
		review("tt1", 5, "Action", "Director X", "Actor A"),
		review("tt2", 5, "Drama", "Director Y", "Actor B"),
	})
	small := ExtractSignals([]models.Review{
		review("tt1", 4, "Action", "Director X", "Actor A"),
	})
	big := ExtractSignals([]models.Review{
		review("tt1", 4, "Action", "Director X", "Actor A"),
		review("tt2", 4, "Drama", "Director Y", "Actor B"),
	})

	smallScore, _ := scoreTastePair(mine, small)
	bigScore, _ := scoreTastePair(mine, big)
	assert.Greater(t, bigScore, smallScore)
}

func TestScoreTastePairActorReasonThreshold(t *testing.T) {
	mine := ExtractSignals([]models.Review{
		review("tt1", 5, "", "", "Actor A, Actor B"),
	})
	theirs := ExtractSignals([]models.Review{
		review("tt2", 5, "", "", "Actor A, Actor B"),
	})

	score, reasons := scoreTastePair(mine, theirs)
	assert.Equal(t, 4, score)
	// Two shared actors score but do not produce a reason.
	assert.Empty(t, reasons)

	mine = ExtractSignals([]models.Review{
		review("tt1", 5, "", "", "Actor A, Actor B, Actor C"),
	})
	theirs = ExtractSignals([]models.Review{
		review("tt2", 5, "", "", "Actor A, Actor B, Actor C"),
	})
	_, reasons = scoreTastePair(mine, theirs)
	require.Len(t, reasons, 1)
	assert.Equal(t, "3 favorite actors in common", reasons[0])
}

func TestRecommendRanksAndExcludesZeroScores(t *testing.T) {
	reviews := &fakeReviewReader{byUser: map[int][]models.Review{
		1: {review("tt1", 5, "Action", "Director X", "Actor A")},
		2: {review("tt1", 4, "Action", "Director X", "Actor A")}, // strong match
		3: {review("tt9", 5, "Action", "Director Z", "Actor Z")}, // genre only
		4: {review("tt8", 5, "Romance", "Director Y", "Actor B")}, // no overlap
	}}
	users := &fakeCandidateReader{candidates: []models.User{
		{ID: 2, Username: "strong"},
		{ID: 3, Username: "weak"},
		{ID: 4, Username: "stranger"},
	}}

	resp, err := NewFriendRecommender(reviews, users).Recommend(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "strong", resp.Recommendations[0].Username)
	assert.Equal(t, "weak", resp.Recommendations[1].Username)
	assert.Greater(t, resp.Recommendations[0].Score, resp.Recommendations[1].Score)
}

func TestRecommendColdStartFallsBackToPopular(t *testing.T) {
	reviews := &fakeReviewReader{byUser: map[int][]models.Review{}}
	users := &fakeCandidateReader{popular: []models.UserSummary{
		{Username: "celeb", FollowersCount: 42},
		{Username: "rising", FollowersCount: 7},
	}}

	resp, err := NewFriendRecommender(reviews, users).Recommend(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "celeb", resp.Recommendations[0].Username)
	assert.Equal(t, "42 followers", resp.Recommendations[0].Reason)
	assert.Equal(t, 42, resp.Recommendations[0].Score)
}

func TestRecommendEmptyCandidates(t *testing.T) {
	reviews := &fakeReviewReader{byUser: map[int][]models.Review{
		1: {review("tt1", 5, "Action", "X", "A")},
	}}
	users := &fakeCandidateReader{}

	resp, err := NewFriendRecommender(reviews, users).Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, resp.Recommendations)
	assert.Empty(t, resp.Recommendations)
}
