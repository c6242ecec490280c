package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laasyan18/Tunr/internal/models"
)

type fakeSocialStore struct {
	users   map[string]*models.User
	follows map[[2]int]bool
	popular []models.UserSummary
	results []models.UserSummary
}

func newFakeSocialStore(users ...*models.User) *fakeSocialStore {
	f := &fakeSocialStore{users: make(map[string]*models.User), follows: make(map[[2]int]bool)}
	for _, u := range users {
		f.users[u.Username] = u
	}
	return f
}

func (f *fakeSocialStore) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeSocialStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSocialStore) Follow(_ context.Context, followerID, followeeID int) error {
	f.follows[[2]int{followerID, followeeID}] = true
	return nil
}

func (f *fakeSocialStore) Unfollow(_ context.Context, followerID, followeeID int) error {
	delete(f.follows, [2]int{followerID, followeeID})
	return nil
}

func (f *fakeSocialStore) IsFollowing(_ context.Context, followerID, followeeID int) (bool, error) {
	return f.follows[[2]int{followerID, followeeID}], nil
}

func (f *fakeSocialStore) Following(_ context.Context, userID int) ([]models.User, error) {
	var out []models.User
	for pair := range f.follows {
		if pair[0] == userID {
			if u, err := f.GetByID(context.Background(), pair[1]); err == nil {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (f *fakeSocialStore) Followers(_ context.Context, userID int) ([]models.User, error) {
	var out []models.User
	for pair := range f.follows {
		if pair[1] == userID {
			if u, err := f.GetByID(context.Background(), pair[0]); err == nil {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (f *fakeSocialStore) FollowingIDs(_ context.Context, userID int) ([]int, error) {
	var ids []int
	for pair := range f.follows {
		if pair[0] == userID {
			ids = append(ids, pair[1])
		}
	}
	return ids, nil
}

func (f *fakeSocialStore) FollowerCount(_ context.Context, userID int) (int, error) {
	n := 0
	for pair := range f.follows {
		if pair[1] == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSocialStore) PopularUsers(_ context.Context, _, _ int) ([]models.UserSummary, error) {
	return f.popular, nil
}

func (f *fakeSocialStore) SearchUsers(_ context.Context, _ int, _ string, _ int) ([]models.UserSummary, error) {
	return f.results, nil
}

func (f *fakeSocialStore) GetSpotifyCredentials(_ context.Context, userID int) (*models.SpotifyCredentials, error) {
	return &models.SpotifyCredentials{UserID: userID}, nil
}

type fakeReviewCounter struct{ counts map[int]int }

func (f *fakeReviewCounter) CountByUser(_ context.Context, userID int) (int, error) {
	return f.counts[userID], nil
}

type fakeInteractionCounter struct{ counts map[int]int }

func (f *fakeInteractionCounter) CountByUserAndType(_ context.Context, userID int, _ string) (int, error) {
	return f.counts[userID], nil
}

func newTestSocial(store *fakeSocialStore) *SocialService {
	return NewSocialService(store,
		&fakeReviewCounter{counts: map[int]int{}},
		&fakeInteractionCounter{counts: map[int]int{}})
}

func TestToggleFollowTwiceRestoresState(t *testing.T) {
	store := newFakeSocialStore(
		&models.User{ID: 1, Username: "alice"},
		&models.User{ID: 2, Username: "bob"},
	)
	svc := newTestSocial(store)
	ctx := context.Background()

	result, err := svc.ToggleFollow(ctx, 1, "bob")
	require.NoError(t, err)
	assert.True(t, result.Following)
	assert.Equal(t, "Now following @bob", result.Message)

	result, err = svc.ToggleFollow(ctx, 1, "bob")
	require.NoError(t, err)
	assert.False(t, result.Following)
	assert.Equal(t, "Unfollowed @bob", result.Message)

	following, _ := store.IsFollowing(ctx, 1, 2)
	assert.False(t, following)
}

func TestToggleFollowRejectsSelf(t *testing.T) {
	store := newFakeSocialStore(&models.User{ID: 1, Username: "alice"})
	svc := newTestSocial(store)

	_, err := svc.ToggleFollow(context.Background(), 1, "alice")
	assert.True(t, models.IsValidation(err))
}

func TestToggleFollowUnknownUser(t *testing.T) {
	store := newFakeSocialStore(&models.User{ID: 1, Username: "alice"})
	svc := newTestSocial(store)

	_, err := svc.ToggleFollow(context.Background(), 1, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProfileOwnVsOther(t *testing.T) {
	store := newFakeSocialStore(
		&models.User{ID: 1, Username: "alice", Email: "alice@example.com"},
		&models.User{ID: 2, Username: "bob", Email: "bob@example.com"},
	)
	require.NoError(t, store.Follow(context.Background(), 1, 2))
	svc := newTestSocial(store)

	own, err := svc.Profile(context.Background(), 1, "alice")
	require.NoError(t, err)
	assert.True(t, own.IsOwnProfile)
	assert.Equal(t, "alice@example.com", own.Email)
	assert.Equal(t, 1, own.Stats.Following)

	other, err := svc.Profile(context.Background(), 1, "bob")
	require.NoError(t, err)
	assert.False(t, other.IsOwnProfile)
	assert.Empty(t, other.Email)
	assert.True(t, other.IsFollowing)
	assert.Equal(t, 1, other.Stats.Followers)
}

func TestSearchEmptyQueryReturnsSuggestions(t *testing.T) {
	store := newFakeSocialStore()
	store.popular = []models.UserSummary{{Username: "celeb", FollowersCount: 10}}
	store.results = []models.UserSummary{{Username: "match"}}
	svc := newTestSocial(store)

	users, err := svc.Search(context.Background(), 1, "")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "celeb", users[0].Username)

	users, err = svc.Search(context.Background(), 1, "mat")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "match", users[0].Username)
}

func TestFollowersFlagsViewerRelationship(t *testing.T) {
	store := newFakeSocialStore(
		&models.User{ID: 1, Username: "alice"},
		&models.User{ID: 2, Username: "bob"},
		&models.User{ID: 3, Username: "carol"},
	)
	ctx := context.Background()
	require.NoError(t, store.Follow(ctx, 2, 1)) // bob follows alice
	require.NoError(t, store.Follow(ctx, 3, 1)) // carol follows alice
	require.NoError(t, store.Follow(ctx, 1, 2)) // alice follows bob back
	svc := newTestSocial(store)

	followers, err := svc.Followers(ctx, 1, "alice")
	require.NoError(t, err)
	require.Len(t, followers, 2)

	byName := make(map[string]models.UserSummary)
	for _, u := range followers {
		byName[u.Username] = u
	}
	assert.True(t, byName["bob"].IsFollowing)
	assert.False(t, byName["carol"].IsFollowing)
}
