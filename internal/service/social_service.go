package service

import (
	"context"
	"fmt"

	"github.com/laasyan18/Tunr/internal/models"
)

const userSearchLimit = 20

type socialGraphStore interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Follow(ctx context.Context, followerID, followeeID int) error
	Unfollow(ctx context.Context, followerID, followeeID int) error
	IsFollowing(ctx context.Context, followerID, followeeID int) (bool, error)
	Following(ctx context.Context, userID int) ([]models.User, error)
	Followers(ctx context.Context, userID int) ([]models.User, error)
	FollowingIDs(ctx context.Context, userID int) ([]int, error)
	FollowerCount(ctx context.Context, userID int) (int, error)
	PopularUsers(ctx context.Context, userID, limit int) ([]models.UserSummary, error)
	SearchUsers(ctx context.Context, userID int, query string, limit int) ([]models.UserSummary, error)
	GetSpotifyCredentials(ctx context.Context, userID int) (*models.SpotifyCredentials, error)
}

type reviewCounter interface {
	CountByUser(ctx context.Context, userID int) (int, error)
}

type interactionCounter interface {
	CountByUserAndType(ctx context.Context, userID int, kind string) (int, error)
}

// SocialService manages the follow graph, profiles and user search.
type SocialService struct {
	users        socialGraphStore
	reviews      reviewCounter
	interactions interactionCounter
}

// NewSocialService creates a new SocialService.
func NewSocialService(users socialGraphStore, reviews reviewCounter, interactions interactionCounter) *SocialService {
	return &SocialService{users: users, reviews: reviews, interactions: interactions}
}

// Profile assembles a profile page for the named user as seen by viewerID.
func (s *SocialService) Profile(ctx context.Context, viewerID int, username string) (*models.Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	watched, err := s.interactions.CountByUserAndType(ctx, user.ID, models.InteractionWatched)
	if err != nil {
		return nil, err
	}
	reviewCount, err := s.reviews.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followingIDs, err := s.users.FollowingIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followerCount, err := s.users.FollowerCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		Username:     user.Username,
		Bio:          user.Bio,
		CreatedAt:    user.CreatedAt,
		IsOwnProfile: user.ID == viewerID,
		Stats: models.ProfileStats{
			Watched:   watched,
			Reviews:   reviewCount,
			Following: len(followingIDs),
			Followers: followerCount,
		},
	}

	if profile.IsOwnProfile {
		profile.Email = user.Email
		creds, err := s.users.GetSpotifyCredentials(ctx, user.ID)
		if err == nil && creds.RefreshToken != "" {
			profile.SpotifyConnected = true
		}
	} else {
		following, err := s.users.IsFollowing(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = following
	}
	return profile, nil
}

// ToggleFollow follows the named user if not yet followed, otherwise
// unfollows. Self-follow is rejected.
func (s *SocialService) ToggleFollow(ctx context.Context, followerID int, username string) (*models.FollowResult, error) {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		return nil, models.NewValidationError("username", "cannot follow yourself")
	}

	following, err := s.users.IsFollowing(ctx, followerID, target.ID)
	if err != nil {
		return nil, err
	}

	if following {
		if err := s.users.Unfollow(ctx, followerID, target.ID); err != nil {
			return nil, err
		}
		return &models.FollowResult{
			Following: false,
			Message:   fmt.Sprintf("Unfollowed @%s", target.Username),
		}, nil
	}

	if err := s.users.Follow(ctx, followerID, target.ID); err != nil {
		return nil, err
	}
	return &models.FollowResult{
		Following: true,
		Message:   fmt.Sprintf("Now following @%s", target.Username),
	}, nil
}

// Following lists the users the named user follows, flagged with whether the
// viewer follows them too.
func (s *SocialService) Following(ctx context.Context, viewerID int, username string) ([]models.UserSummary, error) {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	list, err := s.users.Following(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, viewerID, list)
}

// Followers lists the named user's followers, flagged with whether the
// viewer follows them.
func (s *SocialService) Followers(ctx context.Context, viewerID int, username string) ([]models.UserSummary, error) {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	list, err := s.users.Followers(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, viewerID, list)
}

// Search finds users by name or email fragment. An empty query returns
// follow suggestions ranked by follower count.
func (s *SocialService) Search(ctx context.Context, viewerID int, query string) ([]models.UserSummary, error) {
	var (
		results []models.UserSummary
		err     error
	)
	if query == "" {
		results, err = s.users.PopularUsers(ctx, viewerID, userSearchLimit)
	} else {
		results, err = s.users.SearchUsers(ctx, viewerID, query, userSearchLimit)
	}
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.UserSummary{}
	}
	return results, nil
}

func (s *SocialService) summarize(ctx context.Context, viewerID int, users []models.User) ([]models.UserSummary, error) {
	viewerFollows, err := s.users.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	followed := make(map[int]bool, len(viewerFollows))
	for _, id := range viewerFollows {
		followed[id] = true
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		count, err := s.users.FollowerCount(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.UserSummary{
			Username:       u.Username,
			Bio:            u.Bio,
			IsFollowing:    followed[u.ID],
			FollowersCount: count,
		})
	}
	return summaries, nil
}
