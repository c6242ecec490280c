package service

import (
	"context"
	"sort"

	"github.com/laasyan18/Tunr/internal/models"
)

const (
	feedStreamLimit = 20
	feedTotalLimit  = 50
)

type ownActivityReader interface {
	ByUser(ctx context.Context, userID, limit int) ([]models.Review, error)
}

type interactionHistoryReader interface {
	ByUserAndType(ctx context.Context, userID int, kind string, limit int) ([]models.Interaction, error)
}

type userGetter interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// FeedService assembles a user's own activity feed from their reviews and
// interactions.
type FeedService struct {
	reviews      ownActivityReader
	interactions interactionHistoryReader
	users        userGetter
}

// NewFeedService creates a new FeedService.
func NewFeedService(reviews ownActivityReader, interactions interactionHistoryReader, users userGetter) *FeedService {
	return &FeedService{reviews: reviews, interactions: interactions, users: users}
}

// OwnActivity merges the user's recent reviews, watched marks and likes into
// one feed. A movie appears once: a review beats a watched mark, which beats
// a like.
func (s *FeedService) OwnActivity(ctx context.Context, userID int) (*models.ActivityResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ByUser(ctx, userID, feedStreamLimit)
	if err != nil {
		return nil, err
	}
	watched, err := s.interactions.ByUserAndType(ctx, userID, models.InteractionWatched, feedStreamLimit)
	if err != nil {
		return nil, err
	}
	liked, err := s.interactions.ByUserAndType(ctx, userID, models.InteractionLike, feedStreamLimit)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []models.FeedEntry

	for _, rev := range reviews {
		if seen[rev.IMDBID] {
			continue
		}
		seen[rev.IMDBID] = true
		entries = append(entries, models.FeedEntry{
			Type:       models.FeedRatedMovie,
			Timestamp:  rev.CreatedAt,
			Movie:      feedMovie(rev.IMDBID, rev.Movie),
			Rating:     rev.Rating,
			ReviewText: rev.ReviewText,
		})
	}
	for _, it := range watched {
		if seen[it.IMDBID] {
			continue
		}
		seen[it.IMDBID] = true
		entries = append(entries, models.FeedEntry{
			Type:      models.FeedWatchedMovie,
			Timestamp: it.CreatedAt,
			Movie:     feedMovie(it.IMDBID, it.Movie),
		})
	}
	for _, it := range liked {
		if seen[it.IMDBID] {
			continue
		}
		seen[it.IMDBID] = true
		entries = append(entries, models.FeedEntry{
			Type:      models.FeedLikedMovie,
			Timestamp: it.CreatedAt,
			Movie:     feedMovie(it.IMDBID, it.Movie),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if len(entries) > feedTotalLimit {
		entries = entries[:feedTotalLimit]
	}
	if entries == nil {
		entries = []models.FeedEntry{}
	}
	return &models.ActivityResponse{Activities: entries, Username: user.Username}, nil
}

func feedMovie(imdbID string, m *models.Movie) models.FeedMovie {
	fm := models.FeedMovie{IMDBID: imdbID}
	if m != nil {
		fm.Title = m.Title
		fm.Year = m.Year
		fm.PosterURL = m.Poster
	}
	return fm
}
