package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/laasyan18/Tunr/internal/models"
)

const (
	minReleaseYear   = 1995
	minExternalScore = 5.0

	profileStageLimit    = 15
	socialStageLimit     = 10
	popularStageLimit    = 10
	externalStageLimit   = 20
	popularTriggerBelow  = 5
	maxSearchTerms       = 4
	candidatesPerSearch  = 10
	externalEnoughAt     = 10
	friendRatedLimit     = 50
	friendLovedLimit     = 30
	friendWatchlistLimit = 20
	friendRecsLimit      = 30

	movieRecCacheTTL = 10 * time.Minute
)

// emptyRecsHint is returned when every discovery stage came up empty.
const emptyRecsHint = "Rate some movies to get personalized suggestions!"

type movieReviewReader interface {
	ByUser(ctx context.Context, userID, limit int) ([]models.Review, error)
	RatedIDs(ctx context.Context, userID int) ([]string, error)
	FolloweeFavorites(ctx context.Context, followeeIDs []int, excludeIDs []string, limit int) ([]models.RankedMovie, error)
	RecentFolloweeReviews(ctx context.Context, followeeIDs []int, minRating, limit int) ([]models.Review, error)
}

type movieFinder interface {
	SimilarMovies(ctx context.Context, genres, directors, actors, excludeIDs []string, limit int) ([]models.RankedMovie, error)
	PopularMovies(ctx context.Context, excludeIDs []string, limit int) ([]models.RankedMovie, error)
}

type followGraph interface {
	FollowingIDs(ctx context.Context, userID int) ([]int, error)
}

type catalogSearcher interface {
	Search(ctx context.Context, term string) ([]models.MovieSummary, error)
	Lookup(ctx context.Context, imdbID string) (*models.Movie, error)
}

type followeeActivityReader interface {
	RecentFolloweeByType(ctx context.Context, followeeIDs []int, kind string, limit int) ([]models.Interaction, error)
}

// MovieRecommender produces ranked, deduplicated, explainable movie
// suggestions through a pipeline of additive stages: profile match, social
// proof, popularity fallback and external discovery.
type MovieRecommender struct {
	reviews      movieReviewReader
	movies       movieFinder
	follows      followGraph
	interactions followeeActivityReader
	catalog      catalogSearcher
	rdb          *redis.Client
}

// NewMovieRecommender creates a new MovieRecommender. rdb may be nil.
func NewMovieRecommender(reviews movieReviewReader, movies movieFinder, follows followGraph,
	interactions followeeActivityReader, catalog catalogSearcher, rdb *redis.Client) *MovieRecommender {
	return &MovieRecommender{
		reviews:      reviews,
		movies:       movies,
		follows:      follows,
		interactions: interactions,
		catalog:      catalog,
		rdb:          rdb,
	}
}

// Personalized returns movie recommendations for a user. Stages are
// additive: a shared seen-set keeps duplicates out, and each fallback stage
// only runs when earlier yield is below its threshold.
func (r *MovieRecommender) Personalized(ctx context.Context, userID int) (*models.MovieRecommendationResponse, error) {
	cacheKey := fmt.Sprintf("recommendations:movies:%d", userID)
	if cached := r.getCache(ctx, cacheKey); cached != "" {
		var resp models.MovieRecommendationResponse
		if json.Unmarshal([]byte(cached), &resp) == nil {
			slog.Debug("movie recommendations cache hit", "user_id", userID)
			return &resp, nil
		}
	}

	myReviews, err := r.reviews.ByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	signals := ExtractSignals(myReviews)

	watchedIDs := make([]string, 0, len(signals.RatedIDs))
	for id := range signals.RatedIDs {
		watchedIDs = append(watchedIDs, id)
	}
	sort.Strings(watchedIDs)

	highSignals := ExtractSignals(signals.HighlyRated)
	topGenres := TopTokens(highSignals.GenreTokens, 3)
	topDirectors := TopTokens(highSignals.DirectorTokens, 3)
	topActors := TopTokens(highSignals.ActorTokens, 5)

	seen := make(map[string]bool)
	var recs []models.MovieRecommendation
	var ratingSort []float64

	appendRec := func(rec models.MovieRecommendation, sortKey float64) {
		seen[rec.IMDBID] = true
		recs = append(recs, rec)
		ratingSort = append(ratingSort, sortKey)
	}

	// Stage 1: profile match against local catalog.
	if len(signals.HighlyRated) > 0 {
		similar, err := r.movies.SimilarMovies(ctx, topGenres, topDirectors, topActors, watchedIDs, profileStageLimit)
		if err != nil {
			return nil, err
		}
		for _, m := range similar {
			if !yearAllowedFailOpen(m.Year) || seen[m.IMDBID] {
				continue
			}
			appendRec(models.MovieRecommendation{
				IMDBID:        m.IMDBID,
				Title:         m.Title,
				Year:          m.Year,
				Genre:         m.Genre,
				Director:      m.Director,
				Poster:        m.Poster,
				IMDBRating:    m.IMDBRating,
				Reason:        profileReason(m.Movie, topGenres, topDirectors, topActors),
				AvgUserRating: roundRating(m.AvgRating),
			}, 0)
		}
	}

	// Stage 2: social proof from followees.
	followeeIDs, err := r.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followeeIDs) > 0 {
		favorites, err := r.reviews.FolloweeFavorites(ctx, followeeIDs, watchedIDs, socialStageLimit)
		if err != nil {
			return nil, err
		}
		for _, m := range favorites {
			if !yearAllowedFailOpen(m.Year) || seen[m.IMDBID] {
				continue
			}
			appendRec(models.MovieRecommendation{
				IMDBID:        m.IMDBID,
				Title:         m.Title,
				Year:          m.Year,
				Genre:         m.Genre,
				Director:      m.Director,
				Poster:        m.Poster,
				IMDBRating:    m.IMDBRating,
				Reason:        fmt.Sprintf("%d friend%s loved this", m.LoveCount, plural(m.LoveCount)),
				AvgUserRating: roundRating(m.AvgRating),
			}, 0)
		}
	}

	// Stage 3: popularity fallback when yield is thin.
	if len(recs) < popularTriggerBelow {
		popular, err := r.movies.PopularMovies(ctx, watchedIDs, popularStageLimit)
		if err != nil {
			return nil, err
		}
		for _, m := range popular {
			if !yearAllowedFailOpen(m.Year) || seen[m.IMDBID] {
				continue
			}
			appendRec(models.MovieRecommendation{
				IMDBID:        m.IMDBID,
				Title:         m.Title,
				Year:          m.Year,
				Genre:         m.Genre,
				Director:      m.Director,
				Poster:        m.Poster,
				IMDBRating:    m.IMDBRating,
				Reason:        "Popular on Tunr",
				AvgUserRating: roundRating(m.AvgRating),
			}, 0)
		}
	}

	// Stage 4: external discovery when everything local came up empty.
	if len(recs) == 0 {
		external := r.externalDiscovery(ctx, signals, topGenres, topDirectors, topActors, seen)
		for _, e := range external {
			appendRec(e.rec, e.sortKey)
		}
	}

	if len(recs) == 0 {
		return &models.MovieRecommendationResponse{
			Recommendations: []models.MovieRecommendation{},
			Message:         emptyRecsHint,
		}, nil
	}

	// Externally discovered entries carry their provider rating as a sort
	// key; locally ranked entries keep their stage order.
	idx := make([]int, len(recs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return ratingSort[idx[i]] > ratingSort[idx[j]]
	})
	ordered := make([]models.MovieRecommendation, 0, len(recs))
	for _, i := range idx {
		ordered = append(ordered, recs[i])
	}
	if len(ordered) > externalStageLimit {
		ordered = ordered[:externalStageLimit]
	}

	resp := &models.MovieRecommendationResponse{Recommendations: ordered}
	r.setCache(ctx, cacheKey, resp)
	return resp, nil
}

type externalCandidate struct {
	rec     models.MovieRecommendation
	sortKey float64
}

// externalDiscovery queries the catalog provider with heuristic search terms
// and vets each candidate: year and rating checks are fail-closed here
// because no local signal has vetted these movies yet.
func (r *MovieRecommender) externalDiscovery(ctx context.Context, signals Signals,
	topGenres, topDirectors, topActors []string, seen map[string]bool) []externalCandidate {

	terms := searchTerms(signals, topGenres)
	var out []externalCandidate

	for _, term := range terms {
		results, err := r.catalog.Search(ctx, term)
		if err != nil || len(results) == 0 {
			continue
		}
		if len(results) > candidatesPerSearch {
			results = results[:candidatesPerSearch]
		}

		for _, candidate := range results {
			if seen[candidate.IMDBID] || signals.RatedIDs[candidate.IMDBID] {
				continue
			}
			detail, err := r.catalog.Lookup(ctx, candidate.IMDBID)
			if err != nil {
				slog.Debug("external candidate lookup failed", "imdb_id", candidate.IMDBID, "error", err)
				continue
			}
			year, ok := ParseYear(detail.Year)
			if !ok || year < minReleaseYear {
				continue
			}
			rating, ok := ParseRating(detail.IMDBRating)
			if !ok || rating < minExternalScore {
				continue
			}
			reason := externalReason(detail, topGenres, topDirectors, topActors)
			if reason == "" {
				continue
			}

			seen[candidate.IMDBID] = true
			out = append(out, externalCandidate{
				rec: models.MovieRecommendation{
					IMDBID:     detail.IMDBID,
					Title:      detail.Title,
					Year:       detail.Year,
					Genre:      detail.Genre,
					Director:   detail.Director,
					Poster:     detail.Poster,
					IMDBRating: detail.IMDBRating,
					Reason:     reason,
				},
				sortKey: rating,
			})
		}

		if len(out) >= externalEnoughAt {
			break
		}
	}
	return out
}

// FromFriends returns recommendations drawn directly from followee activity:
// recent high ratings, loved movies and watchlist additions.
func (r *MovieRecommender) FromFriends(ctx context.Context, userID int) (*models.MovieRecommendationResponse, error) {
	followeeIDs, err := r.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followeeIDs) == 0 {
		return &models.MovieRecommendationResponse{Recommendations: []models.MovieRecommendation{}}, nil
	}

	ratedIDs, err := r.reviews.RatedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	watched := make(map[string]bool, len(ratedIDs))
	for _, id := range ratedIDs {
		watched[id] = true
	}

	seen := make(map[string]bool)
	var recs []models.MovieRecommendation

	friendReviews, err := r.reviews.RecentFolloweeReviews(ctx, followeeIDs, 4, friendRatedLimit)
	if err != nil {
		return nil, err
	}
	for _, rev := range friendReviews {
		if seen[rev.IMDBID] || watched[rev.IMDBID] || rev.Movie == nil {
			continue
		}
		seen[rev.IMDBID] = true
		recs = append(recs, models.MovieRecommendation{
			IMDBID:     rev.IMDBID,
			Title:      rev.Movie.Title,
			Year:       rev.Movie.Year,
			Genre:      rev.Movie.Genre,
			Poster:     rev.Movie.Poster,
			IMDBRating: rev.Movie.IMDBRating,
			Reason:     fmt.Sprintf("@%s rated %d★", rev.Username, rev.Rating),
			UserRating: rev.Rating,
			Type:       "rated",
		})
	}

	loved, err := r.interactions.RecentFolloweeByType(ctx, followeeIDs, models.InteractionLove, friendLovedLimit)
	if err != nil {
		return nil, err
	}
	for _, it := range loved {
		if seen[it.IMDBID] || watched[it.IMDBID] || it.Movie == nil {
			continue
		}
		seen[it.IMDBID] = true
		recs = append(recs, models.MovieRecommendation{
			IMDBID:     it.IMDBID,
			Title:      it.Movie.Title,
			Year:       it.Movie.Year,
			Genre:      it.Movie.Genre,
			Poster:     it.Movie.Poster,
			IMDBRating: it.Movie.IMDBRating,
			Reason:     fmt.Sprintf("♥ @%s loved this", it.Username),
			Type:       "loved",
		})
	}

	watchlist, err := r.interactions.RecentFolloweeByType(ctx, followeeIDs, models.InteractionWantToWatch, friendWatchlistLimit)
	if err != nil {
		return nil, err
	}
	for _, it := range watchlist {
		if seen[it.IMDBID] || watched[it.IMDBID] || it.Movie == nil {
			continue
		}
		seen[it.IMDBID] = true
		recs = append(recs, models.MovieRecommendation{
			IMDBID:     it.IMDBID,
			Title:      it.Movie.Title,
			Year:       it.Movie.Year,
			Genre:      it.Movie.Genre,
			Poster:     it.Movie.Poster,
			IMDBRating: it.Movie.IMDBRating,
			Reason:     fmt.Sprintf("📌 @%s wants to watch", it.Username),
			Type:       "watchlist",
		})
	}

	if len(recs) > friendRecsLimit {
		recs = recs[:friendRecsLimit]
	}
	if recs == nil {
		recs = []models.MovieRecommendation{}
	}
	return &models.MovieRecommendationResponse{Recommendations: recs}, nil
}

// ---- helpers ----

// searchTerms derives provider queries from preferences, or generic popular
// terms for a true cold start.
func searchTerms(signals Signals, topGenres []string) []string {
	var terms []string
	if len(signals.HighlyRated) > 0 && len(topGenres) > 0 {
		for _, g := range limitTokens(topGenres, 2) {
			terms = append(terms, g)
		}
		terms = append(terms, topGenres[0]+" 2020", topGenres[0]+" 2015")
	} else {
		terms = []string{"comedy 2024", "action 2023", "romance 2024", "thriller 2023"}
	}
	if len(terms) > maxSearchTerms {
		terms = terms[:maxSearchTerms]
	}
	return terms
}

// profileReason names up to two matched facets in genre > director > actor
// precedence.
func profileReason(m models.Movie, topGenres, topDirectors, topActors []string) string {
	var parts []string
	for _, g := range topGenres {
		if strings.Contains(m.Genre, g) {
			parts = append(parts, g)
			break
		}
	}
	for _, d := range topDirectors {
		if strings.Contains(m.Director, d) {
			parts = append(parts, "Favorite Director")
			break
		}
	}
	for _, a := range limitTokens(topActors, 2) {
		if strings.Contains(m.Actors, a) {
			parts = append(parts, "Favorite Actor")
			break
		}
	}
	if len(parts) == 0 {
		return "Based on your taste"
	}
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, " • ")
}

// externalReason requires at least one case-insensitive preference match;
// an empty return rejects the candidate.
func externalReason(m *models.Movie, topGenres, topDirectors, topActors []string) string {
	var parts []string
	for _, d := range limitTokens(topDirectors, 2) {
		if containsFold(m.Director, d) {
			parts = append(parts, "Favorite Director")
			break
		}
	}
	for _, a := range limitTokens(topActors, 3) {
		if containsFold(m.Actors, a) {
			parts = append(parts, "Favorite Actor")
			break
		}
	}
	for _, g := range topGenres {
		if containsFold(m.Genre, g) {
			parts = append(parts, g)
			break
		}
	}
	return strings.Join(parts, " • ")
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// yearAllowedFailOpen keeps movies released in or after the cutoff and
// movies whose year cannot be parsed.
func yearAllowedFailOpen(year string) bool {
	y, ok := ParseYear(year)
	if !ok {
		return true
	}
	return y >= minReleaseYear
}

func limitTokens(tokens []string, n int) []string {
	if len(tokens) > n {
		return tokens[:n]
	}
	return tokens
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func roundRating(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := float64(int(*v*10+0.5)) / 10
	return &r
}

func (r *MovieRecommender) getCache(ctx context.Context, key string) string {
	if r.rdb == nil {
		return ""
	}
	val, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

func (r *MovieRecommender) setCache(ctx context.Context, key string, resp *models.MovieRecommendationResponse) {
	if r.rdb == nil {
		return
	}
	if data, err := json.Marshal(resp); err == nil {
		if err := r.rdb.Set(ctx, key, data, movieRecCacheTTL).Err(); err != nil {
			slog.Error("failed to set cache", "key", key, "error", err)
		}
	}
}
