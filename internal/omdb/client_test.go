package omdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dune", r.URL.Query().Get("s"))
		assert.Equal(t, "movie", r.URL.Query().Get("type"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Write([]byte(`{
			"Search": [
				{"Title": "Dune", "Year": "2021", "imdbID": "tt1160419", "Poster": "p.jpg"}
			],
			"Response": "True"
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL)
	results, err := client.Search(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dune", results[0].Title)
	assert.Equal(t, "tt1160419", results[0].IMDBID)
}

func TestSearchNotFoundIsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"Response": "False", "Error": "Movie not found!"}`))
	}))
	defer srv.Close()

	results, err := NewClient("k", srv.URL).Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL).Search(context.Background(), "dune")
	assert.Error(t, err)
}

func TestGetMovieDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tt1160419", r.URL.Query().Get("i"))
		w.Write([]byte(`{
			"Title": "Dune", "Year": "2021", "Genre": "Sci-Fi",
			"Director": "Denis Villeneuve", "imdbRating": "8.0",
			"imdbID": "tt1160419", "Response": "True"
		}`))
	}))
	defer srv.Close()

	detail, err := NewClient("k", srv.URL).GetMovieDetail(context.Background(), "tt1160419")
	require.NoError(t, err)
	assert.Equal(t, "Dune", detail.Title)
	assert.Equal(t, "Sci-Fi", detail.Genre)
	assert.Equal(t, "8.0", detail.IMDBRating)
}

func TestGetMovieDetailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"Response": "False", "Error": "Incorrect IMDb ID."}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL).GetMovieDetail(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect IMDb ID")
}
