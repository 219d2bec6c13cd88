package services

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = `{"access_token":"test-access","expires_in":3600}`

func newTestReddit(t *testing.T, api http.Handler) *Reddit {
	t.Helper()

	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, redditTokenPath, r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		w.Write([]byte(testToken))
	}))
	t.Cleanup(authServer.Close)

	apiServer := httptest.NewServer(api)
	t.Cleanup(apiServer.Close)

	client := NewReddit("client-id", "client-secret", "poster-bot", "hunter2", "kinotrend/1.0")
	client.baseURL = authServer.URL
	client.oauthBaseURL = apiServer.URL
	return client
}

func TestOwnSubmissionsPagination(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/poster-bot/submitted", r.URL.Path)
		assert.Equal(t, "bearer test-access", r.Header.Get("Authorization"))

		switch calls.Add(1) {
		case 1:
			assert.Empty(t, r.URL.Query().Get("after"))
			w.Write([]byte(`{"data":{"after":"t3_a","children":[
				{"data":{"name":"t3_a","title":"First","subreddit":"MoviePosters"}}]}}`))
		default:
			assert.Equal(t, "t3_a", r.URL.Query().Get("after"))
			w.Write([]byte(`{"data":{"after":"","children":[
				{"data":{"name":"t3_b","title":"Second","subreddit":"MoviePosters"}}]}}`))
		}
	})

	client := newTestReddit(t, handler)
	subs, err := client.OwnSubmissions()
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "t3_a", subs[0].Fullname)
	assert.Equal(t, "Second", subs[1].Title)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDeleteSubmission(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/del", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "t3_gone", r.PostForm.Get("id"))
		w.Write([]byte(`{}`))
	})

	client := newTestReddit(t, handler)
	assert.NoError(t, client.DeleteSubmission("t3_gone"))
}

func TestIsModerator(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/MoviePosters/about/moderators", r.URL.Path)
		w.Write([]byte(`{"data":{"children":[{"name":"someone"},{"name":"Poster-Bot"}]}}`))
	})

	client := newTestReddit(t, handler)
	isMod, err := client.IsModerator("MoviePosters")
	require.NoError(t, err)
	assert.True(t, isMod)
}

func TestIsModeratorNegative(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"children":[{"name":"someone-else"}]}}`))
	})

	client := newTestReddit(t, handler)
	isMod, err := client.IsModerator("MoviePosters")
	require.NoError(t, err)
	assert.False(t, isMod)
}

func TestSubmitImage(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "Diuna_2.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpeg-bytes"), 0644))

	uploadServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		assert.Equal(t, "media-key", r.MultipartForm.Value["key"][0])
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()
		w.WriteHeader(http.StatusCreated)
	}))
	defer uploadServer.Close()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/media/asset.json":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "Diuna_2.jpg", r.PostForm.Get("filepath"))
			assert.Equal(t, "image/jpeg", r.PostForm.Get("mimetype"))
			w.Write([]byte(`{"args":{"action":"` + uploadServer.URL +
				`","fields":[{"name":"key","value":"media-key"}]}}`))
		case "/api/submit":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "MoviePosters", r.PostForm.Get("sr"))
			assert.Equal(t, "image", r.PostForm.Get("kind"))
			assert.Equal(t, "Diuna_2", r.PostForm.Get("title"))
			assert.Equal(t, uploadServer.URL+"/media-key", r.PostForm.Get("url"))
			w.Write([]byte(`{"json":{"errors":[],"data":{"name":"t3_new"}}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	client := newTestReddit(t, handler)
	fullname, err := client.SubmitImage("MoviePosters", "Diuna_2", imagePath)
	require.NoError(t, err)
	assert.Equal(t, "t3_new", fullname)
}

func TestSubmitImageRejected(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "a.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpeg-bytes"), 0644))

	uploadServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer uploadServer.Close()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/media/asset.json":
			w.Write([]byte(`{"args":{"action":"` + uploadServer.URL +
				`","fields":[{"name":"key","value":"k"}]}}`))
		case "/api/submit":
			w.Write([]byte(`{"json":{"errors":[["RATELIMIT","slow down","ratelimit"]]}}`))
		}
	})

	client := newTestReddit(t, handler)
	_, err := client.SubmitImage("MoviePosters", "a", imagePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATELIMIT")
}

func TestAuthenticateTokenReused(t *testing.T) {
	var apiCalls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		w.Write([]byte(`{"data":{"after":"","children":[]}}`))
	})

	client := newTestReddit(t, handler)
	_, err := client.OwnSubmissions()
	require.NoError(t, err)
	_, err = client.OwnSubmissions()
	require.NoError(t, err)

	// Both listings used the same token; the expiry is an hour out.
	assert.Equal(t, "test-access", client.token)
	assert.Equal(t, int32(2), apiCalls.Load())
}

func TestAuthenticateBadCredentials(t *testing.T) {
	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer authServer.Close()

	client := NewReddit("id", "secret", "user", "wrong", "agent/1.0")
	client.baseURL = authServer.URL

	err := client.authenticate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check credentials")
}

func TestMimeTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", mimeTypeFor("a.jpg"))
	assert.Equal(t, "image/jpeg", mimeTypeFor("a.JPEG"))
	assert.Equal(t, "image/png", mimeTypeFor("a.png"))
	assert.Equal(t, "image/gif", mimeTypeFor("a.gif"))
}
