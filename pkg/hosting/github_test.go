package hosting

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRepo = Repository{Owner: "acme", Name: "widgets"}

func newTestGitHub(t *testing.T, mux *http.ServeMux) (*GitHub, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return NewGitHub(client), srv
}

func TestGetReleaseByTag(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/releases/tags/nightly", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, `{"id": 42, "tag_name": "nightly", "name": "Nightly build"}`)
	})
	gh, _ := newTestGitHub(t, mux)

	rel, err := gh.GetReleaseByTag(context.Background(), testRepo, "nightly")
	require.NoError(t, err)
	assert.Equal(t, Release{ID: 42, TagName: "nightly", Name: "Nightly build"}, rel)
}

func TestGetReleaseByTagNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/releases/tags/nightly", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})
	gh, _ := newTestGitHub(t, mux)

	_, err := gh.GetReleaseByTag(context.Background(), testRepo, "nightly")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "acme/widgets")
}

func TestGetReleaseByTagServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/releases/tags/nightly", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"message": "upstream"}`)
	})
	gh, _ := newTestGitHub(t, mux)

	_, err := gh.GetReleaseByTag(context.Background(), testRepo, "nightly")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestListReleaseAssetsFollowsPages(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/repos/acme/widgets/releases/42/assets", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		switch r.URL.Query().Get("page") {
		case "", "1":
			next := fmt.Sprintf("%s/repos/acme/widgets/releases/42/assets?per_page=100&page=2", srvURL)
			w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next", <%s>; rel="last"`, next, next))
			fmt.Fprint(w, `[
				{"id": 1, "name": "a.tar.gz", "size": 10, "created_at": "2024-01-01T00:00:00Z"},
				{"id": 2, "name": "b.tar.gz", "size": 20, "created_at": "2024-01-02T00:00:00Z"}
			]`)
		case "2":
			fmt.Fprint(w, `[{"id": 3, "name": "c.tar.gz", "size": 30, "created_at": "2024-01-03T00:00:00Z"}]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})
	gh, srv := newTestGitHub(t, mux)
	srvURL = srv.URL

	assets, err := gh.ListReleaseAssets(context.Background(), testRepo, 42)
	require.NoError(t, err)
	require.Len(t, assets, 3)
	assert.Equal(t, int64(1), assets[0].ID)
	assert.Equal(t, "c.tar.gz", assets[2].Name)
	assert.Equal(t, int64(30), assets[2].Size)
	assert.True(t, assets[1].CreatedAt.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestListReleaseAssetsEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/releases/42/assets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	gh, _ := newTestGitHub(t, mux)

	assets, err := gh.ListReleaseAssets(context.Background(), testRepo, 42)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestDeleteReleaseAsset(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/releases/assets/7", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	gh, _ := newTestGitHub(t, mux)

	require.NoError(t, gh.DeleteReleaseAsset(context.Background(), testRepo, 7))
	assert.True(t, deleted)
}

func TestDeleteReleaseAssetGone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/releases/assets/7", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})
	gh, _ := newTestGitHub(t, mux)

	err := gh.DeleteReleaseAsset(context.Background(), testRepo, 7)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateRef(t *testing.T) {
	const sha = "0123456789abcdef0123456789abcdef01234567"
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/git/refs/tags/nightly", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var body struct {
			SHA   string `json:"sha"`
			Force bool   `json:"force"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, sha, body.SHA)
		assert.False(t, body.Force)
		fmt.Fprintf(w, `{"ref": "refs/tags/nightly", "object": {"type": "commit", "sha": %q}}`, sha)
	})
	gh, _ := newTestGitHub(t, mux)

	require.NoError(t, gh.UpdateRef(context.Background(), testRepo, TagRef("nightly"), sha, false))
}

func TestUpdateRefRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/git/refs/tags/nightly", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message": "Update is not a fast forward"}`)
	})
	gh, _ := newTestGitHub(t, mux)

	err := gh.UpdateRef(context.Background(), testRepo, TagRef("nightly"), "0123456789abcdef0123456789abcdef01234567", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fast forward")
}

func TestCurrentUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login": "octocat"}`)
	})
	gh, _ := newTestGitHub(t, mux)

	login, err := gh.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
}
