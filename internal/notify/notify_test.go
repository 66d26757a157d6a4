package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aosc-dev/p-vector-go/internal/repoindex"
)

func TestNew_EmptyEndpointIsNoOp(t *testing.T) {
	n := New("")
	_, ok := n.(NoOp)
	assert.True(t, ok)
	assert.NoError(t, n.Publish(context.Background(), []repoindex.Change{{Package: "x"}}))
}

func TestHTTPNotifier_Publish(t *testing.T) {
	var gotBody bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody = r.ContentLength > 0
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := New(srv.URL)
	err := n.Publish(context.Background(), []repoindex.Change{
		{Component: "stable-main", Package: "zsync", Arch: "amd64", Method: repoindex.ChangeNew, ToVer: "1.0"},
	})
	require.NoError(t, err)
	assert.True(t, gotBody)
}

func TestHTTPNotifier_Publish_Empty(t *testing.T) {
	n := New("http://unreachable.invalid")
	assert.NoError(t, n.Publish(context.Background(), nil))
}

func TestHTTPNotifier_Publish_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := New(srv.URL)
	err := n.Publish(context.Background(), []repoindex.Change{{Package: "x", Method: repoindex.ChangeNew}})
	assert.Error(t, err)
}
