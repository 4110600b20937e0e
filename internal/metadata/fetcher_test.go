package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalpets/dognft/internal/faults"
)

func TestResolveURI(t *testing.T) {
	f := NewFetcher("https://ipfs.io/ipfs/", nil)

	tests := []struct {
		uri  string
		want string
	}{
		{"ipfs://QmQHkp3KPLczq82sQhWS5gQiK4ywcKALK956GUbNGExPcH", "https://ipfs.io/ipfs/QmQHkp3KPLczq82sQhWS5gQiK4ywcKALK956GUbNGExPcH"},
		{"https://example.com/doc.json", "https://example.com/doc.json"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.ResolveURI(tt.uri))
	}
}

func TestResolveURIAddsGatewaySlash(t *testing.T) {
	f := NewFetcher("https://ipfs.io/ipfs", nil)
	assert.Equal(t, "https://ipfs.io/ipfs/Qm123", f.ResolveURI("ipfs://Qm123"))
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ipfs/QmDogDoc" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"name":"Baby Pug","description":"A very small pug.","image":"ipfs://QmDogImage"}`)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL+"/ipfs/", nil)
	md, err := f.Fetch(context.Background(), "ipfs://QmDogDoc")
	require.NoError(t, err)
	assert.Equal(t, "Baby Pug", md.Name)
	assert.Equal(t, "A very small pug.", md.Description)
	assert.Equal(t, srv.URL+"/ipfs/QmDogImage", md.Image, "image URI is rewritten through the gateway")
}

func TestFetchFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ipfs/QmMissing":
			http.NotFound(w, r)
		case "/ipfs/QmBroken":
			fmt.Fprint(w, `{"name": `)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL+"/ipfs/", nil)

	t.Run("not found", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), "ipfs://QmMissing")
		require.Error(t, err)
		assert.True(t, faults.IsKind(err, faults.MetadataFetchFailure))
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), "ipfs://QmBroken")
		require.Error(t, err)
		assert.True(t, faults.IsKind(err, faults.MetadataFetchFailure))
	})

	t.Run("unreachable gateway", func(t *testing.T) {
		unreachable := NewFetcher("http://127.0.0.1:1/ipfs/", nil)
		_, err := unreachable.Fetch(context.Background(), "ipfs://QmDoc")
		require.Error(t, err)
		assert.True(t, faults.IsKind(err, faults.MetadataFetchFailure))
	})
}
