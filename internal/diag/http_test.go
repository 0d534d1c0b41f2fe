package diag

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotHandlerServesLiveConcurrentUpdates(t *testing.T) {
	tree := NewResourceTree()
	srv := httptest.NewServer(tree.SnapshotHandler())
	defer srv.Close()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			tree.Update("arm.shoulder.motor", func(s *Stats) { s.Claims++ })
		}()
	}

	// Concurrently poll the handler while the updates above are still in
	// flight; every response must be well-formed JSON, whatever count it
	// happens to observe.
	var pollers sync.WaitGroup
	pollers.Add(5)
	for i := 0; i < 5; i++ {
		go func() {
			defer pollers.Done()
			resp, err := http.Get(srv.URL + "/resources?path=arm.shoulder.motor")
			if err != nil {
				return
			}
			defer resp.Body.Close()
			var got Stats
			_ = json.NewDecoder(resp.Body).Decode(&got)
		}()
	}
	pollers.Wait()
	wg.Wait()

	resp, err := http.Get(srv.URL + "/resources?path=arm.shoulder.motor")
	require.NoError(t, err)
	defer resp.Body.Close()
	var final Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&final))
	assert.Equal(t, uint64(n), final.Claims)
}

func TestSnapshotHandlerUnknownPathReturnsZeroStats(t *testing.T) {
	tree := NewResourceTree()
	srv := httptest.NewServer(tree.SnapshotHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/resources?path=never.touched")
	require.NoError(t, err)
	defer resp.Body.Close()
	var got Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, Stats{}, got)
}
