package seed

import (
	"context"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedForServer 将 httptest 服务地址拆解为种子的 host/port
func seedForServer(t *testing.T, srv *httptest.Server) *Seed {
	t.Helper()

	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.ParseUint(portStr, 10, 16)
	require.NoError(t, err)

	return New(host, uint16(port))
}

func TestSync_Unit(t *testing.T) {
	t.Run("updates epoch from coordinator", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/sync", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"epoch":"123456789"}`))
		}))
		defer srv.Close()

		s := seedForServer(t, srv)
		require.NoError(t, s.Sync(context.Background()))
		assert.Zero(t, s.Epoch.Cmp(big.NewInt(123456789)))
	})

	t.Run("extra json fields ignored", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"epoch":"158","version":2}`))
		}))
		defer srv.Close()

		s := seedForServer(t, srv)
		require.NoError(t, s.Sync(context.Background()))
		assert.Zero(t, s.Epoch.Cmp(big.NewInt(158)))
	})

	t.Run("epoch not a number", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"epoch":"notanumber"}`))
		}))
		defer srv.Close()

		s := seedForServer(t, srv)
		err := s.Sync(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSyncEpoch)
		// 失败时不应污染原有 epoch
		assert.Zero(t, s.Epoch.Sign())
	})

	t.Run("body not json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		}))
		defer srv.Close()

		s := seedForServer(t, srv)
		assert.ErrorIs(t, s.Sync(context.Background()), ErrBadResponse)
	})

	t.Run("epoch field missing", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"era":"158"}`))
		}))
		defer srv.Close()

		s := seedForServer(t, srv)
		assert.ErrorIs(t, s.Sync(context.Background()), ErrBadResponse)
	})

	t.Run("unreachable coordinator", func(t *testing.T) {
		// 关闭服务后端口不再可达
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		s := seedForServer(t, srv)
		srv.Close()

		err := s.Sync(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNetwork)

		var syncErr *SyncError
		require.ErrorAs(t, err, &syncErr)
		assert.Equal(t, s.SyncHost, syncErr.Host)
		assert.Equal(t, s.SyncPort, syncErr.Port)
	})

	t.Run("context cancellation surfaces as network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		s := seedForServer(t, srv)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, s.Sync(ctx), ErrNetwork)
	})
}

func TestSync_FullFlow_Unit(t *testing.T) {
	// 配置 + 同步 + 派生的完整路径
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"epoch":"1700000000000"}`))
	}))
	defer srv.Close()

	s := seedForServer(t, srv)
	s.NodeID = 5
	require.NoError(t, s.Sync(context.Background()))

	gen, err := s.Fracture(2)
	require.NoError(t, err)
	assert.Zero(t, gen.Epoch().Cmp(big.NewInt(1700000000000)))
}
