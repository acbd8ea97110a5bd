package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPPurger_Purge(t *testing.T) {
	tests := []struct {
		name       string
		ids        []int64
		status     int
		wantHeader string
		wantCalls  int
		wantErr    bool
	}{
		{
			name:       "bans all locations in one request",
			ids:        []int64{2, 60, 61},
			status:     http.StatusOK,
			wantHeader: "(2|60|61)",
			wantCalls:  1,
		},
		{
			name:       "proxy rejects ban",
			ids:        []int64{2},
			status:     http.StatusMethodNotAllowed,
			wantHeader: "(2)",
			wantCalls:  1,
			wantErr:    true,
		},
		{
			name:      "nothing to purge",
			status:    http.StatusOK,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			var method, header string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				method = r.Method
				header = r.Header.Get(LocationHeader)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			logger, _ := test.NewNullLogger()
			p, err := NewHTTPPurger(server.URL, time.Second, logger)
			require.NoError(t, err)

			err = p.Purge(context.Background(), tt.ids)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantCalls > 0 {
				assert.Equal(t, "BAN", method)
				assert.Equal(t, tt.wantHeader, header)
			}
		})
	}
}

func TestHTTPPurger_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p, err := NewHTTPPurger(url, time.Second, nil)
	require.NoError(t, err)
	assert.Error(t, p.Purge(context.Background(), []int64{1}))
}
