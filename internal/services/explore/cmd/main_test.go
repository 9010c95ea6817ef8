package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gamma-omg/lexi-explore/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startService(t *testing.T, addr string) {
	t.Helper()
	t.Setenv("HTTP_LISTEN_ADDR", addr)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	ready := testutil.WaitFor(t, ctx, 100*time.Millisecond, func() bool {
		resp, err := http.Get("http://localhost" + addr + "/readyz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	})
	require.True(t, ready)

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-errCh)
	})
}

func fakeGateway(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postPhrase(t *testing.T, addr, body string) (int, http.Header, string) {
	t.Helper()

	resp, err := http.Post("http://localhost"+addr+"/explore-phrase", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header, string(b)
}

func TestRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	t.Setenv("HTTP_LISTEN_ADDR", ":18080")

	errCh := make(chan error, 1)
	healthCh := make(chan bool, 1)
	readyCh := make(chan bool, 1)
	go func() {
		errCh <- run(ctx)
	}()

	go func() {
		readyCh <- testutil.WaitFor(t, ctx, 500*time.Millisecond, func() bool {
			resp, err := http.Get("http://localhost:18080/readyz")
			if err != nil {
				return false
			}
			_ = resp.Body.Close()
			return resp.StatusCode == http.StatusOK
		})
	}()

	go func() {
		healthCh <- testutil.WaitFor(t, ctx, 500*time.Millisecond, func() bool {
			resp, err := http.Get("http://localhost:18080/healthz")
			if err != nil {
				return false
			}
			_ = resp.Body.Close()
			return resp.StatusCode == http.StatusOK
		})
	}()

	var isHealthy, isReady bool
	for !isHealthy || !isReady {
		select {
		case err := <-errCh:
			require.NoError(t, err)
			return
		case isReady = <-readyCh:
			require.True(t, isReady)
		case isHealthy = <-healthCh:
			require.True(t, isHealthy)
		case <-ctx.Done():
			t.Fatal("test timed out")
		}
	}
}

func TestRun_Cancel(t *testing.T) {
	t.Setenv("HTTP_LISTEN_ADDR", ":18081")

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	go func() {
		time.Sleep(2 * time.Second)
		cancel()
	}()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("test timed out")
	}
}

func TestRun_Explore(t *testing.T) {
	gw := fakeGateway(t, http.StatusOK, `Here you go: {"explanation":"x","simpleExample":{"sentence":"y","explanation":"z"},"scenarios":[]}`)
	t.Setenv("LOVABLE_API_KEY", "key")
	t.Setenv("EXPLORE_AI_BASE_URL", gw.URL+"/v1")
	startService(t, ":18082")

	status, header, body := postPhrase(t, ":18082", `{"phrase":"x"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "*", header.Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"explanation":"x","simpleExample":{"sentence":"y","explanation":"z"},"scenarios":[]}`, body)
}

func TestRun_ExploreErrors(t *testing.T) {
	tbl := []struct {
		name    string
		key     string
		status  int
		content string
		body    string
		msg     string
	}{
		{"missing key", "", http.StatusOK, "{}", `{"phrase":"x"}`, "LOVABLE_API_KEY is not configured"},
		{"missing key wins over phrase", "", http.StatusOK, "{}", `{}`, "LOVABLE_API_KEY is not configured"},
		{"missing phrase", "key", http.StatusOK, "{}", `{"phrase":""}`, "Phrase is required"},
		{"gateway failure", "key", http.StatusTooManyRequests, "", `{"phrase":"x"}`, "Failed to generate exploration"},
		{"empty content", "key", http.StatusOK, "", `{"phrase":"x"}`, "No content received from AI"},
		{"malformed content", "key", http.StatusOK, "no json here", `{"phrase":"x"}`, "Invalid JSON format from AI"},
	}

	for i, c := range tbl {
		t.Run(c.name, func(t *testing.T) {
			gw := fakeGateway(t, c.status, c.content)
			t.Setenv("LOVABLE_API_KEY", c.key)
			t.Setenv("EXPLORE_AI_BASE_URL", gw.URL)

			addr := ":" + []string{"18083", "18084", "18085", "18086", "18087", "18088"}[i]
			startService(t, addr)

			status, header, body := postPhrase(t, addr, c.body)

			assert.Equal(t, http.StatusInternalServerError, status)
			assert.Equal(t, "application/json", header.Get("Content-Type"))
			assert.Equal(t, "*", header.Get("Access-Control-Allow-Origin"))
			assert.JSONEq(t, `{"error":"`+c.msg+`"}`, body)
		})
	}
}

func TestRun_Preflight(t *testing.T) {
	startService(t, ":18089")

	req, err := http.NewRequest(http.MethodOptions, "http://localhost:18089/explore-phrase", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, b)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", resp.Header.Get("Access-Control-Allow-Headers"))
}
