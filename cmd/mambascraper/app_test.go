package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mambascraper/pkg/auth"
	"mambascraper/pkg/checkpoint"
	"mambascraper/pkg/config"
	"mambascraper/pkg/errors"
	"mambascraper/pkg/logger"
	"mambascraper/pkg/mamba"
)

type recordedRequest struct {
	offset  string
	session string
	referer string
}

func newTestApp(t *testing.T, provider auth.Provider) (*app, *logger.TestLogger, func() []recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []recordedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			offset:  r.URL.Query().Get("cursor[searcherOffset]"),
			referer: r.Header.Get("Referer"),
		}
		if c, err := r.Cookie("s_id"); err == nil {
			rec.session = c.Value
		}
		mu.Lock()
		requests = append(requests, rec)
		mu.Unlock()

		// every page lacks a cursor, so each run stops after one request
		fmt.Fprint(w, `{"items":[]}`)
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.API.APIURL = server.URL
	cfg.API.Timeout = 5 * time.Second
	cfg.Paths.CursorFile = filepath.Join(dir, "cursor.json")
	cfg.Paths.CookiesFile = filepath.Join(dir, "cookies.json")
	cfg.Paths.DumpFile = filepath.Join(dir, "dump.json")
	cfg.Paths.ImageDir = filepath.Join(dir, "img")

	log := logger.NewTestLogger()
	a := &app{cfg: cfg, logger: log, provider: provider}

	return a, log, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func TestRunSetFiltersResetsCursor(t *testing.T) {
	provider := &auth.MockProvider{Cookies: auth.Cookies{{Name: "s_id", Value: "fresh"}}}
	a, log, requests := newTestApp(t, provider)

	state := checkpoint.NewStore(a.cfg.Paths.CursorFile, logger.NewNopLogger())
	require.NoError(t, state.Save(mamba.Cursor{
		SearchID:       mamba.StringValue("42"),
		SearcherOffset: mamba.StringValue("560"),
	}))

	err := a.run(context.Background(), true)
	assert.Equal(t, errors.ErrorTypeParse, errors.TypeOf(err))

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "0", reqs[0].offset)
	assert.Equal(t, "fresh", reqs[0].session)
	assert.Equal(t, a.cfg.API.SearchURL, reqs[0].referer)

	saved, err := auth.NewCookieFile(a.cfg.Paths.CookiesFile).Load()
	require.NoError(t, err)
	assert.Equal(t, provider.Cookies, saved)

	assert.False(t, state.Exists())
	assert.True(t, log.HasMessage("Scraping stopped"))

	msg, ok := log.FindMessage("Unparsed page body saved")
	require.True(t, ok)
	assert.Equal(t, a.cfg.Paths.DumpFile, msg.Fields["file"])
	assert.Len(t, log.GetMessagesByLevel("FATAL"), 1)
}

func TestRunResumesWithSavedCookies(t *testing.T) {
	provider := &auth.MockProvider{Cookies: auth.Cookies{{Name: "s_id", Value: "fresh"}}}
	a, _, requests := newTestApp(t, provider)

	require.NoError(t, auth.NewCookieFile(a.cfg.Paths.CookiesFile).Save(auth.Cookies{{Name: "s_id", Value: "saved"}}))
	require.NoError(t, checkpoint.NewStore(a.cfg.Paths.CursorFile, logger.NewNopLogger()).Save(mamba.Cursor{
		SearchID:       mamba.StringValue("42"),
		SearcherOffset: mamba.StringValue("56"),
	}))

	err := a.run(context.Background(), false)
	require.Error(t, err)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "56", reqs[0].offset)
	assert.Equal(t, "saved", reqs[0].session)
	assert.Equal(t, 0, provider.Calls())
}

func TestRunLoginFailureFallsBack(t *testing.T) {
	provider := &auth.MockProvider{Err: errors.New(errors.ErrorTypeAuth, "browser closed", nil)}
	a, log, requests := newTestApp(t, provider)

	require.NoError(t, auth.NewCookieFile(a.cfg.Paths.CookiesFile).Save(auth.Cookies{{Name: "s_id", Value: "saved"}}))

	_ = a.run(context.Background(), true)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "saved", reqs[0].session)
	assert.True(t, log.HasMessage("Login failed, falling back to saved cookies"))
}

func TestRootCommandFlags(t *testing.T) {
	flag := rootCmd.Flags().Lookup("set-filters")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
	assert.Error(t, rootCmd.Args(rootCmd, []string{"unexpected"}))
}
