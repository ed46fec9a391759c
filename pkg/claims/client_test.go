package claims

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/routes-report/pkg/errors"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	body    map[string]any
	auth    string
	lang    string
	reqType string
}

type pagedServer struct {
	mu       sync.Mutex
	pages    []string
	requests []recordedRequest
}

func (p *pagedServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()

		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		p.requests = append(p.requests, recordedRequest{
			body:    body,
			auth:    r.Header.Get("Authorization"),
			lang:    r.Header.Get("Accept-Language"),
			reqType: r.Header.Get("Content-Type"),
		})
		idx := len(p.requests) - 1
		if idx >= len(p.pages) {
			t.Errorf("unexpected request #%d", idx+1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, p.pages[idx])
	}
}

func testWindow() Window {
	loc := time.FixedZone("CST", -6*60*60)
	return Window{
		From: time.Date(2024, 3, 7, 0, 0, 0, 0, loc),
		To:   time.Date(2024, 3, 10, 0, 0, 0, 0, loc),
	}
}

func TestFetchClaimsFollowsCursorAndPreservesOrder(t *testing.T) {
	srv := &pagedServer{pages: []string{
		`{"claims":[{"id":"a","status":"new"},{"id":"b","status":"delivered"}],"cursor":7}`,
		`{"claims":[{"id":"c","status":"failed"}]}`,
	}}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	var stats []PageStats
	client, err := NewClient(ts.URL, WithPageObserver(func(s PageStats) { stats = append(stats, s) }))
	require.NoError(t, err)

	got, err := client.FetchClaims(context.Background(), "secret", testWindow())
	require.NoError(t, err)

	require.Len(t, got, 3)
	require.Equal(t, "a", got[0].ID)
	require.Equal(t, "b", got[1].ID)
	require.Equal(t, "c", got[2].ID)

	require.Len(t, srv.requests, 2)
	first := srv.requests[0]
	require.Equal(t, "Bearer secret", first.auth)
	require.Equal(t, "en", first.lang)
	require.Equal(t, "application/json", first.reqType)
	require.Equal(t, "2024-03-07T00:00:00-06:00", first.body["created_from"])
	require.Equal(t, "2024-03-10T23:59:59-06:00", first.body["created_to"])
	require.Equal(t, float64(DefaultPageSize), first.body["limit"])
	_, hasCursor := first.body["cursor"]
	require.False(t, hasCursor, "first page must not carry a cursor")

	second := srv.requests[1]
	require.Equal(t, map[string]any{"cursor": "7"}, second.body)

	require.Equal(t, []PageStats{
		{Page: 1, Claims: 2, HasMore: true},
		{Page: 2, Claims: 1, HasMore: false},
	}, stats)
}

func TestFetchClaimsStopsOnNullOrEmptyCursor(t *testing.T) {
	for name, page := range map[string]string{
		"null":  `{"claims":[{"id":"a"}],"cursor":null}`,
		"empty": `{"claims":[{"id":"a"}],"cursor":""}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := &pagedServer{pages: []string{page}}
			ts := httptest.NewServer(srv.handler(t))
			defer ts.Close()

			client, err := NewClient(ts.URL)
			require.NoError(t, err)
			got, err := client.FetchClaims(context.Background(), "secret", testWindow())
			require.NoError(t, err)
			require.Len(t, got, 1)
			require.Len(t, srv.requests, 1)
		})
	}
}

func TestFetchClaimsSkipsMalformedClaims(t *testing.T) {
	srv := &pagedServer{pages: []string{
		`{"claims":[{"id":"a"},{"id":42,"route_points":"nope"},{"id":"c"}]}`,
	}}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	var stats PageStats
	client, err := NewClient(ts.URL, WithPageObserver(func(s PageStats) { stats = s }))
	require.NoError(t, err)

	got, err := client.FetchClaims(context.Background(), "secret", testWindow())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 1, stats.Malformed)
}

func TestFetchClaimsToleratesOddItemShapes(t *testing.T) {
	srv := &pagedServer{pages: []string{
		`{"claims":[{"id":"a","items":[` +
			`{"cost_value":"10","quantity":1.5},` +
			`{"cost_value":{"amount":"10"}},` +
			`{"cost_value":[1,2]},` +
			`{"cost_value":7.25,"title":"box"}]}]}`,
	}}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	var stats PageStats
	client, err := NewClient(ts.URL, WithPageObserver(func(s PageStats) { stats = s }))
	require.NoError(t, err)

	got, err := client.FetchClaims(context.Background(), "secret", testWindow())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Zero(t, stats.Malformed)

	items := got[0].Items
	require.Len(t, items, 4)
	require.Equal(t, LaxString("10"), items[0].CostValue)
	require.Empty(t, items[1].CostValue)
	require.Empty(t, items[2].CostValue)
	require.Equal(t, LaxString("7.25"), items[3].CostValue)
}

func TestFetchClaimsMissingClaimsFieldIsFatal(t *testing.T) {
	srv := &pagedServer{pages: []string{
		`{"claims":[{"id":"a"}],"cursor":"next"}`,
		`{"message":"cursor expired"}`,
	}}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	client, err := NewClient(ts.URL)
	require.NoError(t, err)

	got, err := client.FetchClaims(context.Background(), "secret", testWindow())
	require.Error(t, err)
	require.Nil(t, got, "no partial result on failure")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestFetchClaimsNonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":"unauthorized"}`)
	}))
	defer ts.Close()

	client, err := NewClient(ts.URL)
	require.NoError(t, err)

	_, err = client.FetchClaims(context.Background(), "bad", testWindow())
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	require.Contains(t, err.Error(), "claims request failed")
}

func TestFetchClaimsRejectsUnparseableBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html>gateway timeout</html>`)
	}))
	defer ts.Close()

	client, err := NewClient(ts.URL)
	require.NoError(t, err)

	_, err = client.FetchClaims(context.Background(), "secret", testWindow())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestFetchClaimsValidatesInput(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)

	client, err := NewClient("http://unused.invalid")
	require.NoError(t, err)

	_, err = client.FetchClaims(context.Background(), "", testWindow())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	w := testWindow()
	w.From, w.To = w.To, w.From
	_, err = client.FetchClaims(context.Background(), "secret", w)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestFlexStringDecoding(t *testing.T) {
	var payload struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
		D FlexString `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":12.50,"c":null}`), &payload))
	require.Equal(t, FlexString("x"), payload.A)
	require.Equal(t, FlexString("12.50"), payload.B)
	require.True(t, payload.C.Empty())
	require.True(t, payload.D.Empty())
}

func TestLaxStringNeverFails(t *testing.T) {
	var items []Item
	raw := `[{"cost_value":"1.5"},{"cost_value":2},{"cost_value":true},{"cost_value":{"x":1}},{}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	require.Len(t, items, 5)
	require.Equal(t, "1.5", items[0].CostValue.String())
	require.Equal(t, "2", items[1].CostValue.String())
	require.Empty(t, items[2].CostValue)
	require.Empty(t, items[3].CostValue)
	require.Empty(t, items[4].CostValue)
}
