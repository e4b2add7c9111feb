// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/khobor-relay/db"
	"github.com/danielhkuo/khobor-relay/handlers"
	"github.com/danielhkuo/khobor-relay/models"
	"github.com/danielhkuo/khobor-relay/testutil"
)

func TestHistory_ReturnsRecentExchanges(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := handlers.NewHistoryHandler(conn, testutil.GetTestConfig("http://backend"))

	for i := 0; i < 3; i++ {
		if err := db.RecordExchange(conn, models.Exchange{
			ID:    fmt.Sprintf("ex-%d", i),
			Query: fmt.Sprintf("question %d", i),
			Lang:  "bn",
			Mode:  "brief",
		}); err != nil {
			t.Fatal(err)
		}
	}

	req := testutil.MakeRequest("GET", "/history", nil, nil)
	w := httptest.NewRecorder()
	h.History(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var body models.HistoryResponse
	testutil.AssertJSON(t, w, &body)
	if len(body.Exchanges) != 3 {
		t.Errorf("expected 3 exchanges, got %d", len(body.Exchanges))
	}
}

func TestHistory_LimitValidation(t *testing.T) {
	h := handlers.NewHistoryHandler(testutil.SetupTestDB(t), testutil.GetTestConfig("http://backend"))

	req := testutil.MakeRequest("GET", "/history?limit=abc", nil, nil)
	w := httptest.NewRecorder()
	h.History(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	req = testutil.MakeRequest("GET", "/history?limit=0", nil, nil)
	w = httptest.NewRecorder()
	h.History(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestTimeline_Relay(t *testing.T) {
	backend := &testutil.Backend{
		TimelineBody: map[string]any{"items": []map[string]string{{"title": "শিরোনাম"}}},
	}
	h, _ := newAskHandler(t, backend)

	req := testutil.MakeRequest("GET", "/timeline?lang=bn&window_hours=24", nil, nil)
	w := httptest.NewRecorder()
	h.Timeline(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "শিরোনাম") {
		t.Errorf("expected relayed timeline body, got %q", w.Body.String())
	}
	if w.Header().Get("Cache-Control") == "" {
		t.Error("expected no-cache headers")
	}
}

func TestTimeline_BadWindowHours(t *testing.T) {
	h, _ := newAskHandler(t, &testutil.Backend{})

	req := testutil.MakeRequest("GET", "/timeline?window_hours=soon", nil, nil)
	w := httptest.NewRecorder()
	h.Timeline(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestTimeline_UpstreamErrorMapped(t *testing.T) {
	h, _ := newAskHandler(t, &testutil.Backend{TimelineStatus: http.StatusNotFound})

	req := testutil.MakeRequest("GET", "/timeline", nil, nil)
	w := httptest.NewRecorder()
	h.Timeline(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)

	var body models.ErrorResponse
	testutil.AssertJSON(t, w, &body)
	if body.Details != "endpoint not found" {
		t.Errorf("expected status-derived details, got %q", body.Details)
	}
}
