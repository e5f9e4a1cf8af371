package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staybook/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.New("test-secret", time.Hour)
	var gotUserID int64
	h := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := CurrentUser(r.Context())
		if !ok {
			t.Fatal("claims missing from context")
		}
		gotUserID = claims.UserID
		w.WriteHeader(http.StatusOK)
	}))

	// no token
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/x", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status %d", rec.Code)
	}

	// bearer token
	tok, err := tokens.Issue(7, "a@b.c")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || gotUserID != 7 {
		t.Fatalf("bearer status %d, user %d", rec.Code, gotUserID)
	}

	// cookie fallback
	req = httptest.NewRequest("GET", "/x", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: tok})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie status %d", rec.Code)
	}

	// forged token
	forged, _ := auth.New("other-secret", time.Hour).Issue(7, "a@b.c")
	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged status %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := map[int]int{}
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/x", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		statuses[rec.Code]++
	}
	if statuses[http.StatusOK] != 2 || statuses[http.StatusTooManyRequests] != 3 {
		t.Fatalf("statuses: %v", statuses)
	}

	// a different client has its own bucket
	req := httptest.NewRequest("GET", "/x", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("second client status %d", rec.Code)
	}
}

func TestParsePage(t *testing.T) {
	req := httptest.NewRequest("GET", "/x", nil)
	pg, err := parsePage(req)
	if err != nil || pg.Page != 1 || pg.PerPage != 10 {
		t.Fatalf("defaults: %+v err=%v", pg, err)
	}

	req = httptest.NewRequest("GET", "/x?page=3&per_page=25", nil)
	pg, err = parsePage(req)
	if err != nil || pg.Page != 3 || pg.PerPage != 25 {
		t.Fatalf("explicit: %+v err=%v", pg, err)
	}

	for _, q := range []string{"page=0", "page=abc", "per_page=0", "per_page=101"} {
		req = httptest.NewRequest("GET", "/x?"+q, nil)
		if _, err := parsePage(req); err == nil {
			t.Fatalf("expected error for %s", q)
		}
	}
}

func TestRemoteIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/x", nil)
	req.RemoteAddr = "10.0.0.9:4321"
	if got := remoteIP(req); got != "10.0.0.9" {
		t.Fatalf("remote addr ip = %s", got)
	}

	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	if got := remoteIP(req); got != "1.2.3.4" {
		t.Fatalf("xff ip = %s", got)
	}
}
