//go:build integration || !unit

package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	server "staybook/internal/adapters/http_server"
	redisad "staybook/internal/adapters/redis"
	"staybook/internal/app"
	"staybook/internal/auth"
	mysqlrepo "staybook/internal/storage/mysql"
)

// ---------- helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=staybook",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "staybook")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// startAPI wires the full stack the way cmd/api does, with miniredis
// standing in for Redis.
func startAPI(t *testing.T) *httptest.Server {
	t.Helper()
	db := startMySQL(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := mysqlrepo.New(db)
	cache := redisad.NewWithClient(client)
	queue := redisad.NewQueueWithClient(client)
	tokens := auth.New("e2e-secret", time.Hour)

	q := app.NewQueryService(repo, cache, 300*time.Second)
	c := app.NewCommandService(repo, cache, queue, t.TempDir(), []int{200}, time.Second)

	srv := server.New(1000, 2000)
	srv.MountHandlers(&server.Handlers{Q: q, C: c, Tokens: tokens, Users: repo})

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, raw
}

// ---------- the test ----------

func TestHTTP_EndToEnd_AuthAndBooking(t *testing.T) {
	ts := startAPI(t)

	// register + login
	res, _ := do(t, "POST", ts.URL+"/v1/auth/register", "", map[string]any{
		"email": "ana@example.com", "password": "supersafe123",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("register status %d", res.StatusCode)
	}

	res, raw := do(t, "POST", ts.URL+"/v1/auth/login", "", map[string]any{
		"email": "ana@example.com", "password": "supersafe123",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login status %d: %s", res.StatusCode, raw)
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &tok); err != nil || tok.AccessToken == "" {
		t.Fatalf("bad login body: %s", raw)
	}

	// wrong password is a 401, not an enumeration oracle
	res, _ = do(t, "POST", ts.URL+"/v1/auth/login", "", map[string]any{
		"email": "ana@example.com", "password": "wrong",
	})
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password status %d", res.StatusCode)
	}

	// a token signed with a different secret is rejected
	forged, err := auth.New("other-secret", time.Hour).Issue(1, "ana@example.com")
	if err != nil {
		t.Fatalf("forge: %v", err)
	}
	res, _ = do(t, "GET", ts.URL+"/v1/auth/me", forged, nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("forged token status %d", res.StatusCode)
	}

	res, raw = do(t, "GET", ts.URL+"/v1/auth/me", tok.AccessToken, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("me status %d: %s", res.StatusCode, raw)
	}

	// mutations require a token
	res, _ = do(t, "POST", ts.URL+"/v1/countries", "", map[string]any{"name": "France", "iso_code": "fr"})
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous create status %d", res.StatusCode)
	}

	// seed country -> city -> hotel -> room
	res, raw = do(t, "POST", ts.URL+"/v1/countries", tok.AccessToken, map[string]any{"name": "France", "iso_code": "fr"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create country status %d: %s", res.StatusCode, raw)
	}
	var country struct {
		ID      int64  `json:"id"`
		ISOCode string `json:"iso_code"`
	}
	if err := json.Unmarshal(raw, &country); err != nil || country.ISOCode != "FR" {
		t.Fatalf("country body: %s", raw)
	}

	// a duplicate name maps onto 409
	res, _ = do(t, "POST", ts.URL+"/v1/countries", tok.AccessToken, map[string]any{"name": "France", "iso_code": "fx"})
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate country status %d", res.StatusCode)
	}

	res, raw = do(t, "POST", ts.URL+"/v1/cities", tok.AccessToken, map[string]any{"name": "Paris", "country_id": country.ID})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create city status %d: %s", res.StatusCode, raw)
	}
	var city struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(raw, &city)

	res, raw = do(t, "POST", ts.URL+"/v1/hotels", tok.AccessToken, map[string]any{"title": "Grand", "city_id": city.ID})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create hotel status %d: %s", res.StatusCode, raw)
	}
	var hotel struct {
		ID      int64  `json:"id"`
		City    string `json:"city"`
		Country string `json:"country"`
	}
	if err := json.Unmarshal(raw, &hotel); err != nil || hotel.City != "Paris" || hotel.Country != "France" {
		t.Fatalf("hotel body: %s", raw)
	}

	roomURL := fmt.Sprintf("%s/v1/hotels/%d/rooms", ts.URL, hotel.ID)
	res, raw = do(t, "POST", roomURL, tok.AccessToken, map[string]any{"title": "Single", "price": 120, "quantity": 1})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create room status %d: %s", res.StatusCode, raw)
	}
	var room struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(raw, &room)

	// booking captures price x nights
	res, raw = do(t, "POST", ts.URL+"/v1/bookings", tok.AccessToken, map[string]any{
		"room_id": room.ID, "date_from": "2026-09-10", "date_to": "2026-09-13",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create booking status %d: %s", res.StatusCode, raw)
	}
	var booking struct {
		ID    int64 `json:"id"`
		Price int64 `json:"price"`
	}
	if err := json.Unmarshal(raw, &booking); err != nil || booking.Price != 360 {
		t.Fatalf("booking body: %s", raw)
	}

	// the single unit is now taken
	res, _ = do(t, "POST", ts.URL+"/v1/bookings", tok.AccessToken, map[string]any{
		"room_id": room.ID, "date_from": "2026-09-11", "date_to": "2026-09-12",
	})
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("overlap booking status %d", res.StatusCode)
	}

	// a second user cannot delete the first user's booking
	res, _ = do(t, "POST", ts.URL+"/v1/auth/register", "", map[string]any{
		"email": "bob@example.com", "password": "alsosafe123",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("register bob status %d", res.StatusCode)
	}
	res, raw = do(t, "POST", ts.URL+"/v1/auth/login", "", map[string]any{
		"email": "bob@example.com", "password": "alsosafe123",
	})
	var bobTok struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.Unmarshal(raw, &bobTok)

	bookingURL := fmt.Sprintf("%s/v1/bookings/%d", ts.URL, booking.ID)
	res, _ = do(t, "DELETE", bookingURL, bobTok.AccessToken, nil)
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign delete status %d", res.StatusCode)
	}
	res, _ = do(t, "DELETE", bookingURL, tok.AccessToken, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("owner delete status %d", res.StatusCode)
	}

	// cached list still answers after the writes
	res, raw = do(t, "GET", ts.URL+"/v1/hotels?city_id="+fmt.Sprint(city.ID), "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list hotels status %d", res.StatusCode)
	}
	var page struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(raw, &page); err != nil || page.Total != 1 {
		t.Fatalf("hotels page: %s", raw)
	}
}
