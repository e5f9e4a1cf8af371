package app_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"staybook/internal/app"
	"staybook/internal/domain"
)

// ---- fakes ----

// fakeStore embeds the interface so tests only fill in what they use;
// anything else panics loudly.
type fakeStore struct {
	domain.Store

	country  domain.Country
	hotels   []domain.HotelRow
	booking  domain.Booking
	user     domain.User
	getCalls int

	deletedBooking bool
}

func (f *fakeStore) GetCountry(ctx context.Context, id int64) (domain.Country, error) {
	f.getCalls++
	return f.country, nil
}

func (f *fakeStore) ListHotels(ctx context.Context, flt domain.HotelFilter, pg domain.PageQuery) ([]domain.HotelRow, int, error) {
	return f.hotels, len(f.hotels), nil
}

func (f *fakeStore) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return f.booking, nil
}

func (f *fakeStore) DeleteBooking(ctx context.Context, id int64) error {
	f.deletedBooking = true
	return nil
}

func (f *fakeStore) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return f.user, nil
}

// fakeCache stores JSON blobs so any view type round-trips, and records
// every prefix eviction.
type fakeCache struct {
	store    map[string][]byte
	evicted  []string
	setCalls int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	c.setCalls++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func (c *fakeCache) DelPrefix(ctx context.Context, prefix string) error {
	c.evicted = append(c.evicted, prefix)
	for k := range c.store {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.store, k)
		}
	}
	return nil
}

// ---- tests ----

func TestCountry_CacheMissThenHit(t *testing.T) {
	store := &fakeStore{country: domain.Country{ID: 3, Name: "France", ISOCode: "FR"}}
	cache := &fakeCache{}
	q := app.NewQueryService(store, cache, 300*time.Second)

	// miss populates the cache
	v, err := q.Country(context.Background(), 3)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if v.Name != "France" || v.ISOCode != "FR" {
		t.Fatalf("unexpected view: %+v", v)
	}

	// mutate the store to prove the second read comes from cache
	store.country.Name = "SHOULD NOT SEE THIS"

	v2, err := q.Country(context.Background(), 3)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if v2.Name != "France" {
		t.Fatalf("expected cached name, got %s", v2.Name)
	}
	if store.getCalls != 1 {
		t.Fatalf("store hit %d times, want 1", store.getCalls)
	}
}

func TestHotels_FlattensRelationNames(t *testing.T) {
	store := &fakeStore{hotels: []domain.HotelRow{{
		Hotel:       domain.Hotel{ID: 1, Title: "Grand", CityID: 9, CheckIn: "15:00", CheckOut: "12:00"},
		CityName:    "Paris",
		CountryName: "France",
	}}}
	cache := &fakeCache{}
	q := app.NewQueryService(store, cache, 300*time.Second)

	page, err := q.Hotels(context.Background(), domain.HotelFilter{}, domain.PageQuery{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	h := page.Items[0]
	if h.City != "Paris" || h.Country != "France" || h.CheckIn != "15:00" {
		t.Fatalf("unexpected hotel view: %+v", h)
	}
}

func TestHotels_ListKeyVariesWithFilter(t *testing.T) {
	store := &fakeStore{hotels: []domain.HotelRow{{Hotel: domain.Hotel{ID: 1, Title: "Grand"}}}}
	cache := &fakeCache{}
	q := app.NewQueryService(store, cache, 300*time.Second)

	title := "grand"
	if _, err := q.Hotels(context.Background(), domain.HotelFilter{}, domain.PageQuery{Page: 1, PerPage: 10}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := q.Hotels(context.Background(), domain.HotelFilter{Title: &title}, domain.PageQuery{Page: 1, PerPage: 10}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if cache.setCalls != 2 {
		t.Fatalf("expected two distinct cache entries, got %d sets", cache.setCalls)
	}
}

func TestUserView_OmitsPasswordHash(t *testing.T) {
	u := domain.User{ID: 1, Email: "a@b.c", HashedPassword: "$2a$10$secret"}
	b, err := json.Marshal(app.MapUser(u))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "secret") || strings.Contains(string(b), "password") {
		t.Fatalf("user view leaks credentials: %s", b)
	}
}
