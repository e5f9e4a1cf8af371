package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"staybook/internal/domain"
)

// Cache namespaces. Every read key starts with "<namespace>:" and every
// write under a namespace evicts the whole prefix.
const (
	nsCountries  = "countries"
	nsCities     = "cities"
	nsHotels     = "hotels"
	nsRooms      = "rooms"
	nsFacilities = "facilities"
	nsUsers      = "users"
	nsBookings   = "bookings"
	nsImages     = "images"
)

type QueryService struct {
	store    domain.Store
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(s domain.Store, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: s, cache: c, cacheTTL: ttl}
}

// cached runs the read-through sequence: probe the cache, on a miss
// compute via load and store the result under key with the fixed TTL.
func cached[T any](ctx context.Context, s *QueryService, key string, load func() (T, error)) (T, error) {
	var out T
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := load()
	if err != nil {
		return out, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func fstr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func fint(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

// ---- countries ----

func (s *QueryService) Country(ctx context.Context, id int64) (domain.CountryView, error) {
	key := fmt.Sprintf("%s:detail:%d", nsCountries, id)
	return cached(ctx, s, key, func() (domain.CountryView, error) {
		c, err := s.store.GetCountry(ctx, id)
		if err != nil {
			return domain.CountryView{}, err
		}
		return MapCountry(c), nil
	})
}

func (s *QueryService) Countries(ctx context.Context, f domain.CountryFilter, pg domain.PageQuery) (domain.Page[domain.CountryView], error) {
	key := fmt.Sprintf("%s:list:%d:%d:%s", nsCountries, pg.Page, pg.PerPage, fstr(f.Name))
	return cached(ctx, s, key, func() (domain.Page[domain.CountryView], error) {
		items, total, err := s.store.ListCountries(ctx, f, pg)
		if err != nil {
			return domain.Page[domain.CountryView]{}, err
		}
		return domain.Page[domain.CountryView]{Items: mapSlice(items, MapCountry), Total: total}, nil
	})
}

// ---- cities ----

func (s *QueryService) City(ctx context.Context, id int64) (domain.CityView, error) {
	key := fmt.Sprintf("%s:detail:%d", nsCities, id)
	return cached(ctx, s, key, func() (domain.CityView, error) {
		r, err := s.store.GetCity(ctx, id)
		if err != nil {
			return domain.CityView{}, err
		}
		return MapCity(r), nil
	})
}

func (s *QueryService) Cities(ctx context.Context, f domain.CityFilter, pg domain.PageQuery) (domain.Page[domain.CityView], error) {
	key := fmt.Sprintf("%s:list:%d:%d:%s:%s", nsCities, pg.Page, pg.PerPage, fstr(f.Name), fint(f.CountryID))
	return cached(ctx, s, key, func() (domain.Page[domain.CityView], error) {
		items, total, err := s.store.ListCities(ctx, f, pg)
		if err != nil {
			return domain.Page[domain.CityView]{}, err
		}
		return domain.Page[domain.CityView]{Items: mapSlice(items, MapCity), Total: total}, nil
	})
}

// ---- hotels ----

func (s *QueryService) Hotel(ctx context.Context, id int64) (domain.HotelView, error) {
	key := fmt.Sprintf("%s:detail:%d", nsHotels, id)
	return cached(ctx, s, key, func() (domain.HotelView, error) {
		r, err := s.store.GetHotel(ctx, id)
		if err != nil {
			return domain.HotelView{}, err
		}
		return MapHotel(r), nil
	})
}

func (s *QueryService) Hotels(ctx context.Context, f domain.HotelFilter, pg domain.PageQuery) (domain.Page[domain.HotelView], error) {
	key := fmt.Sprintf("%s:list:%d:%d:%s:%s", nsHotels, pg.Page, pg.PerPage, fstr(f.Title), fint(f.CityID))
	return cached(ctx, s, key, func() (domain.Page[domain.HotelView], error) {
		items, total, err := s.store.ListHotels(ctx, f, pg)
		if err != nil {
			return domain.Page[domain.HotelView]{}, err
		}
		return domain.Page[domain.HotelView]{Items: mapSlice(items, MapHotel), Total: total}, nil
	})
}

func (s *QueryService) HotelImages(ctx context.Context, hotelID int64) ([]domain.ImageView, error) {
	key := fmt.Sprintf("%s:hotel:%d", nsImages, hotelID)
	return cached(ctx, s, key, func() ([]domain.ImageView, error) {
		imgs, err := s.store.ListImages(ctx, hotelID)
		if err != nil {
			return nil, err
		}
		return mapSlice(imgs, MapImage), nil
	})
}

// ---- rooms ----

func (s *QueryService) Room(ctx context.Context, id int64) (domain.RoomView, error) {
	key := fmt.Sprintf("%s:detail:%d", nsRooms, id)
	return cached(ctx, s, key, func() (domain.RoomView, error) {
		r, err := s.store.GetRoom(ctx, id)
		if err != nil {
			return domain.RoomView{}, err
		}
		return MapRoom(r), nil
	})
}

func (s *QueryService) Rooms(ctx context.Context, hotelID int64, pg domain.PageQuery) (domain.Page[domain.RoomView], error) {
	key := fmt.Sprintf("%s:list:%d:%d:%d", nsRooms, hotelID, pg.Page, pg.PerPage)
	return cached(ctx, s, key, func() (domain.Page[domain.RoomView], error) {
		items, total, err := s.store.ListRooms(ctx, hotelID, pg)
		if err != nil {
			return domain.Page[domain.RoomView]{}, err
		}
		return domain.Page[domain.RoomView]{Items: mapSlice(items, MapRoom), Total: total}, nil
	})
}

// ---- facilities ----

func (s *QueryService) Facility(ctx context.Context, id int64) (domain.FacilityView, error) {
	key := fmt.Sprintf("%s:detail:%d", nsFacilities, id)
	return cached(ctx, s, key, func() (domain.FacilityView, error) {
		f, err := s.store.GetFacility(ctx, id)
		if err != nil {
			return domain.FacilityView{}, err
		}
		return MapFacility(f), nil
	})
}

func (s *QueryService) Facilities(ctx context.Context, f domain.FacilityFilter, pg domain.PageQuery) (domain.Page[domain.FacilityView], error) {
	key := fmt.Sprintf("%s:list:%d:%d:%s", nsFacilities, pg.Page, pg.PerPage, fstr(f.Title))
	return cached(ctx, s, key, func() (domain.Page[domain.FacilityView], error) {
		items, total, err := s.store.ListFacilities(ctx, f, pg)
		if err != nil {
			return domain.Page[domain.FacilityView]{}, err
		}
		return domain.Page[domain.FacilityView]{Items: mapSlice(items, MapFacility), Total: total}, nil
	})
}

// ---- users ----

func (s *QueryService) User(ctx context.Context, id int64) (domain.UserView, error) {
	key := fmt.Sprintf("%s:detail:%d", nsUsers, id)
	return cached(ctx, s, key, func() (domain.UserView, error) {
		u, err := s.store.GetUser(ctx, id)
		if err != nil {
			return domain.UserView{}, err
		}
		return MapUser(u), nil
	})
}

func (s *QueryService) Users(ctx context.Context, f domain.UserFilter, pg domain.PageQuery) (domain.Page[domain.UserView], error) {
	key := fmt.Sprintf("%s:list:%d:%d:%s", nsUsers, pg.Page, pg.PerPage, fstr(f.Email))
	return cached(ctx, s, key, func() (domain.Page[domain.UserView], error) {
		items, total, err := s.store.ListUsers(ctx, f, pg)
		if err != nil {
			return domain.Page[domain.UserView]{}, err
		}
		return domain.Page[domain.UserView]{Items: mapSlice(items, MapUser), Total: total}, nil
	})
}

// ---- bookings ----

func (s *QueryService) Booking(ctx context.Context, id int64) (domain.BookingView, error) {
	key := fmt.Sprintf("%s:detail:%d", nsBookings, id)
	return cached(ctx, s, key, func() (domain.BookingView, error) {
		b, err := s.store.GetBooking(ctx, id)
		if err != nil {
			return domain.BookingView{}, err
		}
		return MapBooking(b), nil
	})
}

func (s *QueryService) Bookings(ctx context.Context, f domain.BookingFilter, pg domain.PageQuery) (domain.Page[domain.BookingView], error) {
	key := fmt.Sprintf("%s:list:%d:%d:%s", nsBookings, pg.Page, pg.PerPage, fint(f.UserID))
	return cached(ctx, s, key, func() (domain.Page[domain.BookingView], error) {
		items, total, err := s.store.ListBookings(ctx, f, pg)
		if err != nil {
			return domain.Page[domain.BookingView]{}, err
		}
		return domain.Page[domain.BookingView]{Items: mapSlice(items, MapBooking), Total: total}, nil
	})
}
