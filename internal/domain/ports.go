package domain

import (
	"context"
	"time"
)

// ---- repositories ----

type CountryRepository interface {
	CreateCountry(ctx context.Context, name, isoCode string) (Country, error)
	GetCountry(ctx context.Context, id int64) (Country, error)
	ListCountries(ctx context.Context, f CountryFilter, pg PageQuery) ([]Country, int, error)
	UpdateCountry(ctx context.Context, id int64, p CountryPatch) (Country, error)
	DeleteCountry(ctx context.Context, id int64) error
}

type CityRepository interface {
	CreateCity(ctx context.Context, name string, countryID int64) (CityRow, error)
	GetCity(ctx context.Context, id int64) (CityRow, error)
	ListCities(ctx context.Context, f CityFilter, pg PageQuery) ([]CityRow, int, error)
	UpdateCity(ctx context.Context, id int64, p CityPatch) (CityRow, error)
	DeleteCity(ctx context.Context, id int64) error
}

type HotelRepository interface {
	CreateHotel(ctx context.Context, h Hotel) (HotelRow, error)
	GetHotel(ctx context.Context, id int64) (HotelRow, error)
	ListHotels(ctx context.Context, f HotelFilter, pg PageQuery) ([]HotelRow, int, error)
	UpdateHotel(ctx context.Context, id int64, p HotelPatch) (HotelRow, error)
	DeleteHotel(ctx context.Context, id int64) error

	AttachImage(ctx context.Context, hotelID int64, path string) (Image, error)
	ListImages(ctx context.Context, hotelID int64) ([]Image, error)
	DeleteImage(ctx context.Context, imageID int64) (string, error)
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, r Room, facilityIDs []int64) (RoomRow, error)
	GetRoom(ctx context.Context, id int64) (RoomRow, error)
	ListRooms(ctx context.Context, hotelID int64, pg PageQuery) ([]RoomRow, int, error)
	UpdateRoom(ctx context.Context, id int64, p RoomPatch) (RoomRow, error)
	DeleteRoom(ctx context.Context, id int64) error

	// SetFacilities reconciles the room's facility set against target:
	// only the symmetric difference is inserted/deleted.
	SetFacilities(ctx context.Context, roomID int64, target []int64) error
}

type FacilityRepository interface {
	CreateFacility(ctx context.Context, title string) (Facility, error)
	GetFacility(ctx context.Context, id int64) (Facility, error)
	ListFacilities(ctx context.Context, f FacilityFilter, pg PageQuery) ([]Facility, int, error)
	UpdateFacility(ctx context.Context, id int64, title string) (Facility, error)
	DeleteFacility(ctx context.Context, id int64) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, f UserFilter, pg PageQuery) ([]User, int, error)
	UpdateUser(ctx context.Context, id int64, p UserPatch) (User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type BookingRepository interface {
	// CreateBooking captures price = room price x nights inside a
	// transaction and fails with ErrConflict when the room has no
	// free units left on the requested dates.
	CreateBooking(ctx context.Context, roomID, userID int64, dateFrom, dateTo time.Time) (Booking, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	ListBookings(ctx context.Context, f BookingFilter, pg PageQuery) ([]Booking, int, error)
	DeleteBooking(ctx context.Context, id int64) error
}

// Store is everything the MySQL backend implements.
type Store interface {
	CountryRepository
	CityRepository
	HotelRepository
	RoomRepository
	FacilityRepository
	UserRepository
	BookingRepository
}

// ---- cache ----

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	// DelPrefix evicts every key under prefix (coarse namespace invalidation).
	DelPrefix(ctx context.Context, prefix string) error
}

// ---- background tasks ----

type ResizeTask struct {
	ID     string `json:"id"`
	Path   string `json:"path"`
	Widths []int  `json:"widths"`
}

type TaskResult struct {
	OK    bool     `json:"ok"`
	Paths []string `json:"paths,omitempty"`
	Err   string   `json:"err,omitempty"`
}

type TaskQueue interface {
	Enqueue(ctx context.Context, t ResizeTask) error
	// Wait blocks until the task result is published or timeout elapses.
	Wait(ctx context.Context, taskID string, timeout time.Duration) (TaskResult, error)

	// Worker side.
	Dequeue(ctx context.Context, block time.Duration) (*ResizeTask, error)
	Complete(ctx context.Context, taskID string, res TaskResult) error
}

// ---- stored rows with eagerly loaded relations ----

type CityRow struct {
	City
	CountryName string
}

type HotelRow struct {
	Hotel
	CityName    string
	CountryName string
}

type RoomRow struct {
	Room
	Facilities []Facility
}

// ---- API-facing views ----

type CountryView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	ISOCode string `json:"iso_code"`
}

type CityView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CountryID int64  `json:"country_id"`
	Country   string `json:"country"`
}

type HotelView struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	CityID     int64  `json:"city_id"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

type FacilityView struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type RoomView struct {
	ID          int64          `json:"id"`
	HotelID     int64          `json:"hotel_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       int64          `json:"price"`
	Quantity    int            `json:"quantity"`
	Facilities  []FacilityView `json:"facilities"`
}

type UserView struct {
	ID         int64   `json:"id"`
	Email      string  `json:"email"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	TelegramID *string `json:"telegram_id"`
	PachcaID   *string `json:"pachca_id"`
}

type BookingView struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	UserID    int64     `json:"user_id"`
	DateFrom  string    `json:"date_from"` // YYYY-MM-DD
	DateTo    string    `json:"date_to"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

type ImageView struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
}

// ---- queries, filters, patches ----

type PageQuery struct {
	Page    int
	PerPage int
}

func (p PageQuery) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type CountryFilter struct {
	Name *string // partial, case-insensitive
}

type CityFilter struct {
	Name      *string
	CountryID *int64
}

type HotelFilter struct {
	Title  *string
	CityID *int64
}

type FacilityFilter struct {
	Title *string
}

type UserFilter struct {
	Email *string // exact
}

type BookingFilter struct {
	UserID *int64
}

type CountryPatch struct {
	Name    *string
	ISOCode *string
}

type CityPatch struct {
	Name      *string
	CountryID *int64
}

type HotelPatch struct {
	Title      *string
	CityID     *int64
	Address    *string
	PostalCode *string
	CheckIn    *string
	CheckOut   *string
}

type RoomPatch struct {
	Title       *string
	Description *string
	Price       *int64
	Quantity    *int
	// FacilityIDs nil leaves associations alone; non-nil reconciles to it.
	FacilityIDs []int64
}

type UserPatch struct {
	Email      *string
	FirstName  *string
	LastName   *string
	TelegramID *string
	PachcaID   *string
}

// DiffIDs computes the symmetric difference between current and target
// membership sets, preserving target order for additions.
func DiffIDs(current, target []int64) (add, remove []int64) {
	cur := make(map[int64]struct{}, len(current))
	for _, id := range current {
		cur[id] = struct{}{}
	}
	tgt := make(map[int64]struct{}, len(target))
	for _, id := range target {
		if _, dup := tgt[id]; dup {
			continue
		}
		tgt[id] = struct{}{}
		if _, ok := cur[id]; !ok {
			add = append(add, id)
		}
	}
	for _, id := range current {
		if _, ok := tgt[id]; !ok {
			remove = append(remove, id)
		}
	}
	return add, remove
}
