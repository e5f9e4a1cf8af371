package domain

import "time"

type Country struct {
	ID      int64
	Name    string
	ISOCode string
}

type City struct {
	ID        int64
	Name      string
	CountryID int64
}

type Hotel struct {
	ID         int64
	Title      string
	CityID     int64
	Address    string
	PostalCode string
	CheckIn    string // "15:00"
	CheckOut   string // "12:00"
}

type Room struct {
	ID          int64
	HotelID     int64
	Title       string
	Description string
	Price       int64 // per night, minor currency units
	Quantity    int
}

type Facility struct {
	ID    int64
	Title string
}

type Image struct {
	ID   int64
	Path string
}

type User struct {
	ID             int64
	Email          string
	HashedPassword string
	FirstName      *string
	LastName       *string
	TelegramID     *string
	PachcaID       *string
}

type Booking struct {
	ID        int64
	RoomID    int64
	UserID    int64
	DateFrom  time.Time
	DateTo    time.Time
	Price     int64 // captured at booking time, immutable
	CreatedAt time.Time
}
