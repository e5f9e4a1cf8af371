package app

import "staybook/internal/domain"

// One explicit mapping function per entity pair: stored row in, API view
// out. Relations are expected to be eagerly loaded by the repository;
// a missing relation is a caller bug, not an error path.

func MapCountry(c domain.Country) domain.CountryView {
	return domain.CountryView{
		ID:      c.ID,
		Name:    c.Name,
		ISOCode: c.ISOCode,
	}
}

func MapCity(r domain.CityRow) domain.CityView {
	return domain.CityView{
		ID:        r.ID,
		Name:      r.Name,
		CountryID: r.CountryID,
		Country:   r.CountryName,
	}
}

// MapHotel flattens the one-hop city/country relations into scalar
// fields rather than exposing nested identifiers.
func MapHotel(r domain.HotelRow) domain.HotelView {
	return domain.HotelView{
		ID:         r.ID,
		Title:      r.Title,
		Address:    r.Address,
		PostalCode: r.PostalCode,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
		CityID:     r.CityID,
		City:       r.CityName,
		Country:    r.CountryName,
	}
}

func MapFacility(f domain.Facility) domain.FacilityView {
	return domain.FacilityView{ID: f.ID, Title: f.Title}
}

func MapRoom(r domain.RoomRow) domain.RoomView {
	fs := make([]domain.FacilityView, 0, len(r.Facilities))
	for _, f := range r.Facilities {
		fs = append(fs, MapFacility(f))
	}
	return domain.RoomView{
		ID:          r.ID,
		HotelID:     r.HotelID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Facilities:  fs,
	}
}

// MapUser never carries the password hash into a view.
func MapUser(u domain.User) domain.UserView {
	return domain.UserView{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		TelegramID: u.TelegramID,
		PachcaID:   u.PachcaID,
	}
}

const dateLayout = "2006-01-02"

func MapBooking(b domain.Booking) domain.BookingView {
	return domain.BookingView{
		ID:        b.ID,
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		DateFrom:  b.DateFrom.Format(dateLayout),
		DateTo:    b.DateTo.Format(dateLayout),
		Price:     b.Price,
		CreatedAt: b.CreatedAt,
	}
}

func MapImage(i domain.Image) domain.ImageView {
	return domain.ImageView{ID: i.ID, Path: i.Path}
}

func mapSlice[S, V any](in []S, f func(S) V) []V {
	out := make([]V, 0, len(in))
	for _, s := range in {
		out = append(out, f(s))
	}
	return out
}
