package httpserver

import (
	"net/http"
	"time"

	"staybook/internal/domain"
)

const dateLayout = "2006-01-02"

type bookingRequest struct {
	RoomID   int64  `json:"room_id"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	pg, err := parsePage(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	userID, err := queryID(r, "user_id")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	out, err := h.Q.Bookings(r.Context(), domain.BookingFilter{UserID: userID}, pg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// myBookings lists the caller's own bookings.
func (h *Handlers) myBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := CurrentUser(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing access token")
		return
	}
	pg, err := parsePage(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	out, err := h.Q.Bookings(r.Context(), domain.BookingFilter{UserID: &claims.UserID}, pg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	out, err := h.Q.Booking(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := CurrentUser(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing access token")
		return
	}
	var req bookingRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.RoomID < 1 {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "room_id is required")
		return
	}
	from, err := time.Parse(dateLayout, req.DateFrom)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "date_from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse(dateLayout, req.DateTo)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "date_to must be YYYY-MM-DD")
		return
	}

	out, err := h.C.CreateBooking(r.Context(), req.RoomID, claims.UserID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := CurrentUser(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing access token")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	if err := h.C.DeleteBooking(r.Context(), id, claims.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
