package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staybook/internal/app"
	"staybook/internal/auth"
	"staybook/internal/domain"
)

type Handlers struct {
	Q      *app.QueryService
	C      *app.CommandService
	Tokens *auth.Tokens

	// Users is consulted directly on login; password hashes never pass
	// through the cached query path.
	Users domain.UserRepository

	// ReadyCheck pings the backing stores for /ready.
	ReadyCheck func(context.Context) error
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/health", h.health)
	s.mux.Get("/live", h.health)
	s.mux.Get("/ready", h.ready)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)
		r.Post("/auth/logout", h.logout)

		r.Get("/countries", h.listCountries)
		r.Get("/countries/{id}", h.getCountry)
		r.Get("/cities", h.listCities)
		r.Get("/cities/{id}", h.getCity)
		r.Get("/hotels", h.listHotels)
		r.Get("/hotels/{id}", h.getHotel)
		r.Get("/hotels/{hotelID}/images", h.listImages)
		r.Get("/hotels/{hotelID}/rooms", h.listRooms)
		r.Get("/hotels/{hotelID}/rooms/{id}", h.getRoom)
		r.Get("/facilities", h.listFacilities)
		r.Get("/facilities/{id}", h.getFacility)

		// everything below requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(Auth(h.Tokens))

			r.Get("/auth/me", h.me)

			r.Post("/countries", h.createCountry)
			r.Patch("/countries/{id}", h.updateCountry)
			r.Delete("/countries/{id}", h.deleteCountry)

			r.Post("/cities", h.createCity)
			r.Patch("/cities/{id}", h.updateCity)
			r.Delete("/cities/{id}", h.deleteCity)

			r.Post("/hotels", h.createHotel)
			r.Patch("/hotels/{id}", h.updateHotel)
			r.Delete("/hotels/{id}", h.deleteHotel)

			r.Post("/hotels/{hotelID}/images", h.uploadImage)
			r.Delete("/images/{id}", h.deleteImage)

			r.Post("/hotels/{hotelID}/rooms", h.createRoom)
			r.Patch("/hotels/{hotelID}/rooms/{id}", h.updateRoom)
			r.Delete("/hotels/{hotelID}/rooms/{id}", h.deleteRoom)

			r.Post("/facilities", h.createFacility)
			r.Patch("/facilities/{id}", h.updateFacility)
			r.Delete("/facilities/{id}", h.deleteFacility)

			r.Get("/users", h.listUsers)
			r.Get("/users/{id}", h.getUser)
			r.Patch("/users/{id}", h.updateUser)
			r.Delete("/users/{id}", h.deleteUser)

			r.Get("/bookings", h.listBookings)
			r.Get("/bookings/me", h.myBookings)
			r.Get("/bookings/{id}", h.getBooking)
			r.Post("/bookings", h.createBooking)
			r.Delete("/bookings/{id}", h.deleteBooking)
		})
	})
}

// ---- liveness / readiness ----

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if h.ReadyCheck != nil {
		if err := h.ReadyCheck(ctx); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Not Ready", err.Error())
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ---- response helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeError maps domain errors onto HTTP statuses. Anything unmapped
// is a 500 and gets logged with the request path.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrInvalidReference), errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "backing store unavailable")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// ---- request parsing helpers ----

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// parsePage reads page / per_page with the usual clamps: page >= 1,
// per_page between 1 and 100, defaulting to 1 and 10.
func parsePage(r *http.Request) (domain.PageQuery, error) {
	pg := domain.PageQuery{Page: 1, PerPage: 10}
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return pg, errors.New("page must be a positive integer")
		}
		pg.Page = n
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return pg, errors.New("per_page must be an integer between 1 and 100")
		}
		pg.PerPage = n
	}
	return pg, nil
}

func queryStr(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

func queryID(r *http.Request, name string) (*int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 1 {
		return nil, errors.New(name + " must be a positive integer")
	}
	return &id, nil
}
