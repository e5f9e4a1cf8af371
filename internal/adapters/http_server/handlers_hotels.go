package httpserver

import (
	"net/http"
	"path/filepath"
	"strings"

	"staybook/internal/domain"
)

type hotelRequest struct {
	Title      *string `json:"title"`
	CityID     *int64  `json:"city_id"`
	Address    *string `json:"address"`
	PostalCode *string `json:"postal_code"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	pg, err := parsePage(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	cityID, err := queryID(r, "city_id")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	out, err := h.Q.Hotels(r.Context(), domain.HotelFilter{Title: queryStr(r, "title"), CityID: cityID}, pg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	out, err := h.Q.Hotel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var req hotelRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.Title == nil || *req.Title == "" || req.CityID == nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "title and city_id are required")
		return
	}
	hotel := domain.Hotel{
		Title:    *req.Title,
		CityID:   *req.CityID,
		CheckIn:  "15:00",
		CheckOut: "12:00",
	}
	if req.Address != nil {
		hotel.Address = *req.Address
	}
	if req.PostalCode != nil {
		hotel.PostalCode = *req.PostalCode
	}
	if req.CheckIn != nil {
		hotel.CheckIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		hotel.CheckOut = *req.CheckOut
	}
	out, err := h.C.CreateHotel(r.Context(), hotel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	var req hotelRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.C.UpdateHotel(r.Context(), id, domain.HotelPatch{
		Title:      req.Title,
		CityID:     req.CityID,
		Address:    req.Address,
		PostalCode: req.PostalCode,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	if err := h.C.DeleteHotel(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- images ----

const maxUploadBytes = 20 << 20

func (h *Handlers) listImages(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathID(r, "hotelID")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "hotel id must be a positive integer")
		return
	}
	out, err := h.Q.HotelImages(r.Context(), hotelID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// uploadImage accepts a multipart "file" part, stores the original and
// waits for the resize worker before answering.
func (h *Handlers) uploadImage(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathID(r, "hotelID")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "hotel id must be a positive integer")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "only .jpg, .jpeg and .png files are accepted")
		return
	}

	out, err := h.C.UploadImage(r.Context(), hotelID, ext, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) deleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	if err := h.C.DeleteImage(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
