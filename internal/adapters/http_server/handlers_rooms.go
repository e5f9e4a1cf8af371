package httpserver

import (
	"net/http"

	"staybook/internal/domain"
)

type roomRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Quantity    *int    `json:"quantity"`
	FacilityIDs []int64 `json:"facility_ids"`
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathID(r, "hotelID")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "hotel id must be a positive integer")
		return
	}
	pg, err := parsePage(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	out, err := h.Q.Rooms(r.Context(), hotelID, pg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// roomInHotel resolves the room and rejects ids that belong to a
// different hotel than the one in the path.
func (h *Handlers) roomInHotel(w http.ResponseWriter, r *http.Request) (domain.RoomView, bool) {
	hotelID, ok := pathID(r, "hotelID")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "hotel id must be a positive integer")
		return domain.RoomView{}, false
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return domain.RoomView{}, false
	}
	room, err := h.Q.Room(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return domain.RoomView{}, false
	}
	if room.HotelID != hotelID {
		writeProblem(w, http.StatusNotFound, "Not Found", "room not found in this hotel")
		return domain.RoomView{}, false
	}
	return room, true
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := h.roomInHotel(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathID(r, "hotelID")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "hotel id must be a positive integer")
		return
	}
	var req roomRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.Title == nil || *req.Title == "" || req.Price == nil || *req.Price < 0 {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "title and a non-negative price are required")
		return
	}
	room := domain.Room{HotelID: hotelID, Title: *req.Title, Price: *req.Price, Quantity: 1}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "quantity must be at least 1")
			return
		}
		room.Quantity = *req.Quantity
	}
	out, err := h.C.CreateRoom(r.Context(), room, req.FacilityIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := h.roomInHotel(w, r)
	if !ok {
		return
	}
	var req roomRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "quantity must be at least 1")
		return
	}
	out, err := h.C.UpdateRoom(r.Context(), room.ID, domain.RoomPatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		FacilityIDs: req.FacilityIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := h.roomInHotel(w, r)
	if !ok {
		return
	}
	if err := h.C.DeleteRoom(r.Context(), room.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- facilities ----

type facilityRequest struct {
	Title *string `json:"title"`
}

func (h *Handlers) listFacilities(w http.ResponseWriter, r *http.Request) {
	pg, err := parsePage(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	out, err := h.Q.Facilities(r.Context(), domain.FacilityFilter{Title: queryStr(r, "title")}, pg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getFacility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	out, err := h.Q.Facility(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createFacility(w http.ResponseWriter, r *http.Request) {
	var req facilityRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.Title == nil || *req.Title == "" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "title is required")
		return
	}
	out, err := h.C.CreateFacility(r.Context(), *req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateFacility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	var req facilityRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.Title == nil || *req.Title == "" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "title is required")
		return
	}
	out, err := h.C.UpdateFacility(r.Context(), id, *req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteFacility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	if err := h.C.DeleteFacility(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
