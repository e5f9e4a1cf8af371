package httpserver

import (
	"net/http"

	"staybook/internal/domain"
)

// ---- countries ----

type countryRequest struct {
	Name    *string `json:"name"`
	ISOCode *string `json:"iso_code"`
}

func (h *Handlers) listCountries(w http.ResponseWriter, r *http.Request) {
	pg, err := parsePage(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	out, err := h.Q.Countries(r.Context(), domain.CountryFilter{Name: queryStr(r, "name")}, pg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	out, err := h.Q.Country(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createCountry(w http.ResponseWriter, r *http.Request) {
	var req countryRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.Name == nil || *req.Name == "" || req.ISOCode == nil || len(*req.ISOCode) != 2 {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "name and a 2-letter iso_code are required")
		return
	}
	out, err := h.C.CreateCountry(r.Context(), *req.Name, *req.ISOCode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	var req countryRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.ISOCode != nil && len(*req.ISOCode) != 2 {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "iso_code must be 2 letters")
		return
	}
	out, err := h.C.UpdateCountry(r.Context(), id, domain.CountryPatch{Name: req.Name, ISOCode: req.ISOCode})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	if err := h.C.DeleteCountry(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- cities ----

type cityRequest struct {
	Name      *string `json:"name"`
	CountryID *int64  `json:"country_id"`
}

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	pg, err := parsePage(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	countryID, err := queryID(r, "country_id")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	out, err := h.Q.Cities(r.Context(), domain.CityFilter{Name: queryStr(r, "name"), CountryID: countryID}, pg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	out, err := h.Q.City(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createCity(w http.ResponseWriter, r *http.Request) {
	var req cityRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.Name == nil || *req.Name == "" || req.CountryID == nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "name and country_id are required")
		return
	}
	out, err := h.C.CreateCity(r.Context(), *req.Name, *req.CountryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	var req cityRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	out, err := h.C.UpdateCity(r.Context(), id, domain.CityPatch{Name: req.Name, CountryID: req.CountryID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return
	}
	if err := h.C.DeleteCity(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
