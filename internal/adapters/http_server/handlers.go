// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"easystay/internal/adapters/export"
	"easystay/internal/app"
	"easystay/internal/domain"
)

type Handlers struct {
	Hotels  domain.Hotels
	Search  *app.SearchService
	Booking *app.BookingService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Field  string `json:"field,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/hotels", h.queryHotels)
	s.mux.Get("/v1/hotels/search", h.searchHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Get("/v1/merchants/{merchant}/hotels", h.merchantHotels)
	s.mux.Get("/v1/admin/hotels", h.adminQueue)
	s.mux.Get("/v1/admin/hotels/all", h.adminAll)
	s.mux.Get("/v1/admin/hotels/export", h.adminExport)
	s.mux.Get("/v1/admin/reject-reasons", h.rejectReasons)
	s.mux.Get("/v1/search-params", h.getSearchParams)

	s.mux.Group(func(r chi.Router) {
		r.Use(RateLimit(s.rate))
		r.Post("/v1/hotels", h.createHotel)
		r.Patch("/v1/hotels/{id}", h.updateHotel)
		r.Post("/v1/hotels/{id}/resubmit", h.resubmitHotel)
		r.Post("/v1/hotels/{id}/approve", h.transition(h.Hotels.Approve))
		r.Post("/v1/hotels/{id}/reject", h.rejectHotel)
		r.Post("/v1/hotels/{id}/offline", h.transition(h.Hotels.TakeOffline))
		r.Post("/v1/hotels/{id}/restore", h.transition(h.Hotels.Restore))
		r.Patch("/v1/search-params", h.patchSearchParams)
		r.Post("/v1/bookings/quote", h.quote)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.As(err, &ve):
		writeProblemBody(w, problem{Type: "about:blank", Title: "Validation Failed",
			Status: http.StatusUnprocessableEntity, Detail: ve.Message, Field: ve.Field})
	case errors.Is(err, domain.ErrNoChange):
		writeProblem(w, http.StatusConflict, "No Change", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeProblem(w, http.StatusConflict, "Invalid Transition", err.Error())
	case domain.IsIO(err):
		log.Error().Err(err).Msg("storage unavailable")
		writeProblem(w, http.StatusServiceUnavailable, "Storage Unavailable", "listing storage could not be read or written")
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decode reads a JSON body into dst. An empty body leaves dst untouched
// when optional is set.
func decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
	return false
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Hotels.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getHotel body")
	}
}

func (h *Handlers) queryHotels(w http.ResponseWriter, r *http.Request) {
	q, ok := parseQuery(w, r)
	if !ok {
		return
	}
	out, err := h.Hotels.Query(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// searchHotels lists hotels using the persisted search parameters as filters.
func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	page, size, ok := pageParams(w, r)
	if !ok {
		return
	}
	sort, err := domain.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, err)
		return
	}
	sp, err := h.Search.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Hotels.Query(r.Context(), domain.QueryFromSearch(sp, page, size, sort))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in domain.HotelInput
	if !decode(w, r, &in, false) {
		return
	}
	out, err := h.Hotels.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/hotels/"+out.ID)
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	var p domain.HotelPatch
	if !decode(w, r, &p, false) {
		return
	}
	out, err := h.Hotels.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if out.IsRevision() && out.SourceHotelID == chi.URLParam(r, "id") {
		// the live listing is untouched; the edit waits for review
		status = http.StatusAccepted
		w.Header().Set("Location", "/v1/hotels/"+out.ID)
	}
	writeJSON(w, status, out)
}

func (h *Handlers) resubmitHotel(w http.ResponseWriter, r *http.Request) {
	var p domain.HotelPatch
	if !decode(w, r, &p, true) {
		return
	}
	out, err := h.Hotels.Resubmit(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) rejectHotel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if !decode(w, r, &body, true) {
		return
	}
	out, err := h.Hotels.Reject(r.Context(), chi.URLParam(r, "id"), body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// transition serves the body-less status changes: approve, offline, restore.
func (h *Handlers) transition(op func(context.Context, string) (domain.Hotel, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := op(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *Handlers) merchantHotels(w http.ResponseWriter, r *http.Request) {
	out, err := h.Hotels.ListByMerchant(r.Context(), chi.URLParam(r, "merchant"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// adminQueue lists one review queue; PENDING when status is omitted.
func (h *Handlers) adminQueue(w http.ResponseWriter, r *http.Request) {
	st := domain.StatusPending
	if v := r.URL.Query().Get("status"); v != "" {
		st = domain.Status(strings.ToUpper(v))
	}
	page, size, ok := pageParams(w, r)
	if !ok {
		return
	}
	out, err := h.Hotels.ListByStatus(r.Context(), st, page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) adminAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.Hotels.ListByMerchant(r.Context(), "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) adminExport(w http.ResponseWriter, r *http.Request) {
	all, err := h.Hotels.ListByMerchant(r.Context(), "")
	if err != nil {
		writeError(w, err)
		return
	}
	rows := all
	if v := r.URL.Query().Get("status"); v != "" {
		st := domain.Status(strings.ToUpper(v))
		if !st.Valid() {
			writeError(w, domain.Invalid("status", "unknown status "+v))
			return
		}
		rows = rows[:0:0]
		for _, hotel := range all {
			if hotel.Status == st {
				rows = append(rows, hotel)
			}
		}
	}
	b, err := export.HotelsXLSX(rows)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="hotels.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		log.Error().Err(err).Msg("failed to write export body")
	}
}

func (h *Handlers) rejectReasons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.RejectReasons)
}

func (h *Handlers) getSearchParams(w http.ResponseWriter, r *http.Request) {
	out, err := h.Search.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) patchSearchParams(w http.ResponseWriter, r *http.Request) {
	var p domain.SearchPatch
	if !decode(w, r, &p, false) {
		return
	}
	out, err := h.Search.Update(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	var req app.BookingRequest
	if !decode(w, r, &req, false) {
		return
	}
	out, err := h.Booking.Quote(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- query string parsing ----

func pageParams(w http.ResponseWriter, r *http.Request) (page, size int, ok bool) {
	qs := r.URL.Query()
	page, size = 1, 0
	if v := qs.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeProblem(w, http.StatusBadRequest, "Invalid page", "page must be a positive integer")
			return 0, 0, false
		}
		page = n
	}
	if v := qs.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid pageSize", "pageSize must be an integer between 1 and 100")
			return 0, 0, false
		}
		size = n
	}
	return page, size, true
}

func parseQuery(w http.ResponseWriter, r *http.Request) (domain.HotelsQuery, bool) {
	page, size, ok := pageParams(w, r)
	if !ok {
		return domain.HotelsQuery{}, false
	}
	qs := r.URL.Query()
	sort, err := domain.ParseSort(qs.Get("sort"))
	if err != nil {
		writeError(w, err)
		return domain.HotelsQuery{}, false
	}
	q := domain.HotelsQuery{
		Page:     page,
		PageSize: size,
		Sort:     sort,
		Keyword:  qs.Get("keyword"),
		Tags:     splitList(qs.Get("tags")),
	}
	for _, s := range splitList(qs.Get("stars")) {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid stars", "stars must be a comma separated list of integers")
			return domain.HotelsQuery{}, false
		}
		q.Stars = append(q.Stars, n)
	}
	minS, maxS := qs.Get("minPrice"), qs.Get("maxPrice")
	if minS != "" || maxS != "" {
		pr := domain.PriceRange{Min: 0, Max: math.MaxFloat64}
		if minS != "" {
			if pr.Min, err = strconv.ParseFloat(minS, 64); err != nil {
				writeProblem(w, http.StatusBadRequest, "Invalid minPrice", "minPrice must be a number")
				return domain.HotelsQuery{}, false
			}
		}
		if maxS != "" {
			if pr.Max, err = strconv.ParseFloat(maxS, 64); err != nil {
				writeProblem(w, http.StatusBadRequest, "Invalid maxPrice", "maxPrice must be a number")
				return domain.HotelsQuery{}, false
			}
		}
		q.PriceRange = &pr
	}
	return q, true
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
