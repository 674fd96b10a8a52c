package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"easystay/internal/adapters/export"
	httpserver "easystay/internal/adapters/http_server"
	"easystay/internal/app"
	"easystay/internal/domain"
	"easystay/internal/storage/memory"
)

func newTestServer(t *testing.T, rps int) http.Handler {
	t.Helper()
	kv := memory.New()
	now := func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	hotels := app.NewHotelService(kv, app.WithClock(now))
	_, err := hotels.SeedIfEmpty(context.Background())
	require.NoError(t, err)

	srv := httpserver.New(rps)
	srv.MountHandlers(&httpserver.Handlers{
		Hotels:  hotels,
		Search:  app.NewSearchService(kv, "上海"),
		Booking: app.NewBookingService(hotels),
	})
	return srv.Mux()
}

func do(t *testing.T, h http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Field  string `json:"field"`
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t, 0), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestGetHotel_ETag(t *testing.T) {
	h := newTestServer(t, 0)

	rec := do(t, h, http.MethodGet, "/v1/hotels/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	require.Equal(t, "2", decodeBody[domain.Hotel](t, rec).ID)

	rec = do(t, h, http.MethodGet, "/v1/hotels/2", "", "If-None-Match", etag)
	require.Equal(t, http.StatusNotModified, rec.Code)
	require.Empty(t, rec.Body.Bytes())

	rec = do(t, h, http.MethodGet, "/v1/hotels/404", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestQueryHotels(t *testing.T) {
	h := newTestServer(t, 0)

	rec := do(t, h, http.MethodGet, "/v1/hotels?page=1&pageSize=3&sort=priceDesc&stars=4,5&minPrice=400", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody[domain.HotelsPage](t, rec)
	require.Equal(t, 9, page.TotalCount)
	require.Len(t, page.Items, 3)
	require.Equal(t, 1000.0, page.Items[0].BasePrice)

	for _, bad := range []string{"page=0", "pageSize=x", "sort=cheapest", "stars=four", "maxPrice=lots"} {
		rec := do(t, h, http.MethodGet, "/v1/hotels?"+bad, "")
		require.Contains(t, []int{http.StatusBadRequest, http.StatusUnprocessableEntity}, rec.Code, bad)
	}
}

func TestQueryHotels_HugePageIsEmpty(t *testing.T) {
	h := newTestServer(t, 0)

	for _, path := range []string{
		"/v1/hotels?page=92233720368547760&pageSize=100",
		"/v1/admin/hotels?status=PUBLISHED&page=92233720368547760&pageSize=100",
	} {
		rec := do(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		page := decodeBody[domain.HotelsPage](t, rec)
		require.Empty(t, page.Items, path)
		require.Equal(t, 14, page.TotalCount, path)
	}
}

func TestLifecycleOverHTTP(t *testing.T) {
	h := newTestServer(t, 0)

	body := `{"uploadedBy":"m1","nameLocal":"Test Hotel","address":"1 Main St","starRating":4,
	          "basePrice":200,"coverImageRef":"c.jpg","rooms":[{"name":"Twin","price":200,"capacity":2}]}`
	rec := do(t, h, http.MethodPost, "/v1/hotels", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[domain.Hotel](t, rec)
	require.Equal(t, "/v1/hotels/"+created.ID, rec.Header().Get("Location"))

	rec = do(t, h, http.MethodPost, "/v1/hotels/"+created.ID+"/reject", `{"reason":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "reason", decodeBody[problem](t, rec).Field)

	rec = do(t, h, http.MethodPost, "/v1/hotels/"+created.ID+"/reject", `{"reason":"photos non-compliant"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, domain.StatusRejected, decodeBody[domain.Hotel](t, rec).Status)

	rec = do(t, h, http.MethodPost, "/v1/hotels/"+created.ID+"/resubmit", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "No Change", decodeBody[problem](t, rec).Title)

	rec = do(t, h, http.MethodPost, "/v1/hotels/"+created.ID+"/resubmit", `{"starRating":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/hotels/"+created.ID+"/approve", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/hotels/"+created.ID+"/approve", "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPatch, "/v1/hotels/"+created.ID, `{"basePrice":250}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	rev := decodeBody[domain.Hotel](t, rec)
	require.Equal(t, created.ID, rev.SourceHotelID)

	rec = do(t, h, http.MethodPost, "/v1/hotels/"+rev.ID+"/approve", "")
	require.Equal(t, http.StatusOK, rec.Code)
	merged := decodeBody[domain.Hotel](t, rec)
	require.Equal(t, created.ID, merged.ID)
	require.Equal(t, 250.0, merged.BasePrice)

	rec = do(t, h, http.MethodPost, "/v1/hotels/"+created.ID+"/offline", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, "/v1/hotels/"+created.ID+"/restore", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, domain.StatusPublished, decodeBody[domain.Hotel](t, rec).Status)

	rec = do(t, h, http.MethodGet, "/v1/merchants/m1/hotels", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[[]domain.Hotel](t, rec), 1)
}

func TestCreate_BadInput(t *testing.T) {
	h := newTestServer(t, 0)

	rec := do(t, h, http.MethodPost, "/v1/hotels", `{"nameLocal":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/hotels", `{"uploadedBy":"m","nameLocal":"x","address":"a","starRating":7}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "starRating", decodeBody[problem](t, rec).Field)
}

func TestAdminRoutes(t *testing.T) {
	h := newTestServer(t, 0)

	rec := do(t, h, http.MethodGet, "/v1/admin/hotels", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, decodeBody[domain.HotelsPage](t, rec).TotalCount)

	rec = do(t, h, http.MethodGet, "/v1/admin/hotels?status=published&pageSize=10&page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[domain.HotelsPage](t, rec).Items, 4)

	rec = do(t, h, http.MethodGet, "/v1/admin/hotels?status=archived", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/admin/hotels/all", "")
	require.Len(t, decodeBody[[]domain.Hotel](t, rec), 15)

	rec = do(t, h, http.MethodGet, "/v1/admin/reject-reasons", "")
	require.Equal(t, domain.RejectReasons, decodeBody[[]string](t, rec))

	rec = do(t, h, http.MethodGet, "/v1/admin/hotels/export?status=PENDING", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestSearchParamsAndSearch(t *testing.T) {
	h := newTestServer(t, 0)

	rec := do(t, h, http.MethodGet, "/v1/search-params", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "上海", decodeBody[domain.SearchParameters](t, rec).City)

	rec = do(t, h, http.MethodPatch, "/v1/search-params", `{"tagFilters":["江景"],"startDate":"2026-03-10"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPatch, "/v1/search-params", `{"endDate":"tomorrow"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/hotels/search?sort=priceAsc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody[domain.HotelsPage](t, rec)
	require.Equal(t, 2, page.TotalCount)
	require.Equal(t, "4", page.Items[0].ID)
}

func TestQuote(t *testing.T) {
	h := newTestServer(t, 0)

	rec := do(t, h, http.MethodPost, "/v1/bookings/quote",
		`{"hotelId":"3","startDate":"2026-03-10","endDate":"2026-03-12","roomCount":1,"guestName":"李四","phone":"13900139000"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	q := decodeBody[app.BookingQuote](t, rec)
	require.Equal(t, 800.0, q.Total)

	rec = do(t, h, http.MethodPost, "/v1/bookings/quote",
		`{"hotelId":"3","startDate":"2026-03-10","endDate":"2026-03-12","roomCount":1,"guestName":"李四","phone":"139"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "phone", decodeBody[problem](t, rec).Field)
}

func TestRateLimit_OnlyMutatingRoutes(t *testing.T) {
	h := newTestServer(t, 1)

	codes := map[int]int{}
	for i := 0; i < 5; i++ {
		rec := do(t, h, http.MethodPost, "/v1/hotels/2/offline", "")
		codes[rec.Code]++
	}
	require.Positive(t, codes[http.StatusTooManyRequests])

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/v1/hotels/2", "").Code)
	}
}
