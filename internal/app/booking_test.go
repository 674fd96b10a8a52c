package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"easystay/internal/app"
	"easystay/internal/domain"
)

func bookingRequest() app.BookingRequest {
	return app.BookingRequest{
		HotelID:   "3",
		StartDate: "2026-03-10",
		EndDate:   "2026-03-13",
		RoomCount: 2,
		GuestName: " 张三 ",
		Phone:     "13800138000",
	}
}

func TestQuote_UnitTimesNightsTimesRooms(t *testing.T) {
	b := app.NewBookingService(seeded(t))

	q, err := b.Quote(context.Background(), bookingRequest())
	require.NoError(t, err)
	require.Equal(t, 3, q.Nights)
	require.Equal(t, "r1", q.RoomID)
	require.Equal(t, 400.0, q.UnitPrice)
	require.Equal(t, 2400.0, q.Total)
	require.Equal(t, "张三", q.GuestName)
}

func TestQuote_FallsBackToBasePrice(t *testing.T) {
	hotels, _ := newService(t, app.WithStrictRooms(false))
	ctx := context.Background()
	in := input("Roomless", 250)
	in.Rooms = nil
	h, err := hotels.Create(ctx, in)
	require.NoError(t, err)
	_, err = hotels.Approve(ctx, h.ID)
	require.NoError(t, err)

	req := bookingRequest()
	req.HotelID, req.RoomCount = h.ID, 1
	q, err := app.NewBookingService(hotels).Quote(ctx, req)
	require.NoError(t, err)
	require.Empty(t, q.RoomID)
	require.Equal(t, 750.0, q.Total)
}

func TestQuote_Rejections(t *testing.T) {
	b := app.NewBookingService(seeded(t))
	ctx := context.Background()

	invalid := map[string]func(*app.BookingRequest){
		"short phone":      func(r *app.BookingRequest) { r.Phone = "1380013800" },
		"letters in phone": func(r *app.BookingRequest) { r.Phone = "1380013800a" },
		"no guest":         func(r *app.BookingRequest) { r.GuestName = "  " },
		"zero rooms":       func(r *app.BookingRequest) { r.RoomCount = 0 },
		"eleven rooms":     func(r *app.BookingRequest) { r.RoomCount = 11 },
		"same day":         func(r *app.BookingRequest) { r.EndDate = r.StartDate },
		"reversed":         func(r *app.BookingRequest) { r.StartDate, r.EndDate = r.EndDate, r.StartDate },
		"malformed":        func(r *app.BookingRequest) { r.StartDate = "10/03/2026" },
		"unknown room":     func(r *app.BookingRequest) { r.RoomID = "r9" },
	}
	for name, edit := range invalid {
		t.Run(name, func(t *testing.T) {
			req := bookingRequest()
			edit(&req)
			_, err := b.Quote(ctx, req)
			require.True(t, domain.IsValidation(err), "got %v", err)
		})
	}

	t.Run("pending hotel", func(t *testing.T) {
		req := bookingRequest()
		req.HotelID = "1"
		_, err := b.Quote(ctx, req)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
