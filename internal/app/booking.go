package app

import (
	"context"
	"strings"
	"time"

	"easystay/internal/calendar"
	"easystay/internal/domain"
)

type BookingRequest struct {
	HotelID   string `json:"hotelId" validate:"required"`
	RoomID    string `json:"roomId"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	RoomCount int    `json:"roomCount" validate:"min=1,max=10"`
	GuestName string `json:"guestName" validate:"required"`
	Phone     string `json:"phone" validate:"required,len=11,numeric"`
}

// BookingQuote is the price summary shown before a guest confirms. Nothing is
// reserved or charged.
type BookingQuote struct {
	HotelID   string  `json:"hotelId"`
	HotelName string  `json:"hotelName"`
	RoomID    string  `json:"roomId,omitempty"`
	RoomName  string  `json:"roomName,omitempty"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Nights    int     `json:"nights"`
	RoomCount int     `json:"roomCount"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
	GuestName string  `json:"guestName"`
	Phone     string  `json:"phone"`
}

type BookingService struct {
	hotels domain.Hotels
}

func NewBookingService(h domain.Hotels) *BookingService { return &BookingService{hotels: h} }

// Quote prices a stay at a published hotel: unit price times nights times rooms.
func (b *BookingService) Quote(ctx context.Context, req BookingRequest) (q BookingQuote, err error) {
	defer track("quote", time.Now(), &err)

	req.GuestName = strings.TrimSpace(req.GuestName)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validateStruct(req); err != nil {
		return BookingQuote{}, err
	}
	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		return BookingQuote{}, domain.Invalid("startDate", "must be YYYY-MM-DD")
	}
	end, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		return BookingQuote{}, domain.Invalid("endDate", "must be YYYY-MM-DD")
	}
	nights := calendar.DaysBetween(start, end)
	if nights <= 0 {
		return BookingQuote{}, domain.Invalid("endDate", "must be after startDate")
	}

	h, err := b.hotels.GetByID(ctx, req.HotelID)
	if err != nil {
		return BookingQuote{}, err
	}
	if h.Status != domain.StatusPublished {
		return BookingQuote{}, domain.ErrNotFound
	}

	q = BookingQuote{
		HotelID:   h.ID,
		HotelName: h.NameLocal,
		StartDate: start.String(),
		EndDate:   end.String(),
		Nights:    nights,
		RoomCount: req.RoomCount,
		UnitPrice: h.BasePrice,
		GuestName: req.GuestName,
		Phone:     req.Phone,
	}
	room, err := pickRoom(h, req.RoomID)
	if err != nil {
		return BookingQuote{}, err
	}
	if room != nil {
		q.RoomID, q.RoomName, q.UnitPrice = room.ID, room.Name, room.Price
	}
	q.Total = q.UnitPrice * float64(nights) * float64(req.RoomCount)
	return q, nil
}

// pickRoom returns the requested room, or the first room when none is named.
// A hotel without rooms quotes its base price.
func pickRoom(h domain.Hotel, roomID string) (*domain.Room, error) {
	if roomID == "" {
		if len(h.Rooms) == 0 {
			return nil, nil
		}
		return &h.Rooms[0], nil
	}
	for i := range h.Rooms {
		if h.Rooms[i].ID == roomID {
			return &h.Rooms[i], nil
		}
	}
	return nil, domain.Invalid("roomId", "no such room in this hotel")
}
