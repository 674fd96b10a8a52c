package calendar

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type Mode string

const (
	ModeStart Mode = "start"
	ModeEnd   Mode = "end"
)

type NoticeCode string

const (
	NoticePastDate              NoticeCode = "past_date"
	NoticeMalformedDate         NoticeCode = "malformed_date"
	NoticeCheckoutBeforeCheckin NoticeCode = "checkout_before_checkin"
	NoticeSameDay               NoticeCode = "same_day"
	NoticeMonthBeforeToday      NoticeCode = "month_before_today"
	NoticeIncompleteRange       NoticeCode = "incomplete_range"
	NoticeClosed                NoticeCode = "selector_closed"
	NoticeLoadFailed            NoticeCode = "load_failed"
	NoticeSaveFailed            NoticeCode = "save_failed"
)

// Notice is a non-blocking message for the user. Selector operations never
// fail; rule violations come back as notices.
type Notice struct {
	Code    NoticeCode `json:"code"`
	Message string     `json:"message"`
}

func notice(c NoticeCode, msg string) []Notice { return []Notice{{Code: c, Message: msg}} }

// ParamsStore is where confirmed dates live between selector sessions.
type ParamsStore interface {
	Dates(ctx context.Context) (start, end string, err error)
	SetDates(ctx context.Context, start, end string) error
}

// Selector drives check-in/check-out picking. It is not safe for concurrent
// use; each view session owns one.
type Selector struct {
	store ParamsStore
	now   func() time.Time

	open  bool
	today Date
	view  Month
	mode  Mode
	start Date
	end   Date
}

func NewSelector(store ParamsStore, now func() time.Time) *Selector {
	if now == nil {
		now = time.Now
	}
	return &Selector{store: store, now: now, mode: ModeStart}
}

// Open starts a session with mode picking the endpoint the next tap sets. The
// buffer resumes from the last confirmed dates.
func (s *Selector) Open(ctx context.Context, mode Mode) []Notice {
	var out []Notice
	s.today = DateOf(s.now())
	s.mode = ModeStart
	if mode == ModeEnd {
		s.mode = ModeEnd
	}
	s.start, s.end = Date{}, Date{}
	s.open = true

	startRaw, endRaw, err := s.store.Dates(ctx)
	if err != nil {
		log.Error().Err(err).Msg("load confirmed dates failed")
		out = append(out, notice(NoticeLoadFailed, "previous dates could not be loaded")...)
	} else {
		if d, err := ParseDate(startRaw); err == nil {
			s.start = d
		}
		if d, err := ParseDate(endRaw); err == nil {
			s.end = d
		}
		if s.dropPast() {
			out = append(out, notice(NoticePastDate, "previous dates have passed and were cleared")...)
		}
	}

	anchor := s.today
	switch {
	case s.mode == ModeEnd && !s.end.IsZero():
		anchor = s.end
	case !s.start.IsZero():
		anchor = s.start
	}
	s.view = anchor.MonthOf()
	if s.view.Before(s.today.MonthOf()) {
		s.view = s.today.MonthOf()
	}
	return out
}

// dropPast clears resumed endpoints that are now before today.
func (s *Selector) dropPast() bool {
	dropped := false
	if !s.start.IsZero() && s.start.Before(s.today) {
		s.start, dropped = Date{}, true
	}
	if !s.end.IsZero() && s.end.Before(s.today) {
		s.end, dropped = Date{}, true
	}
	return dropped
}

// SelectDay applies one tap on the day raw (YYYY-MM-DD).
func (s *Selector) SelectDay(raw string) []Notice {
	if !s.open {
		return notice(NoticeClosed, "calendar is not open")
	}
	d, err := ParseDate(raw)
	if err != nil {
		return notice(NoticeMalformedDate, "invalid date "+raw)
	}
	if d.Before(s.today) {
		return notice(NoticePastDate, "dates before today cannot be selected")
	}

	// a second tap on the only pending date starts over from that date
	if pending, ok := s.singlePending(); ok && pending == d {
		s.start, s.end = d, Date{}
		s.mode = ModeEnd
		return nil
	}

	if s.mode == ModeStart {
		s.start = d
		s.mode = ModeEnd
	} else {
		s.end = d
	}
	return s.orderWarnings()
}

func (s *Selector) singlePending() (Date, bool) {
	switch {
	case !s.start.IsZero() && s.end.IsZero():
		return s.start, true
	case s.start.IsZero() && !s.end.IsZero():
		return s.end, true
	}
	return Date{}, false
}

func (s *Selector) orderWarnings() []Notice {
	if s.start.IsZero() || s.end.IsZero() {
		return nil
	}
	switch {
	case s.end.Before(s.start):
		return notice(NoticeCheckoutBeforeCheckin, "checkout precedes check-in")
	case s.end == s.start:
		return notice(NoticeSameDay, "check-in and checkout are the same day")
	}
	return nil
}

// SetMode switches which endpoint the next tap sets.
func (s *Selector) SetMode(m Mode) {
	if m == ModeStart || m == ModeEnd {
		s.mode = m
	}
}

// ChangeMonth pages the view; it never goes before the month of today.
func (s *Selector) ChangeMonth(delta int) []Notice {
	if !s.open {
		return notice(NoticeClosed, "calendar is not open")
	}
	target := s.view.Add(delta)
	if first := s.today.MonthOf(); target.Before(first) {
		s.view = first
		return notice(NoticeMonthBeforeToday, "earlier months cannot be shown")
	}
	s.view = target
	return nil
}

// Confirm writes both dates in one store write and closes the selector. The
// dates are written as picked, even when checkout precedes check-in.
func (s *Selector) Confirm(ctx context.Context) []Notice {
	if !s.open {
		return notice(NoticeClosed, "calendar is not open")
	}
	if s.start.IsZero() || s.end.IsZero() {
		return notice(NoticeIncompleteRange, "select both check-in and checkout")
	}
	if err := s.store.SetDates(ctx, s.start.String(), s.end.String()); err != nil {
		log.Error().Err(err).Str("start", s.start.String()).Str("end", s.end.String()).Msg("save dates failed")
		return notice(NoticeSaveFailed, "dates could not be saved, try again")
	}
	s.reset()
	return nil
}

// Cancel discards the buffer; confirmed dates stay as they were.
func (s *Selector) Cancel() { s.reset() }

func (s *Selector) reset() {
	s.open = false
	s.start, s.end = Date{}, Date{}
	s.mode = ModeStart
}

func (s *Selector) IsOpen() bool     { return s.open }
func (s *Selector) Mode() Mode       { return s.mode }
func (s *Selector) Today() Date      { return s.today }
func (s *Selector) ViewMonth() Month { return s.view }

func (s *Selector) Start() (Date, bool) { return s.start, !s.start.IsZero() }
func (s *Selector) End() (Date, bool)   { return s.end, !s.end.IsZero() }

// Nights is the length of the pending stay, zero unless end is after start.
func (s *Selector) Nights() int {
	if s.start.IsZero() || s.end.IsZero() {
		return 0
	}
	return max(DaysBetween(s.start, s.end), 0)
}

// DayCell describes one day of the displayed month.
type DayCell struct {
	Date       Date `json:"date"`
	Selectable bool `json:"selectable"`
	Today      bool `json:"today"`
	Start      bool `json:"start"`
	End        bool `json:"end"`
	InRange    bool `json:"inRange"`
}

func (s *Selector) Grid() []DayCell {
	n := s.view.Days()
	cells := make([]DayCell, 0, n)
	for i := 0; i < n; i++ {
		d := s.view.First().AddDays(i)
		c := DayCell{
			Date:       d,
			Selectable: !d.Before(s.today),
			Today:      d == s.today,
			Start:      !s.start.IsZero() && d == s.start,
			End:        !s.end.IsZero() && d == s.end,
		}
		if !s.start.IsZero() && !s.end.IsZero() {
			c.InRange = d.After(s.start) && d.Before(s.end)
		}
		cells = append(cells, c)
	}
	return cells
}
