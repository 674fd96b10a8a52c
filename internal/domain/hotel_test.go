package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func base() Hotel {
	return Hotel{
		ID: "h1", Seq: 3, UploadedBy: "m1",
		NameLocal: "Lakeside", Address: "1 Main St", StarRating: 4, BasePrice: 200,
		Rooms:     []Room{{ID: "r1", Name: "Twin", Price: 200, Capacity: 2}},
		Tags:      []string{"江景"},
		Status:    StatusPublished,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPatchApply_LeavesOriginalAlone(t *testing.T) {
	h := base()
	name, rooms := "Hillside", []Room{{ID: "r1", Name: "King", Price: 300, Capacity: 2}}
	out := HotelPatch{NameLocal: &name, Rooms: &rooms}.Apply(h)

	if out.NameLocal != "Hillside" || out.Rooms[0].Name != "King" {
		t.Fatalf("patch not applied: %+v", out)
	}
	if h.NameLocal != "Lakeside" || h.Rooms[0].Name != "Twin" {
		t.Fatalf("original mutated: %+v", h)
	}
	rooms[0].Name = "changed"
	if out.Rooms[0].Name != "King" {
		t.Fatal("patched rooms share backing array with the patch")
	}
	if out.BasePrice != 200 || out.Address != "1 Main St" {
		t.Fatalf("absent fields changed: %+v", out)
	}
}

func TestMateriallyEqual(t *testing.T) {
	a, b := base(), base()
	b.BasePrice, b.Tags = 999, nil
	if !MateriallyEqual(a, b) {
		t.Fatal("price and tags are not material")
	}
	b.Rooms[0].Capacity = 3
	if MateriallyEqual(a, b) {
		t.Fatal("room change is material")
	}
}

func TestMergeInto_KeepsIdentity(t *testing.T) {
	src := base()
	rev := base()
	rev.ID, rev.Seq, rev.SourceHotelID = "h9", 9, "h1"
	rev.NameLocal, rev.Status, rev.RejectionReason = "Renamed", StatusPending, "stale"
	rev.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	out := MergeInto(src, rev)
	if out.ID != "h1" || out.Seq != 3 || out.SourceHotelID != "" || !out.CreatedAt.Equal(src.CreatedAt) {
		t.Fatalf("identity lost: %+v", out)
	}
	if out.NameLocal != "Renamed" || out.Status != StatusPublished || out.RejectionReason != "" {
		t.Fatalf("fields not merged: %+v", out)
	}

	src.Status = StatusOffline
	if got := MergeInto(src, rev).Status; got != StatusOffline {
		t.Fatalf("merge changed source status to %s", got)
	}
}

func TestParseSort(t *testing.T) {
	for in, want := range map[string]SortType{
		"": SortNone, "priceAscending": SortPriceAsc, "priceDesc": SortPriceDesc, "starDescending": SortStarDesc,
	} {
		got, err := ParseSort(in)
		if err != nil || got != want {
			t.Fatalf("ParseSort(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseSort("cheapest"); !IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestErrorHelpers(t *testing.T) {
	err := fmt.Errorf("load: %w", &IOError{Op: "get", Key: "hotel_map", Err: errors.New("disk")})
	if !IsIO(err) || IsValidation(err) {
		t.Fatalf("classification wrong for %v", err)
	}
	if !errors.Is(Transition("approve", StatusOffline), ErrInvalidTransition) {
		t.Fatal("transition error must wrap ErrInvalidTransition")
	}
	if got := Invalid("reason", "required").Error(); got != "validation: reason: required" {
		t.Fatalf("got %q", got)
	}
}
