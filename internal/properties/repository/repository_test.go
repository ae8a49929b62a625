package repository

import (
	"testing"
)

func TestBuildWhere_NoFilters(t *testing.T) {
	where, args := buildWhere(Filter{})
	if where != "WHERE NOT is_deleted" {
		t.Fatalf("unexpected where clause: %q", where)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestBuildWhere_AllFilters(t *testing.T) {
	minPrice := 500.0
	maxPrice := 1500.0
	bedrooms := 2
	bathrooms := 1
	kitchens := 1
	livingRooms := 2
	ownerID := int64(7)

	where, args := buildWhere(Filter{
		City:         "Beirut",
		Village:      "Achrafieh",
		Type:         "Apartment",
		Status:       "Rent",
		RentDuration: "Monthly",
		MinPrice:     &minPrice,
		MaxPrice:     &maxPrice,
		Bedrooms:     &bedrooms,
		Bathrooms:    &bathrooms,
		Kitchens:     &kitchens,
		LivingRooms:  &livingRooms,
		OwnerID:      &ownerID,
	})

	want := "WHERE NOT is_deleted" +
		" AND lower(city) = lower($1)" +
		" AND lower(village) = lower($2)" +
		" AND lower(type) = lower($3)" +
		" AND lower(status) = lower($4)" +
		" AND lower(rent_duration) = lower($5)" +
		" AND price >= $6" +
		" AND price <= $7" +
		" AND bedrooms = $8" +
		" AND bathrooms = $9" +
		" AND kitchens = $10" +
		" AND living_rooms = $11" +
		" AND owner_id = $12"
	if where != want {
		t.Fatalf("unexpected where clause:\n got %q\nwant %q", where, want)
	}
	if len(args) != 12 {
		t.Fatalf("expected 12 args, got %d", len(args))
	}
	if args[0] != "Beirut" || args[11] != int64(7) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildWhere_RoomCountsMatchExactly(t *testing.T) {
	// A two-bedroom search must not return three-bedroom listings.
	bedrooms := 2
	where, args := buildWhere(Filter{Bedrooms: &bedrooms})

	want := "WHERE NOT is_deleted AND bedrooms = $1"
	if where != want {
		t.Fatalf("unexpected where clause:\n got %q\nwant %q", where, want)
	}
	if len(args) != 1 || args[0] != 2 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildWhere_PlaceholdersStayContiguous(t *testing.T) {
	// Skipping the text filters must not leave gaps in the numbering.
	maxPrice := 900.0
	ownerID := int64(3)

	where, args := buildWhere(Filter{MaxPrice: &maxPrice, OwnerID: &ownerID})

	want := "WHERE NOT is_deleted AND price <= $1 AND owner_id = $2"
	if where != want {
		t.Fatalf("unexpected where clause:\n got %q\nwant %q", where, want)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
}
