package roles_test

import (
	"context"
	"testing"

	"ride_hailing/internal/apperr"
	"ride_hailing/internal/models"
	"ride_hailing/internal/roles"
	"ride_hailing/internal/testutil"
)

func TestLoadSeedsOnce(t *testing.T) {
	db := testutil.NewDB(t)

	first, err := roles.Load(context.Background(), db)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := roles.Load(context.Background(), db)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}

	var count int64
	db.Model(&models.Role{}).Count(&count)
	if count != int64(len(models.RoleNames)) {
		t.Fatalf("roles in table = %d, want %d", count, len(models.RoleNames))
	}

	for _, name := range models.RoleNames {
		a, err := first.ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		b, _ := second.ByName(name)
		if a.ID != b.ID {
			t.Errorf("%s id changed between loads: %d vs %d", name, a.ID, b.ID)
		}
		if got := first.NameOf(a.ID); got != name {
			t.Errorf("NameOf(%d) = %q", a.ID, got)
		}
	}
}

func TestLookupMisses(t *testing.T) {
	reg := roles.New([]models.Role{{ID: 1, Name: models.RoleUser}})

	if _, err := reg.ByName("pilot"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("ByName miss err = %v", err)
	}
	if _, err := reg.ByID(42); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("ByID miss err = %v", err)
	}
	if reg.NameOf(42) != "" {
		t.Error("NameOf unknown id should be empty")
	}
	if !reg.Is(1, models.RoleUser) || reg.Is(1, models.RoleAdmin) {
		t.Error("Is mismatched")
	}
}
