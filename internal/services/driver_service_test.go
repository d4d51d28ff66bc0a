package services

import (
	"context"
	"net/http"
	"testing"

	"ride_hailing/internal/apperr"
	"ride_hailing/internal/models"
)

func newDriverService(t *testing.T) (*DriverService, *AuthService) {
	t.Helper()
	auth := newAuthService(t)
	return NewDriverService(auth.db, auth.roles), auth
}

func TestCreateDriver(t *testing.T) {
	ds, auth := newDriverService(t)
	ctx := context.Background()
	u := mustRegister(t, auth, RegisterInput{Name: "U", Phone: "1", Password: "pw", Role: models.RoleUser})

	_, err := ds.CreateDriver(ctx, CreateDriverInput{UserID: u.ID, LicenseNumber: "L-1"})
	wantKind(t, err, apperr.KindValidation, http.StatusBadRequest)

	_, err = ds.CreateDriver(ctx, CreateDriverInput{UserID: 404, LicenseNumber: "L", LicenseType: "B", VehicleInfo: "Corolla"})
	wantKind(t, err, apperr.KindNotFound, http.StatusNotFound)

	echo, err := ds.CreateDriver(ctx, CreateDriverInput{UserID: u.ID, LicenseNumber: "L-1", LicenseType: "B", VehicleInfo: "Corolla"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if *echo != (DriverEcho{UserID: u.ID, LicenseNumber: "L-1", LicenseType: "B", VehicleInfo: "Corolla"}) {
		t.Fatalf("echo = %+v", echo)
	}

	got, err := ds.GetDriverByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Role != models.RoleDriver || got.DriverProfile == nil || got.DriverProfile.LicenseNumber != "L-1" {
		t.Fatalf("driver = %+v", got)
	}
	if got.IsApproved == nil || *got.IsApproved {
		t.Fatalf("promoted driver should be unapproved: %+v", got)
	}

	// a second create replaces the profile instead of adding one
	if _, err := ds.CreateDriver(ctx, CreateDriverInput{UserID: u.ID, LicenseNumber: "L-2", LicenseType: "C", VehicleInfo: "Van"}); err != nil {
		t.Fatalf("second create: %v", err)
	}
	var n int64
	ds.db.Model(&models.DriverProfile{}).Where("user_id = ?", u.ID).Count(&n)
	if n != 1 {
		t.Fatalf("profiles = %d, want 1", n)
	}
}

func TestGetAllDriversScopedToRole(t *testing.T) {
	ds, auth := newDriverService(t)
	ctx := context.Background()
	mustRegister(t, auth, RegisterInput{Name: "U", Phone: "1", Password: "pw", Role: models.RoleUser})
	d := mustRegister(t, auth, driverInput("2"))

	drivers, err := ds.GetAllDrivers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(drivers) != 1 || drivers[0].ID != d.ID {
		t.Fatalf("drivers = %+v", drivers)
	}
}

func TestGetDriverNotFound(t *testing.T) {
	ds, auth := newDriverService(t)
	u := mustRegister(t, auth, RegisterInput{Name: "U", Phone: "1", Password: "pw", Role: models.RoleUser})

	_, err := ds.GetDriverByID(context.Background(), u.ID)
	wantKind(t, err, apperr.KindNotFound, http.StatusNotFound)
}

func TestUpdateDriver(t *testing.T) {
	ds, auth := newDriverService(t)
	ctx := context.Background()
	d := mustRegister(t, auth, driverInput("2"))

	vehicle := "Prius"
	echo, err := ds.UpdateDriver(ctx, d.ID, UpdateDriverInput{VehicleInfo: &vehicle})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if echo.VehicleInfo != "Prius" || echo.LicenseNumber != "" {
		t.Fatalf("echo = %+v", echo)
	}

	number := "L-9"
	echo, err = ds.UpdateDriver(ctx, d.ID, UpdateDriverInput{LicenseNumber: &number})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if echo.VehicleInfo != "Prius" || echo.LicenseNumber != "L-9" {
		t.Fatalf("partial update lost fields: %+v", echo)
	}

	_, err = ds.UpdateDriver(ctx, 404, UpdateDriverInput{})
	wantKind(t, err, apperr.KindNotFound, http.StatusNotFound)
}

func TestDeleteDriverDemotes(t *testing.T) {
	ds, auth := newDriverService(t)
	ctx := context.Background()
	d := mustRegister(t, auth, driverInput("2"))
	if _, err := ds.UpdateDriver(ctx, d.ID, UpdateDriverInput{VehicleInfo: strPtr("Prius")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := ds.DeleteDriver(ctx, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var row models.User
	if err := ds.db.First(&row, d.ID).Error; err != nil {
		t.Fatalf("user row removed: %v", err)
	}
	userRole, _ := ds.roles.ByName(models.RoleUser)
	if row.RoleID != userRole.ID {
		t.Fatalf("role_id = %d, want %d", row.RoleID, userRole.ID)
	}

	var n int64
	ds.db.Model(&models.DriverProfile{}).Where("user_id = ?", d.ID).Count(&n)
	if n != 0 {
		t.Fatalf("profile kept after demotion")
	}

	wantKind(t, ds.DeleteDriver(ctx, d.ID), apperr.KindNotFound, http.StatusNotFound)
}
