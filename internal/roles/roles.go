// Package roles resolves role names and ids from a registry loaded once at
// startup, so request handlers never query the roles table.
package roles

import (
	"context"
	"fmt"
	"sync"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ride_hailing/internal/apperr"
	"ride_hailing/internal/models"
)

type Registry struct {
	mu     sync.RWMutex
	byName map[string]models.Role
	byID   map[uint]models.Role
}

// Load seeds any missing role rows and caches the whole table.
func Load(ctx context.Context, db *gorm.DB) (*Registry, error) {
	db = db.WithContext(ctx)
	for _, name := range models.RoleNames {
		var role models.Role
		if err := db.Where(models.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return nil, fmt.Errorf("seed role %q: %w", name, err)
		}
	}

	var all []models.Role
	if err := db.Find(&all).Error; err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	r := &Registry{}
	r.set(all)
	logrus.WithField("count", len(all)).Info("role registry loaded")
	return r, nil
}

// New builds a registry from already loaded rows.
func New(all []models.Role) *Registry {
	r := &Registry{}
	r.set(all)
	return r
}

func (r *Registry) set(all []models.Role) {
	byName := make(map[string]models.Role, len(all))
	byID := make(map[uint]models.Role, len(all))
	for _, role := range all {
		byName[role.Name] = role
		byID[role.ID] = role
	}

	r.mu.Lock()
	r.byName, r.byID = byName, byID
	r.mu.Unlock()
}

// ByName returns the role called name or a NotFound error.
func (r *Registry) ByName(name string) (models.Role, error) {
	r.mu.RLock()
	role, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return models.Role{}, apperr.NotFound(fmt.Sprintf("Role %q not found", name))
	}
	return role, nil
}

// ByID returns the role with the given id or a NotFound error.
func (r *Registry) ByID(id uint) (models.Role, error) {
	r.mu.RLock()
	role, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return models.Role{}, apperr.NotFound(fmt.Sprintf("Role %d not found", id))
	}
	return role, nil
}

// NameOf returns the role name for id, or "" when unknown.
func (r *Registry) NameOf(id uint) string {
	role, err := r.ByID(id)
	if err != nil {
		return ""
	}
	return role.Name
}

// Is reports whether id is the id of the role called name.
func (r *Registry) Is(id uint, name string) bool {
	return r.NameOf(id) == name
}
