package estate

import (
	"errors"

	"gorm.io/gorm"

	"github.com/condovia/api-estates/internal/apperr"
)

// Repository encapsulates data access for estates, units and actors.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

/* ================================ Estates ================================ */

func (r *Repository) CreateEstate(e *Estate) error {
	return r.DB.Create(e).Error
}

func (r *Repository) FindEstate(id uint) (*Estate, error) {
	var e Estate
	if err := r.DB.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("estate", id)
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repository) ListEstates() ([]Estate, error) {
	var list []Estate
	err := r.DB.Order("id ASC").Find(&list).Error
	return list, err
}

/* ================================= Units ================================= */

func (r *Repository) CreateUnit(u *Unit) error {
	return r.DB.Create(u).Error
}

func (r *Repository) FindUnit(id uint) (*Unit, error) {
	var u Unit
	if err := r.DB.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("unit", id)
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ListUnits(estateID uint) ([]Unit, error) {
	var list []Unit
	err := r.DB.Where("estate_id = ?", estateID).Order("identifier ASC").Find(&list).Error
	return list, err
}

// ListOccupiedUnits returns the units of an estate that count towards fee
// liability.
func (r *Repository) ListOccupiedUnits(estateID uint) ([]Unit, error) {
	var list []Unit
	err := r.DB.
		Where("estate_id = ? AND is_occupied = ?", estateID, true).
		Order("identifier ASC").
		Find(&list).Error
	return list, err
}

// FindUnitsInEstate resolves the given ids against one estate. Ids that do
// not exist or belong to another estate are simply absent from the result;
// callers compare counts.
func (r *Repository) FindUnitsInEstate(estateID uint, ids []uint) ([]Unit, error) {
	var list []Unit
	err := r.DB.
		Where("estate_id = ? AND id IN ?", estateID, ids).
		Find(&list).Error
	return list, err
}

func (r *Repository) UpdateUnit(u *Unit) error {
	return r.DB.Save(u).Error
}

func (r *Repository) DeleteUnit(id uint) error {
	res := r.DB.Delete(&Unit{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("unit", id)
	}
	return nil
}

/* ================================= Actors ================================ */

func (r *Repository) CreateActor(a *Actor) error {
	return r.DB.Create(a).Error
}

func (r *Repository) FindActor(id uint) (*Actor, error) {
	var a Actor
	if err := r.DB.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("actor", id)
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) FindActorByEmail(email string) (*Actor, error) {
	var a Actor
	if err := r.DB.Where("email = ?", email).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("actor", 0)
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) ListActors() ([]Actor, error) {
	var list []Actor
	err := r.DB.Order("id ASC").Find(&list).Error
	return list, err
}
