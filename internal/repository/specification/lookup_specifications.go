package specification

import "gorm.io/gorm"

// ByKind filters lookups by their kind (parts, vin, ...).
type ByKind struct {
	Kind string
}

func (s ByKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}

// ByVehicleId filters lookups by the vehicle they targeted.
type ByVehicleId struct {
	VehicleId int
}

func (s ByVehicleId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("vehicle_id = ?", s.VehicleId)
}

// ByStatus filters lookups by their final status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
