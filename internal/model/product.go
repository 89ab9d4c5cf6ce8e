package model

import "time"

// products: weight master used to estimate run length.
type Product struct {
	ID       uint    `gorm:"primaryKey"`
	Name     string  `gorm:"type:varchar(128);not null;uniqueIndex"`
	WeightKg float64 `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultProducts is the factory's product list.
var DefaultProducts = []Product{
	{Name: "FS450D", WeightKg: 450}, {Name: "FS450K", WeightKg: 450},
	{Name: "FS450NR", WeightKg: 450}, {Name: "FS450S", WeightKg: 450},
	{Name: "FS250C", WeightKg: 250}, {Name: "FS250CE", WeightKg: 250},
	{Name: "FS360F", WeightKg: 360},
	{Name: "FS021B", WeightKg: 20}, {Name: "FS021F", WeightKg: 20},
	{Name: "FS021P", WeightKg: 20}, {Name: "FS021NR", WeightKg: 20},
	{Name: "FS021", WeightKg: 20}, {Name: "FS021S", WeightKg: 20},
	{Name: "FS021PF", WeightKg: 20}, {Name: "FS021PS", WeightKg: 20},
	{Name: "FS021EMF", WeightKg: 20}, {Name: "FS021EMS", WeightKg: 20},
	{Name: "FS021NRF", WeightKg: 20}, {Name: "FS021NRS", WeightKg: 20},
	{Name: "小袋", WeightKg: 20},
}
