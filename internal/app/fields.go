package app

import (
	"github.com/Unknow2778/farm-admin/internal/domain/product"
)

func newProductFields(name, categoryID, unit string) product.New {
	return product.New{
		Name:       name,
		CategoryID: categoryID,
		BaseUnit:   product.Unit(unit),
	}
}

// updateFields merges the command-line overrides onto the product's current
// values so partial updates do not blank unrelated fields. The in-demand and
// priority overrides carry an explicit set flag because false and zero are
// legitimate values to set.
func updateFields(current product.Product, name, categoryID, unit string, inDemand, inDemandSet bool, priority int, prioritySet bool) product.Update {
	u := product.Update{
		Name:       current.Name,
		CategoryID: current.CategoryID,
		BaseUnit:   current.BaseUnit,
		InDemand:   current.InDemand,
		Priority:   current.Priority,
	}
	if name != "" {
		u.Name = name
	}
	if categoryID != "" {
		u.CategoryID = categoryID
	}
	if unit != "" {
		u.BaseUnit = product.Unit(unit)
	}
	if inDemandSet {
		u.InDemand = inDemand
	}
	if prioritySet {
		u.Priority = priority
	}
	return u
}
