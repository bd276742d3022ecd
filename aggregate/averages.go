// Package aggregate computes read-time statistics over the raw text values of an
// inventory's items.
package aggregate

import (
	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/models"
)

// NumericAverages returns, for every number field of inventory, the mean of the values
// its items hold for that field. Blank and unparseable values are skipped; a field with
// nothing left maps to nil. Fields and items (with their values) must be loaded.
func NumericAverages(inventory *models.Inventory) map[uuid.UUID]*float64 {
	averages := make(map[uuid.UUID]*float64)
	if inventory == nil {
		return averages
	}

	sums := make(map[uuid.UUID]float64)
	counts := make(map[uuid.UUID]int)
	for _, f := range inventory.Fields {
		if f.Type == models.FieldTypeNumber {
			averages[f.ID] = nil
			counts[f.ID] = 0
		}
	}

	for _, item := range inventory.Items {
		for _, v := range item.Values {
			if _, numeric := counts[v.FieldID]; !numeric || v.Value == nil {
				continue
			}
			n, ok := ParseNumber(*v.Value)
			if !ok {
				continue
			}
			sums[v.FieldID] += n
			counts[v.FieldID]++
		}
	}

	for fieldID, count := range counts {
		if count == 0 {
			continue
		}
		mean := sums[fieldID] / float64(count)
		averages[fieldID] = &mean
	}
	return averages
}
