package domain

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryIrradiation     Category = "irradiation"
	CategoryDosimetry       Category = "dosimetry"
	CategoryCounter         Category = "counter"
	CategoryWasteManagement Category = "waste"
	CategoryUnclassified    Category = "unclassified"
)

var categoryKeywords = []struct {
	category Category
	words    []string
}{
	{CategoryIrradiation, []string{"irradiación", "irradiador", "irradiation"}},
	{CategoryDosimetry, []string{"dosimétrica", "dosimetri", "dosimetry"}},
	{CategoryCounter, []string{"contador", "counter"}},
	{CategoryWasteManagement, []string{"residuos", "huérfanas", "huerfanas", "waste"}},
}

// CategoryForService classifies a free-text service name. It is only used
// when decoding stored rows, which carry no explicit category.
func CategoryForService(service string) Category {
	lower := strings.ToLower(service)
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.category
			}
		}
	}
	return CategoryUnclassified
}

func (c Category) Validate() error {
	switch c {
	case CategoryIrradiation, CategoryDosimetry, CategoryCounter, CategoryWasteManagement, CategoryUnclassified:
		return nil
	default:
		return fmt.Errorf("unsupported category %q", string(c))
	}
}
