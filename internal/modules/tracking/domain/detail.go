package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Detail is the service-specific part of a request. Each category has its
// own variant; GenericDetail keeps whatever fields an unclassified request
// carried. Typed variants keep the stored keys they do not model, and values
// they could not read, in Extra so that encoding writes them back.
type Detail interface {
	Category() Category
	fields() map[string]any
}

type IrradiationDetail struct {
	Canisters         int
	DosePerCanisterGy float64
	Irradiations      int
	Extra             map[string]any
}

type DosimetryDetail struct {
	Months     int
	Dosimeters int
	Extra      map[string]any
}

type CounterDetail struct {
	Hours float64
	Extra map[string]any
}

type WasteDetail struct {
	Description string
	Extra       map[string]any
}

type GenericDetail struct {
	Fields map[string]any
}

func (IrradiationDetail) Category() Category { return CategoryIrradiation }
func (DosimetryDetail) Category() Category   { return CategoryDosimetry }
func (CounterDetail) Category() Category     { return CategoryCounter }
func (WasteDetail) Category() Category       { return CategoryWasteManagement }
func (GenericDetail) Category() Category     { return CategoryUnclassified }

func (d IrradiationDetail) fields() map[string]any {
	return withExtra(map[string]any{
		"canisters":             d.Canisters,
		"dosis_por_canister_Gy": d.DosePerCanisterGy,
		"irradiaciones":         d.Irradiations,
	}, d.Extra)
}

func (d DosimetryDetail) fields() map[string]any {
	return withExtra(map[string]any{"meses": d.Months, "dosimetros": d.Dosimeters}, d.Extra)
}

func (d CounterDetail) fields() map[string]any {
	return withExtra(map[string]any{"horas": d.Hours}, d.Extra)
}

func (d WasteDetail) fields() map[string]any {
	return withExtra(map[string]any{"descripcion": d.Description}, d.Extra)
}

// withExtra overlays extra on the typed keys. An unreadable stored value
// wins over the zero it was decoded as.
func withExtra(typed, extra map[string]any) map[string]any {
	for k, v := range extra {
		typed[k] = v
	}
	return typed
}

func (d GenericDetail) fields() map[string]any {
	if d.Fields == nil {
		return map[string]any{}
	}
	return d.Fields
}

// EmptyDetail returns the zero variant for category.
func EmptyDetail(category Category) Detail {
	switch category {
	case CategoryIrradiation:
		return IrradiationDetail{}
	case CategoryDosimetry:
		return DosimetryDetail{}
	case CategoryCounter:
		return CounterDetail{}
	case CategoryWasteManagement:
		return WasteDetail{}
	default:
		return GenericDetail{Fields: map[string]any{}}
	}
}

// ParseDetail builds the variant for category from a JSON blob. Fields that
// cannot be read are left at zero and reported through the returned errors,
// keyed by detail field name; their stored values stay in Extra with every
// key the variant does not model. A blob that is not a JSON object yields
// the empty variant.
func ParseDetail(category Category, blob string) (Detail, map[string]error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return EmptyDetail(category), nil
	}
	raw := map[string]any{}
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return EmptyDetail(category), map[string]error{"json": fmt.Errorf("decode detail: %w", err)}
	}

	problems := map[string]error{}
	read := map[string]bool{}
	num := func(name string, keys ...string) float64 {
		v, key, err := lookupNumber(raw, keys...)
		if err != nil {
			problems[name] = err
			return 0
		}
		read[key] = true
		return v
	}
	text := func(keys ...string) string {
		v, key := lookupText(raw, keys...)
		read[key] = true
		return v
	}

	var detail Detail
	switch category {
	case CategoryIrradiation:
		d := IrradiationDetail{
			Canisters:         int(num("canisters", "canisters", "units")),
			DosePerCanisterGy: num("dose_gy", "dosis_por_canister_Gy", "dose_gy"),
			Irradiations:      int(num("irradiations", "irradiaciones", "irradiations")),
		}
		d.Extra = leftover(raw, read)
		detail = d
	case CategoryDosimetry:
		d := DosimetryDetail{
			Months:     int(num("months", "meses", "months")),
			Dosimeters: int(num("dosimeters", "dosimetros", "dosimeters")),
		}
		d.Extra = leftover(raw, read)
		detail = d
	case CategoryCounter:
		d := CounterDetail{Hours: num("hours", "horas", "hours")}
		d.Extra = leftover(raw, read)
		detail = d
	case CategoryWasteManagement:
		d := WasteDetail{Description: text("descripcion", "description")}
		d.Extra = leftover(raw, read)
		detail = d
	default:
		detail = GenericDetail{Fields: raw}
	}
	if len(problems) == 0 {
		problems = nil
	}
	return detail, problems
}

// EncodeDetail serialises detail with the keys the stored rows use.
func EncodeDetail(detail Detail) string {
	if detail == nil {
		return "{}"
	}
	payload, err := json.Marshal(detail.fields())
	if err != nil {
		return "{}"
	}
	return string(payload)
}

var errNotNumber = errors.New("not a number")

// lookupNumber reads the first present key and returns it with its value.
func lookupNumber(raw map[string]any, keys ...string) (float64, string, error) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t, key, nil
		case string:
			t = strings.TrimSpace(t)
			if t == "" {
				return 0, key, nil
			}
			f, err := strconv.ParseFloat(strings.ReplaceAll(t, ",", "."), 64)
			if err != nil {
				return 0, key, fmt.Errorf("%s=%q: %w", key, t, errNotNumber)
			}
			return f, key, nil
		case bool:
			return 0, key, fmt.Errorf("%s=%v: %w", key, t, errNotNumber)
		default:
			return 0, key, fmt.Errorf("%s: %w", key, errNotNumber)
		}
	}
	return 0, "", nil
}

func lookupText(raw map[string]any, keys ...string) (string, string) {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			if s, ok := v.(string); ok {
				return s, key
			}
			return fmt.Sprint(v), key
		}
	}
	return "", ""
}

// leftover returns the stored keys that were not read into typed fields, or
// nil when there are none.
func leftover(raw map[string]any, read map[string]bool) map[string]any {
	var extra map[string]any
	for k, v := range raw {
		if read[k] {
			continue
		}
		if extra == nil {
			extra = map[string]any{}
		}
		extra[k] = v
	}
	return extra
}
