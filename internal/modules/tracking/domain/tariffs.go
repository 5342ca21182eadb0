package domain

import "math"

// Tariff is the 2025 price for one service and user type. Base is charged
// per unit; ExtraPerGy applies to dose above 10 Gy per canister and
// irradiation; ExtraPerHour applies to every hour beyond the first.
type Tariff struct {
	Base         float64
	ExtraPerGy   float64
	ExtraPerHour float64
}

const (
	TariffIrradiationLow  = "Irradiación < 10 Gy"
	TariffIrradiationHigh = "Irradiación > 10 Gy"
	TariffGammaShort      = "Contador Gamma < 1h"
	TariffGammaLong       = "Contador Gamma > 1h"
	TariffBetaShort       = "Contador microBeta < 1h"
	TariffBetaLong        = "Contador microBeta > 1h"
	TariffUnsealedSources = "Gestión de fuentes no encapsuladas"
	TariffWaste           = "Gestión/retirada de residuos"
	TariffRegulatory      = "Trámites regulatorios"
	TariffDosimetry       = "Gestión dosimétrica"
)

var tariffs2025 = map[string]map[UserType]Tariff{
	TariffIrradiationLow:  {UserTypeOPI: {Base: 26}, UserTypeUCM: {Base: 20}},
	TariffIrradiationHigh: {UserTypeOPI: {Base: 26, ExtraPerGy: 0.1}, UserTypeUCM: {Base: 20, ExtraPerGy: 0.1}},
	TariffGammaShort:      {UserTypeOPI: {Base: 22}, UserTypeUCM: {Base: 17}},
	TariffGammaLong:       {UserTypeOPI: {Base: 20, ExtraPerHour: 10}, UserTypeUCM: {Base: 15, ExtraPerHour: 10}},
	TariffBetaShort:       {UserTypeOPI: {Base: 22}, UserTypeUCM: {Base: 17}},
	TariffBetaLong:        {UserTypeOPI: {Base: 22, ExtraPerHour: 10}, UserTypeUCM: {Base: 17, ExtraPerHour: 10}},
	TariffUnsealedSources: {UserTypeOPI: {Base: 20}, UserTypeUCM: {Base: 15}},
	TariffWaste:           {UserTypeOPI: {Base: 10}, UserTypeUCM: {Base: 7.5}},
	TariffRegulatory:      {UserTypeOPI: {Base: 900}, UserTypeUCM: {Base: 700}},
	TariffDosimetry:       {UserTypeOPI: {Base: 30}, UserTypeUCM: {Base: 25}},
}

// Request form service names that differ from their tariff key.
var serviceTariffKeys = map[string]string{
	"Irradiación a dosis menores de 10 Gy":                       TariffIrradiationLow,
	"Irradiación a dosis mayores de 10 Gy":                       TariffIrradiationHigh,
	"Gestión/retirada de residuos radiactivos/fuentes huerfanas": TariffWaste,
}

// Services lists the service names offered on the request form.
var Services = []string{
	"Irradiación a dosis menores de 10 Gy",
	"Irradiación a dosis mayores de 10 Gy",
	TariffGammaShort,
	TariffGammaLong,
	TariffBetaShort,
	TariffBetaLong,
	TariffUnsealedSources,
	"Gestión/retirada de residuos radiactivos/fuentes huerfanas",
	TariffRegulatory,
	TariffDosimetry,
}

func TariffKey(service string) string {
	if key, ok := serviceTariffKeys[service]; ok {
		return key
	}
	return service
}

func LookupTariff(service string, userType UserType) (Tariff, bool) {
	byUser, ok := tariffs2025[TariffKey(service)]
	if !ok {
		return Tariff{}, false
	}
	t, ok := byUser[userType]
	return t, ok
}

// EstimateCost prices a request with the 2025 tariffs. Unknown services
// cost zero. Missing multipliers count as one.
func EstimateCost(service string, userType UserType, detail Detail) float64 {
	key := TariffKey(service)
	t, ok := LookupTariff(service, userType)
	if !ok {
		return 0
	}

	var cost float64
	switch key {
	case TariffIrradiationLow:
		cost = t.Base * atLeastOne(canisters(detail))
	case TariffIrradiationHigh:
		d, _ := detail.(IrradiationDetail)
		n := atLeastOne(float64(d.Canisters)) * atLeastOne(float64(d.Irradiations))
		cost = t.Base * n
		if d.DosePerCanisterGy > 10 {
			cost += (d.DosePerCanisterGy - 10) * t.ExtraPerGy * n
		}
	case TariffGammaLong, TariffBetaLong:
		cost = t.Base
		if d, ok := detail.(CounterDetail); ok && d.Hours > 1 {
			cost += (d.Hours - 1) * t.ExtraPerHour
		}
	case TariffDosimetry:
		d, _ := detail.(DosimetryDetail)
		cost = t.Base * atLeastOne(float64(d.Dosimeters)) * atLeastOne(float64(d.Months))
	default:
		cost = t.Base
	}
	return math.Round(cost*100) / 100
}

func canisters(detail Detail) float64 {
	if d, ok := detail.(IrradiationDetail); ok {
		return float64(d.Canisters)
	}
	return 0
}

func atLeastOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
