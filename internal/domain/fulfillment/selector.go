package fulfillment

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

var regionFolder = cases.Fold()

// NormalizeRegion compara regiones sin tildes, mayúsculas ni espacios repetidos ("San José" == "san jose").
func NormalizeRegion(region string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, region)
	if err != nil {
		plain = region
	}
	return strings.Join(strings.Fields(regionFolder.String(plain)), " ")
}

// SelectBranches devuelve las sucursales candidatas para una dirección: primero las activas de la
// misma región; si no hay ninguna, todas las activas. El orden es estable por ID porque se usa como
// orden de búsqueda de la asignación y como desempate del costo de envío.
func SelectBranches(address *entity.ShippingAddress, branches []*entity.Branch) ([]*entity.Branch, error) {
	active := make([]*entity.Branch, 0, len(branches))
	for _, b := range branches {
		if b != nil && b.Active {
			active = append(active, b)
		}
	}
	if len(active) == 0 {
		return nil, domain.ErrNoBranchesAvailable
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	if address == nil {
		return active, nil
	}
	region := NormalizeRegion(address.Region)
	if region == "" {
		return active, nil
	}
	regional := make([]*entity.Branch, 0, len(active))
	for _, b := range active {
		if NormalizeRegion(b.Region) == region {
			regional = append(regional, b)
		}
	}
	if len(regional) == 0 {
		return active, nil
	}
	return regional, nil
}
