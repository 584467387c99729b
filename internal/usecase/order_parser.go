package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agrofel/sales-agent/internal/domain/entity"
)

// minProductNameLen qisqaroq nomlar parse xatosi deb hisoblanadi
const minProductNameLen = 3

// reOrderRequest: birinchi butun son, ixtiyoriy birlik so'zi va "de" bog'lovchisi, qolgani nom
var reOrderRequest = regexp.MustCompile(`(?is)(\d+)\s*(?:(?:unidades|unidade|caixas|caixa|bags|bag|sacos|saco)\b\s*)?(?:de\s+)?(.*)`)

// ParseOrderRequest extracts "N [unidades] [de] <produto>" from free text.
// ok is false when there is no positive quantity or the name is too short.
func ParseOrderRequest(text string) (entity.OrderRequest, bool) {
	m := reOrderRequest.FindStringSubmatch(text)
	if m == nil {
		return entity.OrderRequest{}, false
	}

	quantity, err := strconv.Atoi(m[1])
	if err != nil || quantity <= 0 {
		return entity.OrderRequest{}, false
	}

	name := strings.TrimSpace(m[2])
	if utf8.RuneCountInString(name) < minProductNameLen {
		return entity.OrderRequest{}, false
	}

	return entity.OrderRequest{Quantity: quantity, ProductName: name}, true
}
