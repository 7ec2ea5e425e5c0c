package csvimport

import "strings"

// Canonical lead field names. Normalized header names resolve to these.
const (
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldSource          = "source"
	FieldLeadType        = "lead_type"
	FieldStatus          = "status"
	FieldVehicleInterest = "vehicle_interest"
	FieldTradeIn         = "trade_in"
	FieldNotes           = "notes"
)

// headerAliases maps the header spellings seen in the wild to canonical
// fields. Lookup is against the lowercased, trimmed header with spaces,
// dashes, and underscores squashed.
var headerAliases = map[string]string{
	"firstname":           FieldFirstName,
	"fname":               FieldFirstName,
	"givenname":           FieldFirstName,
	"lastname":            FieldLastName,
	"lname":               FieldLastName,
	"surname":             FieldLastName,
	"familyname":          FieldLastName,
	"email":               FieldEmail,
	"emailaddress":        FieldEmail,
	"mail":                FieldEmail,
	"phone":               FieldPhone,
	"phonenumber":         FieldPhone,
	"cell":                FieldPhone,
	"cellphone":           FieldPhone,
	"mobile":              FieldPhone,
	"mobilephone":         FieldPhone,
	"telephone":           FieldPhone,
	"source":              FieldSource,
	"leadsource":          FieldSource,
	"provider":            FieldSource,
	"leadtype":            FieldLeadType,
	"type":                FieldLeadType,
	"category":            FieldLeadType,
	"status":              FieldStatus,
	"leadstatus":          FieldStatus,
	"stage":               FieldStatus,
	"vehicle":             FieldVehicleInterest,
	"vehicleinterest":     FieldVehicleInterest,
	"vehicleofinterest":   FieldVehicleInterest,
	"interest":            FieldVehicleInterest,
	"model":               FieldVehicleInterest,
	"tradein":             FieldTradeIn,
	"trade":               FieldTradeIn,
	"tradeinvehicle":      FieldTradeIn,
	"notes":               FieldNotes,
	"note":                FieldNotes,
	"comments":            FieldNotes,
	"comment":             FieldNotes,
	"customercomments":    FieldNotes,
}

// ResolveField maps a normalized header name to its canonical lead field.
// Unknown headers resolve to "" and are carried through untouched.
func ResolveField(header string) string {
	key := squash(header)
	if canonical, ok := headerAliases[key]; ok {
		return canonical
	}
	return ""
}

// ColumnMapping binds canonical fields to column headers for one file
type ColumnMapping map[string]string

// MapHeaders resolves all headers of a file to canonical fields. When two
// headers resolve to the same field the first one wins. The mapping must
// include at least one contact column or the file is rejected.
func MapHeaders(headers []string) (ColumnMapping, error) {
	mapping := make(ColumnMapping, len(headers))
	for _, h := range headers {
		field := ResolveField(h)
		if field == "" {
			continue
		}
		if _, taken := mapping[field]; !taken {
			mapping[field] = h
		}
	}

	if _, hasEmail := mapping[FieldEmail]; !hasEmail {
		if _, hasPhone := mapping[FieldPhone]; !hasPhone {
			return nil, ErrMissingContactColumn
		}
	}

	return mapping, nil
}

// Value reads a canonical field from a row using the mapping
func (m ColumnMapping) Value(row *Row, field string) string {
	header, ok := m[field]
	if !ok {
		return ""
	}
	return row.Get(header)
}

func squash(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '.':
			return -1
		}
		return r
	}, s)
}
