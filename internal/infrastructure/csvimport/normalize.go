package csvimport

import (
	"strings"

	"github.com/dealercrm/backend/internal/domain/crm"
)

// NormalizedRow is one data row reduced to canonical, cleaned lead fields.
// LeadType and Status always hold validated closed-set values, defaulting
// to GENERAL and NEW when the file carries no column for them.
type NormalizedRow struct {
	LineNumber      int
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Source          string
	LeadType        string
	Status          string
	VehicleInterest string
	TradeIn         string
	Notes           string
}

// HasContact reports whether the row carries at least one contact channel
func (n *NormalizedRow) HasContact() bool {
	return n.Email != "" || n.Phone != ""
}

// Normalize cleans a parsed row into canonical lead fields:
// emails are lowercased, phone numbers reduced to digits (a leading + is
// kept), everything else trimmed. Rows without a contact channel are
// rejected here rather than during persistence.
func Normalize(row *Row, mapping ColumnMapping) (*NormalizedRow, error) {
	n := &NormalizedRow{
		LineNumber:      row.LineNumber,
		FirstName:       mapping.Value(row, FieldFirstName),
		LastName:        mapping.Value(row, FieldLastName),
		Email:           NormalizeEmail(mapping.Value(row, FieldEmail)),
		Phone:           NormalizePhone(mapping.Value(row, FieldPhone)),
		Source:          strings.TrimSpace(mapping.Value(row, FieldSource)),
		VehicleInterest: strings.TrimSpace(mapping.Value(row, FieldVehicleInterest)),
		TradeIn:         strings.TrimSpace(mapping.Value(row, FieldTradeIn)),
		Notes:           strings.TrimSpace(mapping.Value(row, FieldNotes)),
	}

	if !n.HasContact() {
		return nil, NewRowError(row.LineNumber, "email|phone", "no email or phone value")
	}

	leadType, err := NormalizeLeadType(mapping.Value(row, FieldLeadType))
	if err != nil {
		return nil, NewRowError(row.LineNumber, "leadType", err.Error())
	}
	n.LeadType = leadType

	status, err := NormalizeLeadStatus(mapping.Value(row, FieldStatus))
	if err != nil {
		return nil, NewRowError(row.LineNumber, "status", err.Error())
	}
	n.Status = status

	return n, nil
}

// NormalizeLeadType uppercases a lead type value and validates it against
// the closed set. Blank input defaults to GENERAL.
func NormalizeLeadType(value string) (string, error) {
	value = canonicalEnum(value)
	if value == "" {
		return string(crm.LeadTypeGeneral), nil
	}
	t, err := crm.ParseLeadType(value)
	if err != nil {
		return "", err
	}
	return string(t), nil
}

// NormalizeLeadStatus uppercases a status value and validates it against
// the pipeline statuses. Blank input defaults to NEW.
func NormalizeLeadStatus(value string) (string, error) {
	value = canonicalEnum(value)
	if value == "" {
		return string(crm.LeadStatusNew), nil
	}
	s, err := crm.ParseLeadStatus(value)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// canonicalEnum shapes free-form enum spellings like "trade in" or
// "Trade-In" into TRADE_IN form.
func canonicalEnum(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, " ", "_")
	return strings.ReplaceAll(value, "-", "_")
}

// NormalizeEmail lowercases and trims an email address. A value without an
// "@" is treated as junk and dropped.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return ""
	}
	return email
}

// NormalizePhone strips formatting from a phone number, keeping digits and a
// leading +. Values with fewer than 7 digits are dropped as junk.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	digits := len(strings.TrimPrefix(cleaned, "+"))
	if digits < 7 {
		return ""
	}
	return cleaned
}
