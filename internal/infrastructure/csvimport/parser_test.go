package csvimport

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	t.Run("normalizes header names", func(t *testing.T) {
		p, err := ParseFromBytes([]byte("First Name,EMAIL,Phone\n"))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())

		assert.Equal(t, []string{"first name", "email", "phone"}, p.Headers())
		assert.True(t, p.HasHeader("email"))
	})

	t.Run("strips UTF-8 BOM", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("email,phone\n")...)
		p, err := ParseFromBytes(data)
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())

		assert.Equal(t, []string{"email", "phone"}, p.Headers())
	})

	t.Run("rejects empty file", func(t *testing.T) {
		_, err := ParseFromBytes(nil)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("rejects empty header cell", func(t *testing.T) {
		p, err := ParseFromBytes([]byte("email,,phone\nrow,goes,here\n"))
		require.NoError(t, err)
		assert.ErrorIs(t, p.ParseHeader(), ErrEmptyHeaderName)
	})

	t.Run("rejects non-UTF8 content", func(t *testing.T) {
		_, err := ParseFromBytes([]byte{0xFF, 0xFE, 'a', 0x00})
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})
}

func TestReadRow(t *testing.T) {
	t.Run("maps fields to headers", func(t *testing.T) {
		p, err := ParseFromBytes([]byte("email,phone\ndana@example.com,555-010-7788\n"))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())

		row, err := p.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, 2, row.LineNumber)
		assert.Equal(t, "dana@example.com", row.Get("email"))
		assert.Equal(t, "555-010-7788", row.Get("phone"))

		_, err = p.ReadRow()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("handles quoted fields with commas and newlines", func(t *testing.T) {
		data := "email,notes\ndana@example.com,\"wants \"\"the EX trim\"\", asap\nor sooner\"\n"
		p, err := ParseFromBytes([]byte(data))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())

		row, err := p.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "wants \"the EX trim\", asap\nor sooner", row.Get("notes"))
	})

	t.Run("column count mismatch rejects only that row", func(t *testing.T) {
		data := "email,phone\na@example.com,111\nb@example.com\nc@example.com,333\n"
		p, err := ParseFromBytes([]byte(data))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())

		row, err := p.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", row.Get("email"))

		_, err = p.ReadRow()
		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)

		row, err = p.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "c@example.com", row.Get("email"))
	})

	t.Run("trims non-breaking spaces from values", func(t *testing.T) {
		p, err := ParseFromBytes([]byte("email\n dana@example.com \n"))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())

		row, err := p.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "dana@example.com", row.Get("email"))
	})
}

func TestMapHeaders(t *testing.T) {
	t.Run("resolves common aliases", func(t *testing.T) {
		mapping, err := MapHeaders([]string{"first name", "e-mail", "cell phone", "vehicle of interest"})
		require.NoError(t, err)

		assert.Equal(t, "first name", mapping[FieldFirstName])
		assert.Equal(t, "e-mail", mapping[FieldEmail])
		assert.Equal(t, "cell phone", mapping[FieldPhone])
		assert.Equal(t, "vehicle of interest", mapping[FieldVehicleInterest])
	})

	t.Run("resolves lead type and status aliases", func(t *testing.T) {
		mapping, err := MapHeaders([]string{"email", "Type", "Stage"})
		require.NoError(t, err)

		assert.Equal(t, "Type", mapping[FieldLeadType])
		assert.Equal(t, "Stage", mapping[FieldStatus])
	})

	t.Run("first matching header wins", func(t *testing.T) {
		mapping, err := MapHeaders([]string{"email", "email address"})
		require.NoError(t, err)
		assert.Equal(t, "email", mapping[FieldEmail])
	})

	t.Run("unknown headers are ignored", func(t *testing.T) {
		mapping, err := MapHeaders([]string{"email", "favorite color"})
		require.NoError(t, err)
		_, ok := mapping["favorite color"]
		assert.False(t, ok)
	})

	t.Run("rejects file without any contact column", func(t *testing.T) {
		_, err := MapHeaders([]string{"first name", "last name", "notes"})
		assert.ErrorIs(t, err, ErrMissingContactColumn)
	})
}

func TestNormalize(t *testing.T) {
	mapping := ColumnMapping{
		FieldFirstName: "first name",
		FieldEmail:     "e-mail",
		FieldPhone:     "cell",
	}

	makeRow := func(first, email, phone string) *Row {
		return &Row{
			LineNumber: 2,
			Data: map[string]string{
				"first name": first,
				"e-mail":     email,
				"cell":       phone,
			},
		}
	}

	t.Run("cleans email and phone", func(t *testing.T) {
		n, err := Normalize(makeRow("Dana", "DANA@Example.COM", "(555) 010-7788"), mapping)
		require.NoError(t, err)

		assert.Equal(t, "dana@example.com", n.Email)
		assert.Equal(t, "5550107788", n.Phone)
	})

	t.Run("keeps leading plus", func(t *testing.T) {
		n, err := Normalize(makeRow("Dana", "dana@example.com", "+1 555 010 7788"), mapping)
		require.NoError(t, err)
		assert.Equal(t, "+15550107788", n.Phone)
	})

	t.Run("junk contact values are dropped", func(t *testing.T) {
		n, err := Normalize(makeRow("Dana", "not-an-email", "555-0107788"), mapping)
		require.NoError(t, err)
		assert.Empty(t, n.Email)
		assert.Equal(t, "5550107788", n.Phone)
	})

	t.Run("row without any contact is rejected", func(t *testing.T) {
		_, err := Normalize(makeRow("Dana", "junk", "123"), mapping)
		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, 2, rowErr.Line)
		assert.Equal(t, "email|phone", rowErr.Field)
	})

	t.Run("defaults lead type and status on blank columns", func(t *testing.T) {
		n, err := Normalize(makeRow("Dana", "dana@example.com", ""), mapping)
		require.NoError(t, err)
		assert.Equal(t, "GENERAL", n.LeadType)
		assert.Equal(t, "NEW", n.Status)
	})
}

func TestNormalizeEnumColumns(t *testing.T) {
	mapping := ColumnMapping{
		FieldEmail:    "email",
		FieldLeadType: "type",
		FieldStatus:   "stage",
	}

	makeRow := func(leadType, status string) *Row {
		return &Row{
			LineNumber: 3,
			Data: map[string]string{
				"email": "dana@example.com",
				"type":  leadType,
				"stage": status,
			},
		}
	}

	t.Run("uppercases and canonicalizes", func(t *testing.T) {
		n, err := Normalize(makeRow("trade in", "appointment-set"), mapping)
		require.NoError(t, err)
		assert.Equal(t, "TRADE_IN", n.LeadType)
		assert.Equal(t, "APPOINTMENT_SET", n.Status)
	})

	t.Run("invalid lead type is a row error", func(t *testing.T) {
		_, err := Normalize(makeRow("WHOLESALE", "NEW"), mapping)
		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, "leadType", rowErr.Field)
	})

	t.Run("invalid status is a row error", func(t *testing.T) {
		_, err := Normalize(makeRow("SALES", "STALLED"), mapping)
		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, "status", rowErr.Field)
	})
}

func TestNormalizeLeadType(t *testing.T) {
	got, err := NormalizeLeadType("")
	require.NoError(t, err)
	assert.Equal(t, "GENERAL", got)

	got, err = NormalizeLeadType("service")
	require.NoError(t, err)
	assert.Equal(t, "SERVICE", got)

	_, err = NormalizeLeadType("bogus")
	assert.Error(t, err)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "5550107788", NormalizePhone("555.010.7788"))
	assert.Equal(t, "+15550107788", NormalizePhone("+1 (555) 010-7788"))
	assert.Empty(t, NormalizePhone("ext 12"))
	assert.Empty(t, NormalizePhone(""))
}
