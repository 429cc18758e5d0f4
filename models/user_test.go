package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_CanAccess(t *testing.T) {
	master := User{Role: RoleMaster}
	regular := User{Role: RoleRegular, ProjectIDs: []uint{2}}
	admin := User{Role: RoleAdmin, ProjectIDs: []uint{1, 3}}

	for id := uint(1); id <= 5; id++ {
		assert.True(t, master.CanAccess(id))
		assert.Equal(t, id == 2, regular.CanAccess(id))
		assert.Equal(t, id == 1 || id == 3, admin.CanAccess(id))
	}

	assert.False(t, (&User{Role: RoleRegular}).CanAccess(1))
	assert.True(t, master.CanManageUsers())
	assert.True(t, admin.CanManageUsers())
	assert.False(t, regular.CanManageUsers())
}

func TestUser_JSONHidesPassword(t *testing.T) {
	u := User{ID: 1, Username: "ana", Password: "$2a$10$hash", Role: RoleAdmin, ProjectIDs: []uint{4}}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hash")
	assert.Contains(t, string(b), `"obras":[4]`)
}

func TestNewInvoiceOwner(t *testing.T) {
	o, err := NewInvoiceOwner("lancamento", 7)
	require.NoError(t, err)
	assert.Equal(t, EntryOwner(7), o)

	o, err = NewInvoiceOwner("Empreitada", 2)
	require.NoError(t, err)
	assert.Equal(t, SubWorkOwner(2), o)

	o, err = NewInvoiceOwner("pagamento", 9)
	require.NoError(t, err)
	assert.Equal(t, PaymentOwner(9), o)

	_, err = NewInvoiceOwner("obra", 1)
	assert.Error(t, err)
	_, err = NewInvoiceOwner("lancamento", 0)
	assert.Error(t, err)
}

func TestInvoice_JSONOmitsContent(t *testing.T) {
	inv := Invoice{ID: 1, Owner: EntryOwner(3), FileName: "nf.pdf", Content: []byte("%PDF-segredo")}
	b, err := json.Marshal(inv)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "segredo")
	assert.Contains(t, string(b), `"dono":{"tipo_dono":"lancamento","dono_id":3}`)
	assert.NotContains(t, InvoiceMetadataColumns, "arquivo")
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2025, time.January, 10)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-10"`, string(b))

	var parsed Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-01-10T08:30:00Z"`), &parsed))
	assert.True(t, parsed.Equal(d))

	assert.Error(t, json.Unmarshal([]byte(`"10/01/2025"`), &parsed))

	var zero Date
	b, _ = json.Marshal(zero)
	assert.Equal(t, "null", string(b))

	assert.Equal(t, "10/01/2025", d.BR())
	assert.Equal(t, "01/2025", d.MonthKey())
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan([]byte("2025-03-05")))
	assert.Equal(t, "2025-03-05", d.String())

	require.NoError(t, d.Scan(time.Date(2025, 3, 6, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-06", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestQuote_ToEntry(t *testing.T) {
	q := Quote{ProjectID: 4, Description: "Esquadrias", Vendor: "Vidraçaria Sol", Amount: dec("3200"), Kind: "Material"}
	e := q.ToEntry(NewDate(2025, time.June, 2))
	assert.Equal(t, uint(4), e.ProjectID)
	assert.Equal(t, "Material", e.Category)
	assert.True(t, e.Total.Equal(dec("3200")))
	require.NotNil(t, e.Vendor)
	assert.Equal(t, "Vidraçaria Sol", *e.Vendor)
}
