package api

import (
	"net/http"
	"testing"

	"obras/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectEntry(mock sqlmock.Sqlmock, id uint, projectID uint, total, paid, status string) {
	mock.ExpectQuery("SELECT \\* FROM `lancamentos` WHERE `lancamentos`.`id` = \\?").
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow(id, projectID, "Material", "Cimento", total, paid, status, "2025-01-10"))
}

func TestEntryHandler_Lifecycle(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	h := NewEntryHandler()
	r := newRouter(master)
	r.POST("/obras/:id/lancamentos", h.Create)
	r.PATCH("/lancamentos/:id/pago", h.MarkPaid)

	expectProject(mock, 1, "Casa A")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `lancamentos`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body := `{"tipo":"Material","descricao":"Cimento","valor":1000,"data":"2025-01-10","status":"A Pagar","pix":null}`
	w := doRequest(r, "POST", "/obras/1/lancamentos", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, float64(1), resp["id"])
	assert.Equal(t, float64(0), resp["valor_pago"])
	assert.Equal(t, "A Pagar", resp["status"])
	assert.Equal(t, "2025-01-10", resp["data"])

	expectEntry(mock, 1, 1, "1000.00", "0.00", "A Pagar")
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `lancamentos` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w = doRequest(r, "PATCH", "/lancamentos/1/pago", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = decode(t, w)
	assert.Equal(t, float64(1000), resp["valor_pago"])
	assert.Equal(t, "Pago", resp["status"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryHandler_Create_StatusPagoSettles(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProject(mock, 1, "Casa A")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `lancamentos`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	r := newRouter(master)
	r.POST("/obras/:id/lancamentos", NewEntryHandler().Create)

	w := doRequest(r, "POST", "/obras/1/lancamentos", `{"tipo":"Material","descricao":"Areia","valor":250.5,"data":"2025-01-11","status":"Pago"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.Equal(t, 250.5, resp["valor_pago"])
	assert.Equal(t, "Pago", resp["status"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryHandler_Create_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"valor zero", `{"tipo":"Material","descricao":"x","valor":0,"data":"2025-01-10"}`},
		{"sem data", `{"tipo":"Material","descricao":"x","valor":10}`},
		{"pago maior que total", `{"tipo":"Material","descricao":"x","valor":10,"valor_pago":11,"data":"2025-01-10"}`},
		{"status desconhecido", `{"tipo":"Material","descricao":"x","valor":10,"data":"2025-01-10","status":"Quitado"}`},
		{"sem tipo", `{"descricao":"x","valor":10,"data":"2025-01-10"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock, cleanup := setupMockDB(t)
			defer cleanup()
			expectProject(mock, 1, "Casa A")

			r := newRouter(master)
			r.POST("/obras/:id/lancamentos", NewEntryHandler().Create)

			w := doRequest(r, "POST", "/obras/1/lancamentos", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode(t, w)["erro"])
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEntryHandler_RegisterPayment_Exceeds(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectEntry(mock, 1, 1, "1000.00", "900.00", "A Pagar")
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `lancamentos` .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow(1, 1, "Material", "Cimento", "1000.00", "900.00", "A Pagar", "2025-01-10"))
	mock.ExpectRollback()

	r := newRouter(master)
	r.POST("/lancamentos/:id/pagamentos", NewEntryHandler().RegisterPayment)

	w := doRequest(r, "POST", "/lancamentos/1/pagamentos", `{"valor":150}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["erro"], "excede o saldo")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryHandler_RegisterPayment_ReachesTotal(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectEntry(mock, 1, 1, "1000.00", "900.00", "A Pagar")
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `lancamentos` .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow(1, 1, "Material", "Cimento", "1000.00", "900.00", "A Pagar", "2025-01-10"))
	mock.ExpectExec("UPDATE `lancamentos` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := newRouter(master)
	r.POST("/lancamentos/:id/pagamentos", NewEntryHandler().RegisterPayment)

	w := doRequest(r, "POST", "/lancamentos/1/pagamentos", `{"valor":100}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, float64(1000), resp["valor_pago"])
	assert.Equal(t, string(models.StatusPaid), resp["status"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryHandler_Delete_RemovesInvoices(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectEntry(mock, 4, 1, "100.00", "0.00", "A Pagar")
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `notas_fiscais` WHERE tipo_dono = \\? AND dono_id IN \\(\\?\\)").
		WithArgs(models.OwnerEntry, 4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `lancamentos` WHERE `lancamentos`.`id` = \\?").
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := newRouter(master)
	r.DELETE("/lancamentos/:id", NewEntryHandler().Delete)

	w := doRequest(r, "DELETE", "/lancamentos/4", "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryHandler_DeletePendingBalance_RequiresResidual(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectEntry(mock, 4, 1, "100.00", "100.00", "Pago")

	r := newRouter(master)
	r.DELETE("/lancamentos/:id/saldo-pendente", NewEntryHandler().DeletePendingBalance)

	w := doRequest(r, "DELETE", "/lancamentos/4/saldo-pendente", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryHandler_ForeignProjectForbidden(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// lançamento da obra 1, usuário só enxerga a obra 2
	expectEntry(mock, 4, 1, "100.00", "0.00", "A Pagar")

	r := newRouter(regular)
	r.PATCH("/lancamentos/:id/pago", NewEntryHandler().MarkPaid)

	w := doRequest(r, "PATCH", "/lancamentos/4/pago", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryHandler_Pending(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProject(mock, 1, "Casa A")
	mock.ExpectQuery("SELECT \\* FROM `lancamentos` WHERE obra_id = \\? AND valor_pago < valor").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow(3, 1, "Material", "Tijolo", "700.00", "200.00", "A Pagar", "2025-01-05"))

	r := newRouter(master)
	r.GET("/obras/:id/lancamentos/pendentes", NewEntryHandler().Pending)

	w := doRequest(r, "GET", "/obras/1/lancamentos/pendentes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"saldo":500`)
	require.NoError(t, mock.ExpectationsWereMet())
}
