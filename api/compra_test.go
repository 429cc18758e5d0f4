package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"obras/models"
	"obras/service"
	"obras/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var purchaseColumns = []string{"id", "obra_id", "item", "valor_estimado", "data_prevista", "status", "prioridade"}

func fixedToday() models.Date {
	return models.NewDate(2025, time.March, 10)
}

func expectPendingPurchases(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT \\* FROM `cronograma_compras` WHERE obra_id = \\? AND status = \\? ORDER BY data_prevista, id").
		WithArgs(1, models.PurchasePending).
		WillReturnRows(sqlmock.NewRows(purchaseColumns).
			AddRow(1, 1, "Cimento", "1200.00", "2025-03-08", "Pendente", 3).
			AddRow(2, 1, "Areia", "300.00", "2025-03-12", "Pendente", 2).
			AddRow(3, 1, "Telha", "900.00", "2025-03-20", "Pendente", 3))
}

func TestPurchaseHandler_Alerts(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProject(mock, 1, "Casa A")
	expectPendingPurchases(mock)

	h := NewPurchaseHandler(nil)
	h.today = fixedToday
	r := newRouter(master)
	r.GET("/obras/:id/compras/alertas", h.Alerts)

	w := doRequest(r, "GET", "/obras/1/compras/alertas", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)

	upcoming := resp["proximas"].([]interface{})
	overdue := resp["atrasadas"].([]interface{})
	require.Len(t, upcoming, 1)
	require.Len(t, overdue, 1)
	assert.Equal(t, "Areia", upcoming[0].(map[string]interface{})["item"])
	assert.Equal(t, "Cimento", overdue[0].(map[string]interface{})["item"])
	assert.Equal(t, "Atrasada", overdue[0].(map[string]interface{})["status"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseHandler_SendAlerts(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockAlertNotifier(ctrl)
	notifier.EXPECT().
		SendPurchaseAlerts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(project models.Project, alerts models.PurchaseAlerts) error {
			assert.Equal(t, "Casa A", project.Name)
			require.Len(t, alerts.Upcoming, 1)
			require.Len(t, alerts.Overdue, 1)
			assert.Equal(t, uint(2), alerts.Upcoming[0].ID)
			assert.Equal(t, uint(1), alerts.Overdue[0].ID)
			return nil
		})

	expectProject(mock, 1, "Casa A")
	expectPendingPurchases(mock)

	h := NewPurchaseHandler(notifier)
	h.today = fixedToday
	r := newRouter(master)
	r.POST("/obras/:id/compras/alertas/enviar", h.SendAlerts)

	w := doRequest(r, "POST", "/obras/1/compras/alertas/enviar", "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseHandler_SendAlerts_NotConfigured(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProject(mock, 1, "Casa A")

	r := newRouter(master)
	r.POST("/obras/:id/compras/alertas/enviar", NewPurchaseHandler(nil).SendAlerts)

	w := doRequest(r, "POST", "/obras/1/compras/alertas/enviar", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseHandler_SendAlerts_NoRecipients(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockAlertNotifier(ctrl)
	notifier.EXPECT().
		SendPurchaseAlerts(gomock.Any(), gomock.Any()).
		Return(service.ErrNoRecipients)

	expectProject(mock, 1, "Casa A")
	expectPendingPurchases(mock)

	h := NewPurchaseHandler(notifier)
	h.today = fixedToday
	r := newRouter(master)
	r.POST("/obras/:id/compras/alertas/enviar", h.SendAlerts)

	w := doRequest(r, "POST", "/obras/1/compras/alertas/enviar", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseHandler_SendAlerts_SMTPFailure(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockAlertNotifier(ctrl)
	notifier.EXPECT().
		SendPurchaseAlerts(gomock.Any(), gomock.Any()).
		Return(errors.New("dial tcp: connection refused"))

	expectProject(mock, 1, "Casa A")
	expectPendingPurchases(mock)

	h := NewPurchaseHandler(notifier)
	h.today = fixedToday
	r := newRouter(master)
	r.POST("/obras/:id/compras/alertas/enviar", h.SendAlerts)

	w := doRequest(r, "POST", "/obras/1/compras/alertas/enviar", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseHandler_Create_InvalidPriority(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProject(mock, 1, "Casa A")

	r := newRouter(master)
	r.POST("/obras/:id/compras", NewPurchaseHandler(nil).Create)

	w := doRequest(r, "POST", "/obras/1/compras", `{"item":"Cimento","data_prevista":"2025-03-12","prioridade":9}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "prioridade deve estar entre 1 e 5", decode(t, w)["erro"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseHandler_MarkRealized_DefaultsToEstimate(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProject(mock, 1, "Casa A")
	mock.ExpectQuery("SELECT \\* FROM `cronograma_compras` WHERE id = \\? AND obra_id = \\?").
		WithArgs(2, 1, 1).
		WillReturnRows(sqlmock.NewRows(purchaseColumns).
			AddRow(2, 1, "Areia", "300.00", "2025-03-12", "Pendente", 2))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `cronograma_compras` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := NewPurchaseHandler(nil)
	h.today = fixedToday
	r := newRouter(master)
	r.POST("/obras/:id/compras/:cid/marcar-realizada", h.MarkRealized)

	w := doRequest(r, "POST", "/obras/1/compras/2/marcar-realizada", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "Realizada", resp["status"])
	assert.Equal(t, float64(300), resp["valor_realizado"])
	assert.Equal(t, "2025-03-10", resp["data_realizada"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseHandler_MarkRealized_CreatesEntry(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProject(mock, 1, "Casa A")
	mock.ExpectQuery("SELECT \\* FROM `cronograma_compras` WHERE id = \\? AND obra_id = \\?").
		WithArgs(2, 1, 1).
		WillReturnRows(sqlmock.NewRows(purchaseColumns).
			AddRow(2, 1, "Areia", "300.00", "2025-03-12", "Pendente", 2))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `lancamentos`").
		WillReturnResult(sqlmock.NewResult(40, 1))
	mock.ExpectExec("UPDATE `cronograma_compras` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := NewPurchaseHandler(nil)
	h.today = fixedToday
	r := newRouter(master)
	r.POST("/obras/:id/compras/:cid/marcar-realizada", h.MarkRealized)

	w := doRequest(r, "POST", "/obras/1/compras/2/marcar-realizada", `{"valor_realizado":280,"gerar_lancamento":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, float64(280), resp["valor_realizado"])
	assert.Equal(t, float64(40), resp["lancamento_id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseHandler_MarkRealized_ZeroAmountSkipsEntry(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProject(mock, 1, "Casa A")
	mock.ExpectQuery("SELECT \\* FROM `cronograma_compras` WHERE id = \\? AND obra_id = \\?").
		WithArgs(2, 1, 1).
		WillReturnRows(sqlmock.NewRows(purchaseColumns).
			AddRow(2, 1, "Brita doada", "0.00", "2025-03-12", "Pendente", 2))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `cronograma_compras` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := NewPurchaseHandler(nil)
	h.today = fixedToday
	r := newRouter(master)
	r.POST("/obras/:id/compras/:cid/marcar-realizada", h.MarkRealized)

	w := doRequest(r, "POST", "/obras/1/compras/2/marcar-realizada", `{"gerar_lancamento":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "Realizada", resp["status"])
	assert.Nil(t, resp["lancamento_id"])
	require.NoError(t, mock.ExpectationsWereMet())
}
