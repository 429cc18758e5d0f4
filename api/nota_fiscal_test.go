package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, r *gin.Engine, path string, fields map[string]string, content []byte) *httptest.ResponseRecorder {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if content != nil {
		fw, err := mw.CreateFormFile("arquivo", "nf-123.pdf")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInvoiceHandler_Upload(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProject(mock, 1, "Casa A")
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `lancamentos` WHERE id = \\? AND obra_id = \\?").
		WithArgs(4, 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO `notas_fiscais`").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	r := newRouter(master)
	r.POST("/obras/:id/notas-fiscais", NewInvoiceHandler().Upload)

	w := uploadRequest(t, r, "/obras/1/notas-fiscais",
		map[string]string{"tipo_dono": "lancamento", "dono_id": "4", "numero_nf": " 123 "},
		[]byte("%PDF-1.4 conteudo"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, float64(12), resp["id"])
	assert.Equal(t, "123", resp["numero_nf"])
	assert.Equal(t, "nf-123.pdf", resp["nome_arquivo"])
	assert.Equal(t, "application/pdf", resp["tipo_mime"])
	assert.NotContains(t, resp, "arquivo")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceHandler_Upload_OwnerFromOtherProject(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProject(mock, 1, "Casa A")
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `lancamentos`").
		WithArgs(40, 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	r := newRouter(master)
	r.POST("/obras/:id/notas-fiscais", NewInvoiceHandler().Upload)

	w := uploadRequest(t, r, "/obras/1/notas-fiscais",
		map[string]string{"tipo_dono": "lancamento", "dono_id": "40"},
		[]byte("conteudo"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["erro"], "não pertence a esta obra")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceHandler_Upload_InvalidOwner(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProject(mock, 1, "Casa A")

	r := newRouter(master)
	r.POST("/obras/:id/notas-fiscais", NewInvoiceHandler().Upload)

	w := uploadRequest(t, r, "/obras/1/notas-fiscais",
		map[string]string{"tipo_dono": "obra", "dono_id": "1"},
		[]byte("conteudo"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	expectProject(mock, 1, "Casa A")
	w = uploadRequest(t, r, "/obras/1/notas-fiscais",
		map[string]string{"tipo_dono": "lancamento", "dono_id": "4"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "arquivo é obrigatório", decode(t, w)["erro"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceHandler_Download(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	meta := []string{"id", "obra_id", "tipo_dono", "dono_id", "numero_nf", "nome_arquivo", "tipo_mime", "tamanho", "data_upload"}
	mock.ExpectQuery("SELECT `id`,`obra_id`,`tipo_dono`,`dono_id`,`numero_nf`,`nome_arquivo`,`tipo_mime`,`tamanho`,`data_upload` FROM `notas_fiscais`").
		WithArgs(12, 1).
		WillReturnRows(sqlmock.NewRows(meta).
			AddRow(12, 2, "lancamento", 4, "123", "nota fiscal.pdf", "application/pdf", 8, time.Now()))
	mock.ExpectQuery("SELECT \\* FROM `notas_fiscais` WHERE `notas_fiscais`.`id` = \\?").
		WithArgs(12, 1).
		WillReturnRows(sqlmock.NewRows(append(meta, "arquivo")).
			AddRow(12, 2, "lancamento", 4, "123", "nota fiscal.pdf", "application/pdf", 8, time.Now(), []byte("%PDF-1.4")))

	r := newRouter(regular)
	r.GET("/notas-fiscais/:id/download", NewInvoiceHandler().Download)

	w := doRequest(r, "GET", "/notas-fiscais/12/download", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="nota fiscal.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
