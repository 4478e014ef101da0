// gestion-multi-profs/internal/handlers/import_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alibelharet/gestion-multi-profs/config"
	"github.com/alibelharet/gestion-multi-profs/models"
)

func setupImportTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.SchoolYear{},
		&models.Subject{},
		&models.Student{},
		&models.GradeRecord{},
		&models.Appreciation{},
		&models.TeacherAssignment{},
		&models.AuditLog{},
	))
	config.DB = db
	config.RDB = nil
	require.NoError(t, db.Create(&models.User{Username: "prof", PasswordHash: "x"}).Error)

	require.NoError(t, InitStaging(t.TempDir()))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("is_admin", false)
		c.Set("can_write", true)
	})
	r.POST("/api/imports/excel", ImportExcelHandler)
	r.POST("/api/imports/excel/apply", ImportApplyHandler)
	r.POST("/api/imports/excel/cancel/:token", ImportCancelHandler)
	return r
}

func buildWorkbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Nom complet", "Classe", "Devoir", "Activite", "Compo"},
		{"Benali Samir", "3AS1", "14", "16", "12,5"},
		{"Cherif Lina", "3AS1", "17", "18", "15"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func uploadWorkbook(t *testing.T, r *gin.Engine) map[string]interface{} {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("fichier_excel", "notes.xlsx")
	require.NoError(t, err)
	_, err = part.Write(buildWorkbook(t).Bytes())
	require.NoError(t, err)
	require.NoError(t, w.WriteField("trimestre_import", "1"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/imports/excel", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestImportUploadThenApply(t *testing.T) {
	r := setupImportTest(t)

	preview := uploadWorkbook(t, r)
	token, _ := preview["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, true, preview["headerDetected"])
	assert.Equal(t, "Sheet1", preview["sourceSheet"])

	defaults, ok := preview["defaults"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Nom complet", defaults["full_name"])
	assert.Equal(t, "Devoir", defaults["devoir"])

	form := url.Values{"token": {token}}
	for key, col := range defaults {
		if s, _ := col.(string); s != "" {
			form.Set("map_"+key, s)
		}
	}
	req := httptest.NewRequest(http.MethodPost, "/api/imports/excel/apply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Summary struct {
			Inserted int `json:"inserted"`
			Updated  int `json:"updated"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Summary.Inserted)

	var studentCount, recordCount, auditCount int64
	config.DB.Model(&models.Student{}).Count(&studentCount)
	config.DB.Model(&models.GradeRecord{}).Count(&recordCount)
	config.DB.Model(&models.AuditLog{}).Count(&auditCount)
	assert.Equal(t, int64(2), studentCount)
	assert.Equal(t, int64(2), recordCount)
	assert.Equal(t, int64(1), auditCount)

	// The preview is consumed: replaying apply reports an expired session.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/imports/excel/apply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestImportCancelDiscardsPreview(t *testing.T) {
	r := setupImportTest(t)

	preview := uploadWorkbook(t, r)
	token, _ := preview["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodPost, "/api/imports/excel/cancel/"+token, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	form := url.Values{"token": {token}}
	req = httptest.NewRequest(http.MethodPost, "/api/imports/excel/apply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestImportRejectsMissingFile(t *testing.T) {
	r := setupImportTest(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("trimestre_import", "1"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/imports/excel", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
