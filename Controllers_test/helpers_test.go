package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/littlelemon/ordering-api/models"
	"github.com/littlelemon/ordering-api/router"
	"github.com/littlelemon/ordering-api/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var testDBCounter int64

// setupTestDB opens a fresh in-memory database per test. Each one gets its
// own shared-cache name so the pool's connections see the same schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:ctrl_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.MenuItem{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	require.NoError(t, err)
	return db
}

func setupRouter(db *gorm.DB) *gin.Engine {
	return router.SetupRouter(db)
}

const testPassword = "password123"

func createUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := utils.GenerateToken(user.ID)
	require.NoError(t, err)
	return token
}

func performRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func performMultipart(t *testing.T, r *gin.Engine, path, token string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	data, ok := decodeBody(t, w)["data"].(map[string]interface{})
	require.True(t, ok, "data should be an object, got: %s", w.Body.String())
	return data
}

func dataList(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()

	body := decodeBody(t, w)
	if body["data"] == nil {
		return nil
	}
	list, ok := body["data"].([]interface{})
	require.True(t, ok, "data should be a list, got: %s", w.Body.String())
	return list
}

// assertDecimal compares a decimal JSON value (marshalled as a string) by
// numeric equality, so "3.98" and "3.980" both match.
func assertDecimal(t *testing.T, want string, got interface{}) {
	t.Helper()

	raw, ok := got.(string)
	require.True(t, ok, "expected decimal string, got %T (%v)", got, got)

	gotDec, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	wantDec, err := decimal.NewFromString(want)
	require.NoError(t, err)
	assert.True(t, wantDec.Equal(gotDec), "expected %s, got %s", want, raw)
}

func createCategory(t *testing.T, db *gorm.DB, name, slug string) models.Category {
	t.Helper()

	category := models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func createMenuItem(t *testing.T, db *gorm.DB, categoryID uint, name, price string) models.MenuItem {
	t.Helper()

	item := models.MenuItem{
		Name:       name,
		Slug:       name,
		Price:      mustDecimal(t, price),
		Featured:   true,
		CategoryID: categoryID,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
