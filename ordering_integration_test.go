package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
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

func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	autoMigrate(db)
	return db
}

func request(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
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

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

// TestOrderingEndToEnd walks the whole lifecycle:
// admin bootstraps the staff, a manager builds the catalog, a customer
// fills a cart and places an order, the manager assigns delivery crew,
// and the crew member completes the delivery.
func TestOrderingEndToEnd(t *testing.T) {
	db := setupIntegrationDB(t)
	r := router.SetupRouter(db)

	// Seeded accounts (registration only ever creates customers).
	hashed, err := bcrypt.GenerateFromPassword([]byte("integration-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := models.User{Name: "Root", Email: "root@example.com", Password: string(hashed), Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	for _, u := range []models.User{
		{Name: "Mia", Email: "mia@example.com", Password: string(hashed), Role: models.RoleCustomer},
		{Name: "Drew", Email: "drew@example.com", Password: string(hashed), Role: models.RoleCustomer},
	} {
		require.NoError(t, db.Create(&u).Error)
	}

	adminToken := loginAs(t, r, "root@example.com")

	// Promote the staff.
	w := request(t, r, http.MethodPost, "/managers", adminToken, map[string]interface{}{"email": "mia@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	managerToken := loginAs(t, r, "mia@example.com")

	w = request(t, r, http.MethodPost, "/delivery_crew", managerToken, map[string]interface{}{"email": "drew@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	crewID := uint(responseData(t, w)["id"].(float64))
	crewToken := loginAs(t, r, "drew@example.com")

	// Manager builds the catalog.
	w = request(t, r, http.MethodPost, "/categories", managerToken, map[string]interface{}{"name": "Pizza"})
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := uint(responseData(t, w)["id"].(float64))

	itemID := createItem(t, r, managerToken, categoryID, "Margherita", "1.99")

	// Customer registers, browses and fills the cart.
	w = request(t, r, http.MethodPost, "/register", "", map[string]interface{}{
		"name": "Cal", "email": "cal@example.com", "password": "integration-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	customerToken := loginAs(t, r, "cal@example.com")

	w = request(t, r, http.MethodGet, "/menu-items", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, r, http.MethodPost, "/cart", customerToken, map[string]interface{}{
		"menuitem": itemID, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Customer places the order.
	w = request(t, r, http.MethodPost, "/orders", customerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := responseData(t, w)
	orderID := uint(order["id"].(float64))
	assert.Equal(t, models.OrderStatusPending, order["status"])
	assert.Equal(t, "3.98", order["total"])

	// Manager assigns the crew member, who completes the delivery.
	orderPath := fmt.Sprintf("/orders/%d", orderID)
	w = request(t, r, http.MethodPatch, orderPath, managerToken, map[string]interface{}{"delivery_crew": crewID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(t, r, http.MethodPatch, orderPath, crewToken, map[string]interface{}{"status": models.OrderStatusCompleted})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The customer sees the completed order; the cart is empty again.
	w = request(t, r, http.MethodGet, orderPath, customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusCompleted, responseData(t, w)["status"])

	w = request(t, r, http.MethodGet, "/cart", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, responseData(t, w)["items"])
}

func loginAs(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()

	w := request(t, r, http.MethodPost, "/login", "", map[string]interface{}{
		"email": email, "password": "integration-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, ok := responseData(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

func createItem(t *testing.T, r *gin.Engine, token string, categoryID uint, name, price string) uint {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("name", name))
	require.NoError(t, writer.WriteField("price", price))
	require.NoError(t, writer.WriteField("category", fmt.Sprintf("%d", categoryID)))
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/menu-items", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return uint(responseData(t, w)["id"].(float64))
}
