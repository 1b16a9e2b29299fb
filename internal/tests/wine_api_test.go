// internal/tests/wine_api_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/smartadega/smartadega-api/internal/config"
	"github.com/smartadega/smartadega-api/internal/models"
	"github.com/smartadega/smartadega-api/internal/repository"
	"github.com/smartadega/smartadega-api/internal/router"
	"github.com/smartadega/smartadega-api/internal/utils"
)

const testSecret = "test-secret"

type WineAPITestSuite struct {
	suite.Suite
	router *gin.Engine
	stop   func()
	tokenA string
	tokenB string
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{SecretKey: testSecret},
		Validation:  config.ValidationConfig{Mode: models.ValidationModeRelaxed},
		Recognition: config.RecognitionConfig{Mock: true, MaxUploadSize: 1024},
		CORS:        config.CORSConfig{AllowedOrigins: []string{"*"}},
		I18n:        config.I18nConfig{DefaultLocale: "en"},
	}
}

func (suite *WineAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router, suite.stop = router.Initialize(router.Dependencies{
		Config: testConfig(),
		Wines:  repository.NewMemoryWineRepository(),
	})

	verifier := utils.NewTokenVerifier(testSecret, "")
	var err error
	suite.tokenA, err = verifier.Issue("user-a", time.Hour)
	suite.Require().NoError(err)
	suite.tokenB, err = verifier.Issue("user-b", time.Hour)
	suite.Require().NoError(err)
}

func (suite *WineAPITestSuite) TearDownTest() {
	suite.stop()
}

func (suite *WineAPITestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func riesling() map[string]interface{} {
	return map[string]interface{}{
		"name":     "Riesling",
		"grape":    "Riesling",
		"region":   "Mosel",
		"year":     2018,
		"price":    89.9,
		"rating":   4.5,
		"quantity": 3,
	}
}

func (suite *WineAPITestSuite) TestOwnershipIsolation() {
	t := suite.T()

	w := suite.do(http.MethodPost, "/api/wines", suite.tokenA, riesling())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Wine](t, w)
	assert.Equal(t, "user-a", created.OwnerID)
	id := created.ID.String()

	w = suite.do(http.MethodGet, "/api/wines/"+id, suite.tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Wine not found", decode[map[string]string](t, w)["error"])

	w = suite.do(http.MethodPut, "/api/wines/"+id, suite.tokenB, map[string]interface{}{"quantity": 99})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.do(http.MethodDelete, "/api/wines/"+id, suite.tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/wines", suite.tokenB, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = suite.do(http.MethodGet, "/api/wines/"+id, suite.tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[models.Wine](t, w).Quantity)
}

func (suite *WineAPITestSuite) TestCreateIgnoresClientOwner() {
	t := suite.T()
	payload := riesling()
	payload["owner_id"] = "user-b"
	payload["user_id"] = "user-b"
	payload["id"] = "not-an-id"

	w := suite.do(http.MethodPost, "/api/wines", suite.tokenA, payload)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Wine](t, w)
	assert.Equal(t, "user-a", created.OwnerID)

	w = suite.do(http.MethodGet, "/api/wines", suite.tokenB, nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func (suite *WineAPITestSuite) TestUpdateAndDeleteLifecycle() {
	t := suite.T()

	created := decode[models.Wine](t, suite.do(http.MethodPost, "/api/wines", suite.tokenA, riesling()))
	id := created.ID.String()

	w := suite.do(http.MethodPut, "/api/wines/"+id, suite.tokenA, map[string]interface{}{
		"quantity": 5,
		"owner_id": "user-b",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Wine](t, w)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, "Riesling", updated.Name)
	assert.Equal(t, "user-a", updated.OwnerID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	w = suite.do(http.MethodPut, "/api/wines/"+id, suite.tokenA, map[string]interface{}{"rating": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["details"], "rating")

	w = suite.do(http.MethodDelete, "/api/wines/"+id, suite.tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Wine deleted successfully", decode[map[string]string](t, w)["message"])

	w = suite.do(http.MethodGet, "/api/wines/"+id, suite.tokenA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = suite.do(http.MethodDelete, "/api/wines/"+id, suite.tokenA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *WineAPITestSuite) TestEmptyUpdateOnlyAdvancesUpdatedAt() {
	t := suite.T()

	created := decode[models.Wine](t, suite.do(http.MethodPost, "/api/wines", suite.tokenA, riesling()))
	time.Sleep(2 * time.Millisecond)

	w := suite.do(http.MethodPut, "/api/wines/"+created.ID.String(), suite.tokenA, map[string]interface{}{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Wine](t, w)

	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.OwnerID, updated.OwnerID)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Grape, updated.Grape)
	assert.Equal(t, created.Region, updated.Region)
	assert.Equal(t, created.Year, updated.Year)
	assert.Equal(t, created.Price, updated.Price)
	assert.Equal(t, created.Rating, updated.Rating)
	assert.Equal(t, created.Quantity, updated.Quantity)

	w = suite.do(http.MethodGet, "/api/wines/"+created.ID.String(), suite.tokenA, nil)
	assert.True(t, decode[models.Wine](t, w).UpdatedAt.Equal(updated.UpdatedAt))
}

func (suite *WineAPITestSuite) TestCreateEchoesStoredDecimals() {
	t := suite.T()

	payload := riesling()
	payload["price"] = 45.999
	w := suite.do(http.MethodPost, "/api/wines", suite.tokenA, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["details"], "price")

	payload["price"] = 1e10
	w = suite.do(http.MethodPost, "/api/wines", suite.tokenA, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload["price"] = 45.99
	w = suite.do(http.MethodPost, "/api/wines", suite.tokenA, payload)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Wine](t, w)

	got := decode[models.Wine](t, suite.do(http.MethodGet, "/api/wines/"+created.ID.String(), suite.tokenA, nil))
	assert.Equal(t, created.Price, got.Price)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func (suite *WineAPITestSuite) TestCreateValidation() {
	t := suite.T()

	w := suite.do(http.MethodPost, "/api/wines", suite.tokenA, map[string]interface{}{
		"name":     "",
		"year":     1899,
		"quantity": -1,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "Invalid wine data", body["error"])
	assert.Contains(t, body["details"], "name:")
	assert.Contains(t, body["details"], "year:")
	assert.Contains(t, body["details"], "quantity:")

	w = suite.do(http.MethodPost, "/api/wines", suite.tokenA, []int{1, 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/wines", suite.tokenA, nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func (suite *WineAPITestSuite) TestListNewestFirstWithPagination() {
	t := suite.T()

	for _, name := range []string{"first", "second", "third"} {
		payload := riesling()
		payload["name"] = name
		require.Equal(t, http.StatusCreated, suite.do(http.MethodPost, "/api/wines", suite.tokenA, payload).Code)
	}

	w := suite.do(http.MethodGet, "/api/wines", suite.tokenA, nil)
	wines := decode[[]models.Wine](t, w)
	require.Len(t, wines, 3)
	assert.Equal(t, "third", wines[0].Name)
	assert.Equal(t, "first", wines[2].Name)
	assert.Empty(t, w.Header().Get("X-Total-Count"))

	w = suite.do(http.MethodGet, "/api/wines?page=2&limit=2", suite.tokenA, nil)
	wines = decode[[]models.Wine](t, w)
	require.Len(t, wines, 1)
	assert.Equal(t, "first", wines[0].Name)
	assert.Equal(t, "3", w.Header().Get("X-Total-Count"))
	assert.Equal(t, "2", w.Header().Get("X-Total-Pages"))
}

func (suite *WineAPITestSuite) TestPageBeyondRange() {
	t := suite.T()
	require.Equal(t, http.StatusCreated, suite.do(http.MethodPost, "/api/wines", suite.tokenA, riesling()).Code)

	for _, query := range []string{"?page=92233720368547760&limit=100", "?page=3&limit=100"} {
		w := suite.do(http.MethodGet, "/api/wines"+query, suite.tokenA, nil)
		require.Equal(t, http.StatusOK, w.Code, query)
		assert.JSONEq(t, `[]`, w.Body.String(), query)
		assert.Equal(t, "1", w.Header().Get("X-Total-Count"), query)
	}
}

func (suite *WineAPITestSuite) TestPanicAnswersInternalError() {
	suite.router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := suite.do(http.MethodGet, "/panic", "", nil)
	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
	assert.Equal(suite.T(), "Internal server error", decode[map[string]string](suite.T(), w)["error"])
}

func (suite *WineAPITestSuite) TestAuthentication() {
	t := suite.T()

	w := suite.do(http.MethodGet, "/api/wines", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/api/wines", "invalid-token-xyz", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", decode[map[string]string](t, w)["error"])

	expired, err := utils.NewTokenVerifier(testSecret, "").Issue("user-a", -time.Minute)
	require.NoError(t, err)
	w = suite.do(http.MethodGet, "/api/wines", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token expired", decode[map[string]string](t, w)["error"])

	w = suite.do(http.MethodPost, "/api/wines", "", riesling())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *WineAPITestSuite) TestMalformedIDIsNotFound() {
	w := suite.do(http.MethodGet, "/api/wines/not-a-uuid", suite.tokenA, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *WineAPITestSuite) TestLocalizedErrors() {
	req, _ := http.NewRequest(http.MethodGet, "/api/wines/7d7b71de-593b-4e29-b121-8fa6d9b7050b", nil)
	req.Header.Set("Authorization", "Bearer "+suite.tokenA)
	req.Header.Set("Accept-Language", "pt-BR")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), "Vinho não encontrado", decode[map[string]string](suite.T(), w)["error"])
}

func (suite *WineAPITestSuite) upload(contentType string, data []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if data != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="image"; filename="label.jpg"`)
		header.Set("Content-Type", contentType)
		part, _ := writer.CreatePart(header)
		part.Write(data)
	}
	writer.Close()

	req, _ := http.NewRequest(http.MethodPost, "/api/recognition/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.tokenA)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *WineAPITestSuite) TestRecognition() {
	t := suite.T()

	w := suite.upload("image/jpeg", []byte{0xFF, 0xD8, 0xFF})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary := decode[map[string]string](t, w)
	assert.Equal(t, "Château Test 2020", summary["name"])
	assert.Equal(t, "", summary["price"])
	assert.Len(t, summary, 7)

	w = suite.upload("application/pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only image files are allowed", decode[map[string]string](t, w)["error"])

	w = suite.upload("", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No image file provided", decode[map[string]string](t, w)["error"])

	w = suite.upload("image/png", bytes.Repeat([]byte{1}, 2048))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *WineAPITestSuite) TestSystemRoutes() {
	t := suite.T()

	w := suite.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]interface{}](t, w)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "test", health["environment"])
	assert.Contains(t, health, "timestamp")
	assert.Contains(t, health, "uptime")

	w = suite.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/unknown", suite.tokenA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", decode[map[string]string](t, w)["error"])

	w = suite.do(http.MethodPatch, "/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = suite.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "smartadega_http_requests_total")
}

func TestRateLimitedRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1, UploadsPerMinute: 1, UploadBurst: 1}

	r, stop := router.Initialize(router.Dependencies{Config: cfg, Wines: repository.NewMemoryWineRepository()})
	defer stop()

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "Too many requests", decode[map[string]string](t, second)["error"])

	stop()
}

func TestWineAPISuite(t *testing.T) {
	suite.Run(t, new(WineAPITestSuite))
}
