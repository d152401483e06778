package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/baanlist-dev/baanlist/db"
	"github.com/baanlist-dev/baanlist/internal/auth"
	"github.com/baanlist-dev/baanlist/internal/handlers"
	"github.com/baanlist-dev/baanlist/internal/models"
	"github.com/baanlist-dev/baanlist/internal/router"
)

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret-key")
	require.NoError(t, auth.InitJWTSecret())

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "baanlist_test.db")), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Property{},
		&models.DeleteLog{},
	))

	db.DB = gdb

	return router.NewRouter()
}

func seedProject(t *testing.T, slug, nameTH, nameEN string) models.Project {
	t.Helper()

	project := models.Project{Slug: slug, NameTH: nameTH, NameEN: nameEN}
	require.NoError(t, db.DB.Create(&project).Error)

	return project
}

func seedProperty(t *testing.T, p models.Property) models.Property {
	t.Helper()

	require.NoError(t, db.DB.Create(&p).Error)

	return p
}

func intp(v int) *int { return &v }

func doRequest(r *gin.Engine, method, path string, body []byte, cookie string) *httptest.ResponseRecorder {
	var req *http.Request

	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func sessionFor(t *testing.T, userID uint, email string) string {
	t.Helper()

	token, err := auth.GenerateJWT(userID, email)
	require.NoError(t, err)

	return token
}

func seedUser(t *testing.T) models.User {
	t.Helper()

	user := models.User{
		Name:  "Admin",
		Email: "admin@baanlist.test",
		// bcrypt of an arbitrary password; auth tests go through the
		// register handler instead of reusing this hash
		PasswordHash: "unusable",
	}
	require.NoError(t, db.DB.Create(&user).Error)

	return user
}

type propertySummary struct {
	ID            uint     `json:"id"`
	ProjectSlug   string   `json:"project_slug"`
	Type          string   `json:"type"`
	TitleTH       string   `json:"title_th"`
	Price         float64  `json:"price"`
	Bedrooms      *int     `json:"bedrooms"`
	ProjectNameTH string   `json:"project_name_th"`
	CanonicalPath string   `json:"canonical_path"`
	Images        []string `json:"images"`
}

func TestListPropertiesJoinsProjectName(t *testing.T) {
	r := setupTestServer(t)
	seedProject(t, "lumina", "ลูมินา", "Lumina")
	seedProperty(t, models.Property{
		ProjectSlug: "lumina", Type: "rent", TitleTH: "ห้องสวย",
		Price: 12000, Bedrooms: intp(1),
	})

	w := doRequest(r, http.MethodGet, "/api/properties", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []propertySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)

	assert.Equal(t, "ลูมินา", got[0].ProjectNameTH)
	assert.Equal(t, "/projects/lumina/rent/room-1", got[0].CanonicalPath)
}

func TestListPropertiesTypeAndBedroomFilters(t *testing.T) {
	r := setupTestServer(t)
	seedProject(t, "lumina", "ลูมินา", "Lumina")
	seedProperty(t, models.Property{ProjectSlug: "lumina", Type: "rent", TitleTH: "a", Price: 9000, Bedrooms: intp(1)})
	seedProperty(t, models.Property{ProjectSlug: "lumina", Type: "buy", TitleTH: "b", Price: 3000000, Bedrooms: intp(3)})
	seedProperty(t, models.Property{ProjectSlug: "lumina", Type: "buy", TitleTH: "c", Price: 5000000, Bedrooms: intp(4)})

	w := doRequest(r, http.MethodGet, "/api/properties?type=buy&bedrooms=3%2B&sort=price_desc", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []propertySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "c", got[0].TitleTH)
	assert.Equal(t, "b", got[1].TitleTH)
}

func TestListPropertiesRejectsUnknownFilter(t *testing.T) {
	r := setupTestServer(t)

	w := doRequest(r, http.MethodGet, "/api/properties?type=lease", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShowListingMismatchedTypeRedirects(t *testing.T) {
	r := setupTestServer(t)
	seedProject(t, "lumina", "ลูมินา", "Lumina")
	seedProperty(t, models.Property{
		ProjectSlug: "lumina", Type: "rent", TitleTH: "ห้องสวย", Price: 12000,
	})

	w := doRequest(r, http.MethodGet, "/api/projects/lumina/buy/room-1", nil, "")
	require.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/projects/lumina/rent/room-1", w.Header().Get("Location"))

	w = doRequest(r, http.MethodGet, "/api/projects/lumina/rent/anything-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Link"), `rel="canonical"`)
}

func TestShowListingUnknownID(t *testing.T) {
	r := setupTestServer(t)
	seedProject(t, "lumina", "ลูมินา", "Lumina")

	w := doRequest(r, http.MethodGet, "/api/projects/lumina/rent/room-99", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/api/projects/lumina/rent/no-id-here", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLegacyPropertyRedirect(t *testing.T) {
	r := setupTestServer(t)
	seedProject(t, "lumina", "ลูมินา", "Lumina")
	seedProperty(t, models.Property{
		ProjectSlug: "lumina", Type: "buy", SlugEN: "Riverside Suite",
		TitleTH: "ห้องริมน้ำ", Price: 4200000,
	})

	w := doRequest(r, http.MethodGet, "/properties/1", nil, "")
	require.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/projects/lumina/buy/riverside-suite-1", w.Header().Get("Location"))

	w = doRequest(r, http.MethodGet, "/properties/99", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProjectTabsAndCounts(t *testing.T) {
	r := setupTestServer(t)
	seedProject(t, "lumina", "ลูมินา", "Lumina")
	seedProperty(t, models.Property{ProjectSlug: "lumina", Type: "rent", TitleTH: "a", Price: 9000})
	seedProperty(t, models.Property{ProjectSlug: "lumina", Type: "rent", TitleTH: "b", Price: 11000})
	seedProperty(t, models.Property{ProjectSlug: "lumina", Type: "buy", TitleTH: "c", Price: 3000000})

	var page struct {
		ActiveTab string `json:"active_tab"`
		Counts    struct {
			All  int `json:"all"`
			Rent int `json:"rent"`
			Buy  int `json:"buy"`
		} `json:"counts"`
		Properties []propertySummary `json:"properties"`
	}

	w := doRequest(r, http.MethodGet, "/api/projects/lumina", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "all", page.ActiveTab)
	assert.Equal(t, 3, page.Counts.All)
	assert.Len(t, page.Properties, 3)

	w = doRequest(r, http.MethodGet, "/api/projects/lumina/rent", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "rent", page.ActiveTab)
	assert.Equal(t, 2, page.Counts.Rent)
	assert.Equal(t, 1, page.Counts.Buy)
	assert.Len(t, page.Properties, 2)
	assert.Contains(t, w.Header().Get("Link"), "/projects/lumina/rent")

	w = doRequest(r, http.MethodGet, "/api/projects/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardRequiresAuth(t *testing.T) {
	r := setupTestServer(t)

	w := doRequest(r, http.MethodGet, "/api/dashboard/properties", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodDelete, "/api/dashboard/properties/1", nil, "bogus-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePropertyValidation(t *testing.T) {
	r := setupTestServer(t)
	seedProject(t, "lumina", "ลูมินา", "Lumina")
	user := seedUser(t)
	session := sessionFor(t, user.ID, user.Email)

	// bedrooms missing: the request never reaches the table
	body := []byte(`{"project_slug":"lumina","type":"rent","title_th":"ห้อง","price":12000,"bathrooms":1,"size_sqm":30}`)
	w := doRequest(r, http.MethodPost, "/api/dashboard/properties", body, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.DB.Model(&models.Property{}).Count(&count).Error)
	assert.Zero(t, count)

	// unknown project is rejected
	body = []byte(`{"project_slug":"ghost","type":"rent","title_th":"ห้อง","price":12000,"bedrooms":1,"bathrooms":1,"size_sqm":30}`)
	w = doRequest(r, http.MethodPost, "/api/dashboard/properties", body, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProperty(t *testing.T) {
	r := setupTestServer(t)
	seedProject(t, "lumina", "ลูมินา", "Lumina")
	user := seedUser(t)
	session := sessionFor(t, user.ID, user.Email)

	body := []byte(`{"project_slug":"lumina","type":"rent","title_th":"ห้องใหม่","price":15000,"bedrooms":0,"bathrooms":1,"size_sqm":28.5}`)
	w := doRequest(r, http.MethodPost, "/api/dashboard/properties", body, session)
	require.Equal(t, http.StatusCreated, w.Code)

	var created propertySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "ห้องใหม่", created.TitleTH)
	require.NotNil(t, created.Bedrooms)
	assert.Equal(t, 0, *created.Bedrooms) // studio: zero is a valid bedroom count

	var count int64
	require.NoError(t, db.DB.Model(&models.Property{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteProperty(t *testing.T) {
	r := setupTestServer(t)
	seedProject(t, "lumina", "ลูมินา", "Lumina")
	p := seedProperty(t, models.Property{
		ProjectSlug: "lumina", Type: "rent", TitleTH: "ห้องเก่า", Price: 9500,
	})
	user := seedUser(t)
	session := sessionFor(t, user.ID, user.Email)

	w := doRequest(r, http.MethodDelete, "/api/dashboard/properties/1", nil, session)
	require.Equal(t, http.StatusNoContent, w.Code)

	// the id is gone from the next fetched list
	w = doRequest(r, http.MethodGet, "/api/dashboard/properties", nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	var got []propertySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Empty(t, got)

	// the deletion is logged with a snapshot
	var logs []models.DeleteLog
	require.NoError(t, db.DB.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, p.ID, logs[0].PropertyID)
	assert.Equal(t, models.DeleteReasonManual, logs[0].Reason)
	assert.Equal(t, user.ID, logs[0].DeletedBy)

	w = doRequest(r, http.MethodDelete, "/api/dashboard/properties/1", nil, session)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePropertyNotImplemented(t *testing.T) {
	r := setupTestServer(t)
	user := seedUser(t)
	session := sessionFor(t, user.ID, user.Email)

	w := doRequest(r, http.MethodPut, "/api/dashboard/properties/1", []byte(`{}`), session)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func dialDashboardSocket(t *testing.T, r *gin.Engine, session string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	header := http.Header{}
	header.Set("Origin", "http://localhost:3000")
	header.Set("Cookie", "token="+session)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/dashboard"

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readSocketMessage(t *testing.T, conn *websocket.Conn) map[string]string {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg map[string]string
	require.NoError(t, conn.ReadJSON(&msg))

	return msg
}

func TestDashboardSocketRefreshEvents(t *testing.T) {
	r := setupTestServer(t)
	seedProject(t, "lumina", "ลูมินา", "Lumina")
	user := seedUser(t)
	session := sessionFor(t, user.ID, user.Email)

	conn := dialDashboardSocket(t, r, session)

	msg := readSocketMessage(t, conn)
	assert.Equal(t, "connected", msg["type"])

	body := []byte(`{"project_slug":"lumina","type":"rent","title_th":"ห้องใหม่","price":15000,"bedrooms":1,"bathrooms":1,"size_sqm":28.5}`)
	w := doRequest(r, http.MethodPost, "/api/dashboard/properties", body, session)
	require.Equal(t, http.StatusCreated, w.Code)

	msg = readSocketMessage(t, conn)
	assert.Equal(t, "refresh", msg["type"])
	assert.Equal(t, "property_created", msg["event"])
	assert.Equal(t, "1", msg["property_id"])

	w = doRequest(r, http.MethodDelete, "/api/dashboard/properties/1", nil, session)
	require.Equal(t, http.StatusNoContent, w.Code)

	msg = readSocketMessage(t, conn)
	assert.Equal(t, "property_deleted", msg["event"])
}

func TestDashboardSocketConcurrentBroadcasts(t *testing.T) {
	r := setupTestServer(t)
	seedProject(t, "lumina", "ลูมินา", "Lumina")
	user := seedUser(t)
	session := sessionFor(t, user.ID, user.Email)

	conn := dialDashboardSocket(t, r, session)

	msg := readSocketMessage(t, conn)
	require.Equal(t, "connected", msg["type"])

	// broadcasts arrive from arbitrary request goroutines; the
	// connection must survive simultaneous writers
	const broadcasts = 8

	var wg sync.WaitGroup
	for i := 0; i < broadcasts; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			handlers.BroadcastRefresh("property_created", id)
		}(uint(i + 1))
	}
	wg.Wait()

	for i := 0; i < broadcasts; i++ {
		msg = readSocketMessage(t, conn)
		assert.Equal(t, "refresh", msg["type"])
		assert.Equal(t, "property_created", msg["event"])
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	r := setupTestServer(t)

	body := []byte(`{"name":"Admin","email":"admin@baanlist.test","password":"supersecret"}`)
	w := doRequest(r, http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code)

	body = []byte(`{"email":"admin@baanlist.test","password":"supersecret"}`)
	w = doRequest(r, http.MethodPost, "/api/auth/login", body, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=")

	body = []byte(`{"email":"admin@baanlist.test","password":"wrongpassword"}`)
	w = doRequest(r, http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSitemap(t *testing.T) {
	r := setupTestServer(t)

	// empty dataset still yields the static routes
	w := doRequest(r, http.MethodGet, "/sitemap.xml", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "<urlset")
	assert.Contains(t, w.Body.String(), "/login</loc>")

	project := seedProject(t, "lumina", "ลูมินา", "Lumina")
	project.UpdatedAt = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.DB.Save(&project).Error)
	seedProperty(t, models.Property{
		ProjectSlug: "lumina", Type: "buy", SlugEN: "Riverside Suite",
		TitleTH: "ห้องริมน้ำ", Price: 4200000,
	})

	w = doRequest(r, http.MethodGet, "/sitemap.xml", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/projects/lumina/rent</loc>")
	assert.Contains(t, w.Body.String(), "/projects/lumina/buy/riverside-suite-1</loc>")
}
