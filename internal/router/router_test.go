package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ludica-app/ludica-api/internal/config"
	"github.com/ludica-app/ludica-api/internal/dto"
	"github.com/ludica-app/ludica-api/internal/handler"
	"github.com/ludica-app/ludica-api/internal/middleware"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
	"github.com/ludica-app/ludica-api/internal/router"
	"github.com/ludica-app/ludica-api/internal/service"
)

type apiFixture struct {
	app  *fiber.App
	auth service.AuthService
}

func setupAPI(t *testing.T) apiFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:api_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Theme{},
		&models.Activity{},
		&models.Assignment{},
		&models.PointEntry{},
		&models.Level{},
		&models.UserLevel{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Ranking{},
		&models.DiagnosticTest{},
		&models.DiagnosticQuestion{},
		&models.DiagnosticAnswer{},
		&models.DiagnosticResult{},
		&models.Play{},
	))

	mini := miniredis.RunT(t)
	opts, err := redis.ParseURL("redis://" + mini.Addr())
	require.NoError(t, err)
	cache := redis.NewClient(opts)

	cfg := config.Config{
		AppName:          "ludica-api-test",
		JWTSecret:        "secreto-acceso",
		JWTRefreshSecret: "secreto-refresco",
		TokenTTL:         time.Hour,
		RefreshTokenTTL:  24 * time.Hour,
	}

	logger := zerolog.New(io.Discard)
	validate := validator.New(validator.WithRequiredStructEnabled())
	users := repository.NewUserRepository(db)

	authService := service.NewAuthService(users, validate, cfg, logger)
	themeService := service.NewThemeService(repository.NewThemeRepository(db), validate, logger)
	publisher := service.NewEventPublisher(nil, "", nil, logger)
	gamification := service.NewGamificationService(db, cache, publisher, logger)
	ranking := service.NewRankingService(repository.NewRankingRepository(db), repository.NewPointRepository(db), cache, time.Minute, logger)

	app := fiber.New()
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:    handler.NewAuthHandler(authService, logger),
		ThemeHandler:   handler.NewThemeHandler(themeService, logger),
		PointHandler:   handler.NewPointHandler(gamification, logger),
		RankingHandler: handler.NewRankingHandler(ranking, logger),
		JWTMiddleware:  middleware.JWTProtected(cfg.JWTSecret),
	})

	return apiFixture{app: app, auth: authService}
}

// loginAs registers an account with the requested role and returns a live
// access token obtained through the HTTP login endpoint.
func (f apiFixture) loginAs(t *testing.T, role models.Role) (string, dto.UserResponse) {
	t.Helper()

	email := fmt.Sprintf("%s%d@ludica.test", role, time.Now().UnixNano())
	password := "contrasena-segura"
	user, err := f.auth.Register(t.Context(), dto.RegisterRequest{
		Name:     "Cuenta Prueba",
		Email:    email,
		Password: password,
		Role:     string(role),
	}, models.RoleAdmin)
	require.NoError(t, err)

	body := f.request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    email,
		"password": password,
	}, http.StatusOK)

	var envelope struct {
		Data dto.TokenPairResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)

	return envelope.Data.AccessToken, user
}

func (f apiFixture) request(t *testing.T, method, path, token string, payload interface{}, wantStatus int) []byte {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "body: %s", raw)
	return raw
}

func TestHealthEndpointIsPublic(t *testing.T) {
	f := setupAPI(t)
	body := f.request(t, http.MethodGet, "/api/v1/health", "", nil, http.StatusOK)
	require.Contains(t, string(body), "ludica-api-test")
}

func TestAuthFlowOverHTTP(t *testing.T) {
	f := setupAPI(t)

	body := f.request(t, http.MethodPost, "/api/v1/auth/registro", "", fiber.Map{
		"nombre":   "Ana Estudiante",
		"email":    "ana@ludica.test",
		"password": "contrasena-segura",
	}, http.StatusCreated)

	var created struct {
		Data dto.UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.Equal(t, string(models.RoleStudent), created.Data.Role)

	// Self-signup cannot mint privileged roles.
	f.request(t, http.MethodPost, "/api/v1/auth/registro", "", fiber.Map{
		"nombre":   "Intruso",
		"email":    "intruso@ludica.test",
		"password": "contrasena-segura",
		"rol":      "admin",
	}, http.StatusForbidden)

	token, _ := f.loginAs(t, models.RoleStudent)
	body = f.request(t, http.MethodGet, "/api/v1/auth/me", token, nil, http.StatusOK)
	require.Contains(t, string(body), "estudiante")

	f.request(t, http.MethodGet, "/api/v1/auth/me", "", nil, http.StatusUnauthorized)
}

func TestThemeRoutesEnforceRoles(t *testing.T) {
	f := setupAPI(t)

	studentToken, _ := f.loginAs(t, models.RoleStudent)
	teacherToken, _ := f.loginAs(t, models.RoleTeacher)

	payload := fiber.Map{"nombre": "Probabilidad"}
	f.request(t, http.MethodPost, "/api/v1/tematicas", studentToken, payload, http.StatusForbidden)
	f.request(t, http.MethodPost, "/api/v1/tematicas", teacherToken, payload, http.StatusCreated)

	body := f.request(t, http.MethodGet, "/api/v1/tematicas", studentToken, nil, http.StatusOK)
	require.Contains(t, string(body), "Probabilidad")
}

func TestPointAwardAndLeaderboardOverHTTP(t *testing.T) {
	f := setupAPI(t)

	teacherToken, _ := f.loginAs(t, models.RoleTeacher)
	studentToken, student := f.loginAs(t, models.RoleStudent)

	award := fiber.Map{"usuario_id": student.ID, "cantidad": 35, "motivo": "participacion en clase"}
	f.request(t, http.MethodPost, "/api/v1/puntos/otorgar", studentToken, award, http.StatusForbidden)
	body := f.request(t, http.MethodPost, "/api/v1/puntos/otorgar", teacherToken, award, http.StatusOK)
	require.Contains(t, string(body), "35")

	totalPath := fmt.Sprintf("/api/v1/puntos/usuario/%d/total", student.ID)
	body = f.request(t, http.MethodGet, totalPath, studentToken, nil, http.StatusOK)
	require.Contains(t, string(body), "\"total\":35")

	f.request(t, http.MethodPost, "/api/v1/ranking/recalcular", teacherToken, nil, http.StatusOK)
	body = f.request(t, http.MethodGet, "/api/v1/ranking", studentToken, nil, http.StatusOK)
	require.Contains(t, string(body), fmt.Sprintf("\"usuario_id\":%d", student.ID))
}

func TestStudentCannotReadForeignLedger(t *testing.T) {
	f := setupAPI(t)

	studentToken, _ := f.loginAs(t, models.RoleStudent)
	_, other := f.loginAs(t, models.RoleStudent)

	path := fmt.Sprintf("/api/v1/puntos/usuario/%d/historial", other.ID)
	f.request(t, http.MethodGet, path, studentToken, nil, http.StatusForbidden)
}
