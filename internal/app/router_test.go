package app_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rydes/internal/app"
	"rydes/internal/handler"
	internalRedis "rydes/internal/redis"
	"rydes/internal/repository"
	"rydes/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	fleet, err := service.NewRandomFleetSelector(service.DefaultRoster(), nil, log)
	require.NoError(t, err)

	svc := service.NewDispatchService(
		service.NewIDGenerator(nil),
		fleet,
		service.NewRideRecorder(internalRedis.NewRideStore(client, "rides"), nil),
		nil,
		log,
	)
	h := handler.NewDispatchHandler(
		handler.NewRequestValidator("cognito:username"),
		svc,
		handler.NewResponseBuilder(false),
		log,
	)

	return app.NewRouter(app.RouterDeps{DispatchHandler: h, Logger: log}), mr
}

func TestRouter_Health(t *testing.T) {
	router, _ := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_RequestRide_StoresRide(t *testing.T) {
	router, mr := newRouter(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"cognito:username": "the_username"}).
		SignedString([]byte("upstream-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ride",
		strings.NewReader(`{"PickupLocation":{"Latitude":47.6174755835663,"Longitude":-122.28837066650185}}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var body handler.RideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	raw, err := mr.Get("rides:" + body.RideID)
	require.NoError(t, err)
	var item repository.RideItem
	require.NoError(t, json.Unmarshal([]byte(raw), &item))
	assert.Equal(t, "the_username", item.User)
	assert.Equal(t, body.Unicorn, item.Unicorn)
}

func TestRouter_Preflight(t *testing.T) {
	router, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/ride", nil)
	req.Header.Set("Origin", "https://wildrydes.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestApp_Close_Empty(t *testing.T) {
	a := &app.App{}
	assert.NoError(t, a.Close())
}

func TestRouter_RequestRide_ClientGoneStillStoresRide(t *testing.T) {
	router, mr := newRouter(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"cognito:username": "the_username"}).
		SignedString([]byte("upstream-secret"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/ride",
		strings.NewReader(`{"PickupLocation":{"Latitude":47.6174755835663,"Longitude":-122.28837066650185}}`)).
		WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var body handler.RideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, mr.Exists("rides:"+body.RideID))
}
