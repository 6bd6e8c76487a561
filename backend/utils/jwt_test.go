package utils

import (
	"net/http/httptest"
	"testing"

	"akatsuki/backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret", JWTTTLHours: 1}

	token, err := GenerateJWTToken(42, cfg)
	require.NoError(t, err)

	id, err := ParseUserID(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ParseUserID(token, &config.Config{JWTSecret: "other"})
	assert.Error(t, err)
}

func TestExtractUserIDFromToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret", JWTTTLHours: 1}
	token, err := GenerateJWTToken(7, cfg)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		id, err := ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"bearer", "Bearer " + token, fiber.StatusOK},
		{"bare", token, fiber.StatusOK},
		{"missing", "", fiber.StatusUnauthorized},
		{"garbage", "Bearer abc.def", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
