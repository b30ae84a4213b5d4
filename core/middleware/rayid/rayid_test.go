package rayid

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayID(t *testing.T) {
	app := fiber.New()
	app.Use(New())

	var seenLocal string
	app.Get("/ping", func(c *fiber.Ctx) error {
		seenLocal, _ = c.Locals("ray_id").(string)
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)

	header := resp.Header.Get(HeaderName)
	assert.NotEmpty(t, header)
	assert.Equal(t, header, seenLocal)

	// The id must be a valid UUID.
	_, err = uuid.Parse(header)
	assert.NoError(t, err)

	// Every request gets its own id.
	resp2, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.NotEqual(t, header, resp2.Header.Get(HeaderName))
}
