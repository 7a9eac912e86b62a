package web

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/web/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.ListenAddr = "127.0.0.1:0"
	c.LogLevel = "error"
	return c
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(testConfig())
	require.NoError(t, err)
	assert.NotNil(t, app.handlers)
}

func TestNewApp_BadAPIURL(t *testing.T) {
	c := testConfig()
	c.APIBaseURL = "localhost:4000"

	_, err := NewApp(c)
	assert.ErrorContains(t, err, "api client init error")
}

func TestApp_RunStopsWithContext(t *testing.T) {
	app, err := NewApp(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop")
	}
}
