package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProvider_RuntimeCollectors(t *testing.T) {
	provider := newTestProvider(t)

	output := scrape(t, provider)

	assert.Contains(t, output, "go_goroutines")
	assert.NotNil(t, provider.MeterProvider())
}

func TestProvider_ShutdownWithoutMeterProvider(t *testing.T) {
	provider := &Provider{}

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestProvider_ServiceResource(t *testing.T) {
	provider := newTestProvider(t)
	counter, err := provider.MeterProvider().Meter("test").Int64Counter("resource_probe")
	assert.NoError(t, err)
	counter.Add(context.Background(), 1)

	output := scrape(t, provider)

	assert.Contains(t, output, `service_name="apivault"`)
}
