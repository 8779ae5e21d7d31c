package ward_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashbourne/ward"
)

type fakeMailer struct{ sent int }

func (f *fakeMailer) Send() { f.sent++ }

func TestTestMode_MockOverridesRegistration(t *testing.T) {
	t.Parallel()

	c := ward.New()
	require.NoError(t, ward.ProvideValue(c, &fakeMailer{sent: 1}))

	c.EnableTestMode()
	defer c.DisableTestMode()

	mock := &fakeMailer{sent: 99}
	ward.Mock(c, mock)

	got, err := ward.Invoke[*fakeMailer](c)
	require.NoError(t, err)
	assert.Same(t, mock, got)
}

func TestTestMode_DisableRestoresRealRegistration(t *testing.T) {
	t.Parallel()

	c := ward.New()
	real := &fakeMailer{sent: 1}
	require.NoError(t, ward.ProvideValue(c, real))

	c.EnableTestMode()
	ward.Mock(c, &fakeMailer{sent: 99})
	c.DisableTestMode()

	got, err := ward.Invoke[*fakeMailer](c)
	require.NoError(t, err)
	assert.Same(t, real, got)
}

func TestTestMode_UnmockFallsThroughToRegistry(t *testing.T) {
	t.Parallel()

	c := ward.New()
	real := &fakeMailer{sent: 1}
	require.NoError(t, ward.ProvideValue(c, real))

	c.EnableTestMode()
	defer c.DisableTestMode()

	ward.Mock(c, &fakeMailer{sent: 99})
	ward.Unmock[*fakeMailer](c)

	got, err := ward.Invoke[*fakeMailer](c)
	require.NoError(t, err)
	assert.Same(t, real, got)
}

func TestTestMode_NamedMock(t *testing.T) {
	t.Parallel()

	c := ward.New()
	require.NoError(t, ward.ProvideNamedValue(c, "primary", &fakeMailer{sent: 1}))

	c.EnableTestMode()
	defer c.DisableTestMode()

	mock := &fakeMailer{sent: 7}
	ward.MockNamed(c, "primary", mock)

	got, err := ward.InvokeNamed[*fakeMailer](c, "primary")
	require.NoError(t, err)
	assert.Same(t, mock, got)
}

func TestTestMode_IsTestMode(t *testing.T) {
	t.Parallel()

	c := ward.New()
	assert.False(t, c.IsTestMode())

	c.EnableTestMode()
	assert.True(t, c.IsTestMode())

	c.DisableTestMode()
	assert.False(t, c.IsTestMode())
}

func TestTestMode_MockDoesNotReachUnderlyingProvider(t *testing.T) {
	t.Parallel()

	c := ward.New()

	calls := 0
	require.NoError(
		t, ward.Provide(
			c, func(ctx context.Context, r ward.Resolver) (*fakeMailer, error) {
				calls++
				return &fakeMailer{}, nil
			},
		),
	)

	c.EnableTestMode()
	defer c.DisableTestMode()

	ward.Mock(c, &fakeMailer{sent: 1})
	_, err := ward.Invoke[*fakeMailer](c)
	require.NoError(t, err)

	assert.Equal(t, 0, calls, "provider should never run while mocked")
}
