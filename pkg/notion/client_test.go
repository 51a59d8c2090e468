package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.DatabaseQueryResponse), args.Error(1)
}

func (m *MockClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func (m *MockClient) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, pageID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func TestMockClientSatisfiesInterface(t *testing.T) {
	t.Parallel()
	var _ Client = (*MockClient)(nil)
}

func TestNewClientReturnsClient(t *testing.T) {
	c := NewClient("test-token")
	assert.NotNil(t, c)
	var _ Client = c //nolint:staticcheck // interface compliance check
}

func TestWithRateLimit(t *testing.T) {
	c := &notionClient{}
	WithRateLimit(10)(c)
	assert.NotNil(t, c.limiter)
	assert.InDelta(t, 10, float64(c.limiter.Limit()), 0.001)
	assert.Equal(t, 10, c.limiter.Burst())

	WithRateLimit(0)(c)
	assert.Nil(t, c.limiter)
}

func TestClient_CancelledContextHitsLimiter(t *testing.T) {
	c := NewClient("test-token")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.QueryDatabase(ctx, "db-1", &notionapi.DatabaseQueryRequest{})
	assert.ErrorContains(t, err, "notion: rate limit")

	_, err = c.CreatePage(ctx, &notionapi.PageCreateRequest{})
	assert.ErrorContains(t, err, "notion: rate limit")

	_, err = c.UpdatePage(ctx, "page-1", &notionapi.PageUpdateRequest{})
	assert.ErrorContains(t, err, "notion: rate limit")
}

func TestThrottled_WrapsError(t *testing.T) {
	c := &notionClient{}
	_, err := throttled(context.Background(), c, "update page p1", func() (*notionapi.Page, error) {
		return nil, assert.AnError
	})
	assert.ErrorContains(t, err, "notion: update page p1")

	page, err := throttled(context.Background(), c, "create page", func() (*notionapi.Page, error) {
		return &notionapi.Page{ID: "p2"}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, notionapi.ObjectID("p2"), page.ID)
}
