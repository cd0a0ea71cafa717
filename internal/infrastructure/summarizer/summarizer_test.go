package summarizer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeProvider struct {
	text   string
	chunks []string
	err    error
	delay  time.Duration
	calls  int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) wait(ctx context.Context) error {
	if f.delay == 0 {
		return nil
	}
	select {
	case <-time.After(f.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeProvider) Complete(ctx context.Context, _ Prompt) (string, error) {
	f.calls++
	if err := f.wait(ctx); err != nil {
		return "", err
	}
	return f.text, f.err
}

func (f *fakeProvider) StreamText(ctx context.Context, _ Prompt, emit func(string) bool) error {
	f.calls++
	for _, c := range f.chunks {
		if err := f.wait(ctx); err != nil {
			return err
		}
		if !emit(c) {
			return nil
		}
	}
	return f.err
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *mapCache) GetSummary(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapCache) SetSummary(_ context.Context, key, summary string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = summary
	return nil
}

func collect(seq func(func(string, error) bool)) ([]string, error) {
	var chunks []string
	for chunk, err := range seq {
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func TestClient_Summarize(t *testing.T) {
	p := &fakeProvider{text: "  The investor pays $100,000.  "}
	c := NewClient(p, WithLogger(zaptest.NewLogger(t)))

	got, err := c.Summarize(context.Background(), DocumentPrompt("doc"))
	require.NoError(t, err)
	assert.Equal(t, "The investor pays $100,000.", got)
}

func TestClient_SummarizeErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		timeout  time.Duration
		want     error
	}{
		{"provider failure", &fakeProvider{err: errors.New("502 bad gateway")}, 0, ErrProviderFailed},
		{"empty reply", &fakeProvider{text: "   "}, 0, ErrEmptyResponse},
		{"timeout", &fakeProvider{text: "late", delay: time.Second}, 20 * time.Millisecond, ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.provider, WithTimeout(tt.timeout))
			_, err := c.Summarize(context.Background(), DocumentPrompt("doc"))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsSummarizeError(err))
		})
	}
}

func TestClient_ParentCancellationIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(&fakeProvider{text: "x", delay: time.Second})
	_, err := c.Summarize(ctx, DocumentPrompt("doc"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsSummarizeError(err))
}

func TestWithTimeout_ClampsToDefault(t *testing.T) {
	c := NewClient(&fakeProvider{}, WithTimeout(time.Minute))
	assert.Equal(t, DefaultTimeout, c.timeout)

	c = NewClient(&fakeProvider{}, WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, c.timeout)
}

func TestClient_SummarizeCache(t *testing.T) {
	p := &fakeProvider{text: "cached summary"}
	cache := &mapCache{data: map[string]string{}}
	c := NewClient(p, WithCache(cache, time.Hour))
	prompt := DocumentPrompt("same document")

	for range 3 {
		got, err := c.Summarize(context.Background(), prompt)
		require.NoError(t, err)
		assert.Equal(t, "cached summary", got)
	}
	assert.Equal(t, 1, p.calls)

	_, err := c.Summarize(context.Background(), DocumentPrompt("other document"))
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)
}

func TestClient_Stream(t *testing.T) {
	p := &fakeProvider{chunks: []string{"The ", "", "investor ", "pays."}}
	c := NewClient(p)

	chunks, err := collect(c.Stream(context.Background(), DocumentPrompt("doc")))
	require.NoError(t, err)
	assert.Equal(t, []string{"The ", "investor ", "pays."}, chunks)
}

func TestClient_StreamEarlyBreak(t *testing.T) {
	p := &fakeProvider{chunks: []string{"a", "b", "c"}}
	c := NewClient(p)

	var got []string
	for chunk, err := range c.Stream(context.Background(), DocumentPrompt("doc")) {
		require.NoError(t, err)
		got = append(got, chunk)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestClient_StreamErrors(t *testing.T) {
	t.Run("mid-stream failure", func(t *testing.T) {
		p := &fakeProvider{chunks: []string{"partial"}, err: errors.New("connection reset")}
		chunks, err := collect(NewClient(p).Stream(context.Background(), DocumentPrompt("doc")))
		assert.Equal(t, []string{"partial"}, chunks)
		assert.ErrorIs(t, err, ErrProviderFailed)
	})

	t.Run("no chunks", func(t *testing.T) {
		chunks, err := collect(NewClient(&fakeProvider{}).Stream(context.Background(), DocumentPrompt("doc")))
		assert.Empty(t, chunks)
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("timeout", func(t *testing.T) {
		p := &fakeProvider{chunks: []string{"a", "b"}, delay: time.Second}
		_, err := collect(NewClient(p, WithTimeout(20*time.Millisecond)).Stream(context.Background(), DocumentPrompt("doc")))
		assert.ErrorIs(t, err, ErrTimeout)
	})
}

func TestDisabled(t *testing.T) {
	var s Summarizer = Disabled{}

	_, err := s.Summarize(context.Background(), DocumentPrompt("doc"))
	assert.ErrorIs(t, err, ErrSummarizerDisabled)

	_, err = collect(s.Stream(context.Background(), DocumentPrompt("doc")))
	assert.ErrorIs(t, err, ErrSummarizerDisabled)
}

func TestNew(t *testing.T) {
	s, err := New(Config{Provider: "none"}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, Disabled{}, s)

	s, err = New(Config{Provider: "anthropic", ProviderConfig: ProviderConfig{APIKey: "k"}}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &Client{}, s)

	_, err = New(Config{Provider: "gemini"}, nil, nil)
	assert.Error(t, err)
}
