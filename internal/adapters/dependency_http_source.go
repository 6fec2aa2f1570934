package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"linkie-web/internal/ports"
	"linkie-web/internal/shared"
	"linkie-web/internal/types"
)

// maxDependencyBundleBytes caps a fetched bundle.
const maxDependencyBundleBytes = 32 << 20

// DependencyHTTPSource fetches a dependency bundle (yaml or json) from a
// remote endpoint. Failed refreshes keep the previous snapshot.
type DependencyHTTPSource struct {
	URL     string
	retry   httpRetryConfig
	maxBody int64

	mu         sync.RWMutex
	components []types.DependencyComponent
	loaded     bool
}

func NewDependencyHTTPSource(url string, timeoutSec int, retries int, retryDelayMs int) *DependencyHTTPSource {
	return &DependencyHTTPSource{
		URL:     strings.TrimSpace(url),
		retry:   normalizeHTTPConfig(timeoutSec, retries, retryDelayMs),
		maxBody: maxDependencyBundleBytes,
	}
}

func (s *DependencyHTTPSource) Components(ctx context.Context) ([]types.DependencyComponent, error) {
	s.mu.RLock()
	if s.loaded {
		components := s.components
		s.mu.RUnlock()
		return components, nil
	}
	s.mu.RUnlock()
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.components, nil
}

func (s *DependencyHTTPSource) Refresh(ctx context.Context) error {
	body, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	var bundle types.DependencyBundle
	if err := yaml.Unmarshal(body, &bundle); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse dependency bundle").
			WithCause(err)
	}
	components := make([]types.DependencyComponent, 0, len(bundle.Components))
	index := map[string]int{}
	for i, file := range bundle.Components {
		name := strings.TrimSpace(file.Component)
		if name == "" {
			name = fmt.Sprintf("component-%d", i)
		}
		idx, ok := index[name]
		if !ok {
			idx = len(components)
			index[name] = idx
			components = append(components, types.DependencyComponent{Name: name})
		}
		components[idx].Records = append(components[idx].Records, RecordsFromFile(name, file)...)
	}

	s.mu.Lock()
	s.components = components
	s.loaded = true
	s.mu.Unlock()
	log.Ctx(ctx).Info().Str("url", s.URL).Int("components", len(components)).Msg("dependency records fetched")
	return nil
}

func (s *DependencyHTTPSource) fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < s.retry.retries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		body, retryable, err := s.fetchOnce(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable || attempt == s.retry.retries-1 {
			return nil, err
		}
		log.Ctx(ctx).Debug().Err(err).Int("attempt", attempt+1).Msg("retrying dependency fetch")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.retry.delay(attempt)):
		}
	}
	if lastErr == nil {
		lastErr = errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("dependency fetch failed")
	}
	return nil, lastErr
}

func (s *DependencyHTTPSource) fetchOnce(ctx context.Context) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid dependency url").
			WithCause(err)
	}
	req.Header.Set("Accept", "application/json, application/yaml")
	client := &http.Client{Timeout: s.retry.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("dependency fetch failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody+1))
	if err != nil {
		return nil, true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read dependency response").
			WithCause(err)
	}
	if int64(len(body)) > s.maxBody {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("dependency bundle exceeds %d bytes", s.maxBody))
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, false, nil
	}
	retry := resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
	return nil, retry, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("dependency fetch failed").
		WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, s.URL, string(body)))
}

var (
	_ ports.DependencyRecordSourcePort = (*DependencyHTTPSource)(nil)
	_ ports.DependencyRefresherPort    = (*DependencyHTTPSource)(nil)
)
