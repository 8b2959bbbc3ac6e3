package anubis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/user"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/logging"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-survivor/internal/usecase"
)

var errAnubisTransient = crerr.New("anubis transient failure")

// CircuitBreakerConfig tunes the introspection circuit breaker.
type CircuitBreakerConfig = resilience.CircuitBreakerConfig

const (
	principalCacheTTL        = 30 * time.Second
	principalCacheMaxEntries = 10000
)

// Client verifies access tokens against the anubis account service. Verified
// principals are cached briefly so a burst of requests from one user costs a
// single introspection call.
type Client struct {
	httpClient     *http.Client
	introspectURL  string
	adminKey       string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	cache          *inMemoryPrincipalCache
}

func NewClient(httpClient *http.Client, baseURL, introspectPath, adminKey string, circuitCfg CircuitBreakerConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(circuitCfg)

	return &Client{
		httpClient:     httpClient,
		introspectURL:  buildURL(baseURL, introspectPath),
		adminKey:       strings.TrimSpace(adminKey),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		cache:          newInMemoryPrincipalCache(principalCacheTTL, principalCacheMaxEntries),
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.Get(cacheKey); ok {
		return principal, nil
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "anubis circuit breaker rejected request", "state", c.breaker.State())
			return user.Principal{}, fmt.Errorf("%w: anubis is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordCircuitResult(fmt.Errorf("%w: request introspection: %v", errAnubisTransient, err))
		return user.Principal{}, fmt.Errorf("%w: request introspection to anubis: %v", usecase.ErrDependencyUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.recordCircuitResult(fmt.Errorf("%w: read introspect response: %v", errAnubisTransient, err))
		return user.Principal{}, fmt.Errorf("%w: read introspect response: %v", usecase.ErrDependencyUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.recordCircuitResult(nil)
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		c.recordCircuitResult(nil)
		c.logger.WarnContext(ctx, "anubis rejected admin key")
		return user.Principal{}, fmt.Errorf("%w: anubis rejected the admin key", usecase.ErrDependencyUnavailable)
	case isRetryableStatus(resp.StatusCode):
		c.recordCircuitResult(fmt.Errorf("%w: introspection status=%d", errAnubisTransient, resp.StatusCode))
		c.logger.WarnContext(ctx, "anubis introspection transient failure", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: anubis introspection failed with status %d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		c.recordCircuitResult(nil)
		c.logger.WarnContext(ctx, "anubis introspection non-200", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("anubis introspection failed with status %d", resp.StatusCode)
	}

	c.recordCircuitResult(nil)

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, crerr.Wrap(err, "unmarshal introspect response")
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	principal := user.Principal{
		UserID:      decoded.UserID,
		DisplayName: decoded.DisplayName,
		Role:        decoded.Role,
	}
	c.cache.Set(cacheKey, principal)

	return principal, nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if isCircuitFailure(err) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active      bool   `json:"active"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}
