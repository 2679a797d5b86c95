package casdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/RxPortal-2025/member-portal/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

type IdentityCasdoor struct {
	client *casdoorsdk.Client
	oauth  *oauth2.Config
	redis  *redis.Client
	config CasdoorConfig

	// Cache settings
	cachePrefix string
	cacheTTL    time.Duration
}

func NewIdentityCasdoor(config CasdoorConfig, redisClient *redis.Client) repositories.IdentityProvider {
	// Initialize Casdoor client
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: config.Endpoint + "/api/login/oauth/access_token",
		},
	}

	return &IdentityCasdoor{
		client:      client,
		oauth:       oauthConfig,
		redis:       redisClient,
		config:      config,
		cachePrefix: "identity:",
		cacheTTL:    5 * time.Minute,
	}
}

// ===== CACHE METHODS =====

func (i *IdentityCasdoor) getCacheKey(key string) string {
	return fmt.Sprintf("%s%s", i.cachePrefix, key)
}

func (i *IdentityCasdoor) getIdentityFromCache(ctx context.Context, key string) (*repositories.Identity, error) {
	if i.redis == nil {
		return nil, nil // Cache not available
	}

	cacheKey := i.getCacheKey(key)
	data, err := i.redis.Get(ctx, cacheKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not found in cache
		}
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var identity repositories.Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached identity: %w", err)
	}

	return &identity, nil
}

func (i *IdentityCasdoor) setIdentityCache(ctx context.Context, key string, identity *repositories.Identity) error {
	if i.redis == nil {
		return nil // Cache not available
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity for cache: %w", err)
	}

	cacheKey := i.getCacheKey(key)
	return i.redis.Set(ctx, cacheKey, data, i.cacheTTL).Err()
}

// ===== CONVERSION METHODS =====

func (i *IdentityCasdoor) convertClaimsToIdentity(claims *casdoorsdk.Claims, accessToken string) *repositories.Identity {
	if claims == nil {
		return nil
	}

	return &repositories.Identity{
		ID:          claims.User.Id,
		Email:       claims.User.Email,
		DisplayName: claims.User.DisplayName,
		AccessToken: accessToken,
	}
}

// ===== IDENTITY OPERATIONS =====

// SignIn exchanges email and password for a verified identity via the
// resource-owner password grant, then validates the issued token locally.
func (i *IdentityCasdoor) SignIn(ctx context.Context, email, password string) (*repositories.Identity, error) {
	token, err := i.oauth.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("credential exchange failed: %w", err)
	}

	claims, err := i.client.ParseJwtToken(token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to parse issued token: %w", err)
	}

	identity := i.convertClaimsToIdentity(claims, token.AccessToken)
	if identity == nil {
		return nil, fmt.Errorf("token carried no identity claims")
	}

	i.setIdentityCache(ctx, fmt.Sprintf("token:%s", token.AccessToken), identity)

	return identity, nil
}

// SignOut drops the cached identity for the token. Casdoor JWTs are
// self-contained and expire on their own; there is no provider-side
// session to revoke.
func (i *IdentityCasdoor) SignOut(ctx context.Context, accessToken string) error {
	if i.redis == nil {
		return nil
	}

	cacheKey := i.getCacheKey(fmt.Sprintf("token:%s", accessToken))
	if err := i.redis.Del(ctx, cacheKey).Err(); err != nil {
		return fmt.Errorf("failed to drop cached identity: %w", err)
	}
	return nil
}

// ParseToken validates a bearer token and returns the identity it asserts.
func (i *IdentityCasdoor) ParseToken(ctx context.Context, accessToken string) (*repositories.Identity, error) {
	// Try cache first
	cacheKey := fmt.Sprintf("token:%s", accessToken)
	if cached, err := i.getIdentityFromCache(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	claims, err := i.client.ParseJwtToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	identity := i.convertClaimsToIdentity(claims, accessToken)
	if identity == nil {
		return nil, fmt.Errorf("token carried no identity claims")
	}

	// Cache the result
	i.setIdentityCache(ctx, cacheKey, identity)

	return identity, nil
}
