// Package auth is the core of an authentication and authorization library
// for server-side request pipelines: JWT issuance and verification with
// key rotation and optional payload encryption, a two-token session model
// with a durable revocation blocklist, fixed-window rate limiting over a
// local cache or a distributed store, single-use one-time passwords, and
// the middleware guards that compose it all per request.
//
// # Package Organization
//
// Core components:
//
//	github.com/zanix-io/auth/core/handler          - Context/Response/Middleware contracts for the host framework
//	github.com/zanix-io/auth/core/response         - HTTP error model and response constructors
//	github.com/zanix-io/auth/core/cache            - cache contract, in-process store, Redis store
//	github.com/zanix-io/auth/core/kv               - durable key-value tier (Postgres, in-memory)
//	github.com/zanix-io/auth/core/keyring          - signing-key registry with time-based rotation
//	github.com/zanix-io/auth/core/session          - session model, token builders, refresh and revocation
//	github.com/zanix-io/auth/core/sessiontransport - response headers/cookies, bearer extraction
//	github.com/zanix-io/auth/core/blocklist        - revoked-token blocklist across storage tiers
//	github.com/zanix-io/auth/core/otp              - single-use numeric codes with TTL
//
// Middleware guards:
//
//	github.com/zanix-io/auth/middleware - Auth, RateLimit, SessionHeaders, RequirePermissions
//
// Utilities:
//
//	github.com/zanix-io/auth/pkg/jwt         - token codec (HS256/384/512, RS256/384/512, encrypted secureData)
//	github.com/zanix-io/auth/pkg/scopes      - any-of permission validation with wildcard
//	github.com/zanix-io/auth/pkg/ratelimiter - fixed-window counting with failed-attempt accounting
//	github.com/zanix-io/auth/pkg/clientip    - client IP resolution from proxy headers
//	github.com/zanix-io/auth/pkg/ttl         - compact TTL string parsing
//	github.com/zanix-io/auth/pkg/async       - concurrent fan-out helpers
//
// Integrations:
//
//	github.com/zanix-io/auth/integration/database/redis - Redis client bootstrap
//	github.com/zanix-io/auth/integration/database/pg    - PostgreSQL pool bootstrap
//	github.com/zanix-io/auth/integration/oauth2         - OAuth2 user-info exchange, Google preset
//
// # Minimal Setup
//
//	store := cache.NewLocal()
//
//	guard := middleware.Auth[*handler.Ctx](middleware.AuthConfig{
//		Cache:     store,
//		RateLimit: true,
//	})
//	headers := middleware.SessionHeaders[*handler.Ctx]()
//
//	// Register headers(guard(yourHandler)) with the host framework.
//
// Signing keys come from the environment: JWT_KEY (or JWT_KEY_V1..Vn with
// JWK_ROTATION_CYCLE) for user tokens, base64-encoded JWK_PRI/JWK_PUB for
// api tokens. REDIS_URI configures integration/database/redis; components
// move onto the distributed tier when handed the cache.NewRedis store built
// from that client. The variable alone changes no storage choice.
package auth
