// Package ratelimit provides rate limiting middleware for authentication endpoints
package ratelimit

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/openagora/agora/internal/pkg/log"
)

// EndpointLimits defines rate limiting configuration for specific endpoints
type EndpointLimits struct {
	// Login attempts: 5 per 15 minutes per IP
	LoginMaxRequests    int
	LoginWindowDuration time.Duration

	// Signup: 10 per hour per IP
	SignupMaxRequests    int
	SignupWindowDuration time.Duration
}

// DefaultEndpointLimits returns the default rate limits
func DefaultEndpointLimits() EndpointLimits {
	return EndpointLimits{
		LoginMaxRequests:    5,
		LoginWindowDuration: 15 * time.Minute,

		SignupMaxRequests:    10,
		SignupWindowDuration: 1 * time.Hour,
	}
}

// EndpointType represents different authentication endpoints for rate limiting
type EndpointType int

const (
	EndpointLogin EndpointType = iota
	EndpointSignup
)

// Config holds the configuration for rate limiting middleware
type Config struct {
	// Endpoint type to determine which limits to apply
	EndpointType EndpointType

	// Custom limits (optional, uses defaults if not provided)
	Limits *EndpointLimits

	// Next defines a function to skip this middleware when returned true
	Next func(c *fiber.Ctx) bool

	// Custom key generator (optional, uses default IP-based if not provided)
	KeyGenerator func(c *fiber.Ctx) string

	// LimitReached defines the response when rate limit is exceeded
	LimitReached func(c *fiber.Ctx) error
}

func configDefault(config Config) Config {
	if config.Limits == nil {
		limits := DefaultEndpointLimits()
		config.Limits = &limits
	}

	// Rate limit by IP + endpoint path
	if config.KeyGenerator == nil {
		config.KeyGenerator = func(c *fiber.Ctx) string {
			return c.IP() + ":" + c.Path()
		}
	}

	if config.LimitReached == nil {
		config.LimitReached = func(c *fiber.Ctx) error {
			endpointName := getEndpointName(config.EndpointType)
			windowDuration := getWindowDuration(config.EndpointType, config.Limits)

			log.Warn("[RateLimit] Rate limit exceeded for %s from IP: %s", endpointName, c.IP())

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":      "Rate limit exceeded",
				"code":       "RATE_LIMIT_EXCEEDED",
				"message":    fmt.Sprintf("Too many %s attempts. Please try again later.", endpointName),
				"retryAfter": int(windowDuration.Seconds()),
			})
		}
	}

	return config
}

func getEndpointName(endpointType EndpointType) string {
	switch endpointType {
	case EndpointLogin:
		return "login"
	case EndpointSignup:
		return "signup"
	default:
		return "unknown"
	}
}

func getMaxRequests(endpointType EndpointType, limits *EndpointLimits) int {
	switch endpointType {
	case EndpointLogin:
		return limits.LoginMaxRequests
	case EndpointSignup:
		return limits.SignupMaxRequests
	default:
		return 5
	}
}

func getWindowDuration(endpointType EndpointType, limits *EndpointLimits) time.Duration {
	switch endpointType {
	case EndpointLogin:
		return limits.LoginWindowDuration
	case EndpointSignup:
		return limits.SignupWindowDuration
	default:
		return 15 * time.Minute
	}
}

// New creates a new rate limiting middleware handler
func New(config Config) fiber.Handler {
	cfg := configDefault(config)

	maxRequests := getMaxRequests(cfg.EndpointType, cfg.Limits)
	windowDuration := getWindowDuration(cfg.EndpointType, cfg.Limits)

	limiterConfig := limiter.Config{
		Max:          maxRequests,
		Expiration:   windowDuration,
		KeyGenerator: cfg.KeyGenerator,
		LimitReached: cfg.LimitReached,
		Next:         cfg.Next,
	}

	return limiter.New(limiterConfig)
}

// NewLoginLimiter creates a rate limiter specifically for login endpoints
func NewLoginLimiter(customLimits *EndpointLimits) fiber.Handler {
	return New(Config{
		EndpointType: EndpointLogin,
		Limits:       customLimits,
	})
}

// NewSignupLimiter creates a rate limiter specifically for signup endpoints
func NewSignupLimiter(customLimits *EndpointLimits) fiber.Handler {
	return New(Config{
		EndpointType: EndpointSignup,
		Limits:       customLimits,
	})
}
