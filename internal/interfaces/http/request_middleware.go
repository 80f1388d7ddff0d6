package http

import (
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

// RequestLogger registra una línea por petición con la ruta, el status, la latencia y la
// sesión (si la hubo). Los 5xx salen en Error con la causa; los 4xx en Warn.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		if cause, ok := c.Locals(LocalError).(error); ok {
			ev = ev.Err(cause)
		} else if err != nil {
			ev = ev.Err(err)
		}
		ev.Str("method", c.Method()).
			Str("route", c.Route().Path).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Str("company_id", GetCompanyID(c)).
			Msg("http")
		return err
	}
}

// LoginRateLimit limita los intentos de login por IP con un token bucket.
func LoginRateLimit(perMinute, burst int) fiber.Handler {
	l := newIPLimiter(rate.Limit(float64(perMinute)/60), burst, 10*time.Minute)
	return func(c *fiber.Ctx) error {
		if !l.allow(clientIP(c), time.Now()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:  "RATE_LIMITED",
				Error: "demasiados intentos, espere un momento",
			})
		}
		return c.Next()
	}
}

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

type ipLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*ipBucket
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastPrune time.Time
}

func newIPLimiter(limit rate.Limit, burst int, ttl time.Duration) *ipLimiter {
	return &ipLimiter{buckets: make(map[string]*ipBucket), limit: limit, burst: burst, ttl: ttl}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastPrune) > l.ttl {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastPrune = now
	}
	b, ok := l.buckets[ip]
	if !ok {
		b = &ipBucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// clientIP usa c.IP(): el header de proxy solo cuenta si el par es un proxy de
// confianza (ver WithTrustedProxies); si no, es la IP de la conexión.
func clientIP(c *fiber.Ctx) string {
	if ip := net.ParseIP(c.IP()); ip != nil {
		return ip.String()
	}
	return "unknown"
}

// WithTrustedProxies configura la app para leer la IP del cliente desde header solo
// cuando la conexión viene de uno de los proxies indicados (IPs o CIDR). Sin proxies
// la IP es siempre la del par TCP.
func WithTrustedProxies(cfg fiber.Config, proxies []string, header string) fiber.Config {
	trusted := make([]string, 0, len(proxies))
	for _, p := range proxies {
		if p = strings.TrimSpace(p); p != "" {
			trusted = append(trusted, p)
		}
	}
	if len(trusted) == 0 {
		cfg.ProxyHeader = ""
		return cfg
	}
	if header == "" {
		header = fiber.HeaderXForwardedFor
	}
	cfg.EnableTrustedProxyCheck = true
	cfg.TrustedProxies = trusted
	cfg.ProxyHeader = header
	cfg.EnableIPValidation = true
	return cfg
}
