package middleware

import (
	"net/http"
	"sync"
	"time"

	"saborpos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// limiter is a fixed-window per-IP counter. Windows reset lazily on the next
// request; a background purge drops IPs whose window already expired so the
// map does not grow with one-off clients.
type limiter struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	ventanas map[string]*ventana
}

type ventana struct {
	count int
	hasta time.Time
}

var (
	limitersMu sync.Mutex
	limiters   []*limiter
)

func newLimiter(limit int, window time.Duration) *limiter {
	l := &limiter{limit: limit, window: window, ventanas: make(map[string]*ventana)}
	limitersMu.Lock()
	limiters = append(limiters, l)
	limitersMu.Unlock()
	return l
}

// permitir counts one request for ip and reports whether it stays under the
// limit, plus the instant the current window closes.
func (l *limiter) permitir(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	v, ok := l.ventanas[ip]
	if !ok || now.After(v.hasta) {
		v = &ventana{hasta: now.Add(l.window)}
		l.ventanas[ip] = v
	}
	v.count++
	return v.count <= l.limit, v.hasta
}

func (l *limiter) purgar(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	purged := 0
	for ip, v := range l.ventanas {
		if now.After(v.hasta) {
			delete(l.ventanas, ip)
			purged++
		}
	}
	return purged
}

// LoginRateLimiter caps login attempts at 20 per minute per IP, blunting
// credential stuffing without locking out a shared-NAT shop floor.
func LoginRateLimiter() gin.HandlerFunc {
	l := newLimiter(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.permitir(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter is the general per-IP limiter applied to the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newLimiter(limit, window)
	return func(c *gin.Context) {
		ok, hasta := l.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", hasta.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

const purgeInterval = 5 * time.Minute

func init() {
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			total := 0
			limitersMu.Lock()
			for _, l := range limiters {
				total += l.purgar(now)
			}
			limitersMu.Unlock()
			if total > 0 {
				log.Debug().Int("entries_purged", total).Msg("rate limiter maps purged")
			}
		}
	}()
}
