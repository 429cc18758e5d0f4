package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// LoginRateLimit limita tentativas de login por IP: no máximo maxAttempts
// dentro da janela, depois 429
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	var (
		mu    sync.Mutex
		store = make(map[string][]time.Time)
	)

	// prune descarta registros fora da janela; chamado com mu travado
	prune := func(ts []time.Time, cutoff time.Time) []time.Time {
		kept := ts[:0]
		for _, t := range ts {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		return kept
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()
		cutoff := now.Add(-window)

		mu.Lock()
		// varredura completa ocasional para IPs que não voltaram
		if len(store) > 1024 {
			for k, ts := range store {
				if ts = prune(ts, cutoff); len(ts) == 0 {
					delete(store, k)
				} else {
					store[k] = ts
				}
			}
		}
		ts := prune(store[ip], cutoff)
		if len(ts) >= maxAttempts {
			store[ip] = ts
			mu.Unlock()
			abortWithError(c, http.StatusTooManyRequests, "muitas tentativas de login, tente novamente em instantes")
			return
		}
		store[ip] = append(ts, now)
		mu.Unlock()
		c.Next()
	}
}
