package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/api/validators"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// LoginRateLimitPolicy throttles one login form. AccountField names the
// form value identifying the account (email or store_id).
type LoginRateLimitPolicy struct {
	name         string
	accountField string
	window       time.Duration
	ipLimit      int
	accountLimit int
}

func NewLoginRateLimitPolicy(name, accountField string, window time.Duration, ipLimit, accountLimit int) LoginRateLimitPolicy {
	return LoginRateLimitPolicy{
		name:         strings.ToLower(strings.TrimSpace(name)),
		accountField: accountField,
		window:       window,
		ipLimit:      ipLimit,
		accountLimit: accountLimit,
	}
}

func (p LoginRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.accountLimit > 0)
}

func (p LoginRateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "login"
	}
	return p.name
}

func (p LoginRateLimitPolicy) ipScope(ip string) string {
	if ip == "" {
		return ""
	}
	return fmt.Sprintf("ip:%s:%s", p.normalizedName(), ip)
}

func (p LoginRateLimitPolicy) accountScope(hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf("account:%s:%s", p.normalizedName(), hash)
}

// LoginRateLimit counts login attempts per client IP and per account.
// Blocked attempts go back to the login page with a toast.
func LoginRateLimit(policy LoginRateLimitPolicy, store rateLimiterStore, pages *responses.Pages, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		loginPath := router.PagePath(pages.Portal(), router.PageLogin)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if policy.ipLimit > 0 {
				if scope := policy.ipScope(ip); scope != "" {
					allowed, count, err := store.FixedWindowAllow(ctx, scope, int64(policy.ipLimit), policy.window)
					if err != nil {
						logLimiterFailure(ctx, logg, err)
						pages.Redirect(w, r, loginPath, views.Failure(i18n.T(i18n.ErrorNetwork)))
						return
					}
					if !allowed {
						logBlocked(ctx, logg, policy, "ip", ip, "", count, policy.ipLimit)
						pages.Redirect(w, r, loginPath, views.Failure(i18n.T(i18n.AuthRateLimited)))
						return
					}
				}
			}

			if policy.accountLimit > 0 && policy.accountField != "" {
				if err := validators.ParseForm(r); err == nil {
					if account := normalizeAccount(r.PostForm.Get(policy.accountField)); account != "" {
						hash := hashValue(account)
						allowed, count, err := store.FixedWindowAllow(ctx, policy.accountScope(hash), int64(policy.accountLimit), policy.window)
						if err != nil {
							logLimiterFailure(ctx, logg, err)
							pages.Redirect(w, r, loginPath, views.Failure(i18n.T(i18n.ErrorNetwork)))
							return
						}
						if !allowed {
							logBlocked(ctx, logg, policy, "account", "", hash, count, policy.accountLimit)
							pages.Redirect(w, r, loginPath, views.Failure(i18n.T(i18n.AuthRateLimited)))
							return
						}
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func logLimiterFailure(ctx context.Context, logg *logger.Logger, err error) {
	if logg != nil {
		logg.Error(ctx, "auth.rate_limit.unavailable", err)
	}
}

func logBlocked(ctx context.Context, logg *logger.Logger, policy LoginRateLimitPolicy, scope, ip, accountHash string, count int64, limit int) {
	if logg == nil {
		return
	}
	fields := map[string]any{
		"scope":          scope,
		"policy":         policy.normalizedName(),
		"attempts":       count,
		"limit":          limit,
		"window_seconds": int(policy.window.Seconds()),
	}
	if ip != "" {
		fields["ip"] = ip
	}
	if accountHash != "" {
		fields["account_hash"] = accountHash
	}
	logg.Warn(logg.WithFields(ctx, fields), "auth.rate_limit.blocked")
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func normalizeAccount(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
