// File: internal/middleware/visitor.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"account_portal/internal/common"
	"account_portal/internal/config"
	"account_portal/internal/platform/metrics"
	"account_portal/internal/visitor"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// visitorCookie is what the browser carries. The CSRF token travels with the
// id so a visitor whose record is not stored yet can still submit forms.
type visitorCookie struct {
	ID        string
	CSRFToken string
}

// VisitorSessions binds each browser to a visitor record through a signed cookie.
// Records are written only when a screen saves them; page views alone store nothing.
type VisitorSessions struct {
	store      visitor.Store
	codec      *securecookie.SecureCookie
	cookieName string
	secure     bool
	maxAge     int
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewVisitorSessions builds the cookie codec from SESSION_HASH_KEY and the
// optional SESSION_BLOCK_KEY.
func NewVisitorSessions(store visitor.Store, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *VisitorSessions {
	var blockKey []byte
	if cfg.SessionBlockKey != "" {
		blockKey = []byte(cfg.SessionBlockKey)
	}
	maxAge := int(cfg.SessionTTL.Seconds())
	codec := securecookie.New([]byte(cfg.SessionHashKey), blockKey)
	codec.MaxAge(maxAge)

	return &VisitorSessions{
		store:      store,
		codec:      codec,
		cookieName: cfg.SessionCookieName,
		secure:     cfg.SessionCookieSecure,
		maxAge:     maxAge,
		metrics:    m,
		logger:     logger.Named("visitor"),
	}
}

// Middleware loads (or starts) the visitor and refreshes its cookie.
func (vs *VisitorSessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, result, err := vs.load(c)
		if err != nil {
			vs.logger.Error("Failed to load visitor session", zap.Error(err))
			_ = c.Error(common.ErrServiceUnavailable.WithDetails("Visitor session unavailable."))
			c.Abort()
			return
		}
		if vs.metrics != nil {
			vs.metrics.VisitorSessions.WithLabelValues(result).Inc()
		}

		if err := vs.writeCookie(c, v); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(common.VisitorKey, v)
		c.Next()
	}
}

// Save persists v; screens call it after changing navigation state.
func (vs *VisitorSessions) Save(ctx context.Context, v *visitor.Visitor) error {
	return vs.store.Save(ctx, v)
}

// Rotate deletes the request's visitor record and binds the browser to a new,
// not yet stored visitor.
func (vs *VisitorSessions) Rotate(c *gin.Context) (*visitor.Visitor, error) {
	if old := VisitorFromContext(c); old != nil {
		if err := vs.store.Delete(c.Request.Context(), old.ID); err != nil {
			return nil, fmt.Errorf("delete visitor %s: %w", old.ID, err)
		}
	}
	v, err := visitor.New()
	if err != nil {
		return nil, err
	}
	if err := vs.writeCookie(c, v); err != nil {
		return nil, err
	}
	c.Set(common.VisitorKey, v)
	return v, nil
}

func (vs *VisitorSessions) writeCookie(c *gin.Context, v *visitor.Visitor) error {
	encoded, err := vs.codec.Encode(vs.cookieName, visitorCookie{ID: v.ID, CSRFToken: v.CSRFToken})
	if err != nil {
		return fmt.Errorf("encode visitor cookie: %w", err)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(vs.cookieName, encoded, vs.maxAge, "/", "", vs.secure, true)
	return nil
}

// load reports how the visitor was found: "resumed" from the store,
// "restored" from a cookie whose record was never stored, or "created".
func (vs *VisitorSessions) load(c *gin.Context) (*visitor.Visitor, string, error) {
	if raw, err := c.Cookie(vs.cookieName); err == nil {
		var ck visitorCookie
		if err := vs.codec.Decode(vs.cookieName, raw, &ck); err != nil || ck.ID == "" || ck.CSRFToken == "" {
			vs.logger.Debug("Discarding invalid visitor cookie", zap.Error(err))
		} else {
			v, err := vs.store.Get(c.Request.Context(), ck.ID)
			switch {
			case err == nil:
				return v, "resumed", nil
			case errors.Is(err, visitor.ErrNotFound):
				return visitor.Resume(ck.ID, ck.CSRFToken), "restored", nil
			default:
				return nil, "", err
			}
		}
	}

	v, err := visitor.New()
	if err != nil {
		return nil, "", err
	}
	return v, "created", nil
}

// VisitorFromContext returns the visitor loaded for this request, or nil.
func VisitorFromContext(c *gin.Context) *visitor.Visitor {
	val, exists := c.Get(common.VisitorKey)
	if !exists {
		return nil
	}
	v, ok := val.(*visitor.Visitor)
	if !ok {
		return nil
	}
	return v
}
