// Package flash carries one-shot user messages across a redirect in a
// short-lived cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const cookieName = "farm_flash"

// Message categories, used as CSS classes by the templates.
const (
	Success = "success"
	Info    = "info"
	Danger  = "danger"
)

// Message is a single flash entry.
type Message struct {
	Kind string `json:"k"`
	Text string `json:"t"`
}

const pendingKey = "flash.pending"

// Add queues a message for the next rendered page.  Messages added during
// the same request accumulate.
func Add(c echo.Context, kind, text string) {
	pending, _ := c.Get(pendingKey).([]Message)
	pending = append(pending, Message{Kind: kind, Text: text})
	c.Set(pendingKey, pending)

	b, err := json.Marshal(pending)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// Pop returns the messages queued by the previous request (or earlier in
// this one) and clears the cookie.
func Pop(c echo.Context) []Message {
	var out []Message
	seen := false
	if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
		seen = true
		if b, err := base64.RawURLEncoding.DecodeString(ck.Value); err == nil {
			_ = json.Unmarshal(b, &out)
		}
	}
	if pending, ok := c.Get(pendingKey).([]Message); ok && len(pending) > 0 {
		seen = true
		out = append(out, pending...)
		c.Set(pendingKey, nil)
	}
	if seen {
		c.SetCookie(&http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
		})
	}
	return out
}
