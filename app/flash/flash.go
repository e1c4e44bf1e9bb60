// Package flash carries one-shot messages across a redirect in a signed
// cookie.
package flash

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/sha3"
)

// CookieName is the cookie holding the pending message.
const CookieName = "simplefeed_flash"

var ErrBadCookie = errors.New("flash: malformed or tampered cookie")

// Message is shown once on the next rendered page.
type Message struct {
	Notice string   `json:"notice,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// Empty reports whether there is nothing to show.
func (m Message) Empty() bool {
	return m.Notice == "" && len(m.Errors) == 0
}

// Store signs and verifies flash cookies.
type Store struct {
	secret []byte
}

// NewStore returns a store signing with secret. An empty secret is replaced
// by a random one, so cookies do not survive a restart.
func NewStore(secret string) (*Store, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}
	return &Store{secret: key}, nil
}

func (s *Store) sign(payload []byte) []byte {
	mac := hmac.New(sha3.New256, s.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

func (s *Store) encode(m Message) (string, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(payload) + "." + enc.EncodeToString(s.sign(payload)), nil
}

func (s *Store) decode(value string) (Message, error) {
	var m Message
	data, sig, ok := strings.Cut(value, ".")
	if !ok {
		return m, ErrBadCookie
	}
	enc := base64.RawURLEncoding
	payload, err := enc.DecodeString(data)
	if err != nil {
		return m, ErrBadCookie
	}
	mac, err := enc.DecodeString(sig)
	if err != nil || !hmac.Equal(mac, s.sign(payload)) {
		return m, ErrBadCookie
	}
	if err := json.Unmarshal(payload, &m); err != nil {
		return m, ErrBadCookie
	}
	return m, nil
}

// Set stores m for the next request.
func (s *Store) Set(w http.ResponseWriter, m Message) error {
	value, err := s.encode(m)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the pending message and expires the cookie. Tampered or
// malformed cookies are dropped and reported as no message.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) (Message, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Message{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	m, err := s.decode(c.Value)
	if err != nil || m.Empty() {
		return Message{}, false
	}
	return m, true
}
