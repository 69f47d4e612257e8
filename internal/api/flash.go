package api

// Flash messages survive exactly one redirect. They are kept in a signed
// cookie session, keyed by category.

import (
	"log"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const sessionName = "rks_session"

var flashCategories = []string{"error", "info"}

type flashMessage struct {
	Category string
	Message  string
}

func newSessionStore(secret string) *sessions.CookieStore {
	key := []byte(secret)
	if len(key) == 0 {
		log.Println("SECRET_KEY not set, flash messages are signed with a random per-process key")
		key = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (s *Server) addFlash(w http.ResponseWriter, r *http.Request, category, message string) {
	// A cookie signed with an old key yields a fresh session and an error; the
	// fresh session is still usable.
	session, _ := s.sessions.Get(r, sessionName)
	session.AddFlash(message, category)
	if err := session.Save(r, w); err != nil {
		log.Printf("Failed to save flash message: %v", err)
	}
}

// popFlashes returns and clears all pending flash messages.
func (s *Server) popFlashes(w http.ResponseWriter, r *http.Request) []flashMessage {
	session, err := s.sessions.Get(r, sessionName)
	if err != nil && session == nil {
		return nil
	}

	var flashes []flashMessage
	for _, category := range flashCategories {
		for _, v := range session.Flashes(category) {
			if msg, ok := v.(string); ok {
				flashes = append(flashes, flashMessage{Category: category, Message: msg})
			}
		}
	}
	if len(flashes) > 0 {
		if err := session.Save(r, w); err != nil {
			log.Printf("Failed to clear flash messages: %v", err)
		}
	}
	return flashes
}
