package auth

import "sync"

// Session holds the in-flight code verifier and the access token for one
// logical user session.
//
// Both slots are in-memory only: tokens are short-lived bearer credentials
// and are never persisted, so expiry requires a full re-authorization. The
// verifier survives across the redirect-and-return cycle of a single
// authorization attempt and is cleared after its one use. A second
// authorization attempt overwrites the stored verifier, leaving only the
// most recent one valid.
type Session struct {
	mu       sync.Mutex
	verifier string
	token    string
}

// NewSession creates an empty Session. Construct one at application start
// and pass it by reference to the flow and committer.
func NewSession() *Session {
	return &Session{}
}

// SaveVerifier stores the verifier for the in-flight authorization attempt,
// replacing any previous one.
func (s *Session) SaveVerifier(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifier = v
}

// LoadVerifier returns the stored verifier, reporting whether one is present.
func (s *Session) LoadVerifier() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifier, s.verifier != ""
}

// ClearVerifier discards the stored verifier after its single use.
func (s *Session) ClearVerifier() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifier = ""
}

// SetToken stores the access token for the remainder of the session.
// At most one token is held at a time.
func (s *Session) SetToken(t string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = t
}

// Token returns the held access token, reporting whether one is present.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}
