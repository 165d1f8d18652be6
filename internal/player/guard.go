package player

import "github.com/google/uuid"

// Token identifies one asynchronous attempt. The zero Token never matches.
type Token uuid.UUID

// String returns the canonical form of the token.
func (t Token) String() string {
	return uuid.UUID(t).String()
}

// IsZero reports whether the token is the zero token.
func (t Token) IsZero() bool {
	return t == Token{}
}

// Guard owns the single live generation token.
type Guard struct {
	current Token
}

// Issue replaces the current token with a fresh one and returns it.
// Continuations holding the previous token become stale.
func (g *Guard) Issue() Token {
	g.current = Token(uuid.New())
	return g.current
}

// Invalidate clears the current token so that no continuation matches.
func (g *Guard) Invalidate() {
	g.current = Token{}
}

// Valid reports whether t is the live token.
func (g *Guard) Valid(t Token) bool {
	return !t.IsZero() && t == g.current
}

// Current returns the live token, or the zero token.
func (g *Guard) Current() Token {
	return g.current
}
