package graphql

import (
	"context"
	"encoding/json"
	"net/http"
)

// Context keys for resolver injection (avoids circular imports).
type contextKey string

const CtxKeyGame contextKey = "game"

// GameFromContext returns the game slug for the current request ("" = all games).
func GameFromContext(ctx context.Context) string {
	if v := ctx.Value(CtxKeyGame); v != nil {
		if g, ok := v.(string); ok {
			return g
		}
	}
	return ""
}

// WithGame attaches the game slug to context.
func WithGame(ctx context.Context, game string) context.Context {
	return context.WithValue(ctx, CtxKeyGame, game)
}

// Game scope for the current request.
// Resolved from: Game header > __Game query param > JSON variables.__Game
const (
	HeaderGame     = "Game"
	QueryParamGame = "__Game"
	VarGame        = "__Game"
)

// GetGame extracts the game slug from header or query param.
// The JSON body variant is handled in the route middleware where the body is read.
func GetGame(r *http.Request) string {
	if h := r.Header.Get(HeaderGame); h != "" {
		return h
	}
	if q := r.URL.Query().Get(QueryParamGame); q != "" {
		return q
	}
	return ""
}

// ParseGameFromVariables parses variables from the JSON body for __Game.
func ParseGameFromVariables(body []byte) (string, bool) {
	var payload struct {
		Variables map[string]interface{} `json:"variables"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Variables == nil {
		return "", false
	}
	if v, ok := payload.Variables[VarGame]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}
