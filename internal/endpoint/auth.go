package endpoint

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BasicAuth is a http.Handler wrapper that handles Basic Authorization.
// It supports only one pair of username and password.
type BasicAuth struct {
	Handler            http.Handler
	Username, Password string
}

// WithBasicAuth wraps http.Handler with a BasicAuth.
// The userinfo is "username:password" format. It returns handler as is if userinfo is empty.
func WithBasicAuth(handler http.Handler, userinfo string) http.Handler {
	if userinfo == "" {
		return handler
	}

	a := BasicAuth{Handler: handler}

	a.Username, a.Password, _ = strings.Cut(userinfo, ":")

	return a
}

func (a BasicAuth) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok || !secureEqual(username, a.Username) || !secureEqual(password, a.Password) {
		w.Header().Add("WWW-Authenticate", `Basic realm="carbonwatch"`)
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("UNAUTHORIZED\n"))
		return
	}

	a.Handler.ServeHTTP(w, r)
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
