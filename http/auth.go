package http

import (
	"net/http"
	"strings"

	"inkwell/auth"
	"inkwell/errs"
)

// checkUser resolves the viewer identity on every request. A missing
// Authorization header means an anonymous viewer; a present but
// invalid token is rejected rather than silently downgraded.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Invalid authorization format."))
			return
		}
		claims, err := auth.ParseToken(parts[1], s.tokenSecret)
		if err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Invalid or expired token."))
			return
		}
		user, err := s.us.ByID(claims.UserID)
		if err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Unknown user."))
			return
		}
		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects anonymous requests to mutating endpoints.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in."))
			return
		}
		next.ServeHTTP(w, r)
	}
}

// requireAdmin guards the provisioning endpoints.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !auth.GetUser(r.Context()).Admin {
			errs.ReturnError(w, r, errs.Errorf(errs.EFORBIDDEN, "Administrator access required."))
			return
		}
		next.ServeHTTP(w, r)
	})
}
