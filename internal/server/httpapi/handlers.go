package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/microauth/internal/common"
	"github.com/dmitrijs2005/microauth/internal/server/users"
)

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, common.NewValidation("invalid request body"))
		return
	}

	req := users.RegisterRequest{Extra: make(map[string]any, len(body))}
	for k, v := range body {
		switch k {
		case "username":
			str, err := credentialString(v, "username")
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			req.Username = str
		case "password":
			str, err := credentialString(v, "password")
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			req.Password = str
		default:
			req.Extra[k] = v
		}
	}

	view, err := s.users.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", req.Username)
	s.writeJSON(w, http.StatusOK, view)
}

// credentialString extracts a credential field from a decoded JSON body.
// JSON null counts as absent, so the core reports it as a missing field;
// any other non-string value is rejected outright.
func credentialString(v any, field string) (string, error) {
	if v == nil {
		return "", nil
	}
	str, ok := v.(string)
	if !ok {
		return "", common.NewValidation(field + " is not valid")
	}
	return str, nil
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, common.NewValidation("invalid request body"))
		return
	}

	view, err := s.users.SignIn(r.Context(), users.SignInRequest{
		Username: body.Username,
		Password: body.Password,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) checkUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	exists, err := s.users.CheckUsername(r.Context(), username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, exists)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error kind to a status code and renders the message.
// Internal faults are logged and their details kept off the wire.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch common.KindOf(err) {
	case common.KindValidation:
		status = http.StatusBadRequest
	case common.KindConflict:
		status = http.StatusConflict
	case common.KindAuthentication, common.KindInvalidToken:
		status = http.StatusUnauthorized
	default:
		s.logger.Error(r.Context(), err.Error())
		message = "internal error"
	}

	s.writeJSON(w, status, map[string]string{"message": message})
}
