package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/videoflix/videoflix-client/internal/utils"
	"github.com/videoflix/videoflix-client/videos"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registration struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ConfirmedPassword string `json:"confirmed_password"`
}

type passwordConfirmation struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type accountView struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	account, err := s.accounts.GetByEmail(creds.Email)
	if err != nil || !CheckPasswordHash(creds.Password, account.PasswordHash) {
		writeDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}
	if !account.Active {
		writeDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}

	if err := s.setSessionCookies(w, account); err != nil {
		s.log.Error().Err(err).Msg("minting session tokens failed")
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	account.LastLogin = s.nowTime()
	_ = s.accounts.Upsert(account)

	writeJSON(w, http.StatusOK, map[string]any{
		"detail": "Login successful",
		"user":   accountView{ID: account.ID, Email: account.Email, Username: account.Username},
	})
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var reg registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	email := strings.TrimSpace(strings.ToLower(reg.Email))
	if email == "" || !strings.Contains(email, "@") {
		writeJSON(w, http.StatusBadRequest, map[string]any{"email": []string{"Enter a valid email address."}})
		return
	}
	if _, err := s.accounts.GetByEmail(email); err == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"email": []string{"An account with this email already exists."}})
		return
	}
	if err := ValidatePasswordStrength(reg.Password); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"password": []string{err.Error()}})
		return
	}
	if reg.Password != reg.ConfirmedPassword {
		writeJSON(w, http.StatusBadRequest, map[string]any{"password": []string{"Passwords do not match."}})
		return
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	account := &Account{
		Email:           email,
		Username:        strings.SplitN(email, "@", 2)[0],
		PasswordHash:    hash,
		Active:          false,
		DateJoined:      s.nowTime(),
		ActivationToken: uuid.New().String(),
	}
	if err := s.accounts.Upsert(account); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"email": []string{"An account with this email already exists."}})
		return
	}

	// The activation token is returned in place of sending an email.
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  accountView{ID: account.ID, Email: account.Email, Username: account.Username},
		"token": account.ActivationToken,
	})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookies(w)
	writeDetail(w, http.StatusOK, "Logged out successfully")
}

func (s *Server) tokenRefreshHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Refresh token invalid")
		return
	}

	id, err := s.tokens.Verify(cookie.Value, refreshTokenType)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Refresh token invalid")
		return
	}
	account, err := s.accounts.GetByID(id)
	if err != nil || !account.Active {
		writeDetail(w, http.StatusUnauthorized, "Refresh token invalid")
		return
	}

	accessToken, err := s.tokens.MintAccessToken(account)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.setCookie(w, accessTokenCookie, accessToken, int(s.tokens.accessTTL.Seconds()))

	writeJSON(w, http.StatusOK, map[string]any{
		"detail": "Token refreshed",
		"access": "new_access_token",
	})
}

func (s *Server) passwordResetHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	// The response never reveals whether the account exists.
	if account, err := s.accounts.GetByEmail(body.Email); err == nil {
		account.ResetToken = uuid.New().String()
		_ = s.accounts.Upsert(account)
		s.log.Info().Str("email", account.Email).Str("token", account.ResetToken).Msg("password reset token issued")
	}

	writeDetail(w, http.StatusOK, "An email has been sent to reset your password.")
}

func (s *Server) passwordConfirmHandler(w http.ResponseWriter, r *http.Request) {
	account := s.accountFromPath(r)
	if account == nil || account.ResetToken == "" || account.ResetToken != r.PathValue("token") {
		writeDetail(w, http.StatusBadRequest, "Invalid password reset link")
		return
	}

	var body passwordConfirmation
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if body.NewPassword != body.ConfirmPassword {
		writeJSON(w, http.StatusBadRequest, map[string]any{"new_password": []string{"Passwords do not match."}})
		return
	}
	if err := ValidatePasswordStrength(body.NewPassword); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"new_password": []string{err.Error()}})
		return
	}

	hash, err := HashPassword(body.NewPassword)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	account.PasswordHash = hash
	account.ResetToken = ""
	_ = s.accounts.Upsert(account)

	writeDetail(w, http.StatusOK, "Your password has been successfully reset.")
}

func (s *Server) activateHandler(w http.ResponseWriter, r *http.Request) {
	account := s.accountFromPath(r)
	if account == nil || account.ActivationToken == "" || account.ActivationToken != r.PathValue("token") {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Activation failed"})
		return
	}

	account.Active = true
	account.ActivationToken = ""
	_ = s.accounts.Upsert(account)

	writeJSON(w, http.StatusOK, map[string]any{"message": "Account successfully activated!"})
}

func (s *Server) videoListHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticatedAccount(r); !ok {
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	writeJSON(w, http.StatusOK, s.catalog)
}

// accountFromPath resolves the {uid} path segment to a stored account.
func (s *Server) accountFromPath(r *http.Request) *Account {
	id, err := strconv.ParseInt(r.PathValue("uid"), 10, 64)
	if err != nil {
		return nil
	}
	account, err := s.accounts.GetByID(id)
	if err != nil {
		return nil
	}
	return account
}

func (s *Server) authenticatedAccount(r *http.Request) (*Account, bool) {
	cookie, err := r.Cookie(accessTokenCookie)
	if err != nil {
		return nil, false
	}
	id, err := s.tokens.Verify(cookie.Value, accessTokenType)
	if err != nil {
		return nil, false
	}
	account, err := s.accounts.GetByID(id)
	if err != nil {
		return nil, false
	}
	return account, true
}

func (s *Server) setSessionCookies(w http.ResponseWriter, account *Account) error {
	accessToken, err := s.tokens.MintAccessToken(account)
	if err != nil {
		return err
	}
	refreshToken, err := s.tokens.MintRefreshToken(account)
	if err != nil {
		return err
	}
	s.setCookie(w, accessTokenCookie, accessToken, int(s.tokens.accessTTL.Seconds()))
	s.setCookie(w, refreshTokenCookie, refreshToken, int(s.tokens.refreshTTL.Seconds()))
	return nil
}

func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	s.setCookie(w, accessTokenCookie, "", -1)
	s.setCookie(w, refreshTokenCookie, "", -1)
}

func (s *Server) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func seedCatalog() []videos.Video {
	return []videos.Video{
		{ID: 1, Title: "Breakout", Description: "A heist crew's last job goes sideways.", Category: "action", ThumbnailURL: utils.Ptr("/thumbnails/breakout.jpg"), CreatedAt: "2025-01-12T10:00:00Z"},
		{ID: 2, Title: "Stille Wasser", Description: "A quiet village hides a loud secret.", Category: "drama", ThumbnailURL: utils.Ptr("/thumbnails/stille-wasser.jpg"), CreatedAt: "2025-02-03T10:00:00Z"},
		{ID: 3, Title: "Deep Blue", Description: "Life below the photic zone.", Category: "documentary", ThumbnailURL: utils.Ptr("/thumbnails/deep-blue.jpg"), CreatedAt: "2025-02-20T10:00:00Z"},
		{ID: 4, Title: "Overdrive", Description: "Street racing across three continents.", Category: "action", CreatedAt: "2025-03-08T10:00:00Z"},
	}
}
