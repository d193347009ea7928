package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/miko1qq/colink-sub000/database"
	"github.com/miko1qq/colink-sub000/models"
	"github.com/miko1qq/colink-sub000/utils"
)

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// POST /v1/logout revokes the current access token's jti and, when provided,
// the refresh token of this session.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if tokenStr != "" {
		if _, claims, err := utils.ValidateAccessToken(tokenStr); err == nil {
			if jti, ok := claims["jti"].(string); ok && jti != "" {
				ttl := 15 * time.Minute
				if expRaw, ok := claims["exp"].(float64); ok {
					if until := time.Until(time.Unix(int64(expRaw), 0)); until > 0 {
						ttl = until
					}
				}
				if err := utils.RevokeJTI(jti, ttl); err != nil {
					log.Printf("[logout] failed to revoke jti: %v", err)
				}
			}
		}
	}

	var req LogoutRequest
	_ = decodeOptionalJSON(r, &req)
	if req.RefreshToken != "" {
		if err := database.DB.Model(&models.RefreshToken{}).
			Where("id = ?", req.RefreshToken).
			Update("revoked", true).Error; err != nil {
			log.Printf("[logout] failed to revoke refresh token: %v", err)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}

// POST /v1/logout-all revokes every refresh token for the authenticated user.
// Outstanding access tokens expire on their own within minutes.
func LogoutAllHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := database.DB.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error; err != nil {
		log.Printf("[logout-all] DB error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "All sessions revoked"})
}

// decodeOptionalJSON tolerates an empty body; logout works with or without one.
func decodeOptionalJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
