package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/miko1qq/colink-sub000/database"
	"github.com/miko1qq/colink-sub000/models"
	"github.com/miko1qq/colink-sub000/utils"
)

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer ")), true
}

func claimsUserID(claims map[string]interface{}) uint {
	rawID, ok := claims["id"]
	if !ok {
		return 0
	}
	switch v := rawID.(type) {
	case float64:
		return uint(v)
	case int:
		return uint(v)
	case string:
		var n uint
		_, _ = fmt.Sscanf(v, "%d", &n)
		return n
	}
	return 0
}

// AuthMiddleware validates the access token and injects user id and role into
// the request context. Any authenticated account (student or professor)
// passes; role gating happens in RequireStudent / ProfessorAuthMiddleware.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := bearerToken(r)
		if !ok {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
			return
		}
		_, claims, err := utils.ValidateAccessToken(tokenStr)
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Session expired, please sign in again"})
				return
			}
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid token"})
			return
		}

		userID := claimsUserID(claims)
		if userID == 0 {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid token payload"})
			return
		}

		role := models.RoleStudent
		if rStr, ok := claims["role"].(string); ok && models.Role(rStr).Valid() {
			role = models.Role(rStr)
		}

		ctx := context.WithValue(r.Context(), utils.UserIDKey, userID)
		ctx = context.WithValue(ctx, utils.UserRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStudent rejects professor tokens on student-only flows (starting or
// completing quests, claiming daily rewards).
func RequireStudent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := utils.GetUserRole(r)
		if !ok || role != models.RoleStudent {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Student access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProfessorAuthMiddleware verifies the token, requires the professor role and
// checks the account still exists.
func ProfessorAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := bearerToken(r)
		if !ok {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized: No token provided"})
			return
		}
		_, claims, err := utils.ValidateAccessToken(tokenStr)
		if err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized: Invalid token"})
			return
		}

		role, _ := claims["role"].(string)
		if models.Role(role) != models.RoleProfessor {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Forbidden: Professor access required"})
			return
		}

		userID := claimsUserID(claims)
		var professor models.User
		if err := database.DB.Where("id = ? AND role = ?", userID, models.RoleProfessor).First(&professor).Error; err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized: Professor not found"})
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDKey, userID)
		ctx = context.WithValue(ctx, utils.UserRoleKey, models.RoleProfessor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
