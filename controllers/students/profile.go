package students

import (
	"fmt"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/miko1qq/colink-sub000/database"
	"github.com/miko1qq/colink-sub000/middleware"
	"github.com/miko1qq/colink-sub000/models"
	"github.com/miko1qq/colink-sub000/utils"
)

const maxAvatarBytes = 5 << 20 // 5 MiB

var avatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,nameok"`
}

// PATCH /v1/me
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	name := strings.TrimSpace(req.Name)
	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("name", name).Error; err != nil {
		log.Printf("[profile] update name for user %d: %v", userID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile updated",
		Data:    map[string]interface{}{"name": name},
	})
}

// POST /v1/me/avatar accepts a multipart upload under the "avatar" field,
// stores it in the object bucket and saves the public URL on the profile.
func UploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Missing avatar file"})
		return
	}
	defer file.Close()

	if header.Size > maxAvatarBytes {
		utils.WriteJSON(w, http.StatusRequestEntityTooLarge, utils.APIResponse{Success: false, Message: "Avatar must be 5MB or smaller"})
		return
	}
	ext := strings.ToLower(path.Ext(header.Filename))
	if !avatarExtensions[ext] {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Avatar must be a jpg, png or webp image"})
		return
	}

	objectName := fmt.Sprintf("avatars/%d_%d%s", userID, time.Now().Unix(), ext)
	if err := utils.UploadAvatar(objectName, file); err != nil {
		log.Printf("[profile] avatar upload for user %d: %v", userID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Upload failed, please try again"})
		return
	}

	url, err := utils.PublicObjectURL(objectName)
	if err != nil {
		log.Printf("[profile] avatar URL for user %d: %v", userID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Upload failed, please try again"})
		return
	}

	db := database.DB

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Account not found"})
		return
	}
	oldAvatar := user.Avatar

	if err := db.Model(&user).Update("avatar", url).Error; err != nil {
		log.Printf("[profile] save avatar URL for user %d: %v", userID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// Best effort cleanup of the previous object.
	if oldAvatar != nil {
		if oldName, ok := objectNameFromURL(*oldAvatar); ok {
			if err := utils.DeleteAvatar(oldName); err != nil {
				log.Printf("[profile] delete old avatar %q: %v", oldName, err)
			}
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Avatar updated",
		Data:    map[string]interface{}{"avatar": url},
	})
}

func objectNameFromURL(url string) (string, bool) {
	idx := strings.Index(url, "/avatars/")
	if idx < 0 {
		return "", false
	}
	return url[idx+1:], true
}
