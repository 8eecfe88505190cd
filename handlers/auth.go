package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/middleware"
	"p9e.in/ambufleet/models"
)

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}
	role := req.Role
	switch role {
	case "":
		role = models.RoleUser
	case models.RoleAdmin, models.RoleCoordinator, models.RoleUser:
	default:
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	// hash pw
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "error hashing password", http.StatusInternalServerError)
		return
	}
	u := models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := config.DB.Create(&u).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "este email ya está registrado", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type userPayload struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	var u models.User
	if err := config.DB.Where("email = ? AND is_active = ?", req.Email, true).First(&u).Error; err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	token, err := middleware.GenerateToken(u.ID.String(), u.Role, u.Name)
	if err != nil {
		http.Error(w, "couldn't create token", http.StatusInternalServerError)
		return
	}
	out := loginResp{
		Token: token,
		User: userPayload{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Role:  u.Role,
		},
	}
	json.NewEncoder(w).Encode(out)
}

// GetCurrentUser returns the profile behind the presented token.
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	user := middleware.GetUser(r)

	response := map[string]interface{}{
		"userID":              claims.UserID,
		"name":                user.Name,
		"email":               user.Email,
		"role":                user.Role,
		"assignedAmbulanceId": user.AssignedAmbulanceID,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
