// server/internal/api/handlers/user_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"garage-ops-api-server/internal/auth"
	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/permissions"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserHandler struct {
	DB   *mongo.Database
	Auth *auth.Service
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	var user models.User
	err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil || user.Status != "active" || !auth.CheckPasswordHash(req.Password, user.Password) {
		respondError(c, http.StatusUnauthorized, KindAuth, "Invalid credentials")
		return
	}

	token, err := h.Auth.GenerateToken(user.UserID, user.Name, user.Role, user.BranchID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"userID":      user.UserID,
		"name":        user.Name,
		"role":        user.Role,
		"branchID":    user.BranchID,
		"permissions": permissions.Resolve(user.Role).Names(),
	})
}

type CreateUserRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Name            string `json:"name" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	Role            string `json:"role" binding:"required"`
	BranchID        string `json:"branchID" binding:"required"`
	HourlyRateCents int64  `json:"hourlyRateCents" binding:"min=0"`
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	collection := h.DB.Collection("users")
	count, err := collection.CountDocuments(context.Background(), bson.M{"email": req.Email})
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Database error checking for user")
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, KindConflict, "User with this email already exists")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to hash password")
		return
	}

	user := models.User{
		UserID:          fmt.Sprintf("%s-%s", req.Role, strings.ToLower(uuid.New().String()[:8])),
		Email:           req.Email,
		Name:            req.Name,
		Password:        hashed,
		Role:            req.Role,
		BranchID:        req.BranchID,
		HourlyRateCents: req.HourlyRateCents,
		Status:          "active",
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if _, err := collection.InsertOne(context.Background(), user); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := bson.M{}
	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}
	if branch := c.Query("branch"); branch != "" {
		filter["branchID"] = branch
	}

	cursor, err := h.DB.Collection("users").Find(context.Background(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query users")
		return
	}
	defer cursor.Close(context.Background())

	var users []models.User
	if err := cursor.All(context.Background(), &users); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to decode users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

type UpdateUserRequest struct {
	Name            string `json:"name"`
	Role            string `json:"role"`
	BranchID        string `json:"branchID"`
	HourlyRateCents *int64 `json:"hourlyRateCents"`
	Status          string `json:"status"`
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("id")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Role != "" {
		set["role"] = req.Role
	}
	if req.BranchID != "" {
		set["branchID"] = req.BranchID
	}
	if req.HourlyRateCents != nil {
		set["hourlyRateCents"] = *req.HourlyRateCents
	}
	if req.Status != "" {
		set["status"] = req.Status
	}

	res, err := h.DB.Collection("users").UpdateOne(context.Background(), bson.M{"userID": userID}, bson.M{"$set": set})
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to update user")
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, KindNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// PermissionCatalog lists every known permission with its description.
func (h *UserHandler) PermissionCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, permissions.Catalog)
}
