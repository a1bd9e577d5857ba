package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/pkg/jwt"
	"go-clinic-planning/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type contextKey string

const (
	EmployeeIDKey    contextKey = "employee_id"
	EmployeeEmailKey contextKey = "employee_email"
	RoleKey          contextKey = "role"
	TokenIDKey       contextKey = "token_id"
)

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient *redis.Client
}

func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		tokenString := parts[1]

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		// Check if token exists in Redis (not revoked)
		tokenKey := fmt.Sprintf("access_token:%s:%s", claims.EmployeeID.String(), claims.TokenID)
		exists, err := m.redisClient.Exists(r.Context(), tokenKey).Result()
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if exists == 0 {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := context.WithValue(r.Context(), EmployeeIDKey, claims.EmployeeID)
		ctx = context.WithValue(ctx, EmployeeEmailKey, claims.Email)
		ctx = context.WithValue(ctx, RoleKey, entity.Role(claims.Role))
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetEmployeeIDFromContext extracts the authenticated employee ID from context
func GetEmployeeIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	employeeID, ok := ctx.Value(EmployeeIDKey).(uuid.UUID)
	return employeeID, ok
}

// GetRoleFromContext extracts the authenticated employee's role from context
func GetRoleFromContext(ctx context.Context) (entity.Role, bool) {
	role, ok := ctx.Value(RoleKey).(entity.Role)
	return role, ok
}

// ActorFromContext builds the acting employee from the authenticated request
func ActorFromContext(ctx context.Context) (entity.Actor, bool) {
	employeeID, ok := GetEmployeeIDFromContext(ctx)
	if !ok {
		return entity.Actor{}, false
	}
	role, ok := GetRoleFromContext(ctx)
	if !ok {
		return entity.Actor{}, false
	}
	return entity.Actor{ID: employeeID, Role: role}, true
}
