package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang-jwt/jwt/v5/request"
	"github.com/google/uuid"
	"github.com/programme-lv/contests/httpjson"
	"github.com/programme-lv/contests/logger"
	"github.com/programme-lv/contests/srvcerror"
)

const RoleAdmin = "admin"

type JwtClaims struct {
	Username string `json:"username,omitempty"`
	UUID     string `json:"uuid,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *JwtClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

func (c *JwtClaims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UUID)
}

type ClaimsKeyType string

var CtxJwtClaimsKey ClaimsKeyType = "jwtClaims"

func GenerateJWT(username string, userUUID uuid.UUID, role string, jwtKey []byte, ttl time.Duration) (string, error) {
	claims := &JwtClaims{
		Username:         username,
		UUID:             userUUID.String(),
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl))},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func ValidateJWT(tokenStr string, jwtKey []byte) (*JwtClaims, error) {
	claims := &JwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, errors.New("invalid token signature")
		}
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if _, err := uuid.Parse(claims.UUID); err != nil {
		return nil, errors.New("token carries no valid user uuid")
	}

	return claims, nil
}

// ClaimsFromContext returns nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *JwtClaims {
	claims, _ := ctx.Value(CtxJwtClaimsKey).(*JwtClaims)
	return claims
}

// GetJwtAuthMiddleware validates JWT token and adds the claims to the request context
func GetJwtAuthMiddleware(jwtKey []byte) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, err := request.BearerExtractor{}.ExtractToken(r)
			if err != nil {
				if errors.Is(err, request.ErrNoTokenInRequest) {
					ctx := context.WithValue(r.Context(), CtxJwtClaimsKey, (*JwtClaims)(nil))
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				httpjson.HandleError(logger.FromContext(r.Context()), w,
					srvcerror.ErrUnauthenticated().SetDebug(err))
				return
			}

			claims, err := ValidateJWT(token, jwtKey)
			if err != nil {
				httpjson.HandleError(logger.FromContext(r.Context()), w,
					srvcerror.ErrUnauthenticated().SetDebug(err))
				return
			}

			ctx := context.WithValue(r.Context(), CtxJwtClaimsKey, claims)
			ctx = logger.With(ctx, "user_uuid", claims.UUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
