package httpserver

import (
	"errors"
	"net/http"

	"greenhaven/internal/domain"
	userrepo "greenhaven/internal/repository/user"
	accountsvc "greenhaven/internal/service/account"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int          `json:"expiresIn"`
}

func signupHandler(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in accountsvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		u, err := svc.Signup(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				respondError(c, err)
				return
			}
			badRequest(c, err.Error())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": u})
	}
}

func loginHandler(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "email and password required")
			return
		}
		u, access, refresh, err := svc.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tokenResponse{
			User:         u,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    svc.AccessTTLSeconds(),
		})
	}
}

func logoutHandler(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Logout(c.Request.Context(), currentToken(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func verifyEmailHandler(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Token string `json:"token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "token required")
			return
		}
		if err := svc.VerifyEmail(c.Request.Context(), in.Token); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"verified": true})
	}
}

func resendVerificationHandler(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Email string `json:"email" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "email required")
			return
		}
		// Whether the email exists is not disclosed.
		if err := svc.RequestVerification(c.Request.Context(), in.Email); err != nil && !errors.Is(err, domain.ErrNotFound) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
	}
}

func profileHandler(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.Profile(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
	}
}

func updateProfileHandler(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			FirstName   *string `json:"firstName"`
			LastName    *string `json:"lastName"`
			Phone       *string `json:"phone"`
			DateOfBirth *string `json:"dateOfBirth"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		u, err := svc.UpdateProfile(c.Request.Context(), currentUser(c).ID, userrepo.UpdateInput{
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Phone:       in.Phone,
			DateOfBirth: in.DateOfBirth,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
	}
}
