package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/auth"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

type Handler struct {
	svc auth.AuthService
}

func NewHandler(svc auth.AuthService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/auth")
	{
		group.POST("", h.Dispatch)
		group.POST("/register", h.Register)
		group.POST("/login", h.Login)
		group.POST("/verify-email", h.VerifyEmail)
		group.GET("/verify-email", h.VerifyEmail)
	}
}

// Dispatch serves the combined endpoint, routing on the action field.
func (h *Handler) Dispatch(c *gin.Context) {
	var req model.AuthRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	switch req.Action {
	case model.AuthActionLogin:
		login := model.LoginRequest{Email: req.Email, Password: req.Password}
		if !validate(c, &login) {
			return
		}
		h.login(c, &login)
	case model.AuthActionRegister:
		register := model.RegisterRequest{Email: req.Email, Password: req.Password, Name: req.Name, Role: req.Role}
		if !validate(c, &register) {
			return
		}
		h.register(c, &register)
	case model.AuthActionVerifyEmail:
		if req.Token == "" {
			httputil.RespondWithMessage(c, http.StatusBadRequest, "verification token is required")
			return
		}
		h.verify(c, req.Token)
	}
}

func validate(c *gin.Context, req interface{}) bool {
	if err := binding.Validator.ValidateStruct(req); err != nil {
		httputil.RespondWithMessage(c, http.StatusBadRequest, validator.Describe(err))
		return false
	}
	return true
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	h.register(c, &req)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	h.login(c, &req)
}

// VerifyEmail accepts the token from the query string (the emailed link) or
// from a JSON body.
func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" && c.Request.Method == http.MethodPost {
		var req model.VerifyEmailRequest
		if !handler.BindJSON(c, &req) {
			return
		}
		token = req.Token
	}
	if token == "" {
		httputil.RespondWithMessage(c, http.StatusBadRequest, "verification token is required")
		return
	}
	h.verify(c, token)
}

func (h *Handler) register(c *gin.Context, req *model.RegisterRequest) {
	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, user)
}

func (h *Handler) login(c *gin.Context, req *model.LoginRequest) {
	tokens, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) verify(c *gin.Context, token string) {
	user, err := h.svc.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, user)
}
