package controllers

import (
	"errors"

	"ridesafe-http-service/internal/error/code"
	"ridesafe-http-service/internal/error/response"
	"ridesafe-http-service/models"
	"ridesafe-http-service/services"
	"ridesafe-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// AuthController 处理注册登录请求
type AuthController struct {
	BaseControllerImpl
}

// NewAuthController 创建一个新的认证控制器
func (f *ControllerFactory) NewAuthController(ctx *gin.Context) *AuthController {
	return &AuthController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// RegisterRequest 表示注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Test User"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Phone    string `json:"phone" binding:"required" example:"1234567890"`
	Password string `json:"password" binding:"required" example:"Password123"`
	Gender   string `json:"gender" binding:"required,oneof=male female other" example:"female"`
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required" example:"Password123"`
}

// Register 处理用户注册
// @Summary      用户注册
// @Description  注册新用户并初始化默认报警条件
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "注册请求参数"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /auth/register [post]
func (c *AuthController) Register() {
	var req RegisterRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Context, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	user := &models.User{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Gender: req.Gender,
	}

	userService := c.Container.GetUserService()
	if err := userService.Register(user, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrUserExists):
			response.Fail(c.Context, code.ErrUserAlreadyExist, nil)
		case errors.Is(err, services.ErrWeakPassword):
			response.FailWithMessage(c.Context, code.ErrValidation, err.Error(), nil)
		default:
			response.Fail(c.Context, code.ErrDatabase, nil)
		}
		return
	}

	response.Success(c.Context, gin.H{
		"user_id": user.ID,
	})
}

// Login 处理用户登录
// @Summary      用户登录
// @Description  校验邮箱密码并返回JWT令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "登录请求参数"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/login [post]
func (c *AuthController) Login() {
	var req LoginRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Context, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	userService := c.Container.GetUserService()
	user, err := userService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrPasswordMismatch) {
			response.Fail(c.Context, code.ErrUserPasswordIncorrect, nil)
			return
		}
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	token, err := c.Container.GetJWTService().GenerateToken(user.ID, "user")
	if err != nil {
		response.ServerError(c.Context)
		return
	}

	response.Success(c.Context, gin.H{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Name,
	})
}

// HandleAuthFunc 返回一个处理认证请求的Gin处理函数
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewAuthController(ctx)

		switch method {
		case "register":
			controller.Register()
		case "login":
			controller.Login()
		default:
			response.FailWithMessage(ctx, code.ErrValidation, "无效的方法", nil)
		}
	}
}
