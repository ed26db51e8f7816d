package controllers

import (
	"errors"
	"strconv"

	"ridesafe-http-service/internal/error/code"
	"ridesafe-http-service/internal/error/response"
	"ridesafe-http-service/middleware"
	"ridesafe-http-service/services"
	"ridesafe-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// VaultController 处理加密媒体保险库的请求
type VaultController struct {
	BaseControllerImpl
}

// NewVaultController 创建一个新的保险库控制器
func (f *ControllerFactory) NewVaultController(ctx *gin.Context) *VaultController {
	return &VaultController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// AccessMediaRequest 表示媒体取回请求
type AccessMediaRequest struct {
	FilePath string `json:"filePath" binding:"required" example:"secure_storage/user_1/vehicle_3/sos_media_front_20240101_120000_a1b2c3d4.enc"`
	Password string `json:"password" binding:"required" example:"vault-pass"`
}

// StoreMedia 处理媒体加密存储
// 媒体归属者取自认证上下文；multipart字段：
// media(文件)、camera_type、password、vehicle_id(可选)、location(可选)
// @Summary      加密存储媒体
// @Description  对上传的音视频证据做认证加密后落盘并登记记录
// @Tags         Vault
// @Accept       multipart/form-data
// @Produce      json
// @Param        media formData file true "媒体文件"
// @Param        camera_type formData string false "摄像头类型"
// @Param        password formData string true "访问口令"
// @Param        vehicle_id formData int false "车辆ID"
// @Param        location formData string false "位置标签"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /vault/media [post]
func (c *VaultController) StoreMedia() {
	userID, ok := middleware.CurrentUserID(c.Context)
	if !ok {
		response.Unauthorized(c.Context)
		return
	}

	fileHeader, err := c.Context.FormFile("media")
	if err != nil {
		response.ParamError(c.Context, "缺少媒体文件")
		return
	}

	password := c.Context.PostForm("password")
	if password == "" {
		response.ParamError(c.Context, "缺少访问口令")
		return
	}

	cameraType := c.Context.DefaultPostForm("camera_type", "front")
	locationTag := c.Context.PostForm("location")

	var vehicleID *uint
	if raw := c.Context.PostForm("vehicle_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.ParamError(c.Context, "无效的车辆ID")
			return
		}
		id := uint(parsed)
		vehicleID = &id
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c.Context, code.ErrVaultStorage, nil)
		return
	}
	defer file.Close()

	vaultService := c.Container.GetVaultService()
	record, err := vaultService.StoreMedia(userID, vehicleID, cameraType, password, file, locationTag)
	if err != nil {
		response.Fail(c.Context, code.ErrVaultStorage, nil)
		return
	}

	response.Success(c.Context, gin.H{
		"file_path":   record.FilePath,
		"camera_type": record.CameraType,
		"created_at":  record.CreatedAt,
	})
}

// AccessMedia 处理媒体取回
// @Summary      取回加密媒体
// @Description  校验访问口令与归属后解密返回媒体数据
// @Tags         Vault
// @Accept       json
// @Produce      octet-stream
// @Param        request body AccessMediaRequest true "取回请求参数"
// @Success      200  {file}    binary
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /vault/media/access [post]
func (c *VaultController) AccessMedia() {
	userID, ok := middleware.CurrentUserID(c.Context)
	if !ok {
		response.Unauthorized(c.Context)
		return
	}

	var req AccessMediaRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Context, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	vaultService := c.Container.GetVaultService()
	media, err := vaultService.RetrieveMedia(req.FilePath, req.Password, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMediaNotFound):
			response.Fail(c.Context, code.ErrMediaNotFound, nil)
		case errors.Is(err, services.ErrVaultPassword):
			response.Fail(c.Context, code.ErrVaultPasswordIncorrect, nil)
		case errors.Is(err, services.ErrVaultForbidden):
			response.Fail(c.Context, code.ErrVaultForbidden, nil)
		default:
			response.Fail(c.Context, code.ErrVaultStorage, nil)
		}
		return
	}

	c.Context.Data(200, "application/octet-stream", media)
}

// HandleVaultFunc 返回一个处理保险库请求的Gin处理函数
func HandleVaultFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewVaultController(ctx)

		switch method {
		case "storeMedia":
			controller.StoreMedia()
		case "accessMedia":
			controller.AccessMedia()
		default:
			response.FailWithMessage(ctx, code.ErrValidation, "无效的方法", nil)
		}
	}
}
