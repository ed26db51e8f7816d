package controllers

import (
	"ridesafe-http-service/internal/error/code"
	"ridesafe-http-service/internal/error/response"
	"ridesafe-http-service/middleware"
	"ridesafe-http-service/models"
	"ridesafe-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// SOSController 处理SOS求救相关的请求
type SOSController struct {
	BaseControllerImpl
}

// NewSOSController 创建一个新的SOS控制器
func (f *ControllerFactory) NewSOSController(ctx *gin.Context) *SOSController {
	return &SOSController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// SOSRequest 表示SOS提交请求
// 触发者身份取自认证上下文，请求体不携带用户ID
type SOSRequest struct {
	// 0,0是合法坐标，位置缺失用指针为nil表达
	Location  *models.Coordinate `json:"location" binding:"required"`
	Speed     float64            `json:"speed" binding:"min=0" example:"65.5"`
	VehicleID *uint              `json:"vehicle_id,omitempty" example:"3"`
}

// PremiumSOSRequest 表示付费SOS请求
type PremiumSOSRequest struct {
	Contact   models.EmergencyContact `json:"contact" binding:"required"`
	VehicleID *uint                   `json:"vehicle_id,omitempty" example:"3"`
}

// SubmitSOS 处理SOS提交
// @Summary      提交SOS求救
// @Description  记录SOS触发事件，评估报警条件与突发升级并通知紧急联系人
// @Tags         SOS
// @Accept       json
// @Produce      json
// @Param        request body SOSRequest true "SOS请求参数"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /sos [post]
func (c *SOSController) SubmitSOS() {
	userID, ok := middleware.CurrentUserID(c.Context)
	if !ok {
		response.Unauthorized(c.Context)
		return
	}

	var req SOSRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.Fail(c.Context, code.ErrSOSLocationRequired, gin.H{"detail": err.Error()})
		return
	}

	sosService := c.Container.GetSOSService()
	result, err := sosService.HandleSOS(c.Context.Request.Context(), userID, req.VehicleID, *req.Location, req.Speed)
	if err != nil {
		response.Fail(c.Context, code.ErrSOSRecordFailed, nil)
		return
	}

	response.Success(c.Context, result)
}

// PremiumSOS 处理付费SOS
// @Summary      付费SOS求救
// @Description  收取固定服务费，直接通知指定联系人
// @Tags         SOS
// @Accept       json
// @Produce      json
// @Param        request body PremiumSOSRequest true "付费SOS请求参数"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Security     BearerAuth
// @Router       /sos/premium [post]
func (c *SOSController) PremiumSOS() {
	userID, ok := middleware.CurrentUserID(c.Context)
	if !ok {
		response.Unauthorized(c.Context)
		return
	}

	var req PremiumSOSRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Context, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}
	if req.Contact.Name == "" || req.Contact.Phone == "" {
		response.ParamError(c.Context, "联系人姓名和电话不能为空")
		return
	}

	sosService := c.Container.GetSOSService()
	result, err := sosService.HandlePremiumSOS(c.Context.Request.Context(), userID, req.VehicleID, req.Contact)
	if err != nil {
		response.Fail(c.Context, code.ErrSOSRecordFailed, nil)
		return
	}

	response.Success(c.Context, result)
}

// ListTriggers 分页查询当前用户的SOS触发历史
// @Summary      SOS触发历史
// @Description  分页返回当前用户的SOS触发事件
// @Tags         SOS
// @Produce      json
// @Param        pageNum   query int  false "页码，默认1"
// @Param        pageSize  query int  false "每页条数，默认10"
// @Param        desc      query bool false "按时间倒序"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Security     BearerAuth
// @Router       /sos/history [get]
func (c *SOSController) ListTriggers() {
	userID, ok := middleware.CurrentUserID(c.Context)
	if !ok {
		response.Unauthorized(c.Context)
		return
	}

	var query models.PaginationQuery
	if err := c.Context.ShouldBindQuery(&query); err != nil {
		response.ParamError(c.Context, "无效的分页参数")
		return
	}

	sosService := c.Container.GetSOSService()
	triggers, pagination, err := sosService.ListTriggers(userID, query)
	if err != nil {
		response.ServerError(c.Context)
		return
	}

	response.Success(c.Context, gin.H{
		"triggers":   triggers,
		"pagination": pagination,
	})
}

// HandleSOSFunc 返回一个处理SOS请求的Gin处理函数
func HandleSOSFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewSOSController(ctx)

		switch method {
		case "submitSOS":
			controller.SubmitSOS()
		case "premiumSOS":
			controller.PremiumSOS()
		case "listTriggers":
			controller.ListTriggers()
		default:
			response.FailWithMessage(ctx, code.ErrValidation, "无效的方法", nil)
		}
	}
}
