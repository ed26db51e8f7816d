package controllers

import (
	"errors"

	"ridesafe-http-service/internal/error/code"
	"ridesafe-http-service/internal/error/response"
	"ridesafe-http-service/middleware"
	"ridesafe-http-service/models"
	"ridesafe-http-service/services"
	"ridesafe-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// ConditionController 处理紧急报警条件配置的请求
type ConditionController struct {
	BaseControllerImpl
}

// NewConditionController 创建一个新的条件配置控制器
func (f *ControllerFactory) NewConditionController(ctx *gin.Context) *ConditionController {
	return &ConditionController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// LocationConditionRequest 位置条件参数
type LocationConditionRequest struct {
	Threshold        float64 `json:"threshold" binding:"min=0" example:"10"`
	Condition        string  `json:"condition" example:"away"`
	SpecificLocation string  `json:"specificLocation" example:"home"`
}

// TimeConditionRequest 时间条件参数
type TimeConditionRequest struct {
	Start     string `json:"start" example:"22:00"`
	End       string `json:"end" example:"06:00"`
	Condition string `json:"condition" example:"outside"`
}

// SpeedConditionRequest 速度条件参数
type SpeedConditionRequest struct {
	Threshold float64 `json:"threshold" binding:"min=0" example:"120"`
	Condition string  `json:"condition" example:"above"`
}

// SaveConditionsRequest 表示保存报警条件的请求
type SaveConditionsRequest struct {
	Location          LocationConditionRequest `json:"location"`
	Time              TimeConditionRequest     `json:"time"`
	Speed             SpeedConditionRequest    `json:"speed"`
	EmergencyContacts []models.EmergencyContact `json:"emergencyContacts"`
}

// SaveConditions 处理保存报警条件的请求
// @Summary      保存报警条件
// @Description  整体替换当前用户的紧急报警条件配置
// @Tags         Emergency
// @Accept       json
// @Produce      json
// @Param        request body SaveConditionsRequest true "条件配置参数"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Security     BearerAuth
// @Router       /emergency/conditions [post]
func (c *ConditionController) SaveConditions() {
	userID, ok := middleware.CurrentUserID(c.Context)
	if !ok {
		response.Unauthorized(c.Context)
		return
	}

	var req SaveConditionsRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Context, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	cond := &models.EmergencyCondition{
		UserID:            userID,
		DistanceThreshold: req.Location.Threshold,
		LocationCondition: req.Location.Condition,
		SpecificLocation:  req.Location.SpecificLocation,
		TimeStart:         req.Time.Start,
		TimeEnd:           req.Time.End,
		TimeCondition:     req.Time.Condition,
		SpeedThreshold:    req.Speed.Threshold,
		SpeedCondition:    req.Speed.Condition,
		EmergencyContacts: req.EmergencyContacts,
	}

	conditionService := c.Container.GetConditionService()
	if err := conditionService.SaveConditions(cond); err != nil {
		if errors.Is(err, services.ErrConditionInvalid) {
			response.FailWithMessage(c.Context, code.ErrConditionInvalid, err.Error(), nil)
			return
		}
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{
		"condition_id": cond.ID,
	})
}

// GetConditions 处理获取报警条件的请求
// @Summary      获取报警条件
// @Description  获取当前用户的紧急报警条件配置
// @Tags         Emergency
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Security     BearerAuth
// @Router       /emergency/conditions [get]
func (c *ConditionController) GetConditions() {
	userID, ok := middleware.CurrentUserID(c.Context)
	if !ok {
		response.Unauthorized(c.Context)
		return
	}

	conditionService := c.Container.GetConditionService()
	cond, err := conditionService.GetConditions(userID)
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	if cond == nil {
		response.Fail(c.Context, code.ErrConditionNotFound, nil)
		return
	}

	response.Success(c.Context, cond)
}

// HandleConditionFunc 返回一个处理条件配置请求的Gin处理函数
func HandleConditionFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewConditionController(ctx)

		switch method {
		case "saveConditions":
			controller.SaveConditions()
		case "getConditions":
			controller.GetConditions()
		default:
			response.FailWithMessage(ctx, code.ErrValidation, "无效的方法", nil)
		}
	}
}
