package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/taysluxe/tayai/app/logic/v1"
	"github.com/taysluxe/tayai/app/response"
	"github.com/taysluxe/tayai/pkg/types"
	"github.com/taysluxe/tayai/pkg/utils"
)

func (s *HttpSrv) GetProfile(c *gin.Context) {
	response.APISuccess(c, v1.NewUserLogic(c, s.Core).Profile())
}

func (s *HttpSrv) GetUsageStatus(c *gin.Context) {
	status, err := v1.NewUsageLogic(c, s.Core).Status()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, status)
}

func (s *HttpSrv) CreateUser(c *gin.Context) {
	var req v1.CreateUserArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	user, token, err := v1.NewUserLogic(c, s.Core).CreateUser(req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, gin.H{
		"user":         user,
		"access_token": token,
	})
}

func (s *HttpSrv) ListUsers(c *gin.Context) {
	page, pageSize := paging(c)

	list, total, err := v1.NewUserLogic(c, s.Core).ListUsers(page, pageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.ListResult{List: list, Total: total})
}

type SetUserTierRequest struct {
	Tier types.UserTier `json:"tier" binding:"required"`
}

func (s *HttpSrv) SetUserTier(c *gin.Context) {
	var req SetUserTierRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewUserLogic(c, s.Core).SetUserTier(c.Param("id"), req.Tier); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}
