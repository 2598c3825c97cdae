package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taysluxe/tayai/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func paging(c *gin.Context) (uint64, uint64) {
	page, _ := strconv.ParseUint(c.Query("page"), 10, 64)
	if page == 0 {
		page = 1
	}
	pageSize, _ := strconv.ParseUint(c.Query("pagesize"), 10, 64)
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
