package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/taysluxe/tayai/app/logic/v1"
	"github.com/taysluxe/tayai/app/response"
	"github.com/taysluxe/tayai/pkg/types"
	"github.com/taysluxe/tayai/pkg/utils"
)

func (s *HttpSrv) CreateKnowledge(c *gin.Context) {
	var req v1.CreateKnowledgeArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	kb, err := v1.NewKnowledgeLogic(c, s.Core).CreateKnowledge(req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, kb)
}

func (s *HttpSrv) GetKnowledge(c *gin.Context) {
	kb, err := v1.NewKnowledgeLogic(c, s.Core).GetKnowledge(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, kb)
}

func (s *HttpSrv) UpdateKnowledge(c *gin.Context) {
	var req v1.UpdateKnowledgeArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	kb, err := v1.NewKnowledgeLogic(c, s.Core).UpdateKnowledge(c.Param("id"), req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, kb)
}

func (s *HttpSrv) DeleteKnowledge(c *gin.Context) {
	if err := v1.NewKnowledgeLogic(c, s.Core).DeleteKnowledge(c.Param("id")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) ListKnowledge(c *gin.Context) {
	page, pageSize := paging(c)
	opts := types.ListKnowledgeOptions{
		Namespace: c.Query("namespace"),
		Category:  c.Query("category"),
	}

	list, total, err := v1.NewKnowledgeLogic(c, s.Core).ListKnowledges(opts, page, pageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.ListResult{List: list, Total: total})
}

func (s *HttpSrv) ReindexKnowledge(c *gin.Context) {
	if err := v1.NewKnowledgeLogic(c, s.Core).Reindex(c.Param("id")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) ReindexAllKnowledge(c *gin.Context) {
	count, err := v1.NewKnowledgeLogic(c, s.Core).ReindexAll()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, gin.H{"reindexed": count})
}

func (s *HttpSrv) KnowledgeStats(c *gin.Context) {
	stats, err := v1.NewKnowledgeLogic(c, s.Core).Stats()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, stats)
}
