package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	v1 "github.com/taysluxe/tayai/app/logic/v1"
	"github.com/taysluxe/tayai/app/response"
	"github.com/taysluxe/tayai/pkg/types"
	"github.com/taysluxe/tayai/pkg/utils"
)

func (s *HttpSrv) ListMissingKBItems(c *gin.Context) {
	page, pageSize := paging(c)

	opts := types.ListMissingKBItemsOptions{
		SuggestedNamespace: c.Query("namespace"),
	}
	if raw := c.Query("resolved"); raw != "" {
		resolved, _ := strconv.ParseBool(raw)
		opts.IsResolved = &resolved
	}

	list, total, err := v1.NewCurationLogic(c, s.Core).ListMissingItems(opts, page, pageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.ListResult{List: list, Total: total})
}

func (s *HttpSrv) ResolveMissingKBItem(c *gin.Context) {
	if err := v1.NewCurationLogic(c, s.Core).Resolve(c.Param("id")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

// ResolveMissingKBItemWithKnowledge closes the gap by creating a knowledge
// entry in one call.
func (s *HttpSrv) ResolveMissingKBItemWithKnowledge(c *gin.Context) {
	var req v1.CreateKnowledgeArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	kb, err := v1.NewCurationLogic(c, s.Core).ResolveWithKnowledge(c.Param("id"), req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, kb)
}

func (s *HttpSrv) TopQuestions(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))
	limit, _ := strconv.ParseUint(c.Query("limit"), 10, 64)

	list, err := v1.NewInsightsLogic(c, s.Core).TopQuestions(days, limit)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) CategoryCounts(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))

	counts, err := v1.NewInsightsLogic(c, s.Core).CategoryCounts(days)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, counts)
}

func (s *HttpSrv) NamespaceCoverage(c *gin.Context) {
	coverage, err := v1.NewInsightsLogic(c, s.Core).Coverage()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, coverage)
}
