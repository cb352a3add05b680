package nutrition

import (
	"context"
	"errors"
	"net/http"

	"recipe-nutrition/internal/core/queue"
	recipeService "recipe-nutrition/internal/core/recipe"
	"recipe-nutrition/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// Handler 營養計算處理程序
type Handler struct {
	service *recipeService.NutritionService
	queue   *queue.Manager
	debug   bool
}

// NewHandler 創建營養計算處理程序，queue 為 nil 時批次請求依序計算
func NewHandler(service *recipeService.NutritionService, q *queue.Manager, debug bool) *Handler {
	return &Handler{service: service, queue: q, debug: debug}
}

// HandleCalculate 計算整份食譜營養
func (h *Handler) HandleCalculate(c *gin.Context) {
	var req common.CalculateRequest
	if !h.bind(c, &req) {
		return
	}

	common.LogInfo("開始計算食譜營養",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("ingredients", len(req.Ingredients)),
		zap.Int("servings", req.Servings),
	)

	result, err := h.service.Calculate(c.Request.Context(), req.Ingredients, req.Servings)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleParse 解析單一食材
func (h *Handler) HandleParse(c *gin.Context) {
	var req common.ParseRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.service.Parse(c.Request.Context(), req.Ingredient)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleBatch 批次計算多份食譜，單一食譜失敗不影響其他食譜
func (h *Handler) HandleBatch(c *gin.Context) {
	var req common.BatchRequest
	if !h.bind(c, &req) {
		return
	}
	if len(req.Recipes) == 0 {
		h.fail(c, common.NewValidationError("at least one recipe is required"))
		return
	}

	jobs := make([]queue.Job, len(req.Recipes))
	for i, r := range req.Recipes {
		id := r.ID
		if id == "" {
			id = common.GenerateUUID()
		}
		jobs[i] = queue.Job{ID: id, Ingredients: r.Ingredients, Servings: r.Servings}
	}

	common.LogInfo("開始批次計算",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("recipes", len(jobs)),
	)

	results := h.runJobs(c.Request.Context(), jobs)

	resp := common.BatchResponse{Results: make([]common.BatchItemResult, len(results))}
	for i, res := range results {
		item := common.BatchItemResult{ID: res.ID}
		if res.Error != nil {
			_, errResp := h.errorResponse(res.Error)
			item.Error = &errResp
			resp.Failed++
		} else {
			item.Result = res.Nutrition
			resp.Succeeded++
		}
		resp.Results[i] = item
	}

	c.JSON(http.StatusOK, resp)
}

// runJobs 將工作交給 worker，隊列滿時先等待最早的工作完成再繼續排入
// 回傳順序與 jobs 相同
func (h *Handler) runJobs(ctx context.Context, jobs []queue.Job) []queue.Result {
	results := make([]queue.Result, len(jobs))

	if h.queue == nil {
		for i, job := range jobs {
			res, err := h.service.Calculate(ctx, job.Ingredients, job.Servings)
			results[i] = queue.Result{ID: job.ID, Nutrition: res, Error: err}
		}
		return results
	}

	type pending struct {
		index int
		ch    <-chan queue.Result
	}
	var inflight []pending

	wait := func(p pending) {
		select {
		case res := <-p.ch:
			results[p.index] = res
		case <-ctx.Done():
			results[p.index] = queue.Result{ID: jobs[p.index].ID, Error: ctx.Err()}
		}
	}

	for i := 0; i < len(jobs); {
		ch, err := h.queue.Enqueue(ctx, jobs[i])
		if errors.Is(err, common.ErrQueueFull) && len(inflight) > 0 {
			wait(inflight[0])
			inflight = inflight[1:]
			continue
		}
		if err != nil {
			results[i] = queue.Result{ID: jobs[i].ID, Error: err}
		} else {
			inflight = append(inflight, pending{index: i, ch: ch})
		}
		i++
	}

	for _, p := range inflight {
		wait(p)
	}
	return results
}

// HandleSuggestion 解析 AI 食譜建議並計算營養
func (h *Handler) HandleSuggestion(c *gin.Context) {
	var req common.SuggestionRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.service.Suggest(c.Request.Context(), req.Content, req.Servings)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// bind 解析 JSON 請求，失敗時直接回應 400
// bind 嚴格解析請求，未知欄位與多餘資料視為格式錯誤
func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	err := common.DecodeJSONStrict(c.Request.Body, req)
	if err == nil {
		err = binding.Validator.ValidateStruct(req)
	}
	if err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		h.fail(c, common.ErrInvalidRequest.WithError(err))
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, resp := h.errorResponse(err)
	if status >= http.StatusInternalServerError {
		common.LogError("營養計算失敗",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// errorResponse 將 context 錯誤轉為逾時，其餘交給 common.ToErrorResponse
func (h *Handler) errorResponse(err error) (int, common.ErrorResponse) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		err = common.ErrGatewayTimeout.WithError(err)
	}
	return common.ToErrorResponse(err, h.debug)
}
