package handler

import (
	"errors"
	"net/http"
	"time"

	"finance-tracker/internal/middleware"
	"finance-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler 交易处理器
// 负责处理交易相关的 HTTP 请求，所有操作按当前用户隔离
type TransactionHandler struct {
	db *gorm.DB
}

// NewTransactionHandler 创建交易处理器实例
func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{db: db}
}

// CreateTransactionRequest 创建交易请求结构体
type CreateTransactionRequest struct {
	Amount   float64    `json:"amount" binding:"required,gt=0"`                  // 金额，必须为正
	Category string     `json:"category" binding:"required,min=1,max=50"`        // 分类
	Type     string     `json:"type" binding:"required,oneof=income expense"`    // 类型
	Date     *time.Time `json:"date"`                                           // 交易日期，缺省为当前时间
	Note     string     `json:"note" binding:"max=200"`                          // 备注
}

// QueryTransactionsRequest 查询交易请求结构体
// 定义交易查询的筛选条件
type QueryTransactionsRequest struct {
	Type      string `form:"type"`       // 类型筛选：income / expense
	Category  string `form:"category"`   // 分类模糊筛选
	StartDate string `form:"start_date"` // 开始日期（RFC3339 或 2006-01-02）
	EndDate   string `form:"end_date"`   // 结束日期
	Page      int    `form:"page"`       // 页码（从1开始）
	PageSize  int    `form:"page_size"`  // 每页数量
}

// QueryTransactionsResponse 查询交易响应结构体
type QueryTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"` // 交易列表
	Total        int64                `json:"total"`        // 总记录数
	Page         int                  `json:"page"`         // 当前页码
	PageSize     int                  `json:"page_size"`    // 每页数量
	TotalPage    int                  `json:"total_page"`   // 总页数
}

// parseDate 解析日期参数，支持 RFC3339 和 2006-01-02 两种格式
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Create 创建交易
// POST /api/v1/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "请求参数错误",
			"message": err.Error(),
		})
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	tx := models.Transaction{
		UserID:   middleware.CurrentUserID(c),
		Amount:   req.Amount,
		Category: req.Category,
		Type:     req.Type,
		Date:     date,
		Note:     req.Note,
	}
	if err := h.db.Create(&tx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "保存交易失败",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// List 查询交易列表
// GET /api/v1/transactions
// 支持按类型、分类、日期范围筛选，按日期倒序分页返回
func (h *TransactionHandler) List(c *gin.Context) {
	var req QueryTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "请求参数错误",
			"message": err.Error(),
		})
		return
	}

	// 设置默认值
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 50
	}
	if req.PageSize > 100 {
		req.PageSize = 100 // 限制最大页面大小
	}

	// 构建查询
	query := h.db.Model(&models.Transaction{}).Where("user_id = ?", middleware.CurrentUserID(c))

	// 应用筛选条件
	if req.Type == models.TypeIncome || req.Type == models.TypeExpense {
		query = query.Where("type = ?", req.Type)
	}
	if req.Category != "" {
		query = query.Where("category LIKE ?", "%"+req.Category+"%")
	}
	if req.StartDate != "" {
		if t, ok := parseDate(req.StartDate); ok {
			query = query.Where("date >= ?", t)
		}
	}
	if req.EndDate != "" {
		if t, ok := parseDate(req.EndDate); ok {
			query = query.Where("date <= ?", t)
		}
	}

	// 获取总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "查询交易失败",
			"message": err.Error(),
		})
		return
	}

	// 分页查询
	var transactions []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("date DESC").Offset(offset).Limit(req.PageSize).Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "查询交易失败",
			"message": err.Error(),
		})
		return
	}

	// 计算总页数
	totalPage := int((total + int64(req.PageSize) - 1) / int64(req.PageSize))

	c.JSON(http.StatusOK, QueryTransactionsResponse{
		Transactions: transactions,
		Total:        total,
		Page:         req.Page,
		PageSize:     req.PageSize,
		TotalPage:    totalPage,
	})
}

// Update 更新交易
// PUT /api/v1/transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "请求参数错误",
			"message": err.Error(),
		})
		return
	}

	var tx models.Transaction
	if err := h.db.Where("id = ? AND user_id = ?", c.Param("id"), middleware.CurrentUserID(c)).
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "交易不存在",
				"message": "未找到该交易记录",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "查询交易失败",
			"message": err.Error(),
		})
		return
	}

	tx.Amount = req.Amount
	tx.Category = req.Category
	tx.Type = req.Type
	tx.Note = req.Note
	if req.Date != nil {
		tx.Date = *req.Date
	}
	if err := h.db.Save(&tx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "更新交易失败",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Delete 删除交易
// DELETE /api/v1/transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	result := h.db.Where("id = ? AND user_id = ?", c.Param("id"), middleware.CurrentUserID(c)).
		Delete(&models.Transaction{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "删除交易失败",
			"message": result.Error.Error(),
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "交易不存在",
			"message": "未找到该交易记录",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "交易已删除",
	})
}

// CategorySummary 单个分类的汇总
type CategorySummary struct {
	Category string  `json:"category"` // 分类名
	Total    float64 `json:"total"`    // 金额合计
	Count    int64   `json:"count"`    // 笔数
}

// SummaryResponse 财务汇总响应结构体
type SummaryResponse struct {
	Income            float64           `json:"income"`             // 收入合计
	Expenses          float64           `json:"expenses"`           // 支出合计
	Balance           float64           `json:"balance"`            // 结余
	IncomeCategories  []CategorySummary `json:"income_categories"`  // 收入分类明细
	ExpenseCategories []CategorySummary `json:"expense_categories"` // 支出分类明细
	TotalTransactions int64             `json:"total_transactions"` // 交易总笔数
}

// Summary 财务汇总
// GET /api/v1/transactions/summary
// 返回收入、支出、结余以及按分类的明细，支持日期范围筛选
func (h *TransactionHandler) Summary(c *gin.Context) {
	query := h.db.Model(&models.Transaction{}).Where("user_id = ?", middleware.CurrentUserID(c))
	if s := c.Query("start_date"); s != "" {
		if t, ok := parseDate(s); ok {
			query = query.Where("date >= ?", t)
		}
	}
	if s := c.Query("end_date"); s != "" {
		if t, ok := parseDate(s); ok {
			query = query.Where("date <= ?", t)
		}
	}

	// 按类型汇总
	var typeTotals []struct {
		Type  string
		Total float64
		Count int64
	}
	if err := query.Session(&gorm.Session{}).
		Select("type, SUM(amount) AS total, COUNT(*) AS count").
		Group("type").
		Scan(&typeTotals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "查询汇总失败",
			"message": err.Error(),
		})
		return
	}

	// 按类型+分类汇总
	var categoryTotals []struct {
		Type     string
		Category string
		Total    float64
		Count    int64
	}
	if err := query.Session(&gorm.Session{}).
		Select("type, category, SUM(amount) AS total, COUNT(*) AS count").
		Group("type").Group("category").
		Order("total DESC").
		Scan(&categoryTotals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "查询汇总失败",
			"message": err.Error(),
		})
		return
	}

	resp := SummaryResponse{
		IncomeCategories:  make([]CategorySummary, 0),
		ExpenseCategories: make([]CategorySummary, 0),
	}
	for _, t := range typeTotals {
		resp.TotalTransactions += t.Count
		switch t.Type {
		case models.TypeIncome:
			resp.Income = t.Total
		case models.TypeExpense:
			resp.Expenses = t.Total
		}
	}
	resp.Balance = resp.Income - resp.Expenses
	for _, ct := range categoryTotals {
		cs := CategorySummary{Category: ct.Category, Total: ct.Total, Count: ct.Count}
		switch ct.Type {
		case models.TypeIncome:
			resp.IncomeCategories = append(resp.IncomeCategories, cs)
		case models.TypeExpense:
			resp.ExpenseCategories = append(resp.ExpenseCategories, cs)
		}
	}

	c.JSON(http.StatusOK, resp)
}
