package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"finance-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTransactionTestRouter 内存数据库 + 假认证的测试路由
func newTransactionTestRouter(t *testing.T, userID uint) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Transaction{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}

	h := NewTransactionHandler(db)
	r := gin.New()
	// 测试里跳过 JWT，直接注入当前用户
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})
	r.GET("/transactions", h.List)
	r.POST("/transactions", h.Create)
	r.GET("/transactions/summary", h.Summary)
	r.PUT("/transactions/:id", h.Update)
	r.DELETE("/transactions/:id", h.Delete)
	return r, db
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTransactionValidation(t *testing.T) {
	r, _ := newTransactionTestRouter(t, 1)

	// 合法请求
	w := postJSON(t, r, "/transactions", map[string]interface{}{
		"amount":   120.5,
		"category": "餐饮",
		"type":     "expense",
		"note":     "午饭",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("创建状态码 = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.Transaction
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.UserID != 1 || created.Amount != 120.5 {
		t.Errorf("创建结果 = %+v", created)
	}
	if created.Date.IsZero() {
		t.Errorf("缺省日期应为当前时间")
	}

	// 非法：金额为负
	if w := postJSON(t, r, "/transactions", map[string]interface{}{
		"amount": -3, "category": "x", "type": "expense",
	}); w.Code != http.StatusBadRequest {
		t.Errorf("负金额状态码 = %d, 期望 400", w.Code)
	}

	// 非法：类型不在枚举内
	if w := postJSON(t, r, "/transactions", map[string]interface{}{
		"amount": 3, "category": "x", "type": "transfer",
	}); w.Code != http.StatusBadRequest {
		t.Errorf("非法类型状态码 = %d, 期望 400", w.Code)
	}
}

func TestListTransactionsScopedToUser(t *testing.T) {
	r, db := newTransactionTestRouter(t, 1)

	// 直接造数：用户 1 两笔，用户 2 一笔
	for i, uid := range []uint{1, 1, 2} {
		if err := db.Create(&models.Transaction{
			UserID: uid, Amount: float64(10 * (i + 1)), Category: "cat",
			Type: models.TypeExpense,
		}).Error; err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("查询状态码 = %d", w.Code)
	}
	var resp QueryTransactionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 || len(resp.Transactions) != 2 {
		t.Errorf("total = %d, 条数 = %d, 期望用户 1 只有 2 笔", resp.Total, len(resp.Transactions))
	}
	for _, tx := range resp.Transactions {
		if tx.UserID != 1 {
			t.Errorf("返回了其他用户的交易: %+v", tx)
		}
	}
}

func TestTransactionSummary(t *testing.T) {
	r, db := newTransactionTestRouter(t, 1)

	rows := []models.Transaction{
		{UserID: 1, Amount: 3000, Category: "工资", Type: models.TypeIncome},
		{UserID: 1, Amount: 200, Category: "餐饮", Type: models.TypeExpense},
		{UserID: 1, Amount: 100, Category: "餐饮", Type: models.TypeExpense},
		{UserID: 1, Amount: 500, Category: "房租", Type: models.TypeExpense},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/transactions/summary", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("汇总状态码 = %d", w.Code)
	}
	var resp SummaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Income != 3000 || resp.Expenses != 800 || resp.Balance != 2200 {
		t.Errorf("汇总 = %+v", resp)
	}
	if resp.TotalTransactions != 4 {
		t.Errorf("TotalTransactions = %d, 期望 4", resp.TotalTransactions)
	}
	if len(resp.ExpenseCategories) != 2 {
		t.Fatalf("支出分类数 = %d, 期望 2", len(resp.ExpenseCategories))
	}
	// 分类按金额倒序
	if resp.ExpenseCategories[0].Category != "房租" || resp.ExpenseCategories[0].Total != 500 {
		t.Errorf("支出分类[0] = %+v, 期望 房租:500", resp.ExpenseCategories[0])
	}
	if resp.ExpenseCategories[1].Category != "餐饮" || resp.ExpenseCategories[1].Count != 2 {
		t.Errorf("支出分类[1] = %+v, 期望 餐饮 2 笔", resp.ExpenseCategories[1])
	}
}

func TestDeleteTransactionNotFound(t *testing.T) {
	r, db := newTransactionTestRouter(t, 1)

	// 别人的交易删不掉
	other := models.Transaction{UserID: 2, Amount: 10, Category: "x", Type: models.TypeExpense}
	if err := db.Create(&other).Error; err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/transactions/%d", other.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("删除他人交易状态码 = %d, 期望 404", w.Code)
	}

	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 1 {
		t.Errorf("交易不应被删除")
	}
}
