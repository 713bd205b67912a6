package models

import (
	"time"
)

// 交易类型
const (
	TypeIncome  = "income"  // 收入
	TypeExpense = "expense" // 支出
)

// User 用户模型
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                         // 主键 ID
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"` // 用户名
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`   // 邮箱
	PasswordHash string    `gorm:"size:100;not null" json:"-"`                   // 密码哈希，不输出
	CreatedAt    time.Time `json:"created_at"`                                   // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                   // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Transaction 交易模型
// 记录某个用户的一笔收入或支出
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                   // 主键 ID
	UserID    uint      `gorm:"index:idx_user_date,priority:1;not null" json:"user_id"` // 所属用户
	Amount    float64   `gorm:"not null" json:"amount"`                                 // 金额，必须为正
	Category  string    `gorm:"size:50;not null" json:"category"`                       // 分类
	Type      string    `gorm:"size:10;not null;index" json:"type"`                     // 类型：income / expense
	Date      time.Time `gorm:"index:idx_user_date,priority:2;not null" json:"date"`    // 交易日期
	Note      string    `gorm:"size:200" json:"note"`                                   // 备注
	CreatedAt time.Time `json:"created_at"`                                             // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                             // 更新时间
}

// TableName 指定表名
func (Transaction) TableName() string {
	return "transactions"
}
