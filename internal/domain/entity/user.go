package entity

import (
	"time"
)

// Роли пользователей
const (
	RoleAuthor = "author"
	RoleTaker  = "taker"
)

// User представляет запись справочника участников.
// Ядро читает справочник только для отображения имен в лидерборде;
// создание учетных записей выполняется внешним контуром.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role      string    `gorm:"size:20;not null;default:'taker'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}
