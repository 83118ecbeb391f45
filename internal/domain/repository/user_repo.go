package repository

import (
	"github.com/yourusername/quizplay-api/internal/domain/entity"
)

// UserRepository определяет методы справочника участников
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	// GetByIDs возвращает найденных пользователей по списку идентификаторов.
	// Отсутствующие идентификаторы просто не попадают в результат.
	GetByIDs(ids []uint) ([]entity.User, error)
}
