package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
	"github.com/yourusername/quizplay-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizplay-api/internal/pkg/errors"
)

// UserService управляет справочником участников
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис справочника участников
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterTaker заводит запись участника в справочнике.
// Email нормализуется; дубликат email дает ErrConflict.
func (s *UserService) RegisterTaker(name, email string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: имя участника не указано", apperrors.ErrValidation)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email участника не указан", apperrors.ErrValidation)
	}

	user := &entity.User{
		Name:  name,
		Email: email,
		Role:  entity.RoleTaker,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser возвращает запись участника по идентификатору
func (s *UserService) GetUser(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}
