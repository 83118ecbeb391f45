package service

import (
	"log"
	"sort"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
	"github.com/yourusername/quizplay-api/internal/domain/repository"
)

// LeaderboardService строит таблицы лидеров по сохраненным попыткам
type LeaderboardService struct {
	attemptRepo repository.AttemptRepository
	userRepo    repository.UserRepository
	quizRepo    repository.QuizRepository
}

// NewLeaderboardService создает новый сервис таблицы лидеров
func NewLeaderboardService(
	attemptRepo repository.AttemptRepository,
	userRepo repository.UserRepository,
	quizRepo repository.QuizRepository,
) *LeaderboardService {
	return &LeaderboardService{
		attemptRepo: attemptRepo,
		userRepo:    userRepo,
		quizRepo:    quizRepo,
	}
}

// GetLeaderboard строит таблицу лидеров викторины.
// Для каждого участника берется лучшая попытка: с наибольшим процентом,
// при равных процентах - более ранняя. Участники без профиля в таблицу
// не попадают. Сортировка: процент по убыванию, затем время завершения
// по возрастанию. Пустой набор попыток дает пустую таблицу.
func (s *LeaderboardService) GetLeaderboard(quizID uint) ([]entity.LeaderboardEntry, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}

	attempts, err := s.attemptRepo.GetByQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return []entity.LeaderboardEntry{}, nil
	}

	best := bestAttemptPerTaker(attempts)

	takerIDs := make([]uint, 0, len(best))
	for takerID := range best {
		takerIDs = append(takerIDs, takerID)
	}
	users, err := s.userRepo.GetByIDs(takerIDs)
	if err != nil {
		return nil, err
	}
	userByID := make(map[uint]entity.User, len(users))
	for _, user := range users {
		userByID[user.ID] = user
	}

	entries := make([]entity.LeaderboardEntry, 0, len(best))
	for takerID, attempt := range best {
		user, ok := userByID[takerID]
		if !ok {
			log.Printf("[LeaderboardService] Участник %d не найден, попытка %d пропущена", takerID, attempt.ID)
			continue
		}
		entries = append(entries, entity.LeaderboardEntry{
			TakerID:        takerID,
			TakerName:      user.Name,
			TakerEmail:     user.Email,
			Score:          attempt.Score,
			TotalQuestions: attempt.TotalQuestions,
			Percentage:     attempt.Percentage(),
			CompletedAt:    attempt.CompletedAt,
		})
	}

	sortEntries(entries)
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// bestAttemptPerTaker выбирает лучшую попытку каждого участника
func bestAttemptPerTaker(attempts []entity.Attempt) map[uint]entity.Attempt {
	best := make(map[uint]entity.Attempt)
	for _, attempt := range attempts {
		current, ok := best[attempt.TakerID]
		if !ok || betterAttempt(attempt, current) {
			best[attempt.TakerID] = attempt
		}
	}
	return best
}

// betterAttempt сообщает, предпочтительнее ли попытка a попытки b
func betterAttempt(a, b entity.Attempt) bool {
	if a.Percentage() != b.Percentage() {
		return a.Percentage() > b.Percentage()
	}
	return a.CompletedAt.Before(b.CompletedAt)
}

// sortEntries упорядочивает строки таблицы. Хвостовой ключ TakerID
// делает порядок полностью детерминированным при совпадении времени.
func sortEntries(entries []entity.LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Percentage != entries[j].Percentage {
			return entries[i].Percentage > entries[j].Percentage
		}
		if !entries[i].CompletedAt.Equal(entries[j].CompletedAt) {
			return entries[i].CompletedAt.Before(entries[j].CompletedAt)
		}
		return entries[i].TakerID < entries[j].TakerID
	})
}
