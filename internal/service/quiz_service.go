package service

import (
	"context"
	"errors"
	"math/rand"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/util"
	"mcq_quiz_backend/pkg/logger"
	"mcq_quiz_backend/pkg/monitoring"
	"mcq_quiz_backend/pkg/tracing"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// QuizQuestion 下发给答题者的题目，不含正确答案
// swagger:model QuizQuestion
type QuizQuestion struct {
	ID       uint     `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// swagger:model StartQuizResponse
type StartQuizResponse struct {
	AttemptID int            `json:"attempt_id"`
	Questions []QuizQuestion `json:"questions"`
}

// SubmitAnswer Answer 为 nil 或空串视为未作答
type SubmitAnswer struct {
	QuestionID uint    `json:"question_id" binding:"required"`
	Answer     *string `json:"answer"`
}

// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	AttemptID  int            `json:"attempt_id" binding:"required"`
	CategoryID uint           `json:"category_id" binding:"required"`
	Answers    []SubmitAnswer `json:"answers" binding:"dive"`
}

// swagger:model QuizSummary
type QuizSummary struct {
	AttemptID            int `json:"attempt_id"`
	TotalQuestions       int `json:"total_questions"`
	QuestionsAttempted   int `json:"questions_attempted"`
	QuestionsUnattempted int `json:"questions_unattempted"`
	CorrectAnswers       int `json:"correct_answers"`
	WrongAnswers         int `json:"wrong_answers"`
	Score                int `json:"score"`
}

// swagger:model AttemptDetail
type AttemptDetail struct {
	model.QuizAttempt
	WrongAnswers int                     `json:"wrong_answers"`
	Questions    []model.AttemptQuestion `json:"questions"`
}

type QuizService struct {
	UoW          repository.UnitOfWork
	Reservations AttemptReservationStore

	// randIntN 返回 [0, n) 的均匀随机数，测试中可替换
	randIntN func(n int) int
}

func NewQuizService(uow repository.UnitOfWork, reservations AttemptReservationStore) *QuizService {
	if reservations == nil {
		reservations = noopReservationStore{}
	}
	return &QuizService{
		UoW:          uow,
		Reservations: reservations,
		randIntN:     rand.Intn,
	}
}

func summaryOf(a *model.QuizAttempt) *QuizSummary {
	return &QuizSummary{
		AttemptID:            a.AttemptID,
		TotalQuestions:       a.TotalQuestions,
		QuestionsAttempted:   a.QuestionsAttempted,
		QuestionsUnattempted: a.QuestionsUnattempted,
		CorrectAnswers:       a.CorrectAnswers,
		WrongAnswers:         a.WrongAnswers(),
		Score:                a.Score,
	}
}

// StartQuiz 从分类中随机抽取至多 25 道题并分配 attempt_id，此时不落库
func (s *QuizService) StartQuiz(ctx context.Context, user *model.User, categoryID uint) (resp *StartQuizResponse, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "quiz.start")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.Int64("user.id", int64(user.ID)), attribute.Int64("category.id", int64(categoryID)))

	var sample []model.MCQ
	var attemptID int
	err = s.UoW.Do(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Categories.GetOne(categoryID); err != nil {
			return err
		}
		mcqs, err := repos.MCQs.GetByCategory(categoryID)
		if err != nil {
			return err
		}
		if len(mcqs) == 0 {
			return util.NotFoundf("no questions found in category %d", categoryID)
		}

		sample = s.sample(mcqs, model.MaxQuizQuestions)
		ids := make([]uint, len(sample))
		for i := range sample {
			ids[i] = sample[i].ID
		}

		attemptID, err = s.generateAttemptID(ctx, repos, AttemptReservation{
			UserID:      user.ID,
			CategoryID:  categoryID,
			QuestionIDs: ids,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	resp = &StartQuizResponse{AttemptID: attemptID, Questions: make([]QuizQuestion, len(sample))}
	for i, q := range sample {
		resp.Questions[i] = QuizQuestion{ID: q.ID, Question: q.Question, Options: q.Options}
	}

	monitoring.QuizStarted.Inc()
	span.SetAttributes(attribute.Int("attempt.id", attemptID), attribute.Int("attempt.questions", len(sample)))
	logger.Log.Info("Quiz started",
		zap.Uint("user_id", user.ID),
		zap.Uint("category_id", categoryID),
		zap.Int("attempt_id", attemptID),
		zap.Int("questions", len(sample)),
	)
	return resp, nil
}

// generateAttemptID 反复抽取 6 位数，直到库中不存在且预留成功
func (s *QuizService) generateAttemptID(ctx context.Context, repos *repository.Repositories, r AttemptReservation) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		id := model.MinAttemptID + s.randIntN(model.MaxAttemptID-model.MinAttemptID+1)
		_, err := repos.QuizAttempts.GetByAttemptID(id)
		if err == nil {
			continue
		}
		if !errors.Is(err, util.ErrNotFound) {
			return 0, err
		}

		ok, err := s.Reservations.Reserve(ctx, id, r)
		if err != nil {
			return 0, util.Internal("reserve attempt id", err)
		}
		if ok {
			return id, nil
		}
	}
}

// sample 部分 Fisher-Yates 洗牌，无放回均匀抽取 min(len, k) 道题
func (s *QuizService) sample(mcqs []model.MCQ, k int) []model.MCQ {
	pool := slices.Clone(mcqs)
	k = min(k, len(pool))
	for i := 0; i < k; i++ {
		j := i + s.randIntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// SubmitQuiz 在一个事务内写入作答记录并计分，任何失败整体回滚
func (s *QuizService) SubmitQuiz(ctx context.Context, user *model.User, req *SubmitQuizRequest) (summary *QuizSummary, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "quiz.submit")
	defer func() {
		monitoring.QuizSubmitted.WithLabelValues(submitOutcome(err)).Inc()
		tracing.EndSpan(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", int64(user.ID)), attribute.Int("attempt.id", req.AttemptID))

	if req.AttemptID < model.MinAttemptID || req.AttemptID > model.MaxAttemptID {
		return nil, util.Validationf("attempt_id must be a 6-digit number")
	}

	reservation, err := s.Reservations.Get(ctx, req.AttemptID)
	if err != nil {
		return nil, util.Internal("load attempt reservation", err)
	}
	var allowed map[uint]bool
	if reservation != nil {
		if reservation.UserID != user.ID {
			return nil, util.Conflictf("attempt %d belongs to another user", req.AttemptID)
		}
		if reservation.CategoryID != req.CategoryID {
			return nil, util.Validationf("attempt %d was started for category %d", req.AttemptID, reservation.CategoryID)
		}
		allowed = make(map[uint]bool, len(reservation.QuestionIDs))
		for _, id := range reservation.QuestionIDs {
			allowed[id] = true
		}
	}

	err = s.UoW.Do(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Categories.GetOne(req.CategoryID); err != nil {
			return err
		}
		if _, err := repos.QuizAttempts.GetByAttemptID(req.AttemptID); err == nil {
			return util.Conflictf("attempt %d has already been submitted", req.AttemptID)
		} else if !errors.Is(err, util.ErrNotFound) {
			return err
		}

		mcqs, err := repos.MCQs.GetByCategory(req.CategoryID)
		if err != nil {
			return err
		}
		byID := make(map[uint]*model.MCQ, len(mcqs))
		for i := range mcqs {
			byID[mcqs[i].ID] = &mcqs[i]
		}

		answered := 0
		for _, ans := range req.Answers {
			if ans.Answer != nil && *ans.Answer != "" {
				answered++
			}
		}
		if answered > model.MaxQuizQuestions {
			return util.Validationf("%d answers submitted but a quiz has at most %d questions", answered, model.MaxQuizQuestions)
		}

		// 开始与提交之间题目可能被删除，作答数不小于题目数以保持计数不变量
		total := max(min(len(mcqs), model.MaxQuizQuestions), answered)
		attempt := &model.QuizAttempt{
			UserID:               user.ID,
			AttemptID:            req.AttemptID,
			CategoryID:           req.CategoryID,
			TotalQuestions:       total,
			QuestionsUnattempted: total,
		}
		if err := repos.QuizAttempts.Add(attempt); err != nil {
			return err
		}

		seen := make(map[uint]bool, len(req.Answers))
		attempted, correct := 0, 0
		for _, ans := range req.Answers {
			if seen[ans.QuestionID] {
				return util.Validationf("question %d answered more than once", ans.QuestionID)
			}
			seen[ans.QuestionID] = true

			if ans.Answer == nil || *ans.Answer == "" {
				continue
			}
			if allowed != nil && !allowed[ans.QuestionID] {
				return util.Validationf("question %d was not part of attempt %d", ans.QuestionID, req.AttemptID)
			}

			attempted++
			q, ok := byID[ans.QuestionID]
			isCorrect := ok && q.IsCorrect(*ans.Answer)
			if isCorrect {
				correct++
			}

			if !ok {
				// 不在该分类下的题目计为答错；题目已被删除时只计数不落行
				if _, err := repos.MCQs.GetOne(ans.QuestionID); errors.Is(err, util.ErrNotFound) {
					continue
				} else if err != nil {
					return err
				}
			}
			if err := repos.AttemptQuestions.Add(&model.AttemptQuestion{
				AttemptID:       req.AttemptID,
				QuestionID:      ans.QuestionID,
				AttemptedAnswer: *ans.Answer,
				IsCorrect:       isCorrect,
			}); err != nil {
				return err
			}
		}

		attempt.ApplyScore(attempted, correct)
		if err := repos.QuizAttempts.UpdateScore(attempt); err != nil {
			return err
		}
		summary = summaryOf(attempt)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if reservation != nil {
		if err := s.Reservations.Release(ctx, req.AttemptID); err != nil {
			logger.Log.Warn("Failed to release attempt reservation", zap.Int("attempt_id", req.AttemptID), zap.Error(err))
		}
	}

	monitoring.QuizScore.Observe(float64(summary.Score))
	logger.Log.Info("Quiz submitted",
		zap.Uint("user_id", user.ID),
		zap.Int("attempt_id", summary.AttemptID),
		zap.Int("score", summary.Score),
	)
	return summary, nil
}

func submitOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, util.ErrConflict):
		return "conflict"
	case errors.Is(err, util.ErrValidation):
		return "validation"
	case errors.Is(err, util.ErrNotFound):
		return "not_found"
	}
	return "error"
}

// GetUserAttempts 管理员返回全部记录，普通用户只返回自己的，按创建顺序排列
func (s *QuizService) GetUserAttempts(ctx context.Context, user *model.User) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := s.UoW.Do(ctx, func(repos *repository.Repositories) (err error) {
		if user.IsAdmin() {
			attempts, err = repos.QuizAttempts.GetAll()
		} else {
			attempts, err = repos.QuizAttempts.GetByUser(user.ID)
		}
		return err
	})
	if attempts == nil {
		attempts = []model.QuizAttempt{}
	}
	return attempts, err
}

func (s *QuizService) GetAttemptDetail(ctx context.Context, user *model.User, attemptID int) (*AttemptDetail, error) {
	var detail *AttemptDetail
	err := s.UoW.Do(ctx, func(repos *repository.Repositories) error {
		attempt, err := repos.QuizAttempts.GetByAttemptID(attemptID)
		if err != nil {
			return err
		}
		if attempt.UserID != user.ID && !user.IsAdmin() {
			return util.Forbiddenf("attempt %d belongs to another user", attemptID)
		}
		questions, err := repos.AttemptQuestions.GetByAttempt(attemptID)
		if err != nil {
			return err
		}
		if questions == nil {
			questions = []model.AttemptQuestion{}
		}
		detail = &AttemptDetail{QuizAttempt: *attempt, WrongAnswers: attempt.WrongAnswers(), Questions: questions}
		return nil
	})
	return detail, err
}

// DeleteAttemptQuestions 清理某次作答的题目记录，返回删除条数
func (s *QuizService) DeleteAttemptQuestions(ctx context.Context, attemptID int) (int64, error) {
	var deleted int64
	err := s.UoW.Do(ctx, func(repos *repository.Repositories) (err error) {
		if _, err := repos.QuizAttempts.GetByAttemptID(attemptID); err != nil {
			return err
		}
		deleted, err = repos.AttemptQuestions.DeleteByAttempt(attemptID)
		return err
	})
	if err == nil {
		logger.Log.Info("Attempt questions deleted", zap.Int("attempt_id", attemptID), zap.Int64("deleted", deleted))
	}
	return deleted, err
}
