package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/util"
	"mcq_quiz_backend/pkg/logger"
	"mcq_quiz_backend/pkg/monitoring"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// MCQInput 新建/修改题目的入参
// swagger:model MCQInput
type MCQInput struct {
	Question      string   `json:"question" validate:"required,max=2000"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectOption []string `json:"correct_option" validate:"required,min=1,dive,required"`
	CategoryID    uint     `json:"category" validate:"required_without=CategoryName"`

	// CategoryName 仅批量导入使用，按名称指定分类
	CategoryName string `json:"-"`
}

func (in *MCQInput) trim() {
	in.Question = strings.TrimSpace(in.Question)
	in.CategoryName = strings.TrimSpace(in.CategoryName)
	in.Options = trimAll(in.Options)
	in.CorrectOption = trimAll(in.CorrectOption)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ImportFailure 导入失败的行号（含表头，从 1 开始）及原因
type ImportFailure struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// swagger:model ImportReport
type ImportReport struct {
	Total    int             `json:"total"`
	Imported int             `json:"imported"`
	Failed   []ImportFailure `json:"failed"`
	Archive  string          `json:"archive,omitempty"`
}

var importColumns = []string{"question", "options", "correct_option", "category"}

const importListSeparator = "|"

type MCQService struct {
	UoW      repository.UnitOfWork
	Storage  *StorageService
	validate *validator.Validate
}

func NewMCQService(uow repository.UnitOfWork, storage *StorageService) *MCQService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(correctOptionSubset, MCQInput{})

	return &MCQService{UoW: uow, Storage: storage, validate: v}
}

// correctOptionSubset 正确答案必须全部出现在选项中
func correctOptionSubset(sl validator.StructLevel) {
	in := sl.Current().Interface().(MCQInput)
	options := make(map[string]bool, len(in.Options))
	for _, opt := range in.Options {
		options[model.NormalizeAnswer(opt)] = true
	}
	for _, c := range in.CorrectOption {
		if !options[model.NormalizeAnswer(c)] {
			sl.ReportError(in.CorrectOption, "correct_option", "CorrectOption", "subset", "options")
			return
		}
	}
}

func (s *MCQService) validateInput(in *MCQInput) error {
	in.trim()
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return util.Validationf("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return util.Validationf("%s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must contain at least %s items", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "required_without":
		return "category is required"
	case "subset":
		return "correct_option must be a subset of options"
	}
	return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
}

// List categoryID 为 0 时返回全部题目
func (s *MCQService) List(ctx context.Context, categoryID uint) ([]model.MCQ, error) {
	var mcqs []model.MCQ
	err := s.UoW.Do(ctx, func(repos *repository.Repositories) (err error) {
		if categoryID == 0 {
			mcqs, err = repos.MCQs.GetAll()
			return err
		}
		if _, err := repos.Categories.GetOne(categoryID); err != nil {
			return err
		}
		mcqs, err = repos.MCQs.GetByCategory(categoryID)
		return err
	})
	if mcqs == nil {
		mcqs = []model.MCQ{}
	}
	return mcqs, err
}

func (s *MCQService) Get(ctx context.Context, id uint) (*model.MCQ, error) {
	var mcq *model.MCQ
	err := s.UoW.Do(ctx, func(repos *repository.Repositories) (err error) {
		mcq, err = repos.MCQs.GetOne(id)
		return err
	})
	return mcq, err
}

func (s *MCQService) Create(ctx context.Context, user *model.User, in MCQInput) (*model.MCQ, error) {
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	var mcq *model.MCQ
	err := s.UoW.Do(ctx, func(repos *repository.Repositories) (err error) {
		mcq, err = insertMCQ(repos, user, in)
		return err
	})
	return mcq, err
}

func insertMCQ(repos *repository.Repositories, user *model.User, in MCQInput) (*model.MCQ, error) {
	if in.CategoryID == 0 {
		c, err := repos.Categories.GetByName(in.CategoryName)
		if err != nil {
			return nil, err
		}
		in.CategoryID = c.ID
	} else if _, err := repos.Categories.GetOne(in.CategoryID); err != nil {
		return nil, err
	}
	if err := ensureMCQUnique(repos, in, 0); err != nil {
		return nil, err
	}

	mcq := &model.MCQ{
		Question:      in.Question,
		Options:       in.Options,
		CorrectOption: in.CorrectOption,
		CategoryID:    in.CategoryID,
		Audit:         model.Audit{CreatedBy: user.ID},
	}
	if err := repos.MCQs.Add(mcq); err != nil {
		return nil, err
	}
	return mcq, nil
}

func ensureMCQUnique(repos *repository.Repositories, in MCQInput, selfID uint) error {
	existing, err := repos.MCQs.GetByQuestionAndOptions(in.Question, in.Options)
	if errors.Is(err, util.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return util.Conflictf("an identical question already exists (id %d)", existing.ID)
	}
	return nil
}

func (s *MCQService) Update(ctx context.Context, user *model.User, id uint, in MCQInput) (*model.MCQ, error) {
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	var mcq *model.MCQ
	err := s.UoW.Do(ctx, func(repos *repository.Repositories) (err error) {
		mcq, err = repos.MCQs.GetOne(id)
		if err != nil {
			return err
		}
		if _, err := repos.Categories.GetOne(in.CategoryID); err != nil {
			return err
		}
		if err := ensureMCQUnique(repos, in, id); err != nil {
			return err
		}

		mcq.Question = in.Question
		mcq.Options = in.Options
		mcq.CorrectOption = in.CorrectOption
		mcq.CategoryID = in.CategoryID
		mcq.Touch(user.ID)
		return repos.MCQs.Update(mcq)
	})
	if err != nil {
		return nil, err
	}
	return mcq, nil
}

func (s *MCQService) Delete(ctx context.Context, id uint) error {
	return s.UoW.Do(ctx, func(repos *repository.Repositories) error {
		return repos.MCQs.Delete(id)
	})
}

// Import 批量导入 CSV，逐行独立事务，失败行记入报告后继续
func (s *MCQService) Import(ctx context.Context, user *model.User, r io.Reader) (*ImportReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, util.Validationf("read upload: %v", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, util.Validationf("csv file is empty")
	}
	if err != nil {
		return nil, util.Validationf("invalid csv header: %v", err)
	}
	columns, err := importColumnIndex(header)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Failed: []ImportFailure{}}
	if s.Storage != nil {
		name := ArchiveName("imports/mcq", ".csv")
		url, err := s.Storage.Upload(ctx, name, bytes.NewReader(data), int64(len(data)), util.MimeCSV)
		if err != nil {
			logger.Log.Warn("Failed to archive mcq import", zap.String("name", name), zap.Error(err))
		} else {
			report.Archive = url
		}
	}

	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		report.Total++
		if err != nil {
			report.Failed = append(report.Failed, ImportFailure{Row: row, Error: err.Error()})
			if errors.Is(err, csv.ErrFieldCount) {
				continue
			}
			break
		}

		if err := s.importRow(ctx, user, record, columns); err != nil {
			report.Failed = append(report.Failed, ImportFailure{Row: row, Error: importErrorMessage(err)})
			continue
		}
		report.Imported++
	}

	monitoring.McqImported.WithLabelValues("imported").Add(float64(report.Imported))
	monitoring.McqImported.WithLabelValues("failed").Add(float64(len(report.Failed)))
	logger.Log.Info("MCQ import finished",
		zap.Uint("user_id", user.ID),
		zap.Int("total", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

func importColumnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range importColumns {
		if _, ok := index[col]; !ok {
			return nil, util.Validationf("csv header must contain columns %s", strings.Join(importColumns, ", "))
		}
	}
	return index, nil
}

func (s *MCQService) importRow(ctx context.Context, user *model.User, record []string, columns map[string]int) error {
	in := MCQInput{
		Question:      record[columns["question"]],
		Options:       strings.Split(record[columns["options"]], importListSeparator),
		CorrectOption: strings.Split(record[columns["correct_option"]], importListSeparator),
	}
	category := strings.TrimSpace(record[columns["category"]])
	if id, err := strconv.ParseUint(category, 10, 32); err == nil {
		in.CategoryID = uint(id)
	} else {
		in.CategoryName = category
	}
	if err := s.validateInput(&in); err != nil {
		return err
	}

	return s.UoW.Do(ctx, func(repos *repository.Repositories) error {
		_, err := insertMCQ(repos, user, in)
		return err
	})
}

func importErrorMessage(err error) string {
	for _, kind := range []error{util.ErrValidation, util.ErrNotFound, util.ErrConflict} {
		if errors.Is(err, kind) {
			return err.Error()
		}
	}
	logger.Log.Error("MCQ import row failed", zap.Error(err))
	return "internal error"
}
