package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"vocab_learn_backend/internal/model"
	"vocab_learn_backend/internal/repository"
	"vocab_learn_backend/internal/util"
	"vocab_learn_backend/pkg/logger"
)

// VocabService 词库管理：词条维护、xlsx批量导入、发音音频上传
type VocabService struct {
	WordRepo *repository.WordRepository
	Storage  *StorageService
}

func NewVocabService(wordRepo *repository.WordRepository, storage *StorageService) *VocabService {
	return &VocabService{WordRepo: wordRepo, Storage: storage}
}

func (s *VocabService) GetWord(id uint) (*model.Word, error) {
	word, err := s.WordRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrWordNotFound
		}
		return nil, err
	}
	return word, nil
}

func (s *VocabService) ListWords(category, search string, page, limit int) ([]model.Word, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.WordRepo.List(category, search, page, limit)
}

func (s *VocabService) CreateWord(word *model.Word) error {
	if word.Difficulty < 1 || word.Difficulty > 5 {
		word.Difficulty = 1
	}
	return s.WordRepo.Create(word)
}

func (s *VocabService) UpdateWord(word *model.Word) error {
	if _, err := s.WordRepo.FindByID(word.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrWordNotFound
		}
		return err
	}
	return s.WordRepo.Update(word)
}

// ImportResult xlsx导入结果统计
type ImportResult struct {
	TotalProcessed int      `json:"totalProcessed"`
	Created        int      `json:"created"`
	Updated        int      `json:"updated"`
	Errors         []string `json:"errors"`
}

// ImportFromExcel 从xlsx批量导入词条。
// 列约定：A拼写 B音标 C释义 D例句 E分类 F难度(1-5)，第一行为表头。
// 已存在的拼写做更新，单行出错不中断整体导入。
func (s *VocabService) ImportFromExcel(reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("打开Excel失败: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	result := &ImportResult{Errors: []string{}}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		result.TotalProcessed++
		if err := s.importRow(row, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行: %v", i+1, err))
		}
	}

	logger.Log.Info("vocabulary import finished",
		zap.Int("processed", result.TotalProcessed),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

func (s *VocabService) importRow(row []string, result *ImportResult) error {
	word := model.Word{Difficulty: 1}
	if len(row) > 0 {
		word.Spelling = strings.TrimSpace(row[0])
	}
	if len(row) > 1 {
		word.Phonetic = strings.TrimSpace(row[1])
	}
	if len(row) > 2 {
		word.Meaning = strings.TrimSpace(row[2])
	}
	if len(row) > 3 {
		word.Example = strings.TrimSpace(row[3])
	}
	if len(row) > 4 {
		word.Category = strings.TrimSpace(row[4])
	}
	if len(row) > 5 {
		if d, err := strconv.Atoi(strings.TrimSpace(row[5])); err == nil && d >= 1 && d <= 5 {
			word.Difficulty = d
		}
	}

	if word.Spelling == "" {
		return errors.New("拼写不能为空")
	}
	if word.Meaning == "" {
		return errors.New("释义不能为空")
	}

	existing, err := s.WordRepo.FindBySpelling(word.Spelling)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.WordRepo.Create(&word); err != nil {
			return err
		}
		result.Created++
		return nil
	}

	existing.Phonetic = word.Phonetic
	existing.Meaning = word.Meaning
	existing.Example = word.Example
	existing.Category = word.Category
	existing.Difficulty = word.Difficulty
	if err := s.WordRepo.Update(existing); err != nil {
		return err
	}
	result.Updated++
	return nil
}

// UploadAudio 上传词条发音音频并回写音频地址
func (s *VocabService) UploadAudio(ctx context.Context, wordID uint, file *multipart.FileHeader) (string, error) {
	word, err := s.GetWord(wordID)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := ".mp3"
	if idx := strings.LastIndex(file.Filename, "."); idx >= 0 {
		ext = file.Filename[idx:]
	}
	filename := fmt.Sprintf("audio/%s%s", uuid.New().String(), ext)

	contentType := file.Header.Get("Content-Type")
	url, err := s.Storage.Upload(ctx, filename, src, file.Size, contentType)
	if err != nil {
		return "", err
	}

	word.AudioURL = url
	if err := s.WordRepo.Update(word); err != nil {
		return "", err
	}
	return url, nil
}
