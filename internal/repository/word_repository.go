package repository

import (
	"gorm.io/gorm"

	"vocab_learn_backend/internal/model"
)

type WordRepository struct {
	DB *gorm.DB
}

func NewWordRepository(db *gorm.DB) *WordRepository {
	return &WordRepository{DB: db}
}

func (r *WordRepository) Create(word *model.Word) error {
	return r.DB.Create(word).Error
}

func (r *WordRepository) FindByID(id uint) (*model.Word, error) {
	var word model.Word
	err := r.DB.First(&word, id).Error
	if err != nil {
		return nil, err
	}
	return &word, nil
}

func (r *WordRepository) FindBySpelling(spelling string) (*model.Word, error) {
	var word model.Word
	err := r.DB.Where("spelling = ?", spelling).First(&word).Error
	if err != nil {
		return nil, err
	}
	return &word, nil
}

func (r *WordRepository) Update(word *model.Word) error {
	return r.DB.Save(word).Error
}

// List 分页查询词库，支持分类过滤与拼写搜索
func (r *WordRepository) List(category, search string, page, limit int) ([]model.Word, int64, error) {
	var words []model.Word
	var total int64

	query := r.DB.Model(&model.Word{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		query = query.Where("spelling LIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&words).Error
	return words, total, err
}

// FindUnseenByUser 取用户尚未建立记忆记录的词条，按难度从低到高，用于生成新词任务
func (r *WordRepository) FindUnseenByUser(userID uint, categories []string, limit int) ([]model.Word, error) {
	var words []model.Word
	query := r.DB.
		Where("id NOT IN (?)", r.DB.Model(&model.MemoryRecord{}).Select("word_id").Where("user_id = ?", userID))
	if len(categories) > 0 {
		query = query.Where("category IN ?", categories)
	}
	err := query.Order("difficulty ASC, id ASC").Limit(limit).Find(&words).Error
	return words, err
}
