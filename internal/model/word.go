package model

// Word 词库中的一个词条
// swagger:model Word
type Word struct {
	BaseModel
	Spelling   string `gorm:"size:100;not null;index" json:"spelling"`
	Phonetic   string `gorm:"size:100" json:"phonetic"`
	Meaning    string `gorm:"type:text;not null" json:"meaning"`
	Example    string `gorm:"type:text" json:"example"`
	Category   string `gorm:"size:50;index" json:"category"` // 主题分类，如 daily/exam/travel/business
	Difficulty int    `gorm:"default:1" json:"difficulty"`   // 1-5
	AudioURL   string `gorm:"size:255" json:"audioUrl"`      // 发音音频地址
}

func (Word) TableName() string {
	return "words"
}
