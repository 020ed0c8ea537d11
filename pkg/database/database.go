package database

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vocab_learn_backend/internal/config"
	"vocab_learn_backend/internal/model"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Word{},
		&model.MemoryRecord{},
		&model.ReviewLog{},
		&model.StudyPlan{},
		&model.DailyTask{},
		&model.LearningProfile{},
		&model.LearningStreak{},
		&model.Achievement{},
		&model.UserAchievement{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认成就目录（类别 + 数值门槛）
	var count int64
	db.Model(&model.Achievement{}).Count(&count)
	if count == 0 {
		defaultAchievements := []model.Achievement{
			{Name: "初来乍到", Category: model.AchievementStreak, Threshold: 1, Icon: "streak_1"},
			{Name: "七日之约", Category: model.AchievementStreak, Threshold: 7, Icon: "streak_7"},
			{Name: "月度坚持", Category: model.AchievementStreak, Threshold: 30, Icon: "streak_30"},
			{Name: "百日筑基", Category: model.AchievementStreak, Threshold: 100, Icon: "streak_100"},
			{Name: "小试牛刀", Category: model.AchievementMastered, Threshold: 10, Icon: "mastered_10"},
			{Name: "词汇新星", Category: model.AchievementMastered, Threshold: 100, Icon: "mastered_100"},
			{Name: "词霸养成", Category: model.AchievementMastered, Threshold: 1000, Icon: "mastered_1000"},
			{Name: "复习达人", Category: model.AchievementReviews, Threshold: 500, Icon: "reviews_500"},
			{Name: "千锤百炼", Category: model.AchievementReviews, Threshold: 5000, Icon: "reviews_5000"},
			{Name: "精准记忆", Category: model.AchievementAccuracy, Threshold: 90, Icon: "accuracy_90"},
		}
		for _, a := range defaultAchievements {
			db.Create(&a)
		}
	}

	return db, nil
}
