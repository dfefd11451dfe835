package database

import (
	"fmt"
	"log"
	"studynova_backend/internal/config"
	"studynova_backend/pkg/docstore"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, mode string, forceMigrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	logLevel := logger.Info
	if mode == "release" {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式下默认不做结构迁移，需要 -migrate 显式触发
	if mode != "release" || forceMigrate {
		// 所有业务文档都存放在统一的 documents 表中
		if err := db.AutoMigrate(&docstore.Document{}); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	return db, nil
}
