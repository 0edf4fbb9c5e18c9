// 离线批量导入题目脚本
//
// 与 POST /mcq/upload 走同一套导入逻辑，适用于首次部署时灌入题库。
//
// 用法: go run scripts/import_mcqs.go -file questions.csv -admin admin@example.com

package main

import (
	"context"
	"flag"
	"log"
	"mcq_quiz_backend/internal/config"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/service"
	"mcq_quiz_backend/pkg/database"
	"mcq_quiz_backend/pkg/logger"
	"os"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "./configs", "配置文件目录")
	file := flag.String("file", "", "CSV 文件路径")
	adminEmail := flag.String("admin", "", "记为创建者的管理员邮箱")
	flag.Parse()

	if *file == "" || *adminEmail == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	admin, err := repository.NewUserRepository(db).GetByEmail(*adminEmail)
	if err != nil {
		log.Fatalf("查找管理员失败: %v", err)
	}
	if !admin.IsAdmin() {
		log.Fatalf("%s 不是管理员", *adminEmail)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("打开文件失败: %v", err)
	}
	defer f.Close()

	mcqService := service.NewMCQService(repository.NewUnitOfWork(db), service.NewStorageService(&cfg.Storage))
	report, err := mcqService.Import(context.Background(), admin, f)
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}

	logger.Log.Info("MCQ import finished",
		zap.Int("total", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("failed", len(report.Failed)),
		zap.String("archive", report.Archive),
	)
	for _, f := range report.Failed {
		log.Printf("第 %d 行: %s", f.Row, f.Error)
	}
}
