package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/hydracat/notification-scheduler/loadtest/internal/stub"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	stub.NewHandler(stub.NewScheduleStorage()).Register(r)

	slog.Info("starting schedule stub", slog.String("port", port))
	if err := r.Run(":" + port); err != nil {
		slog.Error("schedule stub exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
