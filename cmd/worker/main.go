package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harulab/beachtix/config"
	"github.com/harulab/beachtix/internal/email"
	"github.com/harulab/beachtix/internal/kafka"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender()

	logrus.WithField("topic", cfg.Kafka.NotificationsTopic).Info("worker consuming booking notifications")
	if err := consumer.Consume(ctx, sender.Send); err != nil && ctx.Err() == nil {
		logrus.WithError(err).Error("consumer stopped")
	}
}
