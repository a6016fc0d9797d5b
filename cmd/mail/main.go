package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/staffing-office/shift-board/backend/internal/config"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/staffing-office/shift-board/backend/internal/logger"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

func main() {
	templatesDir := flag.String("templates", "./templates", "邮件模板所在目录")
	flag.Parse()

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		fallback, _ := logger.New("info")
		fallback.Fatal("无法读取配置文件", zap.Error(err))
	}

	/**********************************************
	 * 创建 logger
	 **********************************************/
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法创建 logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	/**********************************************
	 * 创建邮件客户端
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		log.Error("无法创建邮件客户端", zap.Error(err))
		return
	}
	defer client.Close()

	// 验证邮件客户端是否连接成功
	clientDialCtx, cancelDial := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancelDial()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		log.Error("无法连接到邮件服务器", zap.Error(err))
		return
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		log.Error("无法连接到 RabbitMQ", zap.Error(err))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Error("无法创建通道", zap.Error(err))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.Queue,
		true,  // 持久化
		false, // 没有消费者时不自动删除
		false, // 允许多个消费者
		false,
		nil,
	)
	if err != nil {
		log.Error("无法声明队列", zap.Error(err))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",    // 由 RabbitMQ 自动分配消费者标识
		false, // 手动确认
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Error("无法消费消息", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Warn("消息通道已关闭")
					return
				}

				mailMessage := domain.MailMessage{}
				if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
					log.Error("邮件信息反序列化失败", zap.Error(err))
					_ = msg.Nack(false, false)
					continue
				}
				log.Info("收到消息", zap.String("id", mailMessage.ID), zap.String("type", mailMessage.Type))

				m, err := buildMessage(cfg.Email.SMTP.Username, *templatesDir, mailMessage)
				if err != nil {
					log.Error("无法构建邮件", zap.String("id", mailMessage.ID), zap.Error(err))
					_ = msg.Nack(false, false)
					continue
				}

				if err := client.DialAndSend(m); err != nil {
					log.Error("邮件发送失败", zap.String("id", mailMessage.ID), zap.Error(err))
					_ = msg.Nack(false, true) // 重新入队
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	log.Info("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	log.Info("正在关闭 mail worker...")
	cancel()
	wg.Wait()
	log.Info("mail worker 已成功关闭")
}
