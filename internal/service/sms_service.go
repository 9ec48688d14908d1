package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"starbound/internal/config"
)

// DeliveryError reports a failed one-time code dispatch, carrying the API
// error code for the channel that failed
type DeliveryError struct {
	Code string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("code delivery failed (%s): %v", e.Code, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// SMSService dispatches one-time codes to players. Modes: "mock" logs the
// message, "sns" publishes through an SNS-compatible gateway, "telegram"
// posts to the Telegram Bot API.
type SMSService struct {
	mode string

	snsClient *sns.Client

	botToken   string
	chatID     string
	httpClient *http.Client
}

// NewSMSService creates a code delivery service for the configured mode
func NewSMSService(ctx context.Context, cfg *config.Config) (*SMSService, error) {
	s := &SMSService{
		mode:       cfg.SMSMode,
		botToken:   cfg.TelegramBotToken,
		chatID:     cfg.TelegramChatID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	switch cfg.SMSMode {
	case "mock", "telegram":
		// no SDK setup needed
	case "sns":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s.snsClient = sns.NewFromConfig(awsCfg, func(o *sns.Options) {
			if cfg.SNSEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.SNSEndpoint)
			}
		})
	default:
		return nil, fmt.Errorf("unsupported SMS mode: %s", cfg.SMSMode)
	}

	return s, nil
}

// MockMode reports whether codes are fixed and logged rather than delivered
func (s *SMSService) MockMode() bool {
	return s.mode == "mock"
}

// Send dispatches a message to a phone through the configured channel
func (s *SMSService) Send(ctx context.Context, phone, message string) error {
	switch s.mode {
	case "mock":
		log.Printf("[SMS MOCK] %s: %s", phone, message)
		return nil
	case "telegram":
		if err := s.sendTelegram(ctx, phone, message); err != nil {
			return &DeliveryError{Code: "telegram_failed", Err: err}
		}
		return nil
	default:
		if err := s.sendSNS(ctx, phone, message); err != nil {
			return &DeliveryError{Code: "otp_failed", Err: err}
		}
		return nil
	}
}

func (s *SMSService) sendSNS(ctx context.Context, phone, message string) error {
	_, err := s.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	})
	return err
}

func (s *SMSService) sendTelegram(ctx context.Context, phone, message string) error {
	if s.botToken == "" || s.chatID == "" {
		return fmt.Errorf("telegram bot token and chat id are required")
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id": s.chatID,
		"text":    fmt.Sprintf("%s → %s", message, phone),
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}
