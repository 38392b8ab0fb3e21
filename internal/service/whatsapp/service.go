package whatsapp

import (
	"context"
	"fmt"
	"strings"

	"crm-dashboard-service/internal/domain/chat"
	"crm-dashboard-service/internal/domain/whatsapp"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/ratelimit"
	"crm-dashboard-service/internal/repository/postgres"

	"go.uber.org/zap"
)

// Sender is the delivery capability the bridge calls.
type Sender interface {
	SendText(ctx context.Context, receiver, text string) (*whatsapp.Delivery, error)
}

type Service struct {
	sender    Sender
	customers *postgres.CustomerRepository
	chats     *postgres.ChatRepository
	limiter   *ratelimit.Limiter
	suffix    string
	logger    *zap.Logger
}

func NewService(
	sender Sender,
	customers *postgres.CustomerRepository,
	chats *postgres.ChatRepository,
	limiter *ratelimit.Limiter,
	suffix string,
	logger *zap.Logger,
) *Service {
	return &Service{
		sender:    sender,
		customers: customers,
		chats:     chats,
		limiter:   limiter,
		suffix:    suffix,
		logger:    logger,
	}
}

// NormalizeAddress appends the gateway suffix unless it is already there.
func NormalizeAddress(phone, suffix string) string {
	phone = strings.TrimSpace(phone)
	if suffix == "" || strings.HasSuffix(phone, suffix) {
		return phone
	}
	return phone + suffix
}

// Send delivers a message and, when a customer is given, records the attempt
// in that customer's history. A rejected or unreachable gateway still leaves a
// delivery_failed entry and returns ErrUpstream along with the result.
func (s *Service) Send(ctx context.Context, req *whatsapp.SendRequest) (*whatsapp.SendResult, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone == "" || strings.TrimSpace(req.Message) == "" {
		return nil, xerrors.InvalidRequest("phone and message are required")
	}
	if req.CustomerID != nil && *req.CustomerID <= 0 {
		return nil, xerrors.InvalidRequest("customer_id must be a positive integer")
	}

	receiver := NormalizeAddress(phone, s.suffix)

	if req.CustomerID != nil {
		exists, err := s.customers.Exists(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: customer %d", xerrors.ErrNotFound, *req.CustomerID)
		}
	}

	// Only requests that would reach the gateway spend the receiver's budget.
	allowed, _, err := s.limiter.Allow(ctx, receiver)
	if err != nil {
		s.logger.Warn("send rate limit unavailable, allowing", zap.String("receiver", receiver), zap.Error(err))
	} else if !allowed {
		return nil, fmt.Errorf("%w: too many messages to %s, try again later", xerrors.ErrRateLimited, receiver)
	}

	result := &whatsapp.SendResult{Receiver: receiver}

	delivery, sendErr := s.sender.SendText(ctx, receiver, req.Message)
	if sendErr == nil && !delivery.Accepted() {
		sendErr = fmt.Errorf("%w: gateway answered %d", xerrors.ErrUpstream, delivery.StatusCode)
	}
	if delivery != nil {
		result.WhatsAppResponse = delivery.Response
	}
	result.Delivered = sendErr == nil

	if req.CustomerID != nil {
		var classification *string
		if !result.Delivered {
			failed := chat.ClassificationDeliveryFailed
			classification = &failed
		}

		msg, err := s.chats.InsertOutgoing(ctx, *req.CustomerID, req.Message, classification)
		if err != nil {
			s.logger.Error("failed to record outgoing message",
				zap.Int64("customer_id", *req.CustomerID),
				zap.Bool("delivered", result.Delivered),
				zap.Error(err),
			)
		} else {
			result.ChatID = &msg.ID
			result.HistoryRecorded = true
		}
	}

	if sendErr != nil {
		s.logger.Warn("whatsapp delivery failed",
			zap.String("receiver", receiver),
			zap.Error(sendErr),
		)
		return result, sendErr
	}

	s.logger.Info("whatsapp message sent",
		zap.String("receiver", receiver),
		zap.Bool("history_recorded", result.HistoryRecorded),
	)

	return result, nil
}
