package chat

import (
	"context"

	"crm-dashboard-service/internal/domain/chat"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/querybuilder"
	"crm-dashboard-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type ChatService struct {
	chatRepo *postgres.ChatRepository
	logger   *zap.Logger
}

func NewChatService(chatRepo *postgres.ChatRepository, logger *zap.Logger) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		logger:   logger,
	}
}

// GetHistory returns the customer header and a page of messages, newest first.
func (s *ChatService) GetHistory(ctx context.Context, customerID int64, filters *chat.HistoryFilters) (*chat.History, error) {
	page, err := querybuilder.ParsePage(filters.Limit, filters.Offset, querybuilder.HistoryPageRules)
	if err != nil {
		return nil, err
	}

	h, err := s.chatRepo.History(ctx, customerID, page)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to load chat history", zap.Int64("customer_id", customerID), zap.Error(err))
		return nil, xerrors.Wrap(err, "failed to load chat history")
	}

	return h, nil
}
