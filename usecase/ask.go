package usecase

import (
	"context"
	"strings"
	"time"

	"etudia/dto"
	"etudia/logger"
	"etudia/model"
	"etudia/rag"
	"etudia/utils"
)

// Answerer answers a query over the stored notes.
type Answerer interface {
	Find(ctx context.Context, q rag.Query) (string, error)
	ModelFor(q rag.Query) rag.ModelConfig
}

// AnswerCache stores answers by query key. It is optional.
type AnswerCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, answer string) error
}

type AskService struct {
	Gateway Answerer
	Cache   AnswerCache
	Timeout time.Duration
}

func NewAskService(gateway Answerer, cache AnswerCache, timeout time.Duration) *AskService {
	return &AskService{Gateway: gateway, Cache: cache, Timeout: timeout}
}

// Ask validates req and answers it, consulting the cache when one is set.
// A question or promotion that is only whitespace counts as missing. Cache
// failures never fail the request.
func (svc *AskService) Ask(ctx context.Context, req *dto.AskRequest) (string, error) {
	trimmed := *req
	trimmed.Question = strings.TrimSpace(req.Question)
	trimmed.Promotion = strings.TrimSpace(req.Promotion)
	if err := model.ValidateStruct(&trimmed); err != nil {
		return "", err
	}
	req = &trimmed
	timer := utils.TrackDuration(utils.AskDuration)
	defer timer.ObserveDuration()

	if svc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.Timeout)
		defer cancel()
	}

	q := rag.Query{
		Question:  req.Question,
		Promotion: req.Promotion,
		Course:    req.Course,
		Subject:   req.Subject,
		Source:    req.Source,
		Model:     req.Model,
	}.Normalize()
	key := q.Key(svc.Gateway.ModelFor(q).Model)

	if svc.Cache != nil {
		answer, ok, err := svc.Cache.Get(ctx, key)
		switch {
		case err != nil:
			utils.TrackAskCache("error")
			logger.Warn().Err(err).Msg("answer cache lookup failed")
		case ok:
			utils.TrackAskCache("hit")
			return answer, nil
		default:
			utils.TrackAskCache("miss")
		}
	}

	answer, err := svc.Gateway.Find(ctx, q)
	if err != nil {
		utils.TrackError("ask", "gateway_failed")
		return "", err
	}

	if svc.Cache != nil && answer != rag.EmptyResponse {
		if err := svc.Cache.Set(ctx, key, answer); err != nil {
			logger.Warn().Err(err).Msg("failed to cache answer")
		}
	}
	return answer, nil
}
