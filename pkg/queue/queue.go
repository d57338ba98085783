package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// consumedSentinel marks a used token. The key is kept (not deleted) so
// status listings can still report it.
const consumedSentinel = "false"

// ErrTokenNotFound covers both an absent (or expired) token and an
// already consumed one; callers cannot tell the two apart.
var ErrTokenNotFound = errors.New("queue token not found")

// SubmissionCounter reports how many kiosk submissions already carry a
// queue number with the given day prefix. Satisfied by the survey DB
// service.
type SubmissionCounter interface {
	CountSurveysWithQueuePrefix(prefix string) (int64, error)
}

type TokenStatus struct {
	Token    string `json:"token"`
	Consumed bool   `json:"consumed"`
}

// Service mints per-day sequential queue tokens ("/YYYYMMDD/seq") for
// anonymous walk-in survey submissions and tracks their consumption.
type Service struct {
	store   Store
	counter SubmissionCounter
	ttl     time.Duration
	loc     *time.Location
	now     func() time.Time
}

func NewService(store Store, counter SubmissionCounter, ttl time.Duration, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:   store,
		counter: counter,
		ttl:     ttl,
		loc:     loc,
		now:     time.Now,
	}
}

func (s *Service) todayPrefix() string {
	return "/" + s.now().In(s.loc).Format("20060102") + "/"
}

// Issue mints the next token for today: it starts past the number of
// submissions already made today and then skips over any
// issued-but-unconsumed sequence numbers. The scan-then-write is best
// effort; two concurrent calls can race and produce a duplicate or a
// gap, and callers must tolerate that rather than assume atomicity.
func (s *Service) Issue(ctx context.Context) (string, error) {
	prefix := s.todayPrefix()

	submitted, err := s.counter.CountSurveysWithQueuePrefix(prefix)
	if err != nil {
		return "", fmt.Errorf("counting today's submissions: %w", err)
	}

	seq := submitted + 1
	for {
		token := prefix + strconv.FormatInt(seq, 10)
		exists, err := s.store.Exists(ctx, token)
		if err != nil {
			return "", fmt.Errorf("scanning queue sequence: %w", err)
		}
		if !exists {
			issuedAt := strconv.FormatInt(s.now().Unix(), 10)
			if err := s.store.Set(ctx, token, issuedAt, s.ttl); err != nil {
				return "", fmt.Errorf("writing queue token: %w", err)
			}
			return token, nil
		}
		seq++
	}
}

// Validate checks that a token exists and has not been consumed.
func (s *Service) Validate(ctx context.Context, token string) error {
	val, err := s.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("reading queue token: %w", err)
	}
	if val == consumedSentinel {
		return ErrTokenNotFound
	}
	return nil
}

// Consume marks a token as used, keeping the key so ListStatus can still
// report it until it expires.
func (s *Service) Consume(ctx context.Context, token string) error {
	if err := s.Validate(ctx, token); err != nil {
		return err
	}
	if err := s.store.Update(ctx, token, consumedSentinel); err != nil {
		return fmt.Errorf("consuming queue token: %w", err)
	}
	return nil
}

// ValidateAndConsume validates and consumes the token in one step and
// returns a respondent-substitute id for the anonymous submission.
func (s *Service) ValidateAndConsume(ctx context.Context, token string) (string, error) {
	if err := s.Consume(ctx, token); err != nil {
		return "", err
	}
	return uuid.NewString(), nil
}

// ListStatus walks today's sequence from 1 and stops at the first
// missing token; tokens issued with gaps past that point are not
// listed.
func (s *Service) ListStatus(ctx context.Context) ([]TokenStatus, error) {
	prefix := s.todayPrefix()

	statuses := []TokenStatus{}
	for seq := int64(1); ; seq++ {
		token := prefix + strconv.FormatInt(seq, 10)
		val, err := s.store.Get(ctx, token)
		if err != nil {
			if errors.Is(err, ErrKeyNotFound) {
				break
			}
			return nil, fmt.Errorf("reading queue token: %w", err)
		}
		statuses = append(statuses, TokenStatus{
			Token:    token,
			Consumed: val == consumedSentinel,
		})
	}
	return statuses, nil
}
