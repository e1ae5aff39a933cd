package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/raphskal/gymtracker/internal/telemetry/tracing"
	"github.com/raphskal/gymtracker/pkg"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "gymtracker-session||"
	tokensSetKey     = "gymtracker-sessions"
	authStateChannel = "gymtracker-auth-state"
	tokenLength      = 35
	minPasswordLen   = 6

	fieldUID       = "uid"
	fieldEmail     = "email"
	fieldCreatedAt = "created_at"
)

var (
	ErrWrongCredentials = errors.New("wrong credentials")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrPasswordTooShort = errors.New("password too short")
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=auth_test
type usersRepo interface {
	Add(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type Service struct {
	usersRepo   usersRepo
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
	NowFunc        func() time.Time
}

func NewService(
	usersRepo usersRepo,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		usersRepo:      usersRepo,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
		NowFunc:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Register creates a new user. Emails are stored lower-cased.
func (s *Service) Register(ctx context.Context, email, password string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	hash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.NowFunc().UTC(),
	}
	if err := s.usersRepo.Add(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the credentials and opens a new session.
// Errors are logged and returned as they are.
func (s *Service) Login(ctx context.Context, email, password string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		if err != nil {
			log.Errorf("login [%s]: %s", email, err)
		}
	}()

	user, err := s.usersRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrWrongCredentials
		}
		return nil, err
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrWrongCredentials
	}

	token, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return nil, err
	}

	session := &Session{
		Token:     token,
		UID:       user.ID.String(),
		Email:     user.Email,
		CreatedAt: s.NowFunc(),
	}

	if err := s.redisClient.HSet(
		ctx, sessionKey(token),
		fieldUID, session.UID,
		fieldEmail, session.Email,
		fieldCreatedAt, session.CreatedAt.Unix(),
	).Err(); err != nil {
		return nil, err
	}

	// add token to the set of sessions, used by ScanAndClean
	if err := s.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return nil, err
	}

	s.publish(ctx, StateChange{UID: session.UID, SignedIn: true})

	return session, nil
}

// Logout removes the session. Returns false if there was no session for the token.
func (s *Service) Logout(ctx context.Context, token string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.logout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.loadSession(ctx, token)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}

	if err := s.redisClient.Del(ctx, sessionKey(token)).Err(); err != nil {
		return false, err
	}

	// remove token from the set of sessions
	if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, err
	}

	s.publish(ctx, StateChange{UID: session.UID, SignedIn: false})

	return true, nil
}

// CurrentSession resolves a token into a live session. Empty, unknown and
// expired tokens give a nil session and no error.
func (s *Service) CurrentSession(ctx context.Context, token string) (_ *Session, err error) {
	if token == "" {
		return nil, nil
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.currentSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.loadSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil || s.expired(session) {
		return nil, nil
	}

	return session, nil
}

func (s *Service) expired(session *Session) bool {
	return s.NowFunc().Sub(session.CreatedAt) > s.ttl
}

func (s *Service) loadSession(ctx context.Context, token string) (*Session, error) {
	fields, err := s.redisClient.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	createdAtUnix, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse session created at: %w", err)
	}

	return &Session{
		Token:     token,
		UID:       fields[fieldUID],
		Email:     fields[fieldEmail],
		CreatedAt: time.Unix(createdAtUnix, 0),
	}, nil
}

// ScanAndClean will run through all sessions, check the TTL, and remove the old ones.
func (s *Service) ScanAndClean(ctx context.Context) {
	sessionTokens, err := s.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("auth service, scan and clean, get sessions: %s", err)
		return
	}

	if len(sessionTokens) == 0 {
		log.Debugln("auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		session, err := s.loadSession(ctx, token)
		if err != nil {
			log.Errorf("auth service, scan and clean token %s: %s", token, err)
			continue
		}
		// dangling token without a session, or an expired one
		if session == nil || s.expired(session) {
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		if err := s.redisClient.Del(ctx, sessionKey(token)).Err(); err != nil {
			log.Errorf("auth service, clean token %s: %s", token, err)
			continue
		}
		if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("auth service, clean token %s: %s", token, err)
			continue
		}
	}

	log.Debugf("auth service, scan and clean done, removed %d sessions", len(toRemove))
}

func (s *Service) publish(ctx context.Context, change StateChange) {
	payload, err := json.Marshal(change)
	if err != nil {
		log.Errorf("marshal auth state change: %s", err)
		return
	}
	if err := s.redisClient.Publish(ctx, authStateChannel, string(payload)).Err(); err != nil {
		log.Errorf("publish auth state change: %s", err)
	}
}

// OnAuthStateChanged calls fn for every sign in and sign out, in any instance of
// the service. Returned func unsubscribes and waits for the listener to stop.
func (s *Service) OnAuthStateChanged(ctx context.Context, fn func(StateChange)) (unsubscribe func()) {
	pubsub := s.redisClient.Subscribe(ctx, authStateChannel)
	messages := pubsub.Channel()

	var closeOnce sync.Once
	closePubSub := func() {
		closeOnce.Do(func() {
			if err := pubsub.Close(); err != nil {
				log.Warnf("close auth state subscription: %s", err)
			}
		})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer closePubSub()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				dispatchStateChange(msg.Payload, fn)
			}
		}
	}()

	return func() {
		closePubSub()
		<-done
	}
}

func dispatchStateChange(payload string, fn func(StateChange)) {
	var change StateChange
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		log.Warnf("invalid auth state change payload [%s]: %s", payload, err)
		return
	}
	fn(change)
}
