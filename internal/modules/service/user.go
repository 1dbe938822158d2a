package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/talkative-se/powerbag-backend/internal/config"
	"github.com/talkative-se/powerbag-backend/internal/infra/mailer"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"github.com/talkative-se/powerbag-backend/internal/modules/repo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	loginCodeTTL    = 10 * time.Minute
	loginCodeDigits = 6
)

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type CreateUserInput struct {
	Name                string
	Email               string
	Roles               []string
	AssignedCollections []string
}

type UserService interface {
	// SendLoginCode mails a short-lived one-time code to a known address.
	SendLoginCode(ctx context.Context, email string) error
	// Login exchanges a valid one-time code for a signed bearer token.
	Login(ctx context.Context, email, code string) (*LoginResult, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LoginMailer delivers login-code mail. *mailer.Mailer satisfies it.
type LoginMailer interface {
	Send(msg mailer.Message) error
}

type userService struct {
	r     repo.UserRepo
	redis *redis.Client
	mail  LoginMailer
	cfg   *config.Config
	log   *zap.Logger
}

func NewUserService(r repo.UserRepo, rdb *redis.Client, mail LoginMailer, cfg *config.Config, log *zap.Logger) UserService {
	return &userService{r: r, redis: rdb, mail: mail, cfg: cfg, log: log}
}

func codeKey(email string) string {
	return "login:code:" + strings.ToLower(email)
}

func (s *userService) SendLoginCode(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.r.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: no account for %s", ErrNotFound, email)
	}

	code, err := randomCode(loginCodeDigits)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := s.redis.Set(ctx, codeKey(email), code, loginCodeTTL).Err(); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	link := fmt.Sprintf("%s/login?email=%s&code=%s",
		strings.TrimSuffix(s.cfg.App.FrontendBaseURL, "/"), url.QueryEscape(email), code)
	err = s.mail.Send(mailer.Message{
		To:       email,
		Subject:  "Your Powerbag sign-in code",
		Template: "powerbag_signin_code",
		Vars:     map[string]string{"CODE": code, "MAGICLINK": link},
	})
	if err != nil {
		return fmt.Errorf("send code mail: %w", err)
	}

	s.log.Info("login code sent", zap.String("email", email))
	return nil
}

func (s *userService) Login(ctx context.Context, email, code string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no account for %s", ErrNotFound, email)
	}

	stored, err := s.redis.GetDel(ctx, codeKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: code expired or never requested", ErrForbidden)
		}
		return nil, fmt.Errorf("read code: %w", err)
	}
	if stored != code {
		return nil, fmt.Errorf("%w: wrong code", ErrForbidden)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *userService) signToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"name":  user.Name,
		"email": user.Email,
		"roles": []string(user.Roles),
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.Secret))
}

func (s *userService) EmailExists(ctx context.Context, email string) (bool, error) {
	user, err := s.r.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: bad email %q", ErrValidation, in.Email)
	}

	existing, err := s.r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s is already registered", ErrConflict, email)
	}

	user := &model.User{
		ID:                  uuid.New(),
		Name:                in.Name,
		Email:               email,
		Roles:               datatypes.NewJSONSlice(orEmpty(in.Roles)),
		AssignedCollections: datatypes.NewJSONSlice(orEmpty(in.AssignedCollections)),
	}
	if err := s.r.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	return s.r.List(ctx)
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.r.Delete(ctx, id)
}

func randomCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
