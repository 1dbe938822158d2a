package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/talkative-se/powerbag-backend/internal/config"
	"github.com/talkative-se/powerbag-backend/internal/infra/mailer"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
)

type recordingMailer struct {
	sent []mailer.Message
}

func (m *recordingMailer) Send(msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func newUserTestService(t *testing.T, userRepo *MockUserRepo) (UserService, *miniredis.Miniredis, *recordingMailer) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mail := &recordingMailer{}
	cfg := &config.Config{
		App: config.AppConfig{FrontendBaseURL: "https://cms.example.com"},
		JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: 24},
	}
	return NewUserService(userRepo, rdb, mail, cfg, zap.NewNop()), mr, mail
}

func TestUserService_SendLoginCode(t *testing.T) {
	ctx := context.Background()
	editor := &model.User{ID: uuid.New(), Name: "Sam", Email: "sam@example.com"}

	t.Run("stores a six digit code and mails it", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("FindByEmail", ctx, "sam@example.com").Return(editor, nil)
		svc, mr, mail := newUserTestService(t, userRepo)

		require.NoError(t, svc.SendLoginCode(ctx, "Sam@Example.com"))

		stored, err := mr.Get("login:code:sam@example.com")
		require.NoError(t, err)
		assert.Len(t, stored, 6)
		assert.InDelta(t, 10*time.Minute, mr.TTL("login:code:sam@example.com"), float64(time.Minute))

		require.Len(t, mail.sent, 1)
		assert.Equal(t, "sam@example.com", mail.sent[0].To)
		assert.Equal(t, stored, mail.sent[0].Vars["CODE"])
		assert.Contains(t, mail.sent[0].Vars["MAGICLINK"], "https://cms.example.com/login?email=")
		assert.Contains(t, mail.sent[0].Vars["MAGICLINK"], stored)
		userRepo.AssertExpectations(t)
	})

	t.Run("unknown address gets nothing", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, nil)
		svc, mr, mail := newUserTestService(t, userRepo)

		err := svc.SendLoginCode(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Empty(t, mail.sent)
		assert.False(t, mr.Exists("login:code:nobody@example.com"))
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	editor := &model.User{
		ID:    uuid.New(),
		Name:  "Sam",
		Email: "sam@example.com",
		Roles: datatypes.NewJSONSlice([]string{"editor"}),
	}

	t.Run("valid code signs a token and is consumed", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("FindByEmail", ctx, "sam@example.com").Return(editor, nil)
		svc, mr, _ := newUserTestService(t, userRepo)
		require.NoError(t, mr.Set("login:code:sam@example.com", "123456"))

		result, err := svc.Login(ctx, "sam@example.com", "123456")
		require.NoError(t, err)
		assert.Equal(t, editor, result.User)

		token, err := jwt.Parse(result.Token, func(t *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, editor.ID.String(), claims["sub"])
		assert.Equal(t, "sam@example.com", claims["email"])
		assert.Equal(t, []interface{}{"editor"}, claims["roles"])

		// One-time: the same code must not work twice.
		_, err = svc.Login(ctx, "sam@example.com", "123456")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("wrong code is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("FindByEmail", ctx, "sam@example.com").Return(editor, nil)
		svc, mr, _ := newUserTestService(t, userRepo)
		require.NoError(t, mr.Set("login:code:sam@example.com", "123456"))

		_, err := svc.Login(ctx, "sam@example.com", "654321")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("no code requested", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("FindByEmail", ctx, "sam@example.com").Return(editor, nil)
		svc, _, _ := newUserTestService(t, userRepo)

		_, err := svc.Login(ctx, "sam@example.com", "123456")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown address", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, nil)
		svc, _, _ := newUserTestService(t, userRepo)

		_, err := svc.Login(ctx, "nobody@example.com", "123456")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
