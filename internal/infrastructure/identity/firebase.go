package identity

import (
	"context"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/DRSN-tech/market-backend/internal/cfg"
	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
	"google.golang.org/api/option"
)

// tokenVerifier: часть *auth.Client, которая нужна для проверки ID-токенов.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier проверяет ID-токены Firebase и извлекает из них личность.
type FirebaseVerifier struct {
	client tokenVerifier
	logger logger.Logger
}

// NewFirebaseVerifier инициализирует Firebase Admin SDK. Учётные данные берутся из
// FIREBASE_CREDENTIALS_JSON, затем из файла, иначе из окружения (ADC).
func NewFirebaseVerifier(ctx context.Context, cfg *cfg.FirebaseCfg, logger logger.Logger) (*FirebaseVerifier, error) {
	const op = "identity.NewFirebaseVerifier"

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return newFirebaseVerifier(client, logger), nil
}

func newFirebaseVerifier(client tokenVerifier, logger logger.Logger) *FirebaseVerifier {
	return &FirebaseVerifier{client: client, logger: logger}
}

// VerifyToken проверяет токен. Любая ошибка проверки и токен без email дают ErrUnauthenticated.
func (f *FirebaseVerifier) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	const op = "FirebaseVerifier.VerifyToken"

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, e.Wrap(op, e.ErrUnauthenticated)
	}

	verified, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		f.logger.Debugf("%s: token rejected: %v", op, err)
		return nil, e.Wrap(op, e.ErrUnauthenticated)
	}

	email := domain.NormalizeEmail(claimString(verified.Claims, "email"))
	if email == "" {
		return nil, e.Wrap(op, e.ErrUnauthenticated)
	}

	return &domain.Identity{
		UID:   verified.UID,
		Email: email,
		Name:  claimString(verified.Claims, "name"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}
