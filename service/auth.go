package service

import (
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-navigator/identity"
	"github.com/beka-birhanu/vinom-navigator/infrastruture/token"
	"github.com/beka-birhanu/vinom-navigator/service/i"
	"github.com/google/uuid"
)

const defaultTokenTTL = 24 * time.Hour

type Auth struct {
	operatorRepo i.OperatorRepo
	tokenizer    i.Tokenizer
	tokenTTL     time.Duration
}

var _ i.Authenticator = &Auth{}

// NewAuthService creates the operator authenticator. A zero ttl falls back to 24 hours.
func NewAuthService(or i.OperatorRepo, t i.Tokenizer, ttl time.Duration) (*Auth, error) {
	if or == nil || t == nil {
		return nil, errors.New("auth service needs an operator repository and a tokenizer")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Auth{
		operatorRepo: or,
		tokenizer:    t,
		tokenTTL:     ttl,
	}, nil
}

func (a *Auth) Register(name, secret string) error {
	operatorConfig := identity.OperatorConfig{
		ID:          uuid.New(),
		Name:        name,
		PlainSecret: secret,
	}

	operator, err := identity.NewOperator(operatorConfig)
	if err != nil {
		return err
	}

	return a.operatorRepo.Save(operator)
}

func (a *Auth) SignIn(name, secret string) (*identity.Operator, string, error) {
	operator, err := a.operatorRepo.ByName(name)
	if err != nil {
		return nil, "", identity.ErrInvalidCredentials
	}

	if !operator.VerifySecret(secret) {
		return nil, "", identity.ErrInvalidCredentials
	}

	t, err := a.tokenizer.Generate(map[string]interface{}{
		token.ClaimOperatorID:   operator.ID.String(),
		token.ClaimOperatorName: operator.Name,
	}, a.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	return operator, t, nil
}
