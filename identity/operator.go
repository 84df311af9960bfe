package identity

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
	"github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	minSecretStrengthScore = 3

	namePattern   = `^[a-zA-Z0-9_]+$` // Alphanumeric with underscores
	minNameLength = 3
	maxNameLength = 20
)

var (
	nameRegex = regexp.MustCompile(namePattern)

	// hashCost is the bcrypt cost used for new secrets.
	hashCost = 14
)

var (
	ErrNameTooShort       = errors.New("operator name too short")
	ErrNameTooLong        = errors.New("operator name too long")
	ErrNameFormat         = errors.New("invalid operator name format")
	ErrWeakSecret         = errors.New("weak secret")
	ErrInvalidCredentials = errors.New("invalid operator name or secret")
)

// Operator is a person or service allowed to drive exploration sessions.
type Operator struct {
	ID         uuid.UUID `bson:"_id"`
	Name       string    `bson:"name"`
	SecretHash string    `bson:"secretHash"`
}

// OperatorConfig holds parameters for creating an Operator.
type OperatorConfig struct {
	ID          uuid.UUID
	Name        string
	PlainSecret string
}

// NewOperator validates the name and secret and hashes the secret.
func NewOperator(config OperatorConfig) (*Operator, error) {
	if err := validateName(config.Name); err != nil {
		return nil, err
	}

	if err := validateSecret(config.PlainSecret); err != nil {
		return nil, err
	}

	secretHash, err := hashSecret(config.PlainSecret)
	if err != nil {
		return nil, err
	}

	return &Operator{
		ID:         config.ID,
		Name:       config.Name,
		SecretHash: secretHash,
	}, nil
}

// VerifySecret verifies if the given secret matches the stored hash.
func (o *Operator) VerifySecret(secret string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.SecretHash), []byte(secret))
	return err == nil
}

func validateName(name string) error {
	if len(name) < minNameLength {
		return ErrNameTooShort
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	if !nameRegex.MatchString(name) {
		return ErrNameFormat
	}
	return nil
}

// validateSecret checks the strength of the secret.
func validateSecret(secret string) error {
	result := zxcvbn.PasswordStrength(secret, nil)
	if result.Score < minSecretStrengthScore {
		return ErrWeakSecret
	}
	return nil
}

func hashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), hashCost)
	return string(bytes), err
}
