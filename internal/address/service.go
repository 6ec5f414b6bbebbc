// Package address keeps the delivery addresses a user has used before.
package address

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const MaxLength = 500

var ErrValidation = errors.New("validation")

type AddressService struct {
	Repo *GormRepo
}

func (s *AddressService) Save(ctx context.Context, userID uint, address string) error {
	address = strings.TrimSpace(address)
	if userID == 0 || address == "" {
		return fmt.Errorf("%w: user id and address required", ErrValidation)
	}
	if utf8.RuneCountInString(address) > MaxLength {
		return fmt.Errorf("%w: address longer than %d characters", ErrValidation, MaxLength)
	}
	return s.Repo.Save(ctx, userID, address)
}

func (s *AddressService) List(ctx context.Context, userID uint) ([]string, error) {
	out, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
