package persistence

import (
	"errors"

	"github.com/glowpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateNotFound maps a missing row to shared.ErrNotFound
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// translateDuplicate maps a unique violation to the given domain error.
// The connection must be opened with TranslateError enabled.
func translateDuplicate(err error, onDuplicate *shared.DomainError) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return onDuplicate
	}
	return err
}
