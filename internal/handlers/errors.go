package handlers

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// notFoundAs gives a missing row a resource-specific 404.
func notFoundAs(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code, message)
	}
	return err
}
