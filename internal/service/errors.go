// Package service holds helpers shared by the domain services.
package service

import (
	"errors"

	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

// RepoError converts a repository error into an AppError. resource names the
// record in not-found and duplicate messages. AppErrors pass through.
func RepoError(err error, resource string) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(resource, err)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.Conflict(resource+" already exists", err)
	case errors.Is(err, repository.ErrReferenced):
		return apperrors.Conflict(resource+" is still referenced", err)
	case errors.Is(err, repository.ErrReference):
		return apperrors.BadRequest("referenced record does not exist", err)
	case errors.Is(err, repository.ErrBedOccupied),
		errors.Is(err, repository.ErrPatientAdmitted),
		errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrAlreadyDispensed),
		errors.Is(err, repository.ErrOrderClosed),
		errors.Is(err, repository.ErrOverpayment),
		errors.Is(err, repository.ErrInvoicePaid):
		return apperrors.BadRequest(domainMessage(err), err)
	}
	return apperrors.Internal(err)
}

func domainMessage(err error) string {
	for _, sentinel := range []error{
		repository.ErrBedOccupied,
		repository.ErrPatientAdmitted,
		repository.ErrInsufficientStock,
		repository.ErrAlreadyDispensed,
		repository.ErrOrderClosed,
		repository.ErrOverpayment,
		repository.ErrInvoicePaid,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
