package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"bizledger/internal/ledger"
	"bizledger/internal/service"
	"bizledger/internal/store"
	"bizledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps domain sentinel errors to HTTP status codes so every
// handler reports failures consistently.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, store.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrVendorInUse), errors.Is(err, store.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrLimitExceeded):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		status = http.StatusUnauthorized
	}
	c.JSON(status, response.Error(status, err.Error()))
}

// parseTimeRange reads optional start/end query params. Values may be
// RFC3339 timestamps or plain YYYY-MM-DD dates.
func parseTimeRange(c *gin.Context) (start, end *time.Time, err error) {
	if raw := c.Query("start"); raw != "" {
		t, perr := parseTimeParam(raw)
		if perr != nil {
			return nil, nil, fmt.Errorf("invalid start: %w", perr)
		}
		start = &t
	}
	if raw := c.Query("end"); raw != "" {
		t, perr := parseTimeParam(raw)
		if perr != nil {
			return nil, nil, fmt.Errorf("invalid end: %w", perr)
		}
		end = &t
	}
	return start, end, nil
}

func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
