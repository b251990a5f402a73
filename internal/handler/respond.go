package handler

import (
	"errors"
	"net/http"

	"github.com/dkzinn98/gestor-financeiro/internal/ledger"
	"github.com/dkzinn98/gestor-financeiro/internal/logger"
	"github.com/dkzinn98/gestor-financeiro/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondLedgerError maps the core error taxonomy onto HTTP responses.
// Malformed input and validation failures are expected outcomes and
// logged at debug only; storage failures were already logged with context
// by the store and surface here as an opaque 500.
func respondLedgerError(c *gin.Context, err error) {
	var malformed *ledger.MalformedFieldError
	if errors.As(err, &malformed) {
		logger.Get().Debug("malformed field", zap.String("field", malformed.Field))
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	var validation *ledger.ValidationError
	if errors.As(err, &validation) {
		logger.Get().Debug("validation failed", zap.Any("violations", validation.Violations))
		util.ValidationFailed(c, validation.Violations)
		return
	}

	if errors.Is(err, ledger.ErrNotFound) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "record not found")
		return
	}

	util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operation failed, please retry")
}
