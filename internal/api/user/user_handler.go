package user

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-recipes-api/internal/api"
	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

const msgUserAlreadyExists = "Username already exists in DB"

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	RegisterHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// RegisterHandler godoc
// @Summary      Register a user
// @Description  Creates an account. The email is used as the username for Basic authentication.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        user body types.RegisterRequest true "Credentials"
// @Success      200 "Registered"
// @Failure      400 {object} types.Response "Invalid input or username taken"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /register [post]
func (h *HandlerImpl) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "Register")
	defer span.End()
	l := h.logger.With(slog.String("handler", "RegisterHandler"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if fieldErrors := ValidateRegistration(req); len(fieldErrors) > 0 {
		l.InfoContext(ctx, "Registration rejected by validation", slog.Int("violations", len(fieldErrors)))
		span.SetStatus(codes.Error, "Validation failed")
		api.ValidationErrorResponse(w, r, fieldErrors)
		return
	}

	err := h.service.RegisterUser(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Registration failed")
		if errors.Is(err, types.ErrUserAlreadyExists) {
			api.ErrorResponse(w, r, http.StatusBadRequest, msgUserAlreadyExists)
			return
		}
		l.ErrorContext(ctx, "Failed to register user", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	span.SetStatus(codes.Ok, "Registered")
	w.WriteHeader(http.StatusOK)
}
