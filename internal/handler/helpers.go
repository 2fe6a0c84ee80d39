package handler

import (
	"errors"
	"net/http"
	"reflect"

	"saborpos/internal/apierror"
	"saborpos/internal/costing"
	"saborpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service errors to HTTP status codes. Persistence errors
// log through the error handler middleware and surface a generic message.
func respondError(c *gin.Context, err error) {
	var (
		recErr   *costing.RecetaInvalidaError
		descErr  *costing.InsumoDesconocidoError
		inacErr  *costing.InsumoInactivoError
		obligErr *costing.CostoObligatorioInactivoError
		ambErr   *service.EspejoAmbiguoError
		perErr   *service.PersistenciaError
	)

	switch {
	case errors.Is(err, service.ErrProductoNoEncontrado),
		errors.Is(err, service.ErrInsumoNoEncontrado),
		errors.Is(err, service.ErrTipoCostoNoEncontrado),
		errors.Is(err, service.ErrUsuarioNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))

	case errors.Is(err, service.ErrSKUDuplicado),
		errors.Is(err, service.ErrNombreDuplicado),
		errors.Is(err, service.ErrUsernameDuplicado),
		errors.As(err, &ambErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))

	case errors.As(err, &recErr),
		errors.As(err, &descErr),
		errors.As(err, &inacErr),
		errors.As(err, &obligErr),
		errors.Is(err, service.ErrCategoriaReservada),
		errors.Is(err, service.ErrInsumoEspejo):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))

	case errors.As(err, &perErr):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))

	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}

// parseID reads and validates a UUID path param.
// Writes the 400 response itself when the value is not a UUID.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}
