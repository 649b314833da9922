package handler

import (
	"errors"
	"net/http"
	"reflect"

	"tresetapas/internal/apierror"
	"tresetapas/internal/middleware"
	"tresetapas/internal/service"

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
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramID parses a UUID path parameter, answering 400 when it is malformed.
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps domain errors to status codes. Anything unknown is
// answered with a generic 500 and left on the context for ErrorHandler to log.
func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, apierror.Interno())
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}

// StatusFor maps a service error to its HTTP status; unknown errors are 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSinStock),
		errors.Is(err, service.ErrTransicionInvalida),
		errors.Is(err, service.ErrEmailDuplicado),
		errors.Is(err, service.ErrCategoriaDuplicada),
		errors.Is(err, service.ErrUbicacionDuplicada):
		return http.StatusConflict
	case errors.Is(err, service.ErrProductoNoEncontrado),
		errors.Is(err, service.ErrPedidoNoEncontrado),
		errors.Is(err, service.ErrConsultaNoEncontrada),
		errors.Is(err, service.ErrUsuarioNoEncontrado),
		errors.Is(err, service.ErrCategoriaNoEncontrada),
		errors.Is(err, service.ErrUbicacionNoEncontrada):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCredenciales):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrMargenInvalido),
		errors.Is(err, service.ErrCostoInvalido),
		errors.Is(err, service.ErrPedidoVacio),
		errors.Is(err, service.ErrCantidadInvalida),
		errors.Is(err, service.ErrDatosContraentrega),
		errors.Is(err, service.ErrPermisoDesconocido):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// claimsOrAbort returns the JWT claims or answers 401.
func claimsOrAbort(c *gin.Context) *middleware.JWTClaims {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
	}
	return claims
}
