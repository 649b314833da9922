package service

import "errors"

// Domain errors. Handlers map them to HTTP status codes with errors.Is; the
// message is safe to show to the client.
var (
	ErrMargenInvalido        = errors.New("margen invalido: debe estar entre 0 y 100 (exclusivo)")
	ErrCostoInvalido         = errors.New("el costo base debe ser mayor a cero")
	ErrSinStock              = errors.New("stock insuficiente")
	ErrProductoNoEncontrado  = errors.New("producto no encontrado")
	ErrPedidoNoEncontrado    = errors.New("pedido no encontrado")
	ErrPedidoVacio           = errors.New("el pedido debe tener al menos un producto")
	ErrCantidadInvalida      = errors.New("la cantidad debe ser mayor a cero")
	ErrTransicionInvalida    = errors.New("transicion de estado invalida")
	ErrDatosContraentrega    = errors.New("el pago contra entrega requiere nombre, direccion y telefono")
	ErrConsultaNoEncontrada  = errors.New("consulta no encontrada")
	ErrCredenciales          = errors.New("credenciales invalidas")
	ErrUsuarioNoEncontrado   = errors.New("usuario no encontrado")
	ErrEmailDuplicado        = errors.New("ya existe un usuario con ese email")
	ErrPermisoDesconocido    = errors.New("permiso desconocido")
	ErrCategoriaNoEncontrada = errors.New("categoria no encontrada")
	ErrUbicacionNoEncontrada = errors.New("ubicacion no encontrada")
	ErrCategoriaDuplicada    = errors.New("ya existe una categoria con ese nombre")
	ErrUbicacionDuplicada    = errors.New("ya existe una ubicacion con ese nombre")
)
