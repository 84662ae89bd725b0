// Package origin modela la referencia polimórfica al documento de negocio que
// genera un asiento en los libros (movimiento de stock o partida de cartera).
// Cada variante tiene su constructor; el resto del código nunca arma el par
// tipo/id "a mano".
package origin

// Type discrimina la variante del documento de origen.
type Type string

const (
	TypeSalesReceipt    Type = "sales_receipt"
	TypePurchaseReceipt Type = "purchase_receipt"
	TypePaymentVoucher  Type = "payment_voucher"
	TypeReceiptVoucher  Type = "receipt_voucher"
	TypeAdjustment      Type = "adjustment"
	TypeReversal        Type = "reversal"
)

// Ref referencia a un documento de origen: variante + id del documento.
// Para TypeReversal el ID es el id del movimiento original que se reversa.
type Ref struct {
	Type Type
	ID   string
}

// Constructores por variante.

func SalesReceipt(id string) Ref    { return Ref{Type: TypeSalesReceipt, ID: id} }
func PurchaseReceipt(id string) Ref { return Ref{Type: TypePurchaseReceipt, ID: id} }
func PaymentVoucher(id string) Ref  { return Ref{Type: TypePaymentVoucher, ID: id} }
func ReceiptVoucher(id string) Ref  { return Ref{Type: TypeReceiptVoucher, ID: id} }
func Adjustment(id string) Ref      { return Ref{Type: TypeAdjustment, ID: id} }

// Reversal referencia el movimiento original reversado (no un documento externo).
func Reversal(movementID string) Ref { return Ref{Type: TypeReversal, ID: movementID} }

// Valid verifica que el tipo sea una variante conocida y el id no esté vacío.
func (r Ref) Valid() bool {
	switch r.Type {
	case TypeSalesReceipt, TypePurchaseReceipt, TypePaymentVoucher,
		TypeReceiptVoucher, TypeAdjustment, TypeReversal:
		return r.ID != ""
	}
	return false
}

// IsZero indica si la referencia está vacía (sin origen).
func (r Ref) IsZero() bool { return r.Type == "" && r.ID == "" }

// Descriptor etiqueta legible y código corto de la variante, para las filas de
// los reportes de libros (libro mayor, libro de caja, cartera).
type Descriptor struct {
	Code  string // código corto para la columna "tipo documento"
	Label string // etiqueta legible
}

// Describe resuelve el descriptor de la variante. Variante desconocida produce
// un descriptor genérico, nunca un error: los reportes no se caen por un tipo
// histórico que ya no exista en el catálogo.
func (r Ref) Describe() Descriptor {
	switch r.Type {
	case TypeSalesReceipt:
		return Descriptor{Code: "FV", Label: "Factura de venta"}
	case TypePurchaseReceipt:
		return Descriptor{Code: "FC", Label: "Factura de compra"}
	case TypePaymentVoucher:
		return Descriptor{Code: "CE", Label: "Comprobante de egreso"}
	case TypeReceiptVoucher:
		return Descriptor{Code: "RC", Label: "Recibo de caja"}
	case TypeAdjustment:
		return Descriptor{Code: "AJ", Label: "Ajuste de inventario"}
	case TypeReversal:
		return Descriptor{Code: "RV", Label: "Reversión"}
	}
	return Descriptor{Code: "DOC", Label: "Documento"}
}
