package entity

// StockMutation intención de cambiar el stock de un producto. Es un tipo suma
// cerrado: solo DirectAdjustment y CatalogEdit lo implementan.
type StockMutation interface {
	TargetProductID() string
	isStockMutation()
}

// DirectAdjustment movimiento explícito: reposición (+Quantity), venta (-Quantity)
// o ajuste (Quantity con signo).
type DirectAdjustment struct {
	ProductID string
	Kind      EventType // restock | sale | adjustment
	Quantity  int
	Notes     string
}

// CatalogEdit edición del campo stock desde el catálogo: fija el valor absoluto.
type CatalogEdit struct {
	ProductID string
	NewStock  int
	Notes     string
}

func (m DirectAdjustment) TargetProductID() string { return m.ProductID }
func (m CatalogEdit) TargetProductID() string      { return m.ProductID }

func (DirectAdjustment) isStockMutation() {}
func (CatalogEdit) isStockMutation()      {}
