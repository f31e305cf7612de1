package repository

// Stores agrupa los repositorios atados a una misma transacción.
type Stores struct {
	Products  ProductRepository
	Locations LocationRepository
	Stock     StockRepository
	Movements MovementRepository
	Purchases PurchaseRepository
	Sales     SaleRepository
	Transfers TransferRepository
}
