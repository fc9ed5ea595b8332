package repository

// Tx agrupa los repositorios atados a una misma transacción de BD.
// Todo lo escrito a través de ellos se confirma o se descarta junto.
type Tx struct {
	Items     ItemRepository
	Locations LocationRepository
	Balances  BalanceRepository
	Movements MovementRepository
	Requests  MaterialRequestRepository
}
