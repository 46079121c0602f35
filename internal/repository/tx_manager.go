package repository

import "context"

// Repositories bound to one transaction.
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Products() ProductRepository
	Inventory() InventoryRepository
	Addresses() AddressRepository
	AuditLogs() AuditLogRepository
}

// Hides begin/commit/rollback from usecases. The callback either commits
// as a whole or rolls back as a whole.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
