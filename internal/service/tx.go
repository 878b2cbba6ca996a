package service

import (
	"database/sql"

	"gorm.io/gorm"
)

// TxManager запускает функцию в транзакции БД. *gorm.DB удовлетворяет этому интерфейсу.
type TxManager interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}
