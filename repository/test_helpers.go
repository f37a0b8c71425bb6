package repository

import (
	"zlpix/application"
	"zlpix/database"
	"zlpix/domain/interfaces"
)

// NewTestUnitOfWorkFactory creates a unit of work factory for tests
// Tests should provide their own transactional publisher mock
func NewTestUnitOfWorkFactory(db *database.DB, poolBase int64) *unitOfWorkFactory {
	return NewUnitOfWorkFactory(db, poolBase)
}

// CreateTestUnitOfWork creates a unit of work for testing with the provided transactional publisher
func CreateTestUnitOfWork(db *database.DB, poolBase int64, transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	factory := NewTestUnitOfWorkFactory(db, poolBase)
	return factory.CreateWithPublisher(transactionalPublisher)
}
