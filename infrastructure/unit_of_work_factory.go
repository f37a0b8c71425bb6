package infrastructure

import (
	"zlpix/application"
	"zlpix/domain/interfaces"
)

// TransactionalUnitOfWorkFactory creates units of work bound to a specific
// transactional publisher. Implemented by the repository layer.
type TransactionalUnitOfWorkFactory interface {
	CreateWithPublisher(publisher interfaces.TransactionalEventPublisher) application.UnitOfWork
}

// UnitOfWorkFactory pairs each unit of work with a fresh transactional
// publisher so queued events follow the transaction's fate.
type UnitOfWorkFactory struct {
	inner         TransactionalUnitOfWorkFactory
	realPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a factory that wires transactional event
// publishing into every unit of work it produces.
func NewUnitOfWorkFactory(inner TransactionalUnitOfWorkFactory, realPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		inner:         inner,
		realPublisher: realPublisher,
	}
}

// Create creates a new unit of work with its own transactional publisher
func (f *UnitOfWorkFactory) Create() application.UnitOfWork {
	return f.inner.CreateWithPublisher(NewTransactionalPublisher(f.realPublisher))
}
