package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Changeset ChangesetRepository
	Option    OptionRepository
	User      UserRepository
	AuditLog  AuditLogRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Changeset: NewChangesetRepository(db),
		Option:    NewOptionRepository(db),
		User:      NewUserRepository(db),
		AuditLog:  NewAuditLogRepository(db),
	}
}
