package model

// All lists every persisted model, parents first. Postgres schema comes from
// the goose migrations; this list drives AutoMigrate for SQLite-backed tests.
func All() []interface{} {
	return []interface{}{
		&Organization{},
		&Application{},
		&Part{},
		&PartOrganizationDetail{},
		&PartApplication{},
		&OrderItem{},
		&CartItem{},
		&UserPermission{},
	}
}
