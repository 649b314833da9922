package model

import "github.com/google/uuid"

// asignarID fills an empty primary key before insert. IDs are generated in the
// application so the same models migrate on Postgres and on SQLite.
func asignarID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
