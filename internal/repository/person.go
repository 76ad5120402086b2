package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-api/internal/models"
)

// insertUser writes the usuarios row of a new person and returns its id.
func insertUser(ctx context.Context, tx *sqlx.Tx, in models.IdentityInput, role models.UserRole) (int64, error) {
	const query = `INSERT INTO usuarios (dni, nombre, apellido, email, rol) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int64
	if err := tx.QueryRowxContext(ctx, query, in.DNI, in.FirstName, in.LastName, in.Email, role).Scan(&id); err != nil {
		return 0, writeErr("create user", err)
	}
	return id, nil
}

// updateUser applies the identity part of a patch; nothing is issued when no field changed.
func updateUser(ctx context.Context, tx *sqlx.Tx, userID int64, patch models.IdentityPatch) error {
	set := &setBuilder{}
	if patch.DNI != nil {
		set.add("dni", *patch.DNI)
	}
	if patch.FirstName != nil {
		set.add("nombre", *patch.FirstName)
	}
	if patch.LastName != nil {
		set.add("apellido", *patch.LastName)
	}
	if patch.Email != nil {
		set.add("email", *patch.Email)
	}
	return set.exec(ctx, tx, "usuarios", userID, "user")
}

// ownerOf returns the usuario_id owning a row of a person table.
func ownerOf(ctx context.Context, tx *sqlx.Tx, table string, id int64, label string) (int64, error) {
	var userID int64
	query := fmt.Sprintf("SELECT usuario_id FROM %s WHERE id = $1", table)
	if err := tx.GetContext(ctx, &userID, query, id); err != nil {
		return 0, notFound(err, label)
	}
	return userID, nil
}

// deletePerson removes the role row first and its user afterwards, as the foreign key demands.
func deletePerson(ctx context.Context, db *sqlx.DB, table string, id int64, label string) error {
	return withTx(ctx, db, func(tx *sqlx.Tx) error {
		userID, err := ownerOf(ctx, tx, table, id, label)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
		if err != nil {
			return writeErr("delete "+label, err)
		}
		if err := requireAffected(res, label); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM usuarios WHERE id = $1", userID); err != nil {
			return writeErr("delete "+label+" user", err)
		}
		return nil
	})
}
