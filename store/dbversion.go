package store

import (
	"log"

	"github.com/BurntSushi/migration"
)

// we need to adapt the migration version functions to work with MySQL.
// This code is slightly modified from github.com/BurntSushi/migration

type dbVersion struct {
	// SQL to get the version of this db, returns one row and one column
	GetSQL string
	// SQL to insert a new version of this db. takes one parameter, the new
	// version
	SetSQL string
	// the SQL to create the version table for this db
	CreateSQL string
}

func (d dbVersion) Get(tx migration.LimitedTx) (int, error) {
	var version int
	err := tx.QueryRow(d.GetSQL).Scan(&version)
	if err != nil {
		// we assume error means there is no migration table
		log.Println("Migration version:", err)
		return 0, nil
	}
	return version, nil
}

func (d dbVersion) Set(tx migration.LimitedTx, version int) error {
	if _, err := tx.Exec(d.SetSQL, version); err == nil {
		return nil
	}
	if _, err := tx.Exec(d.CreateSQL); err != nil {
		return err
	}
	_, err := tx.Exec(d.SetSQL, version)
	return err
}

func execlist(tx migration.LimitedTx, stms []string) error {
	var err error
	for _, s := range stms {
		_, err = tx.Exec(s)
		if err != nil {
			break
		}
	}
	return err
}
