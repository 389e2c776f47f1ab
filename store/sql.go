package store

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"

	"github.com/BurntSushi/migration"
	_ "github.com/cznic/ql/driver"
	raven "github.com/getsentry/raven-go"
	"github.com/go-sql-driver/mysql"
)

// SQL is a store keeping each key and value as a row in a database table.
// It works with either the embedded QL database or with MySQL.
type SQL struct {
	db   *sql.DB
	name string // used in log messages
	q    sqlQueries
}

var (
	_ Store    = &SQL{}
	_ Replacer = &SQL{}
)

// the queries differ between QL and MySQL only in their placeholders
type sqlQueries struct {
	lookup string
	list   string
	insert string
	delete string

	// replace, if set, overwrites a row in one statement
	replace string
}

const qlKVInit = `
	CREATE TABLE IF NOT EXISTS kv (
		name string,
		value blob
	);
	CREATE UNIQUE INDEX IF NOT EXISTS kvname ON kv (name);
`

var qlQueries = sqlQueries{
	lookup: `SELECT value FROM kv WHERE name == ?1 LIMIT 1`,
	list:   `SELECT name FROM kv`,
	insert: `INSERT INTO kv VALUES (?1, ?2)`,
	delete: `DELETE FROM kv WHERE name == ?1`,
}

var mysqlQueries = sqlQueries{
	lookup: `SELECT value FROM kv WHERE name = ? LIMIT 1`,
	list:   `SELECT name FROM kv`,
	insert: `INSERT INTO kv (name, value) VALUES (?, ?)`,
	delete: `DELETE FROM kv WHERE name = ?`,

	replace: `REPLACE INTO kv (name, value) VALUES (?, ?)`,
}

// List of migrations to perform. Add new ones to the end.
// DO NOT change the order of items already in this list.
var mysqlMigrations = []migration.Migrator{
	mysqlschema1,
}

// Adapt the schema versioning for MySQL

var mysqlVersioning = dbVersion{
	GetSQL:    `SELECT max(version) FROM migration_version`,
	SetSQL:    `INSERT INTO migration_version (version, applied) VALUES (?, now())`,
	CreateSQL: `CREATE TABLE migration_version (version INTEGER, applied datetime)`,
}

func mysqlschema1(tx migration.LimitedTx) error {
	var s = []string{
		`CREATE TABLE IF NOT EXISTS kv (
		name varchar(255) PRIMARY KEY,
		value mediumblob)`,
	}
	return execlist(tx, s)
}

// each in-memory QL database needs its own name, or they would be shared
var qlMemCount int64

// NewQL opens a QL database store. filename is the name of the file to save
// the database to. The filename "memory" means to keep everything in memory.
func NewQL(filename string) (*SQL, error) {
	var db *sql.DB
	var err error
	if filename == "memory" {
		n := atomic.AddInt64(&qlMemCount, 1)
		db, err = sql.Open("ql-mem", fmt.Sprintf("mem%d.db", n))
	} else {
		db, err = sql.Open("ql", filename)
	}
	if err == nil {
		_, err = performExec(db, qlKVInit)
	}
	if err != nil {
		log.Printf("Open QL: %s", err.Error())
		return nil, err
	}
	return &SQL{db: db, name: "QL", q: qlQueries}, nil
}

// NewMySQL connects to a MySQL database, bringing its schema up to date.
func NewMySQL(dial string) (*SQL, error) {
	db, err := migration.OpenWith(
		"mysql",
		dial,
		mysqlMigrations,
		mysqlVersioning.Get,
		mysqlVersioning.Set)
	if err != nil {
		log.Printf("Open Mysql: %s", err.Error())
		return nil, err
	}
	return &SQL{db: db, name: "MySQL", q: mysqlQueries}, nil
}

// Close releases the database connection.
func (s *SQL) Close() error {
	return s.db.Close()
}

// List returns a channel giving every key in the store.
func (s *SQL) List() <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		keys, _ := s.ListPrefix("")
		for _, key := range keys {
			out <- key
		}
	}()
	return out
}

// ListPrefix returns the keys beginning with prefix. The filtering is done
// here rather than in SQL since QL treats LIKE as a regular expression.
func (s *SQL) ListPrefix(prefix string) ([]string, error) {
	rows, err := s.db.Query(s.q.list)
	if err != nil {
		s.report("List", prefix, err)
		return nil, err
	}
	defer rows.Close()
	var result []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			s.report("List", prefix, err)
			return nil, err
		}
		if strings.HasPrefix(name, prefix) {
			result = append(result, name)
		}
	}
	err = rows.Err()
	if err != nil {
		s.report("List", prefix, err)
	}
	return result, err
}

// Open returns the value stored under key, or ErrNotExist.
func (s *SQL) Open(key string) (ReadAtCloser, int64, error) {
	var value []byte
	err := s.db.QueryRow(s.q.lookup, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, 0, ErrNotExist
	} else if err != nil {
		s.report("Open", key, err)
		return nil, 0, err
	}
	return memReader(value), int64(len(value)), nil
}

// Create returns a writer whose content is inserted as a new row when it is
// closed.
func (s *SQL) Create(key string) (io.WriteCloser, error) {
	_, _, err := s.Open(key)
	if err == nil {
		return nil, ErrKeyExists
	} else if err != ErrNotExist {
		return nil, err
	}
	return &sqlWriter{s: s, key: key}, nil
}

// Delete removes the row for key. It is not an error if there is none.
func (s *SQL) Delete(key string) error {
	_, err := performExec(s.db, s.q.delete, key)
	if err != nil {
		s.report("Delete", key, err)
	}
	return err
}

// Replace deletes any row for key and inserts the new one inside a single
// transaction, so other connections never see the key missing. MySQL does
// both in one REPLACE statement.
func (s *SQL) Replace(key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	var err error
	if s.q.replace != "" {
		_, err = performExec(s.db, s.q.replace, key, value)
		if err != nil {
			s.report("Replace", key, err)
		}
		return err
	}
	err = performTx(s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(s.q.delete, key)
		if err != nil {
			return err
		}
		_, err = tx.Exec(s.q.insert, key, value)
		return err
	})
	if err != nil {
		s.report("Replace", key, err)
	}
	return err
}

func (s *SQL) report(op, key string, err error) {
	log.Printf("%s %s %s: %s", s.name, op, key, err.Error())
	raven.CaptureError(err, map[string]string{"Database": s.name, "Key": key})
}

type sqlWriter struct {
	s   *SQL
	key string
	buf bytes.Buffer
}

func (w *sqlWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *sqlWriter) Close() error {
	value := w.buf.Bytes()
	if value == nil {
		value = []byte{}
	}
	_, err := performExec(w.s.db, w.s.q.insert, w.key, value)
	if isDuplicate(err) {
		return ErrKeyExists
	} else if err != nil {
		w.s.report("Create", w.key, err)
	}
	return err
}

// isDuplicate returns true if err comes from inserting a key that is
// already present.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*mysql.MySQLError); ok {
		return e.Number == mysqlDuplicateEntry
	}
	// QL does not give typed errors
	return strings.Contains(err.Error(), "duplicate")
}

// ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

// performExec runs query inside a transaction. QL requires every write to
// be in one.
func performExec(db *sql.DB, query string, args ...interface{}) (sql.Result, error) {
	var result sql.Result
	err := performTx(db, func(tx *sql.Tx) error {
		var err error
		result, err = tx.Exec(query, args...)
		return err
	})
	return result, err
}

// performTx runs f inside a transaction, committing only if f succeeds.
func performTx(db *sql.DB, f func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	err = f(tx)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
